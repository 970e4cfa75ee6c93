package party

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/party"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// CreatePartyRequest represents a request to create a customer or supplier
type CreatePartyRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Kind      string `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	StateCode string `json:"state_code" binding:"required,statecode"`
	GSTIN     string `json:"gstin" binding:"omitempty,len=15"`
	Phone     string `json:"phone" binding:"max=20"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Address   string `json:"address" binding:"max=500"`
}

// UpdatePartyRequest represents a partial update to a party
type UpdatePartyRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	GSTIN   *string `json:"gstin" binding:"omitempty,max=15"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Email   *string `json:"email" binding:"omitempty,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	GSTIN     string    `json:"gstin"`
	StateCode string    `json:"state_code"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPartyResponse converts a domain Party to PartyResponse
func ToPartyResponse(p *party.Party) PartyResponse {
	return PartyResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Name:      p.Name,
		Kind:      p.Kind.String(),
		GSTIN:     p.GSTIN,
		StateCode: p.StateCode,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PartyService handles customer and supplier operations
type PartyService struct {
	partyRepo party.PartyRepository
}

// NewPartyService creates a new PartyService
func NewPartyService(partyRepo party.PartyRepository) *PartyService {
	return &PartyService{partyRepo: partyRepo}
}

// Create creates a new party
func (s *PartyService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePartyRequest) (*PartyResponse, error) {
	p, err := party.NewParty(tenantID, req.Name, party.PartyKind(req.Kind), req.StateCode)
	if err != nil {
		return nil, err
	}
	if req.GSTIN != "" {
		if err := p.SetGSTIN(req.GSTIN); err != nil {
			return nil, err
		}
	}
	p.SetContact(req.Phone, req.Email, req.Address)

	if err := s.partyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPartyResponse(p)
	return &response, nil
}

// Get returns a party by ID
func (s *PartyService) Get(ctx context.Context, tenantID, id uuid.UUID) (*PartyResponse, error) {
	p, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPartyResponse(p)
	return &response, nil
}

// List returns a page of parties with the total count
func (s *PartyService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PartyResponse], error) {
	parties, err := s.partyRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.partyRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies a partial update to a party
func (s *PartyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePartyRequest) (*PartyResponse, error) {
	p, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot be empty")
		}
		p.Name = *req.Name
		p.Touch()
	}
	if req.GSTIN != nil {
		if err := p.SetGSTIN(*req.GSTIN); err != nil {
			return nil, err
		}
	}
	phone, email, address := p.Phone, p.Email, p.Address
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	p.SetContact(phone, email, address)

	p.IncrementVersion()
	if err := s.partyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPartyResponse(p)
	return &response, nil
}

// Delete removes a party
func (s *PartyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.partyRepo.DeleteForTenant(ctx, tenantID, id)
}
