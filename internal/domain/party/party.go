package party

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// PartyKind classifies a party's trading relationship
type PartyKind string

const (
	PartyKindCustomer PartyKind = "CUSTOMER"
	PartyKindSupplier PartyKind = "SUPPLIER"
	PartyKindBoth     PartyKind = "BOTH"
)

// IsValid checks if the value is a known PartyKind
func (k PartyKind) IsValid() bool {
	switch k {
	case PartyKindCustomer, PartyKindSupplier, PartyKindBoth:
		return true
	}
	return false
}

// String returns the string representation of PartyKind
func (k PartyKind) String() string {
	return string(k)
}

// gstinPattern is the standard 15-character GSTIN format: 2-digit state code,
// 10-character PAN, entity digit, 'Z', check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Party represents a customer or supplier. Its state code supplies the place
// of supply (customers) or supplier state (purchase bills) when documents
// derive their tax jurisdiction.
type Party struct {
	shared.TenantAggregateRoot
	Name      string    `gorm:"size:200;not null"`
	Kind      PartyKind `gorm:"type:varchar(10);not null"`
	GSTIN     string    `gorm:"size:15"`
	StateCode string    `gorm:"size:2;not null"`
	Phone     string    `gorm:"size:20"`
	Email     string    `gorm:"size:200"`
	Address   string    `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a new party
func NewParty(tenantID uuid.UUID, name string, kind PartyKind, stateCode string) (*Party, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot exceed 200 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_PARTY_KIND", "unknown party kind %q", string(kind))
	}
	if stateCode == "" {
		return nil, shared.NewDomainError("INVALID_STATE_CODE", "State code is required")
	}

	return &Party{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Kind:                kind,
		StateCode:           stateCode,
	}, nil
}

// SetGSTIN sets the party's GSTIN after format validation. An empty GSTIN is
// allowed (unregistered party).
func (p *Party) SetGSTIN(gstin string) error {
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN format is invalid")
	}
	p.GSTIN = gstin
	p.Touch()
	return nil
}

// SetContact updates the contact fields
func (p *Party) SetContact(phone, email, address string) {
	p.Phone = phone
	p.Email = email
	p.Address = address
	p.Touch()
}

// IsCustomer reports whether documents can bill this party as a customer
func (p *Party) IsCustomer() bool {
	return p.Kind == PartyKindCustomer || p.Kind == PartyKindBoth
}

// IsSupplier reports whether purchase bills can reference this party
func (p *Party) IsSupplier() bool {
	return p.Kind == PartyKindSupplier || p.Kind == PartyKindBoth
}
