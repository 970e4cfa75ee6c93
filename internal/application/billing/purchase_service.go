package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/billing"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/gstbooks/backend/internal/domain/gst"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/party"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// PurchaseService handles supplier bill operations
type PurchaseService struct {
	purchaseRepo billing.PurchaseRepository
	productRepo  catalog.ProductRepository
	partyRepo    party.PartyRepository
	stock        StockMover

	businessStateCode string
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo billing.PurchaseRepository,
	productRepo catalog.ProductRepository,
	partyRepo party.PartyRepository,
	stock StockMover,
	businessStateCode string,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:      purchaseRepo,
		productRepo:       productRepo,
		partyRepo:         partyRepo,
		stock:             stock,
		businessStateCode: businessStateCode,
	}
}

// Create builds a draft purchase bill from the request. The supplier's state
// drives the jurisdiction; the place of supply is the business's own state.
func (s *PurchaseService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	supplier, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsSupplier() {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party is not a supplier")
	}

	billDate := time.Now()
	if req.BillDate != nil {
		billDate = *req.BillDate
	}

	bill, err := billing.NewPurchaseBill(tenantID, req.BillNumber, supplier.ID, supplier.Name,
		supplier.StateCode, s.businessStateCode, billDate)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := s.addItem(ctx, tenantID, bill, item); err != nil {
			return nil, err
		}
	}

	if req.DocumentDiscount.IsPositive() {
		if err := bill.ApplyDocumentDiscount(req.DocumentDiscount); err != nil {
			return nil, err
		}
	}
	if req.UpdateStock {
		if err := bill.SetUpdateStock(true); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		bill.SetNotes(req.Notes)
	}

	if err := s.purchaseRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(bill)
	return &response, nil
}

func (s *PurchaseService) addItem(ctx context.Context, tenantID uuid.UUID, bill *billing.PurchaseBill, req DocumentItemRequest) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return err
	}

	rate := product.PurchaseRate
	if req.Rate != nil {
		rate = *req.Rate
	}
	taxRate := product.TaxRatePercent
	if req.TaxRatePercent != nil {
		taxRate = *req.TaxRatePercent
	}
	discountType := gst.DiscountTypePercentage
	if req.DiscountType != "" {
		discountType = gst.DiscountType(req.DiscountType)
	}

	_, err = bill.AddItem(product.ID, product.Name, product.HSNCode, product.Unit,
		req.Quantity, rate, req.Discount, discountType, taxRate)
	return err
}

// Get returns a purchase bill by ID
func (s *PurchaseService) Get(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseResponse, error) {
	bill, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(bill)
	return &response, nil
}

// List returns a page of purchase bills with the total count
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseResponse], error) {
	bills, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.purchaseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PurchaseResponse, len(bills))
	for i := range bills {
		responses[i] = ToPurchaseResponse(bills[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Record finalizes a draft bill. When the bill is configured to move
// inventory, each line posts an ADD movement.
func (s *PurchaseService) Record(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseResponse, error) {
	bill, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := bill.Record(); err != nil {
		return nil, err
	}

	if bill.UpdateStock {
		cmds := purchaseMovements(bill, inventory.DirectionAdd)
		if err := s.stock.ApplyDocumentMovements(ctx, tenantID, cmds); err != nil {
			return nil, err
		}
	}

	if err := s.purchaseRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(bill)
	return &response, nil
}

// RecordPayment records a payment against a recorded bill
func (s *PurchaseService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req RecordPaymentRequest) (*PurchaseResponse, error) {
	bill, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := bill.RecordPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(bill)
	return &response, nil
}

// Cancel cancels a bill. Cancelling a recorded bill that moved inventory
// posts reversing REDUCE movements; insufficient stock blocks the cancel.
func (s *PurchaseService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*PurchaseResponse, error) {
	bill, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	wasRecorded := bill.Status == billing.PurchaseStatusRecorded
	if err := bill.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if wasRecorded && bill.UpdateStock {
		cmds := purchaseMovements(bill, inventory.DirectionReduce)
		if err := s.stock.ApplyDocumentMovements(ctx, tenantID, cmds); err != nil {
			return nil, err
		}
	}

	if err := s.purchaseRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(bill)
	return &response, nil
}

// Delete removes a draft bill
func (s *PurchaseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	bill, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !bill.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase bills can be deleted")
	}
	return s.purchaseRepo.DeleteForTenant(ctx, tenantID, id)
}

func purchaseMovements(bill *billing.PurchaseBill, direction inventory.AdjustmentDirection) []inventory.StockAdjustment {
	cmds := make([]inventory.StockAdjustment, len(bill.Items))
	for i, item := range bill.Items {
		cmds[i] = inventory.StockAdjustment{
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			Direction:           direction,
			AdjustmentDate:      time.Now(),
			ReferenceBillNumber: movementReference(bill.BillNumber),
			Supplier:            clip(bill.SupplierName, 50),
			Category:            "PURCHASE",
		}
	}
	return cmds
}
