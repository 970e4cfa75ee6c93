package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/billing"
	"github.com/gstbooks/backend/internal/domain/catalog"
	"github.com/gstbooks/backend/internal/domain/gst"
	"github.com/gstbooks/backend/internal/domain/inventory"
	"github.com/gstbooks/backend/internal/domain/party"
	"github.com/gstbooks/backend/internal/domain/shared"
)

// StockMover posts inventory movements for issued and cancelled documents.
// Implemented by the inventory StockService; the interface keeps the billing
// services decoupled from it.
type StockMover interface {
	ApplyDocumentMovements(ctx context.Context, tenantID uuid.UUID, cmds []inventory.StockAdjustment) error
}

// InvoiceService handles sales invoice operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	productRepo catalog.ProductRepository
	partyRepo   party.PartyRepository
	stock       StockMover

	// businessStateCode is the tenant's own GST state, the supplier side of
	// every sales invoice
	businessStateCode string
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	productRepo catalog.ProductRepository,
	partyRepo party.PartyRepository,
	stock StockMover,
	businessStateCode string,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:       invoiceRepo,
		productRepo:       productRepo,
		partyRepo:         partyRepo,
		stock:             stock,
		businessStateCode: businessStateCode,
	}
}

// Create builds a draft invoice from the request. Product name, HSN, unit,
// and the rate and tax defaults come from the catalog; the request may
// override rate and tax per line.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	p, err := s.partyRepo.FindByIDForTenant(ctx, tenantID, req.PartyID)
	if err != nil {
		return nil, err
	}
	if !p.IsCustomer() {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party is not a customer")
	}

	placeOfSupply := req.PlaceOfSupply
	if placeOfSupply == "" {
		placeOfSupply = p.StateCode
	}

	number, err := s.invoiceRepo.NextNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	inv, err := billing.NewInvoice(tenantID, number, p.ID, p.Name, s.businessStateCode, placeOfSupply, invoiceDate)
	if err != nil {
		return nil, err
	}
	inv.PartyGSTIN = p.GSTIN

	for _, item := range req.Items {
		if err := s.addItem(ctx, tenantID, inv, item); err != nil {
			return nil, err
		}
	}

	if req.DocumentDiscount.IsPositive() {
		if err := inv.ApplyDocumentDiscount(req.DocumentDiscount); err != nil {
			return nil, err
		}
	}
	if req.UpdateStock {
		if err := inv.SetUpdateStock(true); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		inv.SetNotes(req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

func (s *InvoiceService) addItem(ctx context.Context, tenantID uuid.UUID, inv *billing.Invoice, req DocumentItemRequest) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID)
	if err != nil {
		return err
	}
	if !product.Active {
		return shared.NewDomainError("INACTIVE_PRODUCT", "Product is not available for new documents")
	}

	rate := product.SaleRate
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

	_, err = inv.AddItem(product.ID, product.Name, product.HSNCode, product.Unit,
		req.Quantity, rate, req.Discount, discountType, taxRate)
	return err
}

// Get returns an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List returns a page of invoices with the total count
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(invoices[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Issue finalizes a draft invoice. When the invoice is configured to move
// inventory, each line posts a REDUCE movement; insufficient stock on any
// line fails the whole issue and nothing is saved.
func (s *InvoiceService) Issue(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := inv.Issue(); err != nil {
		return nil, err
	}

	if inv.UpdateStock {
		cmds := invoiceMovements(inv, inventory.DirectionReduce)
		if err := s.stock.ApplyDocumentMovements(ctx, tenantID, cmds); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RecordPayment records a payment against an issued invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := inv.RecordPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Cancel cancels an invoice. Cancelling an issued invoice that moved
// inventory posts reversing ADD movements.
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	wasIssued := inv.IsIssued()
	if err := inv.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if wasIssued && inv.UpdateStock {
		cmds := invoiceMovements(inv, inventory.DirectionAdd)
		if err := s.stock.ApplyDocumentMovements(ctx, tenantID, cmds); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes a draft invoice. Issued documents are cancelled, not deleted.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !inv.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, id)
}

func invoiceMovements(inv *billing.Invoice, direction inventory.AdjustmentDirection) []inventory.StockAdjustment {
	cmds := make([]inventory.StockAdjustment, len(inv.Items))
	for i, item := range inv.Items {
		cmds[i] = inventory.StockAdjustment{
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			Direction:           direction,
			AdjustmentDate:      time.Now(),
			ReferenceBillNumber: movementReference(inv.InvoiceNumber),
			Category:            "SALE",
		}
	}
	return cmds
}

// movementReference derives the stock-movement reference from a document
// number. House-format YYYY-NNNN numbers always fit the movement's reference
// field; for longer numbers the sequence part after the last dash still
// identifies the document, and a number that fits neither way is omitted
// rather than truncated into something misleading.
func movementReference(number string) string {
	if len(number) <= inventory.MaxReferenceBillLen {
		return number
	}
	if i := strings.LastIndex(number, "-"); i >= 0 {
		if seq := number[i+1:]; seq != "" && len(seq) <= inventory.MaxReferenceBillLen {
			return seq
		}
	}
	return ""
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
