package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/gst"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusIssued || target == InvoiceStatusCancelled
	case InvoiceStatusIssued:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// InvoiceItem is a line of a sales invoice. It stores the calculator inputs
// alongside the computed snapshot so issued documents keep the amounts they
// were issued with even if product defaults change later.
type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string    `gorm:"size:200;not null"`
	HSNCode     string    `gorm:"size:8"`
	Unit        string    `gorm:"size:20"`

	Quantity       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Rate           decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Discount       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountType   gst.DiscountType `gorm:"type:varchar(10);not null"`
	TaxRatePercent decimal.Decimal  `gorm:"type:decimal(5,2);not null"`

	TaxableAmount decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	CGST          decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	SGST          decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	IGST          decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,6);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// toGSTItem converts the stored inputs back into a calculator line item
func (i InvoiceItem) toGSTItem() gst.LineItem {
	return gst.LineItem{
		ProductID:      i.ProductID,
		Quantity:       i.Quantity,
		Rate:           i.Rate,
		Discount:       i.Discount,
		DiscountType:   i.DiscountType,
		TaxRatePercent: i.TaxRatePercent,
	}
}

// Invoice represents a sales invoice aggregate root. All monetary derivation
// goes through the gst package; the aggregate never computes tax on its own.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string    `gorm:"size:50;not null;uniqueIndex:idx_invoices_tenant_number,composite:tenant_id"`
	PartyID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PartyName     string    `gorm:"size:200;not null"`
	PartyGSTIN    string    `gorm:"size:15"`

	SupplierStateCode      string `gorm:"size:2;not null"`
	PlaceOfSupplyStateCode string `gorm:"size:2;not null"`

	Items            []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
	DocumentDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableValue     decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TotalCGST        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TotalSGST        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TotalIGST        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	UpdateStock bool          `gorm:"not null;default:false"` // whether issuing/cancelling moves inventory
	InvoiceDate time.Time     `gorm:"not null;index"`
	Status      InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Notes       string        `gorm:"size:200"`

	IssuedAt     *time.Time
	PaidAt       *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"size:200"`
}

// NewInvoice creates a new draft invoice
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, partyID uuid.UUID, partyName, supplierState, placeOfSupply string, invoiceDate time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if partyName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Party name cannot be empty")
	}
	jurisdiction := gst.Jurisdiction{
		SupplierStateCode:      supplierState,
		PlaceOfSupplyStateCode: placeOfSupply,
	}
	if err := jurisdiction.Validate(); err != nil {
		return nil, err
	}

	return &Invoice{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:          invoiceNumber,
		PartyID:                partyID,
		PartyName:              partyName,
		SupplierStateCode:      supplierState,
		PlaceOfSupplyStateCode: placeOfSupply,
		Items:                  make([]InvoiceItem, 0),
		DocumentDiscount:       decimal.Zero,
		AmountPaid:             decimal.Zero,
		InvoiceDate:            invoiceDate,
		Status:                 InvoiceStatusDraft,
	}, nil
}

// Jurisdiction returns the document's tax jurisdiction
func (inv *Invoice) Jurisdiction() gst.Jurisdiction {
	return gst.Jurisdiction{
		SupplierStateCode:      inv.SupplierStateCode,
		PlaceOfSupplyStateCode: inv.PlaceOfSupplyStateCode,
	}
}

// AddItem adds a line to the invoice and recomputes the totals.
// Only allowed in DRAFT status.
func (inv *Invoice) AddItem(productID uuid.UUID, productName, hsnCode, unit string, quantity, rate, discount decimal.Decimal, discountType gst.DiscountType, taxRatePercent decimal.Decimal) (*InvoiceItem, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft invoice")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	gstItem := gst.LineItem{
		ProductID:      productID,
		Quantity:       quantity,
		Rate:           rate,
		Discount:       discount,
		DiscountType:   discountType,
		TaxRatePercent: taxRatePercent,
	}
	line, err := gst.ComputeLine(gstItem, inv.Jurisdiction())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := InvoiceItem{
		ID:             uuid.New(),
		InvoiceID:      inv.ID,
		ProductID:      productID,
		ProductName:    productName,
		HSNCode:        hsnCode,
		Unit:           unit,
		Quantity:       quantity,
		Rate:           rate,
		Discount:       discount,
		DiscountType:   discountType,
		TaxRatePercent: taxRatePercent,
		TaxableAmount:  line.TaxableAmount,
		CGST:           line.CGST,
		SGST:           line.SGST,
		IGST:           line.IGST,
		LineTotal:      line.LineTotal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	inv.Items = append(inv.Items, item)

	if err := inv.recalculateTotals(); err != nil {
		inv.Items = inv.Items[:len(inv.Items)-1]
		return nil, err
	}
	inv.Touch()
	return &inv.Items[len(inv.Items)-1], nil
}

// UpdateItem replaces the calculator inputs of an existing line.
// Only allowed in DRAFT status.
func (inv *Invoice) UpdateItem(itemID uuid.UUID, quantity, rate, discount decimal.Decimal, discountType gst.DiscountType, taxRatePercent decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft invoice")
	}

	for idx := range inv.Items {
		if inv.Items[idx].ID != itemID {
			continue
		}
		prev := inv.Items[idx]

		inv.Items[idx].Quantity = quantity
		inv.Items[idx].Rate = rate
		inv.Items[idx].Discount = discount
		inv.Items[idx].DiscountType = discountType
		inv.Items[idx].TaxRatePercent = taxRatePercent

		line, err := gst.ComputeLine(inv.Items[idx].toGSTItem(), inv.Jurisdiction())
		if err != nil {
			inv.Items[idx] = prev
			return err
		}
		inv.Items[idx].TaxableAmount = line.TaxableAmount
		inv.Items[idx].CGST = line.CGST
		inv.Items[idx].SGST = line.SGST
		inv.Items[idx].IGST = line.IGST
		inv.Items[idx].LineTotal = line.LineTotal
		inv.Items[idx].UpdatedAt = time.Now()

		if err := inv.recalculateTotals(); err != nil {
			inv.Items[idx] = prev
			// restore previous totals
			_ = inv.recalculateTotals()
			return err
		}
		inv.Touch()
		return nil
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// RemoveItem removes a line from the invoice.
// Only allowed in DRAFT status.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft invoice")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			removed := inv.Items[idx]
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			if err := inv.recalculateTotals(); err != nil {
				inv.Items = append(inv.Items[:idx], append([]InvoiceItem{removed}, inv.Items[idx:]...)...)
				// restore previous totals
				_ = inv.recalculateTotals()
				return err
			}
			inv.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// ApplyDocumentDiscount sets the document-level discount and recomputes.
// Only allowed in DRAFT status.
func (inv *Invoice) ApplyDocumentDiscount(discount decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft invoice")
	}
	prev := inv.DocumentDiscount
	inv.DocumentDiscount = discount
	if err := inv.recalculateTotals(); err != nil {
		inv.DocumentDiscount = prev
		return err
	}
	inv.Touch()
	return nil
}

// SetNotes sets the invoice notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.Touch()
}

// SetUpdateStock controls whether issuing this invoice moves inventory.
// Only allowed in DRAFT status.
func (inv *Invoice) SetUpdateStock(updateStock bool) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change stock handling on a non-draft invoice")
	}
	inv.UpdateStock = updateStock
	inv.Touch()
	return nil
}

// Issue finalizes the invoice, transitioning from DRAFT to ISSUED.
// Requires at least one line item.
func (inv *Invoice) Issue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusIssued) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot issue invoice in %s status", inv.Status)
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError(shared.ErrCodeInvalidDocument, "Cannot issue invoice without items")
	}
	// Totals are recomputed at the transition so the issued snapshot is
	// consistent even if stored rows were edited out of band.
	if err := inv.recalculateTotals(); err != nil {
		return err
	}

	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now
	return nil
}

// RecordPayment records a payment against an issued invoice, marking it PAID
// once the grand total is covered.
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if inv.Status != InvoiceStatusIssued {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot record payment on %s invoice", inv.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	outstanding := inv.GrandTotal.Sub(inv.AmountPaid)
	if amount.GreaterThan(outstanding) {
		return shared.NewDomainErrorf("INVALID_AMOUNT",
			"payment %s exceeds outstanding amount %s", amount, outstanding)
	}

	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountPaid.Equal(inv.GrandTotal) {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
	}
	inv.Touch()
	return nil
}

// Cancel cancels the invoice. Allowed in DRAFT or ISSUED status.
func (inv *Invoice) Cancel(reason string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel invoice in %s status", inv.Status)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	return nil
}

// OutstandingAmount returns the unpaid part of the grand total
func (inv *Invoice) OutstandingAmount() decimal.Decimal {
	return inv.GrandTotal.Sub(inv.AmountPaid)
}

// IsDraft returns true if the invoice is in draft status
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsIssued returns true if the invoice has been issued
func (inv *Invoice) IsIssued() bool {
	return inv.Status == InvoiceStatusIssued
}

// ItemCount returns the number of lines on the invoice
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// GetItem returns a line by its ID
func (inv *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx]
		}
	}
	return nil
}

// recalculateTotals rederives the document totals from the stored line inputs
// through the shared calculator. An empty draft keeps zero totals.
func (inv *Invoice) recalculateTotals() error {
	if len(inv.Items) == 0 {
		inv.TaxableValue = decimal.Zero
		inv.TotalCGST = decimal.Zero
		inv.TotalSGST = decimal.Zero
		inv.TotalIGST = decimal.Zero
		inv.GrandTotal = decimal.Zero
		if inv.DocumentDiscount.IsPositive() {
			return shared.NewDomainError(shared.ErrCodeInvalidDocument,
				"document discount cannot be applied to an empty invoice")
		}
		return nil
	}

	gstItems := make([]gst.LineItem, len(inv.Items))
	for i, item := range inv.Items {
		gstItems[i] = item.toGSTItem()
	}

	totals, err := gst.ComputeTotals(gstItems, inv.Jurisdiction(), inv.DocumentDiscount)
	if err != nil {
		return err
	}

	inv.TaxableValue = totals.TaxableValue
	inv.TotalCGST = totals.TotalCGST
	inv.TotalSGST = totals.TotalSGST
	inv.TotalIGST = totals.TotalIGST
	inv.GrandTotal = totals.GrandTotal
	return nil
}

// DisplayNumber formats the invoice number for user-facing surfaces
func (inv *Invoice) DisplayNumber() string {
	return fmt.Sprintf("INV-%s", inv.InvoiceNumber)
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
