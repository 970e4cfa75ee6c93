package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/gst"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the status of a purchase bill
type PurchaseStatus string

const (
	PurchaseStatusDraft     PurchaseStatus = "DRAFT"
	PurchaseStatusRecorded  PurchaseStatus = "RECORDED"
	PurchaseStatusPaid      PurchaseStatus = "PAID"
	PurchaseStatusCancelled PurchaseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusDraft, PurchaseStatusRecorded, PurchaseStatusPaid, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusDraft:
		return target == PurchaseStatusRecorded || target == PurchaseStatusCancelled
	case PurchaseStatusRecorded:
		return target == PurchaseStatusPaid || target == PurchaseStatusCancelled
	case PurchaseStatusPaid, PurchaseStatusCancelled:
		return false
	}
	return false
}

// PurchaseItem is a line of a purchase bill, mirroring InvoiceItem: stored
// calculator inputs plus the computed snapshot.
type PurchaseItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID  uuid.UUID `gorm:"type:uuid;not null;index"`
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

func (i PurchaseItem) toGSTItem() gst.LineItem {
	return gst.LineItem{
		ProductID:      i.ProductID,
		Quantity:       i.Quantity,
		Rate:           i.Rate,
		Discount:       i.Discount,
		DiscountType:   i.DiscountType,
		TaxRatePercent: i.TaxRatePercent,
	}
}

// PurchaseBill represents a supplier bill aggregate root. The jurisdiction is
// inverted relative to a sales invoice: the supplier is the vendor and the
// place of supply is the buyer's own state.
type PurchaseBill struct {
	shared.TenantAggregateRoot
	BillNumber   string    `gorm:"size:50;not null;index"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierName string    `gorm:"size:200;not null"`

	SupplierStateCode      string `gorm:"size:2;not null"`
	PlaceOfSupplyStateCode string `gorm:"size:2;not null"`

	Items            []PurchaseItem  `gorm:"foreignKey:PurchaseID"`
	DocumentDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxableValue     decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TotalCGST        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TotalSGST        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	TotalIGST        decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	UpdateStock bool           `gorm:"not null;default:false"`
	BillDate    time.Time      `gorm:"not null;index"`
	Status      PurchaseStatus `gorm:"type:varchar(20);not null;index"`
	Notes       string         `gorm:"size:200"`

	RecordedAt   *time.Time
	PaidAt       *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"size:200"`
}

// NewPurchaseBill creates a new draft purchase bill
func NewPurchaseBill(tenantID uuid.UUID, billNumber string, supplierID uuid.UUID, supplierName, supplierState, placeOfSupply string, billDate time.Time) (*PurchaseBill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if len(billNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY_NAME", "Supplier name cannot be empty")
	}
	jurisdiction := gst.Jurisdiction{
		SupplierStateCode:      supplierState,
		PlaceOfSupplyStateCode: placeOfSupply,
	}
	if err := jurisdiction.Validate(); err != nil {
		return nil, err
	}

	return &PurchaseBill{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		BillNumber:             billNumber,
		SupplierID:             supplierID,
		SupplierName:           supplierName,
		SupplierStateCode:      supplierState,
		PlaceOfSupplyStateCode: placeOfSupply,
		Items:                  make([]PurchaseItem, 0),
		DocumentDiscount:       decimal.Zero,
		AmountPaid:             decimal.Zero,
		BillDate:               billDate,
		Status:                 PurchaseStatusDraft,
	}, nil
}

// Jurisdiction returns the document's tax jurisdiction
func (pb *PurchaseBill) Jurisdiction() gst.Jurisdiction {
	return gst.Jurisdiction{
		SupplierStateCode:      pb.SupplierStateCode,
		PlaceOfSupplyStateCode: pb.PlaceOfSupplyStateCode,
	}
}

// AddItem adds a line to the bill and recomputes the totals.
// Only allowed in DRAFT status.
func (pb *PurchaseBill) AddItem(productID uuid.UUID, productName, hsnCode, unit string, quantity, rate, discount decimal.Decimal, discountType gst.DiscountType, taxRatePercent decimal.Decimal) (*PurchaseItem, error) {
	if pb.Status != PurchaseStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft purchase bill")
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
	line, err := gst.ComputeLine(gstItem, pb.Jurisdiction())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := PurchaseItem{
		ID:             uuid.New(),
		PurchaseID:     pb.ID,
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
	pb.Items = append(pb.Items, item)

	if err := pb.recalculateTotals(); err != nil {
		pb.Items = pb.Items[:len(pb.Items)-1]
		return nil, err
	}
	pb.Touch()
	return &pb.Items[len(pb.Items)-1], nil
}

// RemoveItem removes a line from the bill.
// Only allowed in DRAFT status.
func (pb *PurchaseBill) RemoveItem(itemID uuid.UUID) error {
	if pb.Status != PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft purchase bill")
	}

	for idx, item := range pb.Items {
		if item.ID == itemID {
			removed := pb.Items[idx]
			pb.Items = append(pb.Items[:idx], pb.Items[idx+1:]...)
			if err := pb.recalculateTotals(); err != nil {
				pb.Items = append(pb.Items[:idx], append([]PurchaseItem{removed}, pb.Items[idx:]...)...)
				// restore previous totals
				_ = pb.recalculateTotals()
				return err
			}
			pb.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// ApplyDocumentDiscount sets the document-level discount and recomputes.
// Only allowed in DRAFT status.
func (pb *PurchaseBill) ApplyDocumentDiscount(discount decimal.Decimal) error {
	if pb.Status != PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft purchase bill")
	}
	prev := pb.DocumentDiscount
	pb.DocumentDiscount = discount
	if err := pb.recalculateTotals(); err != nil {
		pb.DocumentDiscount = prev
		return err
	}
	pb.Touch()
	return nil
}

// SetNotes sets the bill notes
func (pb *PurchaseBill) SetNotes(notes string) {
	pb.Notes = notes
	pb.Touch()
}

// SetUpdateStock controls whether recording this bill moves inventory.
// Only allowed in DRAFT status.
func (pb *PurchaseBill) SetUpdateStock(updateStock bool) error {
	if pb.Status != PurchaseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change stock handling on a non-draft purchase bill")
	}
	pb.UpdateStock = updateStock
	pb.Touch()
	return nil
}

// Record finalizes the bill, transitioning from DRAFT to RECORDED.
// Requires at least one line item.
func (pb *PurchaseBill) Record() error {
	if !pb.Status.CanTransitionTo(PurchaseStatusRecorded) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot record purchase bill in %s status", pb.Status)
	}
	if len(pb.Items) == 0 {
		return shared.NewDomainError(shared.ErrCodeInvalidDocument, "Cannot record purchase bill without items")
	}
	if err := pb.recalculateTotals(); err != nil {
		return err
	}

	now := time.Now()
	pb.Status = PurchaseStatusRecorded
	pb.RecordedAt = &now
	pb.UpdatedAt = now
	return nil
}

// RecordPayment records a payment against a recorded bill, marking it PAID
// once the grand total is covered.
func (pb *PurchaseBill) RecordPayment(amount decimal.Decimal) error {
	if pb.Status != PurchaseStatusRecorded {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot record payment on %s purchase bill", pb.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	outstanding := pb.GrandTotal.Sub(pb.AmountPaid)
	if amount.GreaterThan(outstanding) {
		return shared.NewDomainErrorf("INVALID_AMOUNT",
			"payment %s exceeds outstanding amount %s", amount, outstanding)
	}

	pb.AmountPaid = pb.AmountPaid.Add(amount)
	if pb.AmountPaid.Equal(pb.GrandTotal) {
		now := time.Now()
		pb.Status = PurchaseStatusPaid
		pb.PaidAt = &now
	}
	pb.Touch()
	return nil
}

// Cancel cancels the bill. Allowed in DRAFT or RECORDED status.
func (pb *PurchaseBill) Cancel(reason string) error {
	if !pb.Status.CanTransitionTo(PurchaseStatusCancelled) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel purchase bill in %s status", pb.Status)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	pb.Status = PurchaseStatusCancelled
	pb.CancelledAt = &now
	pb.CancelReason = reason
	pb.UpdatedAt = now
	return nil
}

// OutstandingAmount returns the unpaid part of the grand total
func (pb *PurchaseBill) OutstandingAmount() decimal.Decimal {
	return pb.GrandTotal.Sub(pb.AmountPaid)
}

// IsDraft returns true if the bill is in draft status
func (pb *PurchaseBill) IsDraft() bool {
	return pb.Status == PurchaseStatusDraft
}

// ItemCount returns the number of lines on the bill
func (pb *PurchaseBill) ItemCount() int {
	return len(pb.Items)
}

func (pb *PurchaseBill) recalculateTotals() error {
	if len(pb.Items) == 0 {
		pb.TaxableValue = decimal.Zero
		pb.TotalCGST = decimal.Zero
		pb.TotalSGST = decimal.Zero
		pb.TotalIGST = decimal.Zero
		pb.GrandTotal = decimal.Zero
		if pb.DocumentDiscount.IsPositive() {
			return shared.NewDomainError(shared.ErrCodeInvalidDocument,
				"document discount cannot be applied to an empty purchase bill")
		}
		return nil
	}

	gstItems := make([]gst.LineItem, len(pb.Items))
	for i, item := range pb.Items {
		gstItems[i] = item.toGSTItem()
	}

	totals, err := gst.ComputeTotals(gstItems, pb.Jurisdiction(), pb.DocumentDiscount)
	if err != nil {
		return err
	}

	pb.TaxableValue = totals.TaxableValue
	pb.TotalCGST = totals.TotalCGST
	pb.TotalSGST = totals.TotalSGST
	pb.TotalIGST = totals.TotalIGST
	pb.GrandTotal = totals.GrandTotal
	return nil
}

// TableName returns the table name for GORM
func (PurchaseBill) TableName() string {
	return "purchase_bills"
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}
