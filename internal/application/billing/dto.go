package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// DocumentItemRequest is a calculator line as submitted by the client, shared
// by invoices and purchase bills
type DocumentItemRequest struct {
	ProductID      uuid.UUID        `json:"product_id" binding:"required"`
	Quantity       decimal.Decimal  `json:"quantity" binding:"required"`
	Rate           *decimal.Decimal `json:"rate"`
	Discount       decimal.Decimal  `json:"discount"`
	DiscountType   string           `json:"discount_type" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
}

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	PartyID          uuid.UUID             `json:"party_id" binding:"required"`
	PlaceOfSupply    string                `json:"place_of_supply" binding:"omitempty,statecode"`
	InvoiceDate      *time.Time            `json:"invoice_date"`
	Items            []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
	DocumentDiscount decimal.Decimal       `json:"document_discount"`
	UpdateStock      bool                  `json:"update_stock"`
	Notes            string                `json:"notes" binding:"max=200"`
}

// CreatePurchaseRequest represents a request to create a draft purchase bill
type CreatePurchaseRequest struct {
	SupplierID       uuid.UUID             `json:"supplier_id" binding:"required"`
	BillNumber       string                `json:"bill_number" binding:"required,min=1,max=50"`
	BillDate         *time.Time            `json:"bill_date"`
	Items            []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
	DocumentDiscount decimal.Decimal       `json:"document_discount"`
	UpdateStock      bool                  `json:"update_stock"`
	Notes            string                `json:"notes" binding:"max=200"`
}

// RecordPaymentRequest represents a payment against a document
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CancelRequest carries the reason for cancelling a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=200"`
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category    string          `json:"category" binding:"required,min=1,max=50"`
	Description string          `json:"description" binding:"max=200"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate *time.Time      `json:"expense_date"`
	PaymentMode string          `json:"payment_mode" binding:"max=20"`
	Notes       string          `json:"notes" binding:"max=200"`
}

// DocumentItemResponse is a computed line in API responses. Amounts are
// rounded to two decimal places at this boundary.
type DocumentItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	HSNCode        string          `json:"hsn_code"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   string          `json:"discount_type"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	CGST           decimal.Decimal `json:"cgst"`
	SGST           decimal.Decimal `json:"sgst"`
	IGST           decimal.Decimal `json:"igst"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                     uuid.UUID              `json:"id"`
	InvoiceNumber          string                 `json:"invoice_number"`
	PartyID                uuid.UUID              `json:"party_id"`
	PartyName              string                 `json:"party_name"`
	PartyGSTIN             string                 `json:"party_gstin,omitempty"`
	SupplierStateCode      string                 `json:"supplier_state_code"`
	PlaceOfSupplyStateCode string                 `json:"place_of_supply_state_code"`
	Items                  []DocumentItemResponse `json:"items"`
	DocumentDiscount       decimal.Decimal        `json:"document_discount"`
	TaxableValue           decimal.Decimal        `json:"taxable_value"`
	TotalCGST              decimal.Decimal        `json:"total_cgst"`
	TotalSGST              decimal.Decimal        `json:"total_sgst"`
	TotalIGST              decimal.Decimal        `json:"total_igst"`
	GrandTotal             decimal.Decimal        `json:"grand_total"`
	AmountPaid             decimal.Decimal        `json:"amount_paid"`
	Outstanding            decimal.Decimal        `json:"outstanding"`
	UpdateStock            bool                   `json:"update_stock"`
	InvoiceDate            time.Time              `json:"invoice_date"`
	Status                 string                 `json:"status"`
	Notes                  string                 `json:"notes,omitempty"`
	IssuedAt               *time.Time             `json:"issued_at,omitempty"`
	PaidAt                 *time.Time             `json:"paid_at,omitempty"`
	CancelledAt            *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason           string                 `json:"cancel_reason,omitempty"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	Version                int                    `json:"version"`
}

// PurchaseResponse represents a purchase bill in API responses
type PurchaseResponse struct {
	ID                     uuid.UUID              `json:"id"`
	BillNumber             string                 `json:"bill_number"`
	SupplierID             uuid.UUID              `json:"supplier_id"`
	SupplierName           string                 `json:"supplier_name"`
	SupplierStateCode      string                 `json:"supplier_state_code"`
	PlaceOfSupplyStateCode string                 `json:"place_of_supply_state_code"`
	Items                  []DocumentItemResponse `json:"items"`
	DocumentDiscount       decimal.Decimal        `json:"document_discount"`
	TaxableValue           decimal.Decimal        `json:"taxable_value"`
	TotalCGST              decimal.Decimal        `json:"total_cgst"`
	TotalSGST              decimal.Decimal        `json:"total_sgst"`
	TotalIGST              decimal.Decimal        `json:"total_igst"`
	GrandTotal             decimal.Decimal        `json:"grand_total"`
	AmountPaid             decimal.Decimal        `json:"amount_paid"`
	Outstanding            decimal.Decimal        `json:"outstanding"`
	UpdateStock            bool                   `json:"update_stock"`
	BillDate               time.Time              `json:"bill_date"`
	Status                 string                 `json:"status"`
	Notes                  string                 `json:"notes,omitempty"`
	RecordedAt             *time.Time             `json:"recorded_at,omitempty"`
	PaidAt                 *time.Time             `json:"paid_at,omitempty"`
	CancelledAt            *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	Version                int                    `json:"version"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	PaymentMode string          `json:"payment_mode,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func toInvoiceItemResponse(item *billing.InvoiceItem) DocumentItemResponse {
	return DocumentItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		HSNCode:        item.HSNCode,
		Unit:           item.Unit,
		Quantity:       item.Quantity,
		Rate:           item.Rate,
		Discount:       item.Discount,
		DiscountType:   item.DiscountType.String(),
		TaxRatePercent: item.TaxRatePercent,
		TaxableAmount:  round2(item.TaxableAmount),
		CGST:           round2(item.CGST),
		SGST:           round2(item.SGST),
		IGST:           round2(item.IGST),
		LineTotal:      round2(item.LineTotal),
	}
}

func toPurchaseItemResponse(item *billing.PurchaseItem) DocumentItemResponse {
	return DocumentItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		HSNCode:        item.HSNCode,
		Unit:           item.Unit,
		Quantity:       item.Quantity,
		Rate:           item.Rate,
		Discount:       item.Discount,
		DiscountType:   item.DiscountType.String(),
		TaxRatePercent: item.TaxRatePercent,
		TaxableAmount:  round2(item.TaxableAmount),
		CGST:           round2(item.CGST),
		SGST:           round2(item.SGST),
		IGST:           round2(item.IGST),
		LineTotal:      round2(item.LineTotal),
	}
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]DocumentItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = toInvoiceItemResponse(&inv.Items[i])
	}
	return InvoiceResponse{
		ID:                     inv.ID,
		InvoiceNumber:          inv.InvoiceNumber,
		PartyID:                inv.PartyID,
		PartyName:              inv.PartyName,
		PartyGSTIN:             inv.PartyGSTIN,
		SupplierStateCode:      inv.SupplierStateCode,
		PlaceOfSupplyStateCode: inv.PlaceOfSupplyStateCode,
		Items:                  items,
		DocumentDiscount:       round2(inv.DocumentDiscount),
		TaxableValue:           round2(inv.TaxableValue),
		TotalCGST:              round2(inv.TotalCGST),
		TotalSGST:              round2(inv.TotalSGST),
		TotalIGST:              round2(inv.TotalIGST),
		GrandTotal:             round2(inv.GrandTotal),
		AmountPaid:             round2(inv.AmountPaid),
		Outstanding:            round2(inv.OutstandingAmount()),
		UpdateStock:            inv.UpdateStock,
		InvoiceDate:            inv.InvoiceDate,
		Status:                 inv.Status.String(),
		Notes:                  inv.Notes,
		IssuedAt:               inv.IssuedAt,
		PaidAt:                 inv.PaidAt,
		CancelledAt:            inv.CancelledAt,
		CancelReason:           inv.CancelReason,
		CreatedAt:              inv.CreatedAt,
		UpdatedAt:              inv.UpdatedAt,
		Version:                inv.Version,
	}
}

// ToPurchaseResponse converts a domain PurchaseBill to PurchaseResponse
func ToPurchaseResponse(pb *billing.PurchaseBill) PurchaseResponse {
	items := make([]DocumentItemResponse, len(pb.Items))
	for i := range pb.Items {
		items[i] = toPurchaseItemResponse(&pb.Items[i])
	}
	return PurchaseResponse{
		ID:                     pb.ID,
		BillNumber:             pb.BillNumber,
		SupplierID:             pb.SupplierID,
		SupplierName:           pb.SupplierName,
		SupplierStateCode:      pb.SupplierStateCode,
		PlaceOfSupplyStateCode: pb.PlaceOfSupplyStateCode,
		Items:                  items,
		DocumentDiscount:       round2(pb.DocumentDiscount),
		TaxableValue:           round2(pb.TaxableValue),
		TotalCGST:              round2(pb.TotalCGST),
		TotalSGST:              round2(pb.TotalSGST),
		TotalIGST:              round2(pb.TotalIGST),
		GrandTotal:             round2(pb.GrandTotal),
		AmountPaid:             round2(pb.AmountPaid),
		Outstanding:            round2(pb.OutstandingAmount()),
		UpdateStock:            pb.UpdateStock,
		BillDate:               pb.BillDate,
		Status:                 pb.Status.String(),
		Notes:                  pb.Notes,
		RecordedAt:             pb.RecordedAt,
		PaidAt:                 pb.PaidAt,
		CancelledAt:            pb.CancelledAt,
		CreatedAt:              pb.CreatedAt,
		UpdatedAt:              pb.UpdatedAt,
		Version:                pb.Version,
	}
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *billing.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      round2(e.Amount),
		ExpenseDate: e.ExpenseDate,
		PaymentMode: e.PaymentMode,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
