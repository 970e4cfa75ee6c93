package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/gst"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftInvoice(t *testing.T, supplierState, placeOfSupply string) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), "2026-0001", uuid.New(), "Sharma Traders",
		supplierState, placeOfSupply, time.Now())
	require.NoError(t, err)
	return inv
}

func addSimpleItem(t *testing.T, inv *Invoice, qty, rate, taxRate string) *InvoiceItem {
	t.Helper()
	item, err := inv.AddItem(uuid.New(), "Widget", "8471", "PCS",
		decimal.RequireFromString(qty), decimal.RequireFromString(rate),
		decimal.Zero, gst.DiscountTypePercentage, decimal.RequireFromString(taxRate))
	require.NoError(t, err)
	return item
}

func TestNewInvoice(t *testing.T) {
	t.Run("ValidInvoice", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, "2026-0001", inv.InvoiceNumber)
		assert.True(t, inv.GrandTotal.IsZero())
		assert.Empty(t, inv.Items)
	})

	t.Run("EmptyNumber", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", uuid.New(), "Sharma Traders", "27", "27", time.Now())
		assert.Error(t, err)
	})

	t.Run("MissingSupplierState", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "2026-0001", uuid.New(), "Sharma Traders", "", "27", time.Now())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeInvalidDocument, domainErr.Code)
	})

	t.Run("NilParty", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "2026-0001", uuid.Nil, "Sharma Traders", "27", "27", time.Now())
		assert.Error(t, err)
	})
}

func TestInvoiceAddItem(t *testing.T) {
	t.Run("IntrastateSplit", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		item := addSimpleItem(t, inv, "10", "100", "18")

		assert.True(t, item.CGST.Equal(decimal.RequireFromString("90")), "CGST = %s", item.CGST)
		assert.True(t, item.SGST.Equal(decimal.RequireFromString("90")), "SGST = %s", item.SGST)
		assert.True(t, item.IGST.IsZero())
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1180")), "grand total = %s", inv.GrandTotal)
	})

	t.Run("InterstateIGST", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "29")
		item := addSimpleItem(t, inv, "10", "100", "18")

		assert.True(t, item.CGST.IsZero())
		assert.True(t, item.SGST.IsZero())
		assert.True(t, item.IGST.Equal(decimal.RequireFromString("180")), "IGST = %s", item.IGST)
	})

	t.Run("InvalidItemRejectedAndTotalsUnchanged", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "1", "100", "18")
		before := inv.GrandTotal

		_, err := inv.AddItem(uuid.New(), "Widget", "", "PCS",
			decimal.Zero, decimal.NewFromInt(100),
			decimal.Zero, gst.DiscountTypePercentage, decimal.NewFromInt(18))
		require.Error(t, err)
		assert.Equal(t, 1, inv.ItemCount())
		assert.True(t, inv.GrandTotal.Equal(before))
	})

	t.Run("RejectedAfterIssue", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "1", "100", "18")
		require.NoError(t, inv.Issue())

		_, err := inv.AddItem(uuid.New(), "Widget", "", "PCS",
			decimal.NewFromInt(1), decimal.NewFromInt(100),
			decimal.Zero, gst.DiscountTypePercentage, decimal.NewFromInt(18))
		assert.Error(t, err)
	})
}

func TestInvoiceUpdateAndRemoveItem(t *testing.T) {
	t.Run("UpdateRecomputesTotals", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		item := addSimpleItem(t, inv, "10", "100", "18")

		err := inv.UpdateItem(item.ID, decimal.NewFromInt(5), decimal.NewFromInt(100),
			decimal.Zero, gst.DiscountTypePercentage, decimal.NewFromInt(18))
		require.NoError(t, err)
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("590")), "grand total = %s", inv.GrandTotal)
	})

	t.Run("UpdateWithInvalidInputRestoresLine", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		item := addSimpleItem(t, inv, "10", "100", "18")

		err := inv.UpdateItem(item.ID, decimal.NewFromInt(-1), decimal.NewFromInt(100),
			decimal.Zero, gst.DiscountTypePercentage, decimal.NewFromInt(18))
		require.Error(t, err)
		got := inv.GetItem(item.ID)
		require.NotNil(t, got)
		assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1180")))
	})

	t.Run("RemoveLastItemZeroesTotals", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		item := addSimpleItem(t, inv, "10", "100", "18")

		require.NoError(t, inv.RemoveItem(item.ID))
		assert.Equal(t, 0, inv.ItemCount())
		assert.True(t, inv.GrandTotal.IsZero())
	})

	t.Run("RemoveLastItemWithDiscountRestoresLine", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		item := addSimpleItem(t, inv, "10", "100", "18")
		require.NoError(t, inv.ApplyDocumentDiscount(decimal.NewFromInt(80)))

		// Removing the only line would strand the document discount; the
		// invoice must come back unchanged.
		err := inv.RemoveItem(item.ID)
		require.Error(t, err)
		assert.Equal(t, 1, inv.ItemCount())
		require.NotNil(t, inv.GetItem(item.ID))
		assert.True(t, inv.TaxableValue.Equal(decimal.RequireFromString("1000")))
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1100")), "grand total = %s", inv.GrandTotal)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		err := inv.RemoveItem(uuid.New())
		assert.Error(t, err)
	})
}

func TestInvoiceDocumentDiscount(t *testing.T) {
	t.Run("AppliedAfterTax", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")

		require.NoError(t, inv.ApplyDocumentDiscount(decimal.NewFromInt(80)))
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("1100")), "grand total = %s", inv.GrandTotal)
		// Taxable value and tax components are unaffected by the document discount.
		assert.True(t, inv.TaxableValue.Equal(decimal.RequireFromString("1000")))
		assert.True(t, inv.TotalCGST.Equal(decimal.RequireFromString("90")))
	})

	t.Run("ExcessiveDiscountRejectedAndReverted", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "1", "100", "0")

		err := inv.ApplyDocumentDiscount(decimal.NewFromInt(150))
		require.Error(t, err)
		assert.True(t, inv.DocumentDiscount.IsZero())
		assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("100")))
	})

	t.Run("OnEmptyDraftRejected", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		err := inv.ApplyDocumentDiscount(decimal.NewFromInt(10))
		assert.Error(t, err)
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	t.Run("IssueWithoutItems", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		err := inv.Issue()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeInvalidDocument, domainErr.Code)
	})

	t.Run("IssueThenPayInFull", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")

		require.NoError(t, inv.Issue())
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		require.NotNil(t, inv.IssuedAt)

		require.NoError(t, inv.RecordPayment(decimal.RequireFromString("1180")))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.OutstandingAmount().IsZero())
	})

	t.Run("PartialPaymentKeepsIssued", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")
		require.NoError(t, inv.Issue())

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(500)))
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.True(t, inv.OutstandingAmount().Equal(decimal.RequireFromString("680")))
	})

	t.Run("OverpaymentRejected", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")
		require.NoError(t, inv.Issue())

		err := inv.RecordPayment(decimal.NewFromInt(2000))
		assert.Error(t, err)
	})

	t.Run("PaymentOnDraftRejected", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")
		err := inv.RecordPayment(decimal.NewFromInt(100))
		assert.Error(t, err)
	})

	t.Run("CancelIssued", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")
		require.NoError(t, inv.Issue())

		require.NoError(t, inv.Cancel("customer returned goods"))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.Equal(t, "customer returned goods", inv.CancelReason)
	})

	t.Run("CancelPaidRejected", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		addSimpleItem(t, inv, "10", "100", "18")
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.RecordPayment(decimal.RequireFromString("1180")))

		err := inv.Cancel("too late")
		assert.Error(t, err)
	})

	t.Run("CancelWithoutReason", func(t *testing.T) {
		inv := newDraftInvoice(t, "27", "27")
		err := inv.Cancel("")
		assert.Error(t, err)
	})
}

func TestInvoiceStatusTransitions(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusIssued, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusIssued, InvoiceStatusPaid, true},
		{InvoiceStatusIssued, InvoiceStatusCancelled, true},
		{InvoiceStatusIssued, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusCancelled, InvoiceStatusIssued, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
