package gst

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intrastate() Jurisdiction {
	return Jurisdiction{SupplierStateCode: "27", PlaceOfSupplyStateCode: "27"}
}

func interstate() Jurisdiction {
	return Jurisdiction{SupplierStateCode: "27", PlaceOfSupplyStateCode: "29"}
}

func testItem(qty, rate, discount float64, dt DiscountType, taxRate float64) LineItem {
	return LineItem{
		ProductID:      uuid.New(),
		Quantity:       decimal.NewFromFloat(qty),
		Rate:           decimal.NewFromFloat(rate),
		Discount:       decimal.NewFromFloat(discount),
		DiscountType:   dt,
		TaxRatePercent: decimal.NewFromFloat(taxRate),
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

// ============================================
// ComputeLine Tests
// ============================================

func TestComputeLine_IntrastateSplitsTaxEqually(t *testing.T) {
	// quantity=10, rate=100, 18% tax, same state both sides
	result, err := ComputeLine(testItem(10, 100, 0, DiscountTypeFixed, 18), intrastate())
	require.NoError(t, err)

	assert.True(t, result.BaseAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.TaxableAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.CGST.Equal(decimal.NewFromInt(90)), "cgst = %s", result.CGST)
	assert.True(t, result.SGST.Equal(decimal.NewFromInt(90)), "sgst = %s", result.SGST)
	assert.True(t, result.IGST.IsZero())
	assert.True(t, result.LineTotal.Equal(decimal.NewFromInt(1180)))
}

func TestComputeLine_InterstateUsesIGST(t *testing.T) {
	result, err := ComputeLine(testItem(10, 100, 0, DiscountTypeFixed, 18), interstate())
	require.NoError(t, err)

	assert.True(t, result.TaxableAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.CGST.IsZero())
	assert.True(t, result.SGST.IsZero())
	assert.True(t, result.IGST.Equal(decimal.NewFromInt(180)))
	assert.True(t, result.LineTotal.Equal(decimal.NewFromInt(1180)))
}

func TestComputeLine_PercentageDiscount(t *testing.T) {
	// quantity=1, rate=500, 10% discount, exempt goods
	result, err := ComputeLine(testItem(1, 500, 10, DiscountTypePercentage, 0), intrastate())
	require.NoError(t, err)

	assert.True(t, result.BaseAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.TaxableAmount.Equal(decimal.NewFromInt(450)))
	assert.True(t, result.CGST.IsZero())
	assert.True(t, result.SGST.IsZero())
	assert.True(t, result.IGST.IsZero())
	assert.True(t, result.LineTotal.Equal(decimal.NewFromInt(450)))
}

func TestComputeLine_FixedDiscountAppliedPreTax(t *testing.T) {
	result, err := ComputeLine(testItem(2, 100, 40, DiscountTypeFixed, 18), interstate())
	require.NoError(t, err)

	assert.True(t, result.TaxableAmount.Equal(decimal.NewFromInt(160)))
	// 160 * 18% = 28.8
	assert.True(t, result.IGST.Equal(decimal.NewFromFloat(28.8)))
}

func TestComputeLine_ZeroTaxRateIsValid(t *testing.T) {
	result, err := ComputeLine(testItem(3, 50, 0, DiscountTypeFixed, 0), interstate())
	require.NoError(t, err)
	assert.True(t, result.IGST.IsZero())
	assert.True(t, result.LineTotal.Equal(decimal.NewFromInt(150)))
}

func TestComputeLine_ZeroRateFreeItem(t *testing.T) {
	// Rate may be zero for free items; the zero tax follows from the zero
	// taxable amount, not from a special case.
	result, err := ComputeLine(testItem(5, 0, 0, DiscountTypeFixed, 18), intrastate())
	require.NoError(t, err)
	assert.True(t, result.TaxableAmount.IsZero())
	assert.True(t, result.CGST.IsZero())
	assert.True(t, result.LineTotal.IsZero())
}

func TestComputeLine_FractionalQuantity(t *testing.T) {
	// 2.5 kg at 99.99/kg
	result, err := ComputeLine(testItem(2.5, 99.99, 0, DiscountTypeFixed, 5), interstate())
	require.NoError(t, err)
	assert.True(t, result.BaseAmount.Equal(decimal.NewFromFloat(249.975)))
	// Intermediate precision preserved; rounding only in Rounded()
	rounded := result.Rounded()
	assert.Equal(t, "249.98", rounded.TaxableAmount.StringFixed(2))
}

func TestComputeLine_SplitSymmetry(t *testing.T) {
	// Intrastate CGST and SGST are exactly equal, including for odd rates
	for _, rate := range []float64{0, 0.25, 3, 5, 12, 18, 28} {
		result, err := ComputeLine(testItem(7, 13.13, 0, DiscountTypeFixed, rate), intrastate())
		require.NoError(t, err)
		assert.True(t, result.CGST.Equal(result.SGST), "rate %v: cgst %s != sgst %s", rate, result.CGST, result.SGST)
	}
}

func TestComputeLine_JurisdictionExclusivity(t *testing.T) {
	item := testItem(4, 250, 5, DiscountTypePercentage, 12)

	intra, err := ComputeLine(item, intrastate())
	require.NoError(t, err)
	assert.True(t, intra.CGST.IsPositive())
	assert.True(t, intra.SGST.IsPositive())
	assert.True(t, intra.IGST.IsZero())

	inter, err := ComputeLine(item, interstate())
	require.NoError(t, err)
	assert.True(t, inter.CGST.IsZero())
	assert.True(t, inter.SGST.IsZero())
	assert.True(t, inter.IGST.IsPositive())

	// Same total tax either way
	assert.True(t, intra.LineTotal.Equal(inter.LineTotal))
}

func TestComputeLine_Idempotent(t *testing.T) {
	item := testItem(9, 123.45, 7.5, DiscountTypePercentage, 18)
	first, err := ComputeLine(item, intrastate())
	require.NoError(t, err)
	second, err := ComputeLine(item, intrastate())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeLine_InvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
	}{
		{"zero quantity", testItem(0, 100, 0, DiscountTypeFixed, 18)},
		{"negative quantity", testItem(-1, 100, 0, DiscountTypeFixed, 18)},
		{"negative rate", testItem(1, -100, 0, DiscountTypeFixed, 18)},
		{"negative discount", testItem(1, 100, -5, DiscountTypeFixed, 18)},
		{"negative tax rate", testItem(1, 100, 0, DiscountTypeFixed, -18)},
		{"percentage discount over 100", testItem(1, 100, 101, DiscountTypePercentage, 18)},
		{"fixed discount exceeds base", testItem(1, 100, 100.01, DiscountTypeFixed, 18)},
		{"unknown discount type", testItem(1, 100, 0, DiscountType("COUPON"), 18)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.item, intrastate())
			assertDomainCode(t, err, shared.ErrCodeInvalidLineItem)
		})
	}
}

func TestComputeLine_DiscountBoundNeverNegativeTaxable(t *testing.T) {
	// Boundary: discount exactly equal to base is permitted and taxable is zero
	result, err := ComputeLine(testItem(1, 100, 100, DiscountTypeFixed, 18), intrastate())
	require.NoError(t, err)
	assert.True(t, result.TaxableAmount.IsZero())
	assert.False(t, result.TaxableAmount.IsNegative())
}

func TestComputeLine_MissingJurisdiction(t *testing.T) {
	_, err := ComputeLine(testItem(1, 100, 0, DiscountTypeFixed, 18), Jurisdiction{})
	assertDomainCode(t, err, shared.ErrCodeInvalidDocument)
}

// ============================================
// ComputeTotals Tests
// ============================================

func TestComputeTotals_SumsComponentsIndependently(t *testing.T) {
	items := []LineItem{
		testItem(10, 100, 0, DiscountTypeFixed, 18),
		testItem(1, 500, 10, DiscountTypePercentage, 12),
		testItem(2.5, 40, 0, DiscountTypeFixed, 0),
	}

	totals, err := ComputeTotals(items, intrastate(), decimal.Zero)
	require.NoError(t, err)

	// Aggregation consistency: totals equal the component-wise sums of the
	// individual line results.
	var taxable, cgst, sgst, igst decimal.Decimal
	for _, item := range items {
		line, err := ComputeLine(item, intrastate())
		require.NoError(t, err)
		taxable = taxable.Add(line.TaxableAmount)
		cgst = cgst.Add(line.CGST)
		sgst = sgst.Add(line.SGST)
		igst = igst.Add(line.IGST)
	}

	assert.True(t, totals.TaxableValue.Equal(taxable))
	assert.True(t, totals.TotalCGST.Equal(cgst))
	assert.True(t, totals.TotalSGST.Equal(sgst))
	assert.True(t, totals.TotalIGST.Equal(igst))
	assert.True(t, totals.GrandTotal.Equal(taxable.Add(cgst).Add(sgst).Add(igst)))
}

func TestComputeTotals_DocumentDiscountSubtractedOnce(t *testing.T) {
	items := []LineItem{testItem(10, 100, 0, DiscountTypeFixed, 18)}

	totals, err := ComputeTotals(items, interstate(), decimal.NewFromInt(80))
	require.NoError(t, err)

	// 1000 taxable + 180 IGST - 80 discount
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(1100)))
	assert.True(t, totals.DocumentDiscount.Equal(decimal.NewFromInt(80)))
	// Line-level components are not touched by the document discount
	assert.True(t, totals.TaxableValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, totals.TotalIGST.Equal(decimal.NewFromInt(180)))
}

func TestComputeTotals_EmptyDocumentRejected(t *testing.T) {
	_, err := ComputeTotals(nil, intrastate(), decimal.Zero)
	assertDomainCode(t, err, shared.ErrCodeInvalidDocument)
}

func TestComputeTotals_DiscountExceedingSubtotalRejected(t *testing.T) {
	// Single line, taxable 100, no tax, discount 150
	items := []LineItem{testItem(1, 100, 0, DiscountTypeFixed, 0)}
	_, err := ComputeTotals(items, intrastate(), decimal.NewFromInt(150))
	assertDomainCode(t, err, shared.ErrCodeInvalidDocument)
}

func TestComputeTotals_DiscountEqualToSubtotalAllowed(t *testing.T) {
	items := []LineItem{testItem(1, 100, 0, DiscountTypeFixed, 0)}
	totals, err := ComputeTotals(items, intrastate(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotals_NegativeDocumentDiscountRejected(t *testing.T) {
	items := []LineItem{testItem(1, 100, 0, DiscountTypeFixed, 0)}
	_, err := ComputeTotals(items, intrastate(), decimal.NewFromInt(-1))
	assertDomainCode(t, err, shared.ErrCodeInvalidDocument)
}

func TestComputeTotals_ReportsFailingLineIndex(t *testing.T) {
	items := []LineItem{
		testItem(1, 100, 0, DiscountTypeFixed, 18),
		testItem(0, 100, 0, DiscountTypeFixed, 18), // invalid
	}
	_, err := ComputeTotals(items, intrastate(), decimal.Zero)
	assertDomainCode(t, err, shared.ErrCodeInvalidLineItem)
	assert.Contains(t, err.Error(), "line 1")
}

func TestComputeTotals_ManySmallLinesNoDrift(t *testing.T) {
	// 300 lines of 0.1 * 0.7 at 18%: binary floats would drift, decimals must not
	items := make([]LineItem, 300)
	for i := range items {
		items[i] = testItem(0.1, 0.7, 0, DiscountTypeFixed, 18)
	}
	totals, err := ComputeTotals(items, interstate(), decimal.Zero)
	require.NoError(t, err)

	// 300 * 0.07 = 21 taxable, IGST = 3.78
	assert.True(t, totals.TaxableValue.Equal(decimal.NewFromInt(21)), "taxable = %s", totals.TaxableValue)
	assert.True(t, totals.TotalIGST.Equal(decimal.NewFromFloat(3.78)), "igst = %s", totals.TotalIGST)
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromFloat(24.78)))
}

func TestDocumentTotals_Rounded(t *testing.T) {
	items := []LineItem{testItem(3, 33.333, 0, DiscountTypeFixed, 18)}
	totals, err := ComputeTotals(items, intrastate(), decimal.Zero)
	require.NoError(t, err)

	// taxable 99.999 rounds half-up at the boundary only
	rounded := totals.Rounded()
	assert.Equal(t, "100.00", rounded.TaxableValue.StringFixed(2))
	assert.Equal(t, "9.00", rounded.TotalCGST.StringFixed(2))
	assert.Equal(t, "9.00", rounded.TotalSGST.StringFixed(2))
}
