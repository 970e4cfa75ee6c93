// Package gst implements the financial document computation core: per-line
// tax calculation with the intrastate CGST/SGST split versus interstate IGST,
// and document-level aggregation with a single post-aggregation discount.
//
// All arithmetic is performed on shopspring decimals at full precision.
// Results carry unrounded values; Rounded() produces the 2-decimal
// presentation form, and nothing in between is ever rounded.
package gst

import (
	"errors"

	"github.com/gstbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var twoHundred = decimal.NewFromInt(200)

// LineResult is the derived computation for a single line item. It has no
// identity and is never persisted on its own; documents snapshot the fields
// they need.
type LineResult struct {
	BaseAmount     decimal.Decimal // quantity * rate
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal // base - discount, never negative
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	IGST           decimal.Decimal
	LineTotal      decimal.Decimal // taxable + cgst + sgst + igst
}

// Rounded returns the 2-decimal presentation form of the result
func (r LineResult) Rounded() LineResult {
	return LineResult{
		BaseAmount:     r.BaseAmount.Round(2),
		DiscountAmount: r.DiscountAmount.Round(2),
		TaxableAmount:  r.TaxableAmount.Round(2),
		CGST:           r.CGST.Round(2),
		SGST:           r.SGST.Round(2),
		IGST:           r.IGST.Round(2),
		LineTotal:      r.LineTotal.Round(2),
	}
}

// DocumentTotals is the derived aggregation across a document's lines
type DocumentTotals struct {
	TaxableValue     decimal.Decimal
	TotalCGST        decimal.Decimal
	TotalSGST        decimal.Decimal
	TotalIGST        decimal.Decimal
	DocumentDiscount decimal.Decimal
	GrandTotal       decimal.Decimal
}

// Rounded returns the 2-decimal presentation form of the totals
func (t DocumentTotals) Rounded() DocumentTotals {
	return DocumentTotals{
		TaxableValue:     t.TaxableValue.Round(2),
		TotalCGST:        t.TotalCGST.Round(2),
		TotalSGST:        t.TotalSGST.Round(2),
		TotalIGST:        t.TotalIGST.Round(2),
		DocumentDiscount: t.DocumentDiscount.Round(2),
		GrandTotal:       t.GrandTotal.Round(2),
	}
}

// ComputeLine computes the taxable amount and tax split for one line item.
// Pure function: no side effects, identical inputs give identical results.
//
// A discount exceeding the base amount is rejected rather than clamped to
// zero, since silently flooring would mask a data-entry error. A zero tax
// rate is valid and yields zero tax fields.
func ComputeLine(item LineItem, jurisdiction Jurisdiction) (LineResult, error) {
	if err := jurisdiction.Validate(); err != nil {
		return LineResult{}, err
	}
	if err := item.Validate(); err != nil {
		return LineResult{}, err
	}

	base := item.Quantity.Mul(item.Rate)

	var discount decimal.Decimal
	if item.DiscountType == DiscountTypeFixed {
		discount = item.Discount
	} else {
		discount = base.Mul(item.Discount).Div(oneHundred)
	}

	taxable := base.Sub(discount)
	if taxable.IsNegative() {
		return LineResult{}, shared.NewDomainErrorf(shared.ErrCodeInvalidLineItem,
			"discount %s exceeds base amount %s", discount, base)
	}

	result := LineResult{
		BaseAmount:     base,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		CGST:           decimal.Zero,
		SGST:           decimal.Zero,
		IGST:           decimal.Zero,
	}

	if jurisdiction.IsIntrastate() {
		// The combined rate is legally divided equally between the two
		// intrastate tax heads.
		half := taxable.Mul(item.TaxRatePercent).Div(twoHundred)
		result.CGST = half
		result.SGST = half
	} else {
		result.IGST = taxable.Mul(item.TaxRatePercent).Div(oneHundred)
	}

	result.LineTotal = result.TaxableAmount.
		Add(result.CGST).
		Add(result.SGST).
		Add(result.IGST)

	return result, nil
}

// ComputeTotals maps every item through ComputeLine and reduces the results.
// Components are summed independently rather than re-derived from line totals
// so rounding error cannot compound. The document discount is subtracted once,
// after aggregation.
//
// Fails with an INVALID_DOCUMENT error when the item list is empty or the
// resulting grand total would be negative; line failures are reported with
// their zero-based line index.
func ComputeTotals(items []LineItem, jurisdiction Jurisdiction, documentDiscount decimal.Decimal) (DocumentTotals, error) {
	if len(items) == 0 {
		return DocumentTotals{}, shared.NewDomainError(shared.ErrCodeInvalidDocument,
			"document must have at least one line item")
	}
	if documentDiscount.IsNegative() {
		return DocumentTotals{}, shared.NewDomainErrorf(shared.ErrCodeInvalidDocument,
			"document discount cannot be negative, got %s", documentDiscount)
	}

	totals := DocumentTotals{
		TaxableValue:     decimal.Zero,
		TotalCGST:        decimal.Zero,
		TotalSGST:        decimal.Zero,
		TotalIGST:        decimal.Zero,
		DocumentDiscount: documentDiscount,
	}

	for i, item := range items {
		line, err := ComputeLine(item, jurisdiction)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				return DocumentTotals{}, shared.NewDomainErrorf(domainErr.Code,
					"line %d: %s", i, domainErr.Message)
			}
			return DocumentTotals{}, err
		}
		totals.TaxableValue = totals.TaxableValue.Add(line.TaxableAmount)
		totals.TotalCGST = totals.TotalCGST.Add(line.CGST)
		totals.TotalSGST = totals.TotalSGST.Add(line.SGST)
		totals.TotalIGST = totals.TotalIGST.Add(line.IGST)
	}

	subtotal := totals.TaxableValue.
		Add(totals.TotalCGST).
		Add(totals.TotalSGST).
		Add(totals.TotalIGST)

	totals.GrandTotal = subtotal.Sub(documentDiscount)
	if totals.GrandTotal.IsNegative() {
		return DocumentTotals{}, shared.NewDomainErrorf(shared.ErrCodeInvalidDocument,
			"document discount %s exceeds subtotal %s", documentDiscount, subtotal)
	}

	return totals, nil
}
