package gst

import (
	"github.com/gstbooks/backend/internal/domain/shared"
)

// Jurisdiction describes a document's place of supply relative to the
// supplier. When both state codes match the transaction is intrastate and the
// nominal tax rate is split equally between CGST and SGST; otherwise the full
// rate applies as IGST.
type Jurisdiction struct {
	SupplierStateCode      string
	PlaceOfSupplyStateCode string
}

// NewJurisdiction creates a validated Jurisdiction
func NewJurisdiction(supplierState, placeOfSupply string) (Jurisdiction, error) {
	j := Jurisdiction{
		SupplierStateCode:      supplierState,
		PlaceOfSupplyStateCode: placeOfSupply,
	}
	if err := j.Validate(); err != nil {
		return Jurisdiction{}, err
	}
	return j, nil
}

// Validate checks that both state codes are present
func (j Jurisdiction) Validate() error {
	if j.SupplierStateCode == "" {
		return shared.NewDomainError(shared.ErrCodeInvalidDocument, "supplier state code is required")
	}
	if j.PlaceOfSupplyStateCode == "" {
		return shared.NewDomainError(shared.ErrCodeInvalidDocument, "place of supply state code is required")
	}
	return nil
}

// IsIntrastate reports whether supply happens within the supplier's state
func (j Jurisdiction) IsIntrastate() bool {
	return j.SupplierStateCode == j.PlaceOfSupplyStateCode
}
