package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty defaults to DESC", "", "DESC"},
		{"asc lowercase", "asc", "ASC"},
		{"ASC uppercase", "ASC", "ASC"},
		{"desc lowercase", "desc", "DESC"},
		{"injection attempt falls back to DESC", "ASC; DROP TABLE products", "DESC"},
		{"garbage falls back to DESC", "sideways", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allows whitelisted field", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name", ProductSortFields, "created_at"))
	})

	t.Run("empty field uses default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
	})

	t.Run("unknown field uses default", func(t *testing.T) {
		assert.Equal(t, "invoice_date", ValidateSortField("grand_total); --", InvoiceSortFields, "invoice_date"))
	})

	t.Run("field from another whitelist is rejected", func(t *testing.T) {
		assert.Equal(t, "expense_date", ValidateSortField("sku", ExpenseSortFields, "expense_date"))
	})
}
