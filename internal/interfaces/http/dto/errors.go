package dto

import (
	"net/http"

	"github.com/gstbooks/backend/internal/domain/shared"
)

// General error codes surfaced by the HTTP layer itself
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures are 400s; business-rule rejections on an otherwise
// well-formed request are 422s.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INVALID_INPUT":        http.StatusBadRequest,

	shared.ErrCodeInvalidLineItem:    http.StatusBadRequest,
	shared.ErrCodeInvalidDocument:    http.StatusBadRequest,
	shared.ErrCodeQuantityOutOfRange: http.StatusBadRequest,
	shared.ErrCodeFieldTooLong:       http.StatusBadRequest,
	shared.ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,

	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":   http.StatusBadRequest,
	"INVALID_SKU":            http.StatusBadRequest,
	"INVALID_UNIT":           http.StatusBadRequest,
	"INVALID_PARTY":          http.StatusBadRequest,
	"INVALID_PARTY_NAME":     http.StatusBadRequest,
	"INVALID_GSTIN":          http.StatusBadRequest,
	"INVALID_STATE_CODE":     http.StatusBadRequest,
	"INVALID_INVOICE_NUMBER": http.StatusBadRequest,
	"INVALID_BILL_NUMBER":    http.StatusBadRequest,
	"INVALID_CATEGORY":       http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_RANGE":          http.StatusBadRequest,
	"INVALID_RATE":           http.StatusBadRequest,
	"INVALID_TAX_RATE":       http.StatusBadRequest,
	"INVALID_HSN":            http.StatusBadRequest,
	"INVALID_THRESHOLD":      http.StatusBadRequest,
	"INVALID_DIRECTION":      http.StatusBadRequest,
	"INVALID_PARTY_KIND":     http.StatusBadRequest,
	"INVALID_REASON":         http.StatusBadRequest,
	"ITEM_NOT_FOUND":         http.StatusNotFound,
	"INACTIVE_PRODUCT":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code, defaulting
// to 422 so unknown business rejections never masquerade as server faults.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
