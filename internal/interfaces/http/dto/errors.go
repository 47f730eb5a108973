package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeValidation  = "VALIDATION_ERROR"
)

// Auth error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "INVALID_TOKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountInactive    = "ACCOUNT_INACTIVE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Ledger error codes raised by the fee and payment domains
const (
	ErrCodeDuplicateFee          = "DUPLICATE_FEE"
	ErrCodeFeeNotPayable         = "FEE_NOT_PAYABLE"
	ErrCodeInstallmentNotAllowed = "INSTALLMENT_NOT_ALLOWED"
	ErrCodeTermSchoolMismatch    = "TERM_SCHOOL_MISMATCH"
	ErrCodeInvalidState          = "INVALID_STATE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountInactive:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeDuplicateFee:          http.StatusConflict,
	ErrCodeFeeNotPayable:         http.StatusUnprocessableEntity,
	ErrCodeInstallmentNotAllowed: http.StatusUnprocessableEntity,
	ErrCodeTermSchoolMismatch:    http.StatusUnprocessableEntity,
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
//
// Unmapped codes fall back on their prefix: INVALID_* codes come from
// input validation in domain constructors (400), ALREADY_* codes from
// state transitions that were already made (409). Anything else is an
// internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasPrefix(code, "ALREADY_") {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
