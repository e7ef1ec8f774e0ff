package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidAPIKey() *AppError {
	return New("SEC_001", "Invalid or missing API key", http.StatusUnauthorized)
}

func ErrNotOwner() *AppError {
	return New("SEC_002", "Account belongs to a different API key", http.StatusForbidden)
}

// ---- Validation (VAL) ----

func ErrInvalidAmount() *AppError {
	return New("VAL_001", "amount must be positive", http.StatusBadRequest)
}

func ErrCurrencyMismatch() *AppError {
	return New("VAL_002", "currency mismatch", http.StatusBadRequest)
}

func ErrUnknownCurrency(currency string) *AppError {
	return New("VAL_003", fmt.Sprintf("unknown currency: %s", currency), http.StatusBadRequest)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

// ---- Transaction Business Logic (TXN) ----

func ErrInsufficientFunds() *AppError {
	return New("TXN_001", "Insufficient funds in source account", http.StatusPaymentRequired)
}

// ErrProcessingFailure reports an atomic commit that could not complete.
// The caller may retry once it has confirmed the prior attempt did not commit.
func ErrProcessingFailure(err error) *AppError {
	return Wrap("TXN_002", "Transaction could not be committed", http.StatusInternalServerError, err)
}

// ---- Missing Resources (ACC) ----

func ErrNotFound(entity string) *AppError {
	return New("ACC_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
