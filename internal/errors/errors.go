// Package errors provides custom error types for the Tidbok API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Customer and article errors.
var (
	ErrCustomerNotFound     = &AppError{Code: "CUSTOMER_NOT_FOUND", Message: "Customer not found", StatusCode: http.StatusNotFound}
	ErrArticleNotFound      = &AppError{Code: "ARTICLE_NOT_FOUND", Message: "Article not found", StatusCode: http.StatusNotFound}
	ErrArticleGroupNotFound = &AppError{Code: "ARTICLE_GROUP_NOT_FOUND", Message: "Article group not found", StatusCode: http.StatusNotFound}
)

// Employee errors.
var (
	ErrEmployeeNotFound    = &AppError{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found", StatusCode: http.StatusNotFound}
	ErrCostHistoryNotFound = &AppError{Code: "COST_HISTORY_NOT_FOUND", Message: "Cost history record not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetEntryNotFound = &AppError{Code: "BUDGET_ENTRY_NOT_FOUND", Message: "Budget entry not found", StatusCode: http.StatusNotFound}
	ErrBudgetNotDraft      = &AppError{Code: "BUDGET_NOT_DRAFT", Message: "Only draft budget entries can be edited", StatusCode: http.StatusConflict}
	ErrNothingToPublish    = &AppError{Code: "NOTHING_TO_PUBLISH", Message: "No draft budget entries found for the target month", StatusCode: http.StatusConflict}
	ErrInvalidPeriod       = &AppError{Code: "INVALID_PERIOD", Message: "Invalid year/month period", StatusCode: http.StatusBadRequest}
)

// Pricing errors.
var (
	ErrPricingRuleNotFound = &AppError{Code: "PRICING_RULE_NOT_FOUND", Message: "Pricing rule not found", StatusCode: http.StatusNotFound}
	ErrInvalidScopeTarget  = &AppError{Code: "INVALID_SCOPE_TARGET", Message: "Rule scope does not match the provided target ids", StatusCode: http.StatusBadRequest}
)

// Time entry errors.
var (
	ErrTimeEntryNotFound = &AppError{Code: "TIME_ENTRY_NOT_FOUND", Message: "Time entry not found", StatusCode: http.StatusNotFound}
	ErrInvalidHours      = &AppError{Code: "INVALID_HOURS", Message: "Hours must be greater than 0 and at most 24", StatusCode: http.StatusBadRequest}
)
