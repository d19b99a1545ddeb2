package errors

import (
	"net/http"

	"tokenpath/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Is reports whether target is the same business error, so detail-enriched
// copies still match their sentinel through errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.errorCode == e.errorCode
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Credential validation errors. Always 400, never retried.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"輸入資料驗證失敗",
		"",
	)

	ErrMissingCredential = NewBaseError(
		http.StatusBadRequest,
		"MISSING_CREDENTIAL",
		"缺少認證資料",
		"",
	)

	// Signature errors. 400, never retried, logged as security-relevant events.
	ErrSignatureMismatch = NewBaseError(
		http.StatusBadRequest,
		"SIGNATURE_MISMATCH",
		"簽章驗證失敗，認證資料可能已被竄改",
		"",
	)

	ErrSignatureExpired = NewBaseError(
		http.StatusBadRequest,
		"SIGNATURE_EXPIRED",
		"認證資料已過期",
		"",
	)

	// Provider errors. Surfaced before any network call.
	ErrUnsupportedProvider = NewBaseError(
		http.StatusBadRequest,
		"UNSUPPORTED_PROVIDER",
		"不支援的認證提供者",
		"",
	)

	ErrProviderUnavailable = NewBaseError(
		http.StatusBadRequest,
		"PROVIDER_UNAVAILABLE",
		"認證提供者未設定或未初始化",
		"",
	)

	ErrProviderInitFailed = NewBaseError(
		http.StatusInternalServerError,
		"PROVIDER_INIT_FAILED",
		"認證提供者初始化失敗",
		"",
	)

	// Account and session errors.
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"找不到該使用者",
		"",
	)

	ErrAccountCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"ACCOUNT_CREATION_FAILED",
		"建立使用者失敗",
		"",
	)

	ErrSessionInvalid = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_INVALID",
		"無效或已過期的登入狀態",
		"",
	)

	ErrSessionIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		"SESSION_ISSUE_FAILED",
		"建立登入狀態失敗",
		"",
	)

	// Wallet errors. Provisioning failures are non-fatal by design.
	ErrWalletExists = NewBaseError(
		http.StatusBadRequest,
		"WALLET_EXISTS",
		"使用者已擁有錢包",
		"",
	)

	ErrWalletNotFound = NewBaseError(
		http.StatusNotFound,
		"WALLET_NOT_FOUND",
		"找不到錢包紀錄",
		"",
	)

	ErrWalletProvisioning = NewBaseError(
		http.StatusInternalServerError,
		"WALLET_PROVISIONING_FAILED",
		"建立錢包失敗",
		"",
	)

	// General errors.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系統內部錯誤",
		"",
	)
)

// UpstreamAuthError wraps a rejection from the external record store,
// preserving the store's own status code, implementing the AppError interface.
type UpstreamAuthError struct {
	err      error
	httpCode int
	details  string
}

// NewUpstreamAuthError creates an error mapped to the record store's status code.
// Statuses outside the HTTP error range fall back to 502.
func NewUpstreamAuthError(err error, httpCode int, details string) AppError {
	if httpCode < http.StatusBadRequest {
		httpCode = http.StatusBadGateway
	}

	return &UpstreamAuthError{
		err:      err,
		httpCode: httpCode,
		details:  details,
	}
}

// Error implements the error interface
func (e *UpstreamAuthError) Error() string {
	return errors.Wrap(e.err, "record store rejected the request").Error()
}

// HTTPCode returns the HTTP status code
func (e *UpstreamAuthError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *UpstreamAuthError) ErrorCode() string {
	return "UPSTREAM_AUTH_FAILED"
}

// Message returns the user-friendly error message
func (e *UpstreamAuthError) Message() string {
	return "後端認證服務拒絕此請求"
}

// Details returns detailed error information
func (e *UpstreamAuthError) Details() string {
	return e.details
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *UpstreamAuthError) Unwrap() error {
	return e.err
}
