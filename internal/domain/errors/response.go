package errors

// Response is the unified envelope the error middleware writes for failures.
// It mirrors the success envelope in delivery/http/response.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "SIGNATURE_MISMATCH"
	Details string `json:"details,omitempty"` // Detailed error description (optional)
}
