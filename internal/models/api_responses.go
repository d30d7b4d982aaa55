package models

// Error type discriminators for the JSON API envelope.
const (
	ErrorTypeValidation     = "validation_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypeServer         = "server_error"
)

// Error codes surfaced by the signup API.
const (
	CodeRequired           = "required"
	CodePasswordTooShort   = "password_too_short"
	CodeInvalidInput       = "invalid_input"
	CodeInvalidRecipient   = "invalid_recipient"
	CodeExpired            = "expired"
	CodeUnique             = "unique"
	CodePermissionDenied   = "permission_denied"
	CodeNotAuthenticated   = "not_authenticated"
	CodeInvalidCredentials = "invalid_credentials"
	CodeServerError        = "error"
)

// APIError is the structured error envelope returned by the JSON API:
// {"type": ..., "code": ..., "detail": ..., "attr": ...}. Attr names the
// offending request field and is null for request-level errors.
type APIError struct {
	Type   string  `json:"type"`
	Code   string  `json:"code"`
	Detail string  `json:"detail"`
	Attr   *string `json:"attr"`
}

// ValidationError builds a 400-style envelope. attr may be empty for
// request-level errors.
func ValidationError(code, detail, attr string) APIError {
	e := APIError{Type: ErrorTypeValidation, Code: code, Detail: detail}
	if attr != "" {
		e.Attr = &attr
	}
	return e
}

// AuthenticationError builds a 401/403-style envelope.
func AuthenticationError(code, detail string) APIError {
	return APIError{Type: ErrorTypeAuthentication, Code: code, Detail: detail}
}
