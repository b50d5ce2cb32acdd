package apierror

import "fmt"

// APIError is the error value the console returns to its UI. Payload holds the
// backend's structured error body when one was relayed, so the UI can render
// field-level validation messages.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Payload    any    `json:"payload,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// WithPayload returns a copy of e carrying the relayed backend payload.
func (e *APIError) WithPayload(payload any) *APIError {
	clone := *e
	clone.Payload = payload
	return &clone
}
