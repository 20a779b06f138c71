package model

// ErrorResponse is the standard envelope for error responses. Every failure
// surfaced to a client carries a single "error" message and nothing else.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges mutations that return no resource body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}
