package models

// FieldError describes a single rejected field of a submission
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// SendResponse is returned when every notification was accepted by the provider
type SendResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *NotificationResult `json:"data,omitempty"`
}

// ErrorResponse is returned for validation, rate limit and delivery failures
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorResponse creates a failure envelope; details are omitted when nil
func NewErrorResponse(message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	}
}
