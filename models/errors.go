package models

type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
