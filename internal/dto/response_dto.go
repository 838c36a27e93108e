package dto

// ErrorResponse is the body of every non-2xx reply. Code is a stable
// machine-readable outcome such as ALREADY_COMPLETED.
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
