package http

// ReportResponse is the success body of the report trigger.
type ReportResponse struct {
	Success  bool   `json:"success" example:"true"`
	ReportID string `json:"reportId" example:"6f1c2a0e-8d3b-4a47-9c55-0c5d0f3f7b11"`
	Message  string `json:"message" example:"Reporte diario generado y publicado."`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error" example:"duplicate key"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"report_date"`
	Message string                 `json:"message,omitempty" example:"report_date is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
