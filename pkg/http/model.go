package http

// APIResponse is the envelope of every JSON body. Status mirrors the HTTP status.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one rejected request parameter. Field is the query or path name.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_LTE"`
	Field   string                 `json:"field,omitempty" example:"horizon"`
	Message string                 `json:"message,omitempty" example:"horizon must be at most 365"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
