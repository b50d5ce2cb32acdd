package model

type APIResponse struct {
	Success bool            `json:"success"`
	Data    any             `json:"data,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
	Meta    *PaginationMeta `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// BackendError is the error body the e-commerce backend returns, after key
// casing. Either Errors (model validation) or ListError (business rules) is
// usually set.
type BackendError struct {
	Type      string              `json:"type,omitempty"`
	Title     string              `json:"title,omitempty"`
	Status    int                 `json:"status,omitempty"`
	TraceID   string              `json:"traceId,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	MsgNo     string              `json:"msgNo,omitempty"`
	ListError map[string]string   `json:"listError,omitempty"`
}
