package httptransport

// ErrorResponse is the wire shape for every non-2xx reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
