package dto

// ErrorResponse is the single error shape the web client parses; the
// message is surfaced to the user verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
