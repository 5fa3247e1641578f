package apimodels

type ChatResponse struct {
	// Response is the assistant's reply, plain text or an HTML listing
	Response string `json:"response"`

	// SessionID to send with the next question
	SessionID string `json:"session_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
