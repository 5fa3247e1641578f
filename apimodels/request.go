package apimodels

type ChatRequest struct {
	// Question is the user's message
	Question string `json:"question"`

	// SessionID continues an existing conversation; a new one is started
	// when empty
	SessionID string `json:"session_id,omitempty"`
}
