package models

// UtteranceRequest is the payload coming from the frontend into /api/voice/text.
type UtteranceRequest struct {
	SessionID string `json:"session_id" binding:"required"` // caller-supplied session identifier
	Text      string `json:"text" binding:"required"`       // transcript (voice→text) or typed input
	Language  string `json:"language"`                      // "en", "sw", "en-KE", ...
}

// SessionCreateRequest opens a conversation.
type SessionCreateRequest struct {
	Language string `json:"language"`
}

// SessionCreateResponse carries the new session id and the spoken greeting.
type SessionCreateResponse struct {
	SessionID string   `json:"session_id"`
	Language  Language `json:"language"`
	Greeting  string   `json:"greeting"`
}

// ServiceInfo is the public, localized view of a catalog entry.
type ServiceInfo struct {
	Type           ServiceType `json:"type"`
	Name           string      `json:"name"`
	Department     string      `json:"department"`
	Requirements   []string    `json:"requirements"`
	RequiredFields []FieldName `json:"requiredFields"`
	PortalURL      string      `json:"portalUrl"`
}

// UtteranceResponse is returned from /api/voice/text.
type UtteranceResponse struct {
	SessionID string `json:"session_id"`
	DialogueTurnResult
}
