package models

import "time"

// DialogueSession holds the slot-filling state of one conversation.
type DialogueSession struct {
	SessionID     string               `json:"sessionId"`
	ActiveService *ServiceType         `json:"activeService,omitempty"`
	Collected     map[FieldName]string `json:"collected"`
	TurnCount     int                  `json:"turnCount"`
	Language      Language             `json:"language"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// NewDialogueSession returns an idle session.
func NewDialogueSession(sessionID string, lang Language) *DialogueSession {
	now := time.Now()
	return &DialogueSession{
		SessionID: sessionID,
		Collected: make(map[FieldName]string),
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsIdle reports whether no service is active.
func (s *DialogueSession) IsIdle() bool {
	return s.ActiveService == nil
}

// ExtractionResult is what the NLU layer pulled out of a single utterance.
type ExtractionResult struct {
	Intent      Intent               `json:"intent"`
	ServiceHint *ServiceType         `json:"serviceHint,omitempty"`
	Fields      map[FieldName]string `json:"fields"`
}

// BookingRecord is emitted once per completed session.
type BookingRecord struct {
	ServiceType ServiceType          `json:"serviceType"`
	Data        map[FieldName]string `json:"data"`
	Language    Language             `json:"language"`
}

// DialogueTurnResult is returned to the client for every utterance.
type DialogueTurnResult struct {
	ResponseText  string         `json:"responseText"`
	BookingRecord *BookingRecord `json:"bookingRecord,omitempty"`
	SessionState  SessionState   `json:"sessionState"`
}

// StatusSnapshot is a read-only view of a session for progress display.
type StatusSnapshot struct {
	SessionID string               `json:"sessionId"`
	Service   *ServiceType         `json:"service,omitempty"`
	Collected map[FieldName]string `json:"collected"`
	State     SessionState         `json:"state"`
	NextField *FieldName           `json:"nextField,omitempty"`
	TurnCount int                  `json:"turnCount"`
	// Step and TotalSteps drive the progress bar: fields collected out of fields required.
	Step       int `json:"step"`
	TotalSteps int `json:"totalSteps"`
}
