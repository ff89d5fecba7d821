package models

import "time"

// SubmissionPayload is the body of a booking:submit task.
type SubmissionPayload struct {
	SessionID   string        `json:"sessionId"`
	Record      BookingRecord `json:"record"`
	CompletedAt time.Time     `json:"completedAt"`
}

// PortalHandoff is what the portal-opening helper needs to finish a booking on eCitizen.
type PortalHandoff struct {
	SessionID   string               `json:"sessionId"`
	ServiceType ServiceType          `json:"serviceType"`
	ServiceName string               `json:"serviceName"`
	Department  string               `json:"department"`
	PortalURL   string               `json:"portalUrl"`
	Data        map[FieldName]string `json:"data"`
	Language    Language             `json:"language"`
}
