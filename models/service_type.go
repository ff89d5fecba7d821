// models/service_type.go
package models

import "strings"

// ServiceType identifies a government service the assistant can book.
type ServiceType string

const (
	ServicePassport       ServiceType = "passport"
	ServiceNationalID     ServiceType = "national_id"
	ServiceDrivingLicense ServiceType = "driving_license"
	ServiceGoodConduct    ServiceType = "good_conduct"
)

// ServicePrecedence is the fixed order used to break ties between services.
var ServicePrecedence = []ServiceType{
	ServicePassport,
	ServiceNationalID,
	ServiceDrivingLicense,
	ServiceGoodConduct,
}

// ParseServiceType returns the service for a wire value such as "good_conduct".
func ParseServiceType(s string) (ServiceType, bool) {
	st := ServiceType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ServicePrecedence {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// FieldName is a piece of personal data collected during a booking.
type FieldName string

const (
	FieldFirstName   FieldName = "first_name"
	FieldLastName    FieldName = "last_name"
	FieldIDNumber    FieldName = "id_number"
	FieldPhone       FieldName = "phone"
	FieldEmail       FieldName = "email"
	FieldDateOfBirth FieldName = "date_of_birth"
)

// AllFields lists every field in canonical order.
var AllFields = []FieldName{
	FieldFirstName,
	FieldLastName,
	FieldIDNumber,
	FieldPhone,
	FieldEmail,
	FieldDateOfBirth,
}

// Language is a conversation language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSwahili Language = "sw"
)

// ParseLanguage accepts "en", "sw" and regional tags like "en-KE" or "sw_KE".
// Anything else resolves to fallback.
func ParseLanguage(s string, fallback Language) Language {
	tag := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	switch Language(tag) {
	case LanguageEnglish:
		return LanguageEnglish
	case LanguageSwahili:
		return LanguageSwahili
	}
	return fallback
}

// Intent is the caller's coarse goal for an utterance.
type Intent string

const (
	IntentStartBooking    Intent = "start_booking"
	IntentCheckStatus     Intent = "check_status"
	IntentAskRequirements Intent = "ask_requirements"
	IntentNone            Intent = "none"
)

// SessionState is the orchestrator state reported to clients.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateCollecting SessionState = "collecting"
	StateComplete   SessionState = "complete"
)
