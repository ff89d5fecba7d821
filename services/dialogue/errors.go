package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"ecitizen/models"
)

// ErrSessionNotFound is returned by stores for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionBusy is returned when another instance holds a session's lock
// for longer than the lock wait.
var ErrSessionBusy = errors.New("session busy")

// InvalidServiceError is returned when a service is not in the catalog.
type InvalidServiceError struct {
	Service models.ServiceType
}

func (e *InvalidServiceError) Error() string {
	return fmt.Sprintf("invalidService: %q is not offered", string(e.Service))
}

// AmbiguousFieldError describes one literal value matched by more than one field rule.
// It is only ever logged.
type AmbiguousFieldError struct {
	Fields []models.FieldName
	Value  string
}

func (e *AmbiguousFieldError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("ambiguousField: %q matched %s", e.Value, strings.Join(names, ", "))
}
