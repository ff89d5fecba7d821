package dialogue

import (
	"strings"

	"ecitizen/models"
	"ecitizen/services/catalog"
)

// SlotFiller implements the slot-filling operations on a DialogueSession.
// It holds no per-session state, so one instance serves every session.
type SlotFiller struct {
	catalog *catalog.Catalog
}

func NewSlotFiller(c *catalog.Catalog) *SlotFiller {
	return &SlotFiller{catalog: c}
}

// StartService makes st the active service and wipes anything collected so far.
func (f *SlotFiller) StartService(s *models.DialogueSession, st models.ServiceType) error {
	if _, ok := f.catalog.Get(st); !ok {
		return &InvalidServiceError{Service: st}
	}
	active := st
	s.ActiveService = &active
	s.Collected = make(map[models.FieldName]string)
	s.TurnCount = 0
	return nil
}

// Merge copies required, non-empty fields that have not been collected yet and
// returns the ones it wrote, in prompting order. Collected values are never overwritten.
func (f *SlotFiller) Merge(s *models.DialogueSession, fields map[models.FieldName]string) []models.FieldName {
	def, ok := f.Definition(s)
	if !ok || len(fields) == 0 {
		return nil
	}
	if s.Collected == nil {
		s.Collected = make(map[models.FieldName]string)
	}

	var written []models.FieldName
	for _, name := range def.RequiredFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, taken := s.Collected[name]; taken {
			continue
		}
		s.Collected[name] = v
		written = append(written, name)
	}
	return written
}

// NextMissing returns the first required field not yet collected.
// ok is false when the session is idle or complete.
func (f *SlotFiller) NextMissing(s *models.DialogueSession) (models.FieldName, bool) {
	def, ok := f.Definition(s)
	if !ok {
		return "", false
	}
	for _, name := range def.RequiredFields {
		if _, done := s.Collected[name]; !done {
			return name, true
		}
	}
	return "", false
}

// Cancel returns the session to idle. Safe to call on an idle session.
func (f *SlotFiller) Cancel(s *models.DialogueSession) {
	s.ActiveService = nil
	s.Collected = make(map[models.FieldName]string)
	s.TurnCount = 0
}

// Definition returns the definition of the active service.
func (f *SlotFiller) Definition(s *models.DialogueSession) (catalog.ServiceDefinition, bool) {
	if s.ActiveService == nil {
		return catalog.ServiceDefinition{}, false
	}
	return f.catalog.Get(*s.ActiveService)
}

// State derives the reported session state.
func (f *SlotFiller) State(s *models.DialogueSession) models.SessionState {
	if s.IsIdle() {
		return models.StateIdle
	}
	if _, missing := f.NextMissing(s); missing {
		return models.StateCollecting
	}
	return models.StateComplete
}
