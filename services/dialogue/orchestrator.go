package dialogue

import (
	"errors"
	"strings"

	"ecitizen/models"
	"ecitizen/services/catalog"
	"ecitizen/services/nlu"

	"go.uber.org/zap"
)

// Orchestrator runs one conversational turn against an explicit session.
// It keeps no per-session state; callers own the session and must not run two
// turns on the same session concurrently.
type Orchestrator struct {
	catalog    *catalog.Catalog
	extractor  *nlu.Extractor
	classifier *nlu.Classifier
	slots      *SlotFiller
	logger     *zap.Logger
}

func NewOrchestrator(c *catalog.Catalog, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		catalog:    c,
		extractor:  nlu.NewExtractor(),
		classifier: nlu.NewClassifier(),
		slots:      NewSlotFiller(c),
		logger:     logger,
	}
}

// Slots exposes the slot filler used by this orchestrator.
func (o *Orchestrator) Slots() *SlotFiller {
	return o.slots
}

// HandleUtterance classifies and extracts, updates the session and returns the reply.
// It never fails: anything it cannot use turns into a clarifying prompt.
func (o *Orchestrator) HandleUtterance(s *models.DialogueSession, utterance string) models.DialogueTurnResult {
	lang := s.Language
	extraction := o.extractor.ExtractDetailed(utterance)
	cls := o.classifier.Classify(utterance, lang)
	o.warnAmbiguous(s.SessionID, extraction)

	o.logger.Debug("Dialogue turn classified",
		zap.String("sessionId", s.SessionID),
		zap.String("intent", string(cls.Intent)),
		zap.Bool("serviceHint", cls.ServiceHint != nil),
		zap.Int("fieldsExtracted", len(extraction.Fields)),
	)

	if o.classifier.IsCancel(extraction.Masked(), lang) {
		o.slots.Cancel(s)
		return o.reply(s, render(msgCancelled, lang))
	}

	if s.IsIdle() {
		return o.handleIdle(s, utterance, cls, extraction.Fields)
	}
	return o.collect(s, utterance, extraction.Fields, false)
}

func (o *Orchestrator) handleIdle(s *models.DialogueSession, utterance string, cls nlu.Classification, fields map[models.FieldName]string) models.DialogueTurnResult {
	lang := s.Language
	services := joinList(o.catalog.Names(lang), lang)

	switch {
	case cls.ServiceHint != nil && cls.Intent == models.IntentAskRequirements:
		def, ok := o.catalog.Get(*cls.ServiceHint)
		if !ok {
			return o.reply(s, render(msgClarify, lang, services))
		}
		return o.reply(s, render(msgRequirements, lang, def.Name(lang), joinList(def.RequirementsFor(lang), lang)))

	case cls.ServiceHint != nil && cls.Intent != models.IntentNone:
		if err := o.slots.StartService(s, *cls.ServiceHint); err != nil {
			var invalid *InvalidServiceError
			if errors.As(err, &invalid) {
				o.logger.Warn("Service hint not in catalog",
					zap.String("sessionId", s.SessionID),
					zap.String("service", string(invalid.Service)),
				)
			}
			return o.reply(s, render(msgClarify, lang, services))
		}
		o.logger.Info("Booking started",
			zap.String("sessionId", s.SessionID),
			zap.String("service", string(*s.ActiveService)),
		)
		return o.collect(s, utterance, fields, true)

	case cls.Intent == models.IntentStartBooking:
		return o.reply(s, render(msgWhichService, lang, services))

	case cls.Intent == models.IntentAskRequirements:
		return o.reply(s, render(msgRequirementsWhich, lang, services))

	case cls.Intent == models.IntentCheckStatus:
		return o.reply(s, render(msgNoBooking, lang, services))

	case cls.ServiceHint != nil:
		def, ok := o.catalog.Get(*cls.ServiceHint)
		if !ok {
			return o.reply(s, render(msgClarify, lang, services))
		}
		return o.reply(s, render(msgOfferService, lang, def.Name(lang)))
	}
	return o.reply(s, render(msgClarify, lang, services))
}

// collect merges the turn into an active session and asks for the next field,
// or completes the booking when nothing is missing.
func (o *Orchestrator) collect(s *models.DialogueSession, utterance string, fields map[models.FieldName]string, started bool) models.DialogueTurnResult {
	lang := s.Language
	def, ok := o.slots.Definition(s)
	if !ok {
		// Active service no longer offered.
		o.slots.Cancel(s)
		return o.reply(s, render(msgClarify, lang, joinList(o.catalog.Names(lang), lang)))
	}

	written := o.slots.Merge(s, fields)
	if expected, missing := o.slots.NextMissing(s); missing && !o.classifier.MentionsKeyword(utterance, lang) {
		written = append(written, o.slots.Merge(s, o.extractor.AnswerFor(utterance, expected))...)
	}
	s.TurnCount++

	next, missing := o.slots.NextMissing(s)
	if !missing {
		return o.complete(s, def)
	}

	var parts []string
	switch {
	case started:
		parts = append(parts, render(msgStarted, lang, def.Name(lang)))
	case len(written) == 0:
		parts = append(parts, render(msgNotCaught, lang))
	}
	if ack := o.acknowledge(s, def); ack != "" {
		parts = append(parts, render(msgCollectedSoFar, lang, ack))
	}
	parts = append(parts, fieldPrompt(next, lang))

	return models.DialogueTurnResult{
		ResponseText: strings.Join(parts, " "),
		SessionState: models.StateCollecting,
	}
}

// complete emits the booking record and returns the session to idle.
func (o *Orchestrator) complete(s *models.DialogueSession, def catalog.ServiceDefinition) models.DialogueTurnResult {
	lang := s.Language
	record := &models.BookingRecord{
		ServiceType: def.Type,
		Data:        make(map[models.FieldName]string, len(def.RequiredFields)),
		Language:    lang,
	}
	for _, f := range def.RequiredFields {
		record.Data[f] = s.Collected[f]
	}
	summary := o.acknowledge(s, def)
	o.slots.Cancel(s)

	o.logger.Info("Booking complete",
		zap.String("sessionId", s.SessionID),
		zap.String("service", string(def.Type)),
	)
	return models.DialogueTurnResult{
		ResponseText:  render(msgComplete, lang, def.Name(lang), summary),
		BookingRecord: record,
		SessionState:  models.StateComplete,
	}
}

// acknowledge lists the collected fields in prompting order.
func (o *Orchestrator) acknowledge(s *models.DialogueSession, def catalog.ServiceDefinition) string {
	var items []string
	for _, f := range def.RequiredFields {
		v, ok := s.Collected[f]
		if !ok {
			continue
		}
		items = append(items, fieldLabel(f, s.Language)+" "+spokenValue(f, v))
	}
	return joinList(items, s.Language)
}

// warnAmbiguous logs every pair of fields whose matches share text. Only the
// fields the active service requires are later merged.
func (o *Orchestrator) warnAmbiguous(sessionID string, ex nlu.Extraction) {
	for i, a := range models.AllFields {
		sa, ok := ex.Spans[a]
		if !ok {
			continue
		}
		for _, b := range models.AllFields[i+1:] {
			sb, ok := ex.Spans[b]
			if !ok || !sa.Overlaps(sb) {
				continue
			}
			err := &AmbiguousFieldError{Fields: []models.FieldName{a, b}, Value: ex.Fields[a]}
			o.logger.Warn("Ambiguous field extraction",
				zap.String("sessionId", sessionID),
				zap.Error(err),
			)
		}
	}
}

func (o *Orchestrator) reply(s *models.DialogueSession, text string) models.DialogueTurnResult {
	return models.DialogueTurnResult{
		ResponseText: text,
		SessionState: o.slots.State(s),
	}
}
