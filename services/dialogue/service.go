package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecitizen/models"
	"ecitizen/services/submission"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DialogueService is the session-addressed entry point used by the HTTP layer.
type DialogueService interface {
	CreateSession(ctx context.Context, lang models.Language) (*models.SessionCreateResponse, error)
	HandleUtterance(ctx context.Context, sessionID, utterance string, lang models.Language) (*models.DialogueTurnResult, error)
	GetStatus(ctx context.Context, sessionID string) (*models.StatusSnapshot, error)
	Cancel(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string) error
}

// DefaultDialogueService implements DialogueService on top of a SessionStore.
// Turns on the same session id run one at a time; different sessions never block each other.
type DefaultDialogueService struct {
	Store        SessionStore
	Orchestrator *Orchestrator
	Submitter    submission.Submitter
	DefaultLang  models.Language
	Logger       *zap.Logger

	locks *sessionLocks
	now   func() time.Time
}

func NewDialogueService(store SessionStore, orchestrator *Orchestrator, submitter submission.Submitter, defaultLang models.Language, logger *zap.Logger) *DefaultDialogueService {
	return &DefaultDialogueService{
		Store:        store,
		Orchestrator: orchestrator,
		Submitter:    submitter,
		DefaultLang:  defaultLang,
		Logger:       logger,
		locks:        newSessionLocks(),
		now:          time.Now,
	}
}

// CreateSession stores a new idle session and returns its greeting.
func (s *DefaultDialogueService) CreateSession(ctx context.Context, lang models.Language) (*models.SessionCreateResponse, error) {
	lang = s.language(lang)
	session := models.NewDialogueSession(uuid.NewString(), lang)
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.Logger.Info("Dialogue session created",
		zap.String("sessionId", session.SessionID),
		zap.String("language", string(lang)),
	)
	return &models.SessionCreateResponse{
		SessionID: session.SessionID,
		Language:  lang,
		Greeting:  Greeting(s.now(), lang),
	}, nil
}

// HandleUtterance runs one turn. Unknown session ids get a fresh session.
// A non-empty lang switches the session language from this turn on.
func (s *DefaultDialogueService) HandleUtterance(ctx context.Context, sessionID, utterance string, lang models.Language) (*models.DialogueTurnResult, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.load(ctx, sessionID, lang)
	if err != nil {
		return nil, err
	}
	if lang != "" {
		session.Language = lang
	}

	result := s.Orchestrator.HandleUtterance(session, utterance)
	session.UpdatedAt = s.now()

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	if result.BookingRecord != nil && s.Submitter != nil {
		if err := s.Submitter.Submit(ctx, sessionID, *result.BookingRecord); err != nil {
			s.Logger.Error("Failed to hand off completed booking",
				zap.String("sessionId", sessionID),
				zap.String("service", string(result.BookingRecord.ServiceType)),
				zap.Error(err),
			)
		}
	}
	return &result, nil
}

// GetStatus returns a read-only snapshot. Unknown ids report an idle session.
func (s *DefaultDialogueService) GetStatus(ctx context.Context, sessionID string) (*models.StatusSnapshot, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.Store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		session = models.NewDialogueSession(sessionID, s.DefaultLang)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	slots := s.Orchestrator.Slots()
	snapshot := &models.StatusSnapshot{
		SessionID: sessionID,
		Collected: make(map[models.FieldName]string, len(session.Collected)),
		State:     slots.State(session),
		TurnCount: session.TurnCount,
	}
	for k, v := range session.Collected {
		snapshot.Collected[k] = v
	}
	if def, ok := slots.Definition(session); ok {
		st := def.Type
		snapshot.Service = &st
		snapshot.Step = len(session.Collected)
		snapshot.TotalSteps = len(def.RequiredFields)
	}
	if next, ok := slots.NextMissing(session); ok {
		snapshot.NextField = &next
	}
	return snapshot, nil
}

// Cancel clears any booking in progress. Cancelling an unknown or idle session is a no-op.
func (s *DefaultDialogueService) Cancel(ctx context.Context, sessionID string) error {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	session, err := s.Store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session.IsIdle() {
		return nil
	}

	s.Orchestrator.Slots().Cancel(session)
	session.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	s.Logger.Info("Dialogue session cancelled", zap.String("sessionId", sessionID))
	return nil
}

// EndSession deletes the session outright, unlike Cancel which keeps the id.
// It returns ErrSessionNotFound for unknown ids.
func (s *DefaultDialogueService) EndSession(ctx context.Context, sessionID string) error {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.Store.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	s.Logger.Info("Dialogue session ended", zap.String("sessionId", sessionID))
	return nil
}

// lock serializes turns on sessionID within this process and, when the store
// is shared, across every instance using it.
func (s *DefaultDialogueService) lock(ctx context.Context, sessionID string) (func(), error) {
	unlockLocal := s.locks.Lock(sessionID)
	locker, ok := s.Store.(SessionLocker)
	if !ok {
		return unlockLocal, nil
	}
	unlockShared, err := locker.Lock(ctx, sessionID)
	if err != nil {
		unlockLocal()
		return nil, err
	}
	return func() {
		unlockShared()
		unlockLocal()
	}, nil
}

func (s *DefaultDialogueService) load(ctx context.Context, sessionID string, lang models.Language) (*models.DialogueSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return models.NewDialogueSession(sessionID, s.language(lang)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return session, nil
}

func (s *DefaultDialogueService) language(lang models.Language) models.Language {
	if lang != "" {
		return lang
	}
	if s.DefaultLang != "" {
		return s.DefaultLang
	}
	return models.LanguageEnglish
}
