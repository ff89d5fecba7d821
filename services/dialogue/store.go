package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecitizen/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore persists dialogue sessions between turns.
// Get returns ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.DialogueSession, error)
	Save(ctx context.Context, s *models.DialogueSession) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionLocker is implemented by stores shared between processes. Lock holds
// the session for one turn across every instance using the store.
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

type memoryEntry struct {
	session   *models.DialogueSession
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory with a sliding expiry.
// Sessions are copied on the way in and out.
type MemorySessionStore struct {
	data   map[string]memoryEntry
	mu     sync.RWMutex
	ttl    time.Duration
	log    *zap.Logger
	stopCh chan struct{}
	once   sync.Once
}

// NewMemorySessionStore starts a janitor that drops expired sessions every
// cleanupInterval. A ttl of zero keeps sessions until they are deleted.
func NewMemorySessionStore(ttl, cleanupInterval time.Duration, log *zap.Logger) *MemorySessionStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	s := &MemorySessionStore{
		data:   make(map[string]memoryEntry),
		ttl:    ttl,
		log:    log,
		stopCh: make(chan struct{}),
	}
	go s.cleanupLoop(cleanupInterval)

	log.Info("In-memory session store initialized",
		zap.Duration("ttl", ttl),
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return s
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.DialogueSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[sessionID]
	if !ok || s.expired(entry, time.Now()) {
		return nil, ErrSessionNotFound
	}
	return cloneSession(entry.session), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session *models.DialogueSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{session: cloneSession(session)}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.data[session.SessionID] = entry
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// Len returns the number of stored sessions, expired ones included until the next sweep.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close stops the janitor.
func (s *MemorySessionStore) Close() error {
	s.once.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemorySessionStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && e.expiresAt.Before(now)
}

func (s *MemorySessionStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expired := 0
	for id, entry := range s.data {
		if s.expired(entry, now) {
			delete(s.data, id)
			expired++
		}
	}
	if expired > 0 {
		s.log.Debug("Session cleanup completed", zap.Int("expired_sessions", expired))
	}
}

const (
	sessionKeyPrefix  = "dialogue:session:"
	sessionLockPrefix = "dialogue:lock:"

	defaultLockTTL    = 10 * time.Second
	defaultLockWait   = 5 * time.Second
	lockRetryInterval = 20 * time.Millisecond
)

// releaseLockScript deletes the lock only if it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore keeps sessions as JSON in Redis; every save refreshes the TTL.
// It also implements SessionLocker with a SET NX lock per session.
type RedisSessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	lockTTL  time.Duration
	lockWait time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:   client,
		ttl:      ttl,
		lockTTL:  defaultLockTTL,
		lockWait: defaultLockWait,
	}
}

// Lock polls SET NX until the session lock is free, ctx ends or the lock wait
// runs out (ErrSessionBusy). The lock expires after lockTTL if never released.
func (s *RedisSessionStore) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := sessionLockPrefix + sessionID
	token := uuid.NewString()
	deadline := time.Now().Add(s.lockWait)

	for {
		ok, err := s.client.SetNX(ctx, key, token, s.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
		}
		if ok {
			return func() {
				releaseLockScript.Run(context.Background(), s.client, []string{key}, token)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionBusy)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.DialogueSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	var session models.DialogueSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	if session.Collected == nil {
		session.Collected = make(map[models.FieldName]string)
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.DialogueSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.SessionID, err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.SessionID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

func cloneSession(in *models.DialogueSession) *models.DialogueSession {
	out := *in
	if in.ActiveService != nil {
		st := *in.ActiveService
		out.ActiveService = &st
	}
	out.Collected = make(map[models.FieldName]string, len(in.Collected))
	for k, v := range in.Collected {
		out.Collected[k] = v
	}
	return &out
}
