package dialogue

import (
	"context"
	"testing"
	"time"

	"ecitizen/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleSession(id string) *models.DialogueSession {
	s := models.NewDialogueSession(id, models.LanguageSwahili)
	st := models.ServicePassport
	s.ActiveService = &st
	s.Collected[models.FieldFirstName] = "Wanjiku"
	s.TurnCount = 2
	return s
}

func TestMemorySessionStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour, time.Minute, zap.NewNop())
	defer store.Close()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, sampleSession("s1")))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.ActiveService)
	assert.Equal(t, models.ServicePassport, *got.ActiveService)
	assert.Equal(t, "Wanjiku", got.Collected[models.FieldFirstName])
	assert.Equal(t, 2, got.TurnCount)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_CopiesSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour, time.Minute, zap.NewNop())
	defer store.Close()

	s := sampleSession("s1")
	require.NoError(t, store.Save(ctx, s))
	s.Collected[models.FieldLastName] = "Kamau"

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, got.Collected, models.FieldLastName)

	got.Collected[models.FieldPhone] = "0712345678"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, again.Collected, models.FieldPhone)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(20*time.Millisecond, 10*time.Millisecond, zap.NewNop())
	defer store.Close()

	require.NoError(t, store.Save(ctx, sampleSession("s1")))
	_, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "s1")
		return err == ErrSessionNotFound && store.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisSessionStore(client, 30*time.Minute)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, sampleSession("s1")))
	assert.True(t, mr.Exists("dialogue:session:s1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("dialogue:session:s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.ActiveService)
	assert.Equal(t, models.ServicePassport, *got.ActiveService)
	assert.Equal(t, models.LanguageSwahili, got.Language)
	assert.Equal(t, map[models.FieldName]string{models.FieldFirstName: "Wanjiku"}, got.Collected)

	mr.FastForward(31 * time.Minute)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, sampleSession("s2")))
	require.NoError(t, store.Delete(ctx, "s2"))
	assert.False(t, mr.Exists("dialogue:session:s2"))
}

func TestRedisSessionStore_CorruptPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	require.NoError(t, mr.Set("dialogue:session:bad", "{not json"))

	_, err := NewRedisSessionStore(client, time.Minute).Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_LockIsExclusive(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisSessionStore(client, time.Hour)
	store.lockWait = 50 * time.Millisecond

	unlock, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("dialogue:lock:s1"))

	_, err = store.Lock(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionBusy)

	other, err := store.Lock(ctx, "s2")
	require.NoError(t, err)
	other()

	unlock()
	assert.False(t, mr.Exists("dialogue:lock:s1"))

	again, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	again()
}

func TestRedisSessionStore_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisSessionStore(client, time.Hour)

	stale, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	mr.FastForward(defaultLockTTL + time.Second)

	current, err := store.Lock(ctx, "s1")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("dialogue:lock:s1"))

	current()
	assert.False(t, mr.Exists("dialogue:lock:s1"))
}
