// internal/common/telegram/relay_test.go
package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobless/internal/common/database"
	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSender counts sends and optionally fails.
type stubSender struct {
	configured bool
	err        error
	sends      int
}

func (s *stubSender) Configured() bool { return s.configured }
func (s *stubSender) ChatID() string   { return "42" }

func (s *stubSender) SendMessage(ctx context.Context, text string) error {
	s.sends++
	return s.err
}

func (s *stubSender) SendPhotoURL(ctx context.Context, photoURL, caption string) error {
	s.sends++
	return s.err
}

func (s *stubSender) SendPhotoUpload(ctx context.Context, filename string, data []byte, caption string) error {
	s.sends++
	return s.err
}

type brokenDeduper struct{}

func (brokenDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenDeduper) Release(ctx context.Context, key string) error { return nil }

func setupDeduper(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return database.NewRedisFromClient(rdb), mr
}

// ==========================
// Deduplication
// ==========================

func TestRelay_SuppressesDuplicateWithinTTL(t *testing.T) {
	dedupe, _ := setupDeduper(t)
	sender := &stubSender{configured: true}
	relay := NewRelay(sender, dedupe, time.Minute, logger.NewTestLogger(t))

	first, err := relay.Message(context.Background(), "my risk is 72%")
	require.NoError(t, err)
	assert.Equal(t, &Result{OK: true}, first)

	second, err := relay.Message(context.Background(), "my risk is 72%")
	require.NoError(t, err)
	assert.Equal(t, &Result{OK: true, Duplicate: true}, second)
	assert.Equal(t, 1, sender.sends)

	_, err = relay.Message(context.Background(), "different text")
	require.NoError(t, err)
	assert.Equal(t, 2, sender.sends)
}

func TestRelay_SendsAgainAfterTTL(t *testing.T) {
	dedupe, mr := setupDeduper(t)
	sender := &stubSender{configured: true}
	relay := NewRelay(sender, dedupe, time.Minute, logger.NewTestLogger(t))

	_, err := relay.Message(context.Background(), "hello")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	res, err := relay.Message(context.Background(), "hello")
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 2, sender.sends)
}

func TestRelay_ReleasesClaimOnFailure(t *testing.T) {
	dedupe, mr := setupDeduper(t)
	sender := &stubSender{configured: true, err: apperrors.NewTelegramUpstreamFailedError(MethodSendMessage, errors.New("502"))}
	relay := NewRelay(sender, dedupe, time.Minute, logger.NewTestLogger(t))

	_, err := relay.Message(context.Background(), "hello")
	require.Error(t, err)
	assert.Empty(t, mr.Keys())

	sender.err = nil
	res, err := relay.Message(context.Background(), "hello")
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 2, sender.sends)
}

func TestRelay_FailsOpenWhenDeduperErrors(t *testing.T) {
	sender := &stubSender{configured: true}
	relay := NewRelay(sender, brokenDeduper{}, time.Minute, logger.NewTestLogger(t))

	for i := 0; i < 2; i++ {
		res, err := relay.Message(context.Background(), "hello")
		require.NoError(t, err)
		assert.False(t, res.Duplicate)
	}
	assert.Equal(t, 2, sender.sends)
}

func TestRelay_NilDeduper(t *testing.T) {
	sender := &stubSender{configured: true}
	relay := NewRelay(sender, nil, time.Minute, logger.NewTestLogger(t))

	_, err := relay.Message(context.Background(), "hello")
	require.NoError(t, err)
	_, err = relay.Message(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, sender.sends)
}

func TestRelay_PhotoCaptionChangesKey(t *testing.T) {
	dedupe, _ := setupDeduper(t)
	sender := &stubSender{configured: true}
	relay := NewRelay(sender, dedupe, time.Minute, logger.NewTestLogger(t))

	_, err := relay.PhotoURL(context.Background(), "https://example.com/a.png", "one")
	require.NoError(t, err)
	_, err = relay.PhotoURL(context.Background(), "https://example.com/a.png", "two")
	require.NoError(t, err)
	res, err := relay.PhotoUpload(context.Background(), "a.png", []byte("img"), "one")
	require.NoError(t, err)

	assert.False(t, res.Duplicate)
	assert.Equal(t, 3, sender.sends)
}

// ==========================
// Validation
// ==========================

func TestRelay_NotConfigured(t *testing.T) {
	sender := &stubSender{configured: false}
	relay := NewRelay(sender, nil, time.Minute, logger.NewTestLogger(t))

	_, err := relay.Message(context.Background(), "hello")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTelegramNotConfigured))
	assert.Equal(t, 0, sender.sends)
}

func TestRelay_RejectsBadInput(t *testing.T) {
	sender := &stubSender{configured: true}
	relay := NewRelay(sender, nil, time.Minute, logger.NewTestLogger(t))

	_, err := relay.Message(context.Background(), "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

	_, err = relay.PhotoURL(context.Background(), "ftp://example.com/a.png", "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

	_, err = relay.PhotoUpload(context.Background(), "a.png", nil, "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

	assert.Equal(t, 0, sender.sends)
}

func TestDedupeKey_Stable(t *testing.T) {
	a := dedupeKey(MethodSendMessage, "1", []byte("x"))
	assert.Equal(t, a, dedupeKey(MethodSendMessage, "1", []byte("x")))
	assert.NotEqual(t, a, dedupeKey(MethodSendMessage, "2", []byte("x")))
	assert.NotEqual(t, a, dedupeKey(MethodSendPhoto, "1", []byte("x")))
	assert.Len(t, a, 3+64)
}
