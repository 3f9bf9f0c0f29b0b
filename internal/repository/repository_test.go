package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadnavi/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimitWithinWindow(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "tok", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "message %d should be allowed", i+1)
	}

	allowed, err := repo.CheckRateLimit(ctx, "tok", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryRateLimitWindowResets(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	allowed, err := repo.CheckRateLimit(ctx, "tok", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, "tok", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, err = repo.CheckRateLimit(ctx, "tok", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimitIsPerToken(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	allowed, err := repo.CheckRateLimit(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	defer func() { _ = Close(client) }()

	repo := NewRedisStateRepository(client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "tok", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := repo.CheckRateLimit(ctx, "tok", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// After the window expires the count starts over.
	mr.FastForward(time.Minute + time.Second)
	allowed, err = repo.CheckRateLimit(ctx, "tok", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

type stubStateRepository struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubStateRepository) CheckRateLimit(ctx context.Context, token string, limit int, window time.Duration) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func TestFailoverUsesPrimary(t *testing.T) {
	primary := &stubStateRepository{allowed: false}
	fallback := &stubStateRepository{allowed: true}
	logger := zerolog.Nop()
	repo := NewFailoverStateRepository(primary, fallback, &logger)

	allowed, err := repo.CheckRateLimit(context.Background(), "tok", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, fallback.calls)
}

func TestFailoverFallsBackOnPrimaryError(t *testing.T) {
	primary := &stubStateRepository{err: errors.New("connection refused")}
	fallback := &stubStateRepository{allowed: true}
	logger := zerolog.Nop()
	repo := NewFailoverStateRepository(primary, fallback, &logger)

	allowed, err := repo.CheckRateLimit(context.Background(), "tok", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, fallback.calls)

	// Once the primary is marked down, later calls skip it.
	_, err = repo.CheckRateLimit(context.Background(), "tok", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, fallback.calls)
}
