package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, 5*time.Minute), mr
}

func TestIssueAndVerify(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	code, err := s.Issue(ctx, "+919876543210")
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.NoError(t, s.Verify(ctx, "+919876543210", code))
}

func TestVerifyIsSingleUse(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	code, err := s.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	require.NoError(t, s.Verify(ctx, "+919876543210", code))
	// Same correct code again must fail: the key was consumed.
	assert.ErrorIs(t, s.Verify(ctx, "+919876543210", code), ErrCodeMismatch)
}

func TestVerifyExpiredCodeFails(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	code, err := s.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	// Five minutes and one second later the key is gone, so even the
	// correct code cannot match.
	mr.FastForward(5*time.Minute + time.Second)
	assert.ErrorIs(t, s.Verify(ctx, "+919876543210", code), ErrCodeMismatch)
}

func TestVerifyWrongCodeFails(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Issue(ctx, "+919876543210")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Verify(ctx, "+919876543210", "000000"), ErrCodeMismatch)
}

func TestIssueThrottle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Issue(ctx, "+919876543210")
		require.NoError(t, err)
	}
	_, err := s.Issue(ctx, "+919876543210")
	assert.ErrorIs(t, err, ErrTooManyRequests)

	// Other phones are not affected by the throttled one.
	_, err = s.Issue(ctx, "+919811111111")
	assert.NoError(t, err)
}

func TestNilClientIsUnavailable(t *testing.T) {
	s := NewStore(nil, 0)
	_, err := s.Issue(context.Background(), "+919876543210")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Verify(context.Background(), "+919876543210", "123456"), ErrUnavailable)
}
