// Package otp implements the legacy one-time-passcode surface. Codes
// live in Redis under a TTL, so an expired code is structurally gone
// rather than filtered out by a comparison, and verification consumes
// the key atomically so a code can never be accepted twice.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCodeMismatch covers every verification failure: wrong code,
	// expired code, already-consumed code. Callers must not be able
	// to tell these apart.
	ErrCodeMismatch = errors.New("invalid or expired code")
	// ErrTooManyRequests is returned when a phone exceeds the issue
	// budget inside the throttle window.
	ErrTooManyRequests = errors.New("too many code requests")
	// ErrUnavailable is returned when no Redis client is configured.
	ErrUnavailable = errors.New("otp store unavailable")
)

// Store issues and verifies 6-digit codes keyed by normalized phone.
type Store struct {
	rdb      *redis.Client
	ttl      time.Duration
	maxIssue int
	window   time.Duration
}

// NewStore builds a Store. ttl <= 0 falls back to the 5-minute
// default. rdb may be nil when Redis is down; every operation then
// fails with ErrUnavailable and the caller degrades to password-only
// login.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl, maxIssue: 5, window: time.Hour}
}

func codeKey(phone string) string     { return "otp:code:" + phone }
func throttleKey(phone string) string { return "otp:issued:" + phone }

// Issue generates a fresh 6-digit code for the phone and stores it
// under the configured TTL, replacing any previous unexpired code.
func (s *Store) Issue(ctx context.Context, phone string) (string, error) {
	if s.rdb == nil {
		return "", ErrUnavailable
	}
	issued, err := s.rdb.Incr(ctx, throttleKey(phone)).Result()
	if err != nil {
		return "", err
	}
	if issued == 1 {
		s.rdb.Expire(ctx, throttleKey(phone), s.window)
	}
	if issued > int64(s.maxIssue) {
		return "", ErrTooManyRequests
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	if err := s.rdb.Set(ctx, codeKey(phone), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the stored code for the phone and compares it. The
// GETDEL makes consumption single-use; once the TTL has passed the
// key no longer exists, so an expired code can never match.
func (s *Store) Verify(ctx context.Context, phone, code string) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	stored, err := s.rdb.GetDel(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return nil
}
