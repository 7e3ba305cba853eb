package redis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

const (
	defaultLockTTL   = 10 * time.Second
	lockRetries      = 5
	lockRetryBackoff = 50 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// BookingLocker is a SET NX lock per booking party. Keys are always taken in
// sorted order so two bookings sharing a party cannot deadlock.
type BookingLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewBookingLocker(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *BookingLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &BookingLocker{client: client, ttl: ttl, log: log}
}

// Acquire takes every key or none. It returns domain.ErrBookingInProgress
// when a key is still held after the retry budget is spent.
func (l *BookingLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	token := uuid.NewString()
	held := make([]string, 0, len(sorted))
	release := func() {
		// The request context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := releaseScript.Run(rctx, l.client, []string{held[i]}, token).Err(); err != nil {
				l.log.Warn().Err(err).Str("key", held[i]).Msg("booking lock release failed")
			}
		}
	}

	for _, key := range sorted {
		ok, err := l.acquireOne(ctx, key, token)
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, domain.ErrBookingInProgress
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *BookingLocker) acquireOne(ctx context.Context, key, token string) (bool, error) {
	for attempt := 0; attempt < lockRetries; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return false, fmt.Errorf("booking lock %s: %w", key, err)
		}
		if ok {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(lockRetryBackoff * time.Duration(attempt+1)):
		}
	}
	return false, nil
}
