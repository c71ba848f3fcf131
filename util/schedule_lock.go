package util

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultScheduleLockTTL bounds how long a crashed request can hold a doctor's lock.
const DefaultScheduleLockTTL = 10 * time.Second

const scheduleLockKeyPrefix = "schedule_lock:doctor:"

// Deletes the key only while it still holds our token, so a lock that
// expired and was taken by another request is left alone.
const releaseScheduleLockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// ErrLockBusy is returned when another request holds the doctor's lock.
var ErrLockBusy = errors.New("schedule lock is held by another request")

// DoctorLocker serialises appointment booking per doctor across app
// instances using a Redis key. A locker without a client never blocks.
type DoctorLocker struct {
	rdb      *redis.Client
	ttl      time.Duration
	newToken func() string
}

type LockerOption func(*DoctorLocker)

// WithLockToken overrides the token generator.
func WithLockToken(fn func() string) LockerOption {
	return func(l *DoctorLocker) {
		l.newToken = fn
	}
}

func NewDoctorLocker(rdb *redis.Client, ttl time.Duration, opts ...LockerOption) *DoctorLocker {
	if ttl <= 0 {
		ttl = DefaultScheduleLockTTL
	}
	l := &DoctorLocker{
		rdb:      rdb,
		ttl:      ttl,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ScheduleLockKey returns the Redis key guarding doctorID's agenda.
func ScheduleLockKey(doctorID uint) string {
	return fmt.Sprintf("%s%d", scheduleLockKeyPrefix, doctorID)
}

// Acquire takes the lock for doctorID. The returned release func must be
// called once the booking transaction has finished.
func (l *DoctorLocker) Acquire(ctx context.Context, doctorID uint) (func(), error) {
	if l == nil || l.rdb == nil {
		return func() {}, nil
	}

	key := ScheduleLockKey(doctorID)
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockBusy
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.rdb.Eval(ctx, releaseScheduleLockScript, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			Logger().Warn().Err(err).Str("key", key).Msg("failed to release schedule lock")
		}
	}
	return release, nil
}
