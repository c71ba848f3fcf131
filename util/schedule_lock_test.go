package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedToken() string { return "token-1" }

func TestDoctorLocker_AcquireAndRelease(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	key := ScheduleLockKey(7)
	mock.ExpectSetNX(key, "token-1", 5*time.Second).SetVal(true)
	mock.ExpectEval(releaseScheduleLockScript, []string{key}, "token-1").SetVal(int64(1))

	locker := NewDoctorLocker(db, 5*time.Second, WithLockToken(fixedToken))
	release, err := locker.Acquire(context.Background(), 7)
	require.NoError(t, err)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorLocker_Busy(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectSetNX(ScheduleLockKey(7), "token-1", DefaultScheduleLockTTL).SetVal(false)

	locker := NewDoctorLocker(db, 0, WithLockToken(fixedToken))
	release, err := locker.Acquire(context.Background(), 7)
	assert.ErrorIs(t, err, ErrLockBusy)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorLocker_RedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectSetNX(ScheduleLockKey(3), "token-1", time.Second).SetErr(errors.New("connection refused"))

	locker := NewDoctorLocker(db, time.Second, WithLockToken(fixedToken))
	_, err := locker.Acquire(context.Background(), 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockBusy)
}

func TestDoctorLocker_ReleaseAfterExpiryIsHarmless(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	key := ScheduleLockKey(9)
	mock.ExpectSetNX(key, "token-1", time.Second).SetVal(true)
	// Another holder owns the key now; the script deletes nothing.
	mock.ExpectEval(releaseScheduleLockScript, []string{key}, "token-1").SetVal(int64(0))

	locker := NewDoctorLocker(db, time.Second, WithLockToken(fixedToken))
	release, err := locker.Acquire(context.Background(), 9)
	require.NoError(t, err)
	release()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorLocker_NilClientNeverBlocks(t *testing.T) {
	var nilLocker *DoctorLocker
	release, err := nilLocker.Acquire(context.Background(), 1)
	require.NoError(t, err)
	release()

	release, err = NewDoctorLocker(nil, 0).Acquire(context.Background(), 1)
	require.NoError(t, err)
	release()
}

func TestScheduleLockKey(t *testing.T) {
	assert.Equal(t, "schedule_lock:doctor:42", ScheduleLockKey(42))
}
