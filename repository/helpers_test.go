package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return NewStore(db), db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) model.User {
	t.Helper()
	u := model.User{
		FullName: name,
		Email:    fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano()),
		Password: "secret",
		Role:     role,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, time.UTC)
}
