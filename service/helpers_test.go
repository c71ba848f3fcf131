package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var emailSeq atomic.Int64

func setupStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	return repository.NewStore(db), db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) model.User {
	t.Helper()
	u := model.User{
		FullName: name,
		Email:    fmt.Sprintf("%s_%d@test.com", role, emailSeq.Add(1)),
		Password: "secret",
		Role:     role,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// at returns the given time on 2025-03-01 in ISO-8601 UTC form.
func at(hour, minute int) string {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, time.UTC).Format(time.RFC3339)
}
