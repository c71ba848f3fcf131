package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestMigrateCreatesAllTables(t *testing.T) {
	db := setupTestDB(t, "migrate")
	require.NoError(t, Migrate(db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestSeedAccountsIsIdempotent(t *testing.T) {
	db := setupTestDB(t, "seed", &User{})

	accounts := DefaultAccounts("changeme")
	require.NoError(t, SeedAccounts(db, accounts))
	require.NoError(t, SeedAccounts(db, accounts))

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.Equal(t, int64(len(accounts)), count)

	var admin User
	require.NoError(t, db.Where("role = ?", RoleAdmin).First(&admin).Error)
	assert.Equal(t, UserStatusActive, admin.Status)
}

func TestAuditLogModel_Details(t *testing.T) {
	db := setupTestDB(t, "audit", &AuditLog{})

	entry := AuditLog{
		EventType:  "APPOINTMENT_SCHEDULED",
		EntityType: "appointment",
		EntityID:   12,
		IP:         "10.0.0.1",
		Message:    "scheduled",
		Details:    datatypes.JSON([]byte(`{"doctorId":3}`)),
	}
	require.NoError(t, db.Create(&entry).Error)

	var found AuditLog
	require.NoError(t, db.First(&found, entry.ID).Error)
	assert.Equal(t, "APPOINTMENT_SCHEDULED", found.EventType)
	assert.JSONEq(t, `{"doctorId":3}`, string(found.Details))
	assert.WithinDuration(t, time.Now(), found.CreatedAt, time.Minute)
}
