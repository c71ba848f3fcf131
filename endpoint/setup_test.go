package endpoint

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-care/config"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestMain pins the configuration so the config singleton does not depend
// on test order.
func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("GINMODE", "test")
	config.ResetConfigForTest()
	config.LoadConfig()
	config.SetRedisClientForTest(nil)
	gin.SetMode(gin.TestMode)
	restore := util.SetLoggerForTest(zerolog.Nop())

	code := m.Run()
	restore()
	os.Exit(code)
}

var emailSeq atomic.Int64

// setupRouter builds the full API on a fresh in-memory database.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:endpoint_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	util.SetAuditLoggerDB(db)
	t.Cleanup(func() { util.SetAuditLoggerDB(nil) })

	r := gin.New()
	RegisterRoutes(r, db, RouteOptions{})
	return r, db
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

func countAudit(t *testing.T, db *gorm.DB, event util.AuditEventType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("event_type = ?", string(event)).Count(&n).Error)
	return n
}
