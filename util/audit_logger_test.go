package util

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestLogger captures log output in a buffer and restores the
// previous logger when the test ends.
func setupTestLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	restore := SetLoggerForTest(zerolog.New(buf).Level(zerolog.DebugLevel))
	t.Cleanup(restore)
	return buf
}

func setupAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:audit_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AuditLog{}))
	SetAuditLoggerDB(db)
	t.Cleanup(func() { SetAuditLoggerDB(nil) })
	return db
}

func assertLogContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, s := range expected {
		assert.Contains(t, output, s)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes newlines", "hello\nworld", "hello world"},
		{"removes carriage returns", "hello\rworld", "hello world"},
		{"removes tabs", "hello\tworld", "hello world"},
		{"truncates long values", strings.Repeat("a", 250), strings.Repeat("a", 200) + "..."},
		{"truncates on a rune boundary", strings.Repeat("a", 199) + "é" + "tail", strings.Repeat("a", 199) + "..."},
		{"handles normal strings", "normal string", "normal string"},
		{"handles empty string", "", ""},
		{"combines multiple issues", "line1\nline2\rline3\ttab", "line1 line2 line3 tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeLogValue(tt.input))
		})
	}
}

func TestSanitizeLogValue_KeepsValidUTF8(t *testing.T) {
	got := sanitizeLogValue(strings.Repeat("日本", 100))
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 200+len("..."))
}

func TestLogAuditEvent_Logs(t *testing.T) {
	buf := setupTestLogger(t)

	LogAuditEvent(AuditEvent{
		EventType:  EventAppointmentScheduled,
		EntityType: "appointment",
		EntityID:   12,
		RequestID:  "req-1",
		IP:         "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
		Message:    "Appointment\nscheduled",
	})

	assertLogContains(t, buf.String(), []string{
		`"event":"APPOINTMENT_SCHEDULED"`,
		`"entity_type":"appointment"`,
		`"entity_id":12`,
		`"request_id":"req-1"`,
		`"ip":"192.168.1.1"`,
		`"message":"Appointment scheduled"`,
		`"level":"info"`,
	})
}

func TestLogAuditEvent_ConflictIsWarning(t *testing.T) {
	buf := setupTestLogger(t)

	LogAuditEvent(AuditEvent{
		EventType: EventAppointmentConflict,
		Message:   "doctor busy",
		Details:   map[string]interface{}{"doctorId": 3},
	})

	assertLogContains(t, buf.String(), []string{`"level":"warn"`, `"details_count":1`})
	assert.NotContains(t, buf.String(), "doctorId")
}

func TestLogAuditEvent_Persists(t *testing.T) {
	setupTestLogger(t)
	db := setupAuditDB(t)

	LogAuditEvent(AuditEvent{
		EventType:  EventDietitianAssigned,
		ActorID:    "1",
		EntityType: "user",
		EntityID:   5,
		IP:         "127.0.0.1",
		Message:    "assigned",
		Details:    map[string]interface{}{"dietitianId": 9},
	})

	var logs []model.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "DIETITIAN_ASSIGNED", logs[0].EventType)
	assert.Equal(t, uint(5), logs[0].EntityID)
	assert.Empty(t, logs[0].Location)
	assert.JSONEq(t, `{"dietitianId":9}`, string(logs[0].Details))
}

func TestLogAuditEvent_NoDBOnlyLogs(t *testing.T) {
	buf := setupTestLogger(t)
	SetAuditLoggerDB(nil)

	LogAuditEvent(AuditEvent{EventType: EventUserDeleted, Message: "gone"})
	assert.Contains(t, buf.String(), "USER_DELETED")
}

func TestLoginAndRateLimitHelpers(t *testing.T) {
	buf := setupTestLogger(t)

	LogLoginSuccess(123, "10.0.0.1", "curl")
	LogLoginFailure("user@example.com", "10.0.0.2", "curl", "invalid password")
	LogRateLimitExceeded("10.0.0.3", "/api/auth/login")

	assertLogContains(t, buf.String(), []string{
		"LOGIN_SUCCESS",
		`"actor_id":"123"`,
		"LOGIN_FAILURE",
		"Login failed: invalid password",
		"RATE_LIMIT_EXCEEDED",
		"/api/auth/login",
	})
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "Paris/France", formatLocation("Paris", "France"))
	assert.Equal(t, "France", formatLocation("", "France"))
	assert.Equal(t, "Paris", formatLocation("Paris", ""))
	assert.Equal(t, "", formatLocation("", ""))
}
