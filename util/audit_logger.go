package util

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ariebrainware/clinic-care/model"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventAppointmentScheduled AuditEventType = "APPOINTMENT_SCHEDULED"
	EventAppointmentConflict  AuditEventType = "APPOINTMENT_CONFLICT"
	EventAppointmentUpdated   AuditEventType = "APPOINTMENT_UPDATED"
	EventAppointmentDeleted   AuditEventType = "APPOINTMENT_DELETED"
	EventDietPlanCreated      AuditEventType = "DIET_PLAN_CREATED"
	EventDietPlanUpdated      AuditEventType = "DIET_PLAN_UPDATED"
	EventDietPlanDeleted      AuditEventType = "DIET_PLAN_DELETED"
	EventPrescriptionCreated  AuditEventType = "PRESCRIPTION_CREATED"
	EventPrescriptionUpdated  AuditEventType = "PRESCRIPTION_UPDATED"
	EventPrescriptionDeleted  AuditEventType = "PRESCRIPTION_DELETED"
	EventDietitianAssigned    AuditEventType = "DIETITIAN_ASSIGNED"
	EventUserCreated          AuditEventType = "USER_CREATED"
	EventUserUpdated          AuditEventType = "USER_UPDATED"
	EventUserDeleted          AuditEventType = "USER_DELETED"
	EventHealthDataChanged    AuditEventType = "HEALTH_DATA_CHANGED"
	EventLoginSuccess         AuditEventType = "LOGIN_SUCCESS"
	EventLoginFailure         AuditEventType = "LOGIN_FAILURE"
	EventRateLimitExceeded    AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity   AuditEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall         AuditEventType = "ENDPOINT_CALL"
)

// AuditEvent represents an event to be logged and persisted
type AuditEvent struct {
	EventType  AuditEventType
	ActorID    string
	EntityType string
	EntityID   uint
	RequestID  string
	IP         string
	UserAgent  string
	Message    string
	Details    map[string]interface{}
}

var auditDB *gorm.DB

// SetAuditLoggerDB sets a gorm DB instance used to persist audit events.
// Call this during application startup after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

const maxLogValueLen = 200

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > maxLogValueLen {
		cut := maxLogValueLen
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = value[:cut] + "..."
	}
	return value
}

func levelFor(eventType AuditEventType) zerolog.Level {
	switch eventType {
	case EventAppointmentConflict, EventLoginFailure, EventRateLimitExceeded, EventSuspiciousActivity:
		return zerolog.WarnLevel
	case EventEndpointCall:
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// LogAuditEvent logs an audit event and persists it when a DB is configured.
// Persistence is best-effort and never fails the caller.
func LogAuditEvent(event AuditEvent) {
	e := Logger().WithLevel(levelFor(event.EventType)).
		Str("event", sanitizeLogValue(string(event.EventType))).
		Str("actor_id", sanitizeLogValue(event.ActorID)).
		Str("ip", sanitizeLogValue(event.IP)).
		Str("user_agent", sanitizeLogValue(event.UserAgent))
	if event.EntityType != "" {
		e = e.Str("entity_type", event.EntityType).Uint("entity_id", event.EntityID)
	}
	if event.RequestID != "" {
		e = e.Str("request_id", sanitizeLogValue(event.RequestID))
	}
	if len(event.Details) > 0 {
		// Details are persisted, only their count is logged.
		e = e.Int("details_count", len(event.Details))
	}
	e.Msg(sanitizeLogValue(event.Message))

	if auditDB != nil {
		persistAuditEvent(auditDB, event)
	}
}

func persistAuditEvent(db *gorm.DB, event AuditEvent) {
	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	entry := model.AuditLog{
		EventType:  string(event.EventType),
		ActorID:    sanitizeLogValue(event.ActorID),
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		RequestID:  sanitizeLogValue(event.RequestID),
		IP:         sanitizeLogValue(event.IP),
		Location:   sanitizeLogValue(formatLocation(GetIPLocation(event.IP))),
		UserAgent:  sanitizeLogValue(event.UserAgent),
		Message:    sanitizeLogValue(event.Message),
		Details:    details,
	}
	if err := db.Create(&entry).Error; err != nil {
		Logger().Error().Err(err).Str("event", string(event.EventType)).Msg("failed to persist audit event")
	}
}

func formatLocation(city, country string) string {
	switch {
	case city != "" && country != "":
		return fmt.Sprintf("%s/%s", city, country)
	case country != "":
		return country
	}
	return city
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(userID uint, ip, userAgent string) {
	LogAuditEvent(AuditEvent{
		EventType:  EventLoginSuccess,
		ActorID:    fmt.Sprintf("%d", userID),
		EntityType: "user",
		EntityID:   userID,
		IP:         ip,
		UserAgent:  userAgent,
		Message:    "User logged in successfully",
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginFailure,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
		Details:   map[string]interface{}{"email": sanitizeLogValue(email)},
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}
