package middleware

import (
	"fmt"
	"time"

	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger logs each HTTP request as an ENDPOINT_CALL audit
// event. Events are persisted when util.SetAuditLoggerDB was called at
// startup.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		if role != "" {
			details["role"] = role
		}
		if len(c.Errors) > 0 {
			details["errors"] = c.Errors.String()
		}

		actor := ""
		if userID != 0 {
			actor = fmt.Sprintf("%d", userID)
		}
		util.LogAuditEvent(util.AuditEvent{
			EventType: util.EventEndpointCall,
			ActorID:   actor,
			RequestID: GetRequestID(c),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
