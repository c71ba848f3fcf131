package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	dbContextKey        = "db"
	requestIDContextKey = "request_id"
	userIDContextKey    = "user_id"
	userRoleContextKey  = "user_role"

	RequestIDHeader = "X-Request-ID"
	UserIDHeader    = "X-User-ID"
	UserRoleHeader  = "X-User-Role"
)

// CORSMiddleware configures CORS for the given origins. An empty list or
// "*" allows any origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", RequestIDHeader, UserIDHeader, UserRoleHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(origins) == 0 || util.Contains("*", origins) {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// DatabaseMiddleware stores db in the request context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// GetDB returns the database set by DatabaseMiddleware.
func GetDB(c *gin.Context) (*gorm.DB, bool) {
	v, ok := c.Get(dbContextKey)
	if !ok {
		return nil, false
	}
	db, ok := v.(*gorm.DB)
	return db, ok && db != nil
}

// RequestID propagates the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

// ActorContext records who the caller claims to be. The identity is
// informational only and used for the audit trail.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader(UserIDHeader)); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
				c.Set(userIDContextKey, uint(id))
			}
		}
		if role := strings.ToLower(strings.TrimSpace(c.GetHeader(UserRoleHeader))); role != "" {
			c.Set(userRoleContextKey, role)
		}
		c.Next()
	}
}

// GetUserID returns the caller's user id from ActorContext.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	role := c.GetString(userRoleContextKey)
	return role, role != ""
}
