package endpoint

import (
	"fmt"
	"strconv"

	"github.com/ariebrainware/clinic-care/config"
	"github.com/ariebrainware/clinic-care/middleware"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/service"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ensureDB returns the request's database or responds with a server error.
func ensureDB(c *gin.Context) (*gorm.DB, bool) {
	db, ok := middleware.GetDB(c)
	if !ok {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return nil, false
	}
	return db, true
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s", name),
			Err: fmt.Errorf("%s must be a positive integer, got %q", name, raw),
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps err to a status code with util.CallAppError.
func respondError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	util.CallAppError(c, util.APIErrorParams{Msg: msg, Err: err})
}

// audit records a domain event for the current request.
func audit(c *gin.Context, event util.AuditEventType, entity string, id uint, msg string, details map[string]interface{}) {
	actor := ""
	if userID, ok := middleware.GetUserID(c); ok {
		actor = strconv.FormatUint(uint64(userID), 10)
	}
	util.LogAuditEvent(util.AuditEvent{
		EventType:  event,
		ActorID:    actor,
		EntityType: entity,
		EntityID:   id,
		RequestID:  middleware.GetRequestID(c),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Message:    msg,
		Details:    details,
	})
}

func newScheduler(db *gorm.DB) *service.Scheduler {
	var opts []service.SchedulerOption
	if rdb := config.GetRedisClient(); rdb != nil {
		opts = append(opts, service.WithLocker(util.NewDoctorLocker(rdb, config.LoadConfig().ScheduleLockTTL)))
	}
	return service.NewScheduler(repository.NewStore(db), opts...)
}
