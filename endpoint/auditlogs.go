package endpoint

import (
	"strconv"
	"strings"

	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
)

// ListAuditLogs returns recent audit entries, newest first. Supported
// query parameters: eventType, entityType, entityId, limit.
func ListAuditLogs(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	filter := repository.AuditFilter{
		EventType:  strings.ToUpper(strings.TrimSpace(c.Query("eventType"))),
		EntityType: strings.TrimSpace(c.Query("entityType")),
	}
	if v := c.Query("entityId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.EntityID = uint(id)
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	logs, err := repository.NewStore(db).ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to list audit logs", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Audit logs retrieved", Data: logs})
}
