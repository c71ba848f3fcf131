package endpoint

import (
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/service"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func healthRecords(db *gorm.DB) *service.HealthRecords {
	return service.NewHealthRecords(repository.NewStore(db))
}

func CreateHealthData(c *gin.Context) {
	var req model.HealthDataRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	h, err := healthRecords(db).Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to save health data", err)
		return
	}
	audit(c, util.EventHealthDataChanged, "health_data", h.ID, "Health data recorded", map[string]interface{}{"user_id": h.UserID})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health data saved", Data: h})
}

func UpdateHealthData(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req model.HealthDataRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	h, err := healthRecords(db).Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update health data", err)
		return
	}
	audit(c, util.EventHealthDataChanged, "health_data", h.ID, "Health data updated", map[string]interface{}{"user_id": h.UserID})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health data updated", Data: h})
}

func GetHealthData(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	h, err := healthRecords(db).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get health data", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health data retrieved", Data: h})
}

func ListHealthData(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	hs, err := healthRecords(db).List(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list health data", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health data retrieved", Data: hs})
}

func ListUserHealthData(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	hs, err := healthRecords(db).ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to list health data", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health data retrieved", Data: hs})
}

func DeleteHealthData(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	if err := healthRecords(db).Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete health data", err)
		return
	}
	audit(c, util.EventHealthDataChanged, "health_data", id, "Health data deleted", nil)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health data deleted", Data: nil})
}
