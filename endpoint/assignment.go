package endpoint

import (
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/service"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
)

// AssignDietitian sets the patient's dietitian, replacing any previous one.
func AssignDietitian(c *gin.Context) {
	patientID, ok := parseIDParam(c, "patientId")
	if !ok {
		return
	}
	var req model.AssignDietitianRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	patient, err := service.NewAssignments(repository.NewStore(db)).AssignDietitian(c.Request.Context(), patientID, req.DietitianID)
	if err != nil {
		respondError(c, "Failed to assign dietitian", err)
		return
	}
	audit(c, util.EventDietitianAssigned, "user", patient.ID, "Dietitian assigned", map[string]interface{}{
		"dietitian_id": req.DietitianID,
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Dietitian assigned", Data: patient})
}

func ListDietitianPatients(c *gin.Context) {
	dietitianID, ok := parseIDParam(c, "dietitianId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	patients, err := service.NewAssignments(repository.NewStore(db)).GetPatientsByDietitianID(c.Request.Context(), dietitianID)
	if err != nil {
		respondError(c, "Failed to list patients", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patients retrieved", Data: patients})
}

func ListDietitians(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	dietitians, err := service.NewAssignments(repository.NewStore(db)).ListDietitians(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list dietitians", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Dietitians retrieved", Data: dietitians})
}
