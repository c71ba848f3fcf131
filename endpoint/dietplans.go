package endpoint

import (
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/service"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func dietPlans(db *gorm.DB) *service.DietPlans {
	return service.NewDietPlans(repository.NewStore(db))
}

func CreateDietPlan(c *gin.Context) {
	var req model.DietPlanRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	plan, err := dietPlans(db).CreateDietPlan(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create diet plan", err)
		return
	}
	audit(c, util.EventDietPlanCreated, "diet_plan", plan.ID, "Diet plan created", map[string]interface{}{
		"patient_id":   plan.PatientID,
		"dietitian_id": plan.DietitianID,
		"meals":        len(plan.Meals),
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diet plan created", Data: plan})
}

// UpdateDietPlan overwrites the plan. A "meals" list in the body replaces
// every existing meal.
func UpdateDietPlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req model.DietPlanRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	plan, err := dietPlans(db).UpdateDietPlan(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update diet plan", err)
		return
	}
	audit(c, util.EventDietPlanUpdated, "diet_plan", plan.ID, "Diet plan updated", map[string]interface{}{
		"meals_replaced": req.Meals != nil,
		"meals":          len(plan.Meals),
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diet plan updated", Data: plan})
}

func DeleteDietPlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	if err := dietPlans(db).DeleteDietPlan(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete diet plan", err)
		return
	}
	audit(c, util.EventDietPlanDeleted, "diet_plan", id, "Diet plan deleted", nil)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diet plan deleted", Data: nil})
}

func GetDietPlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	plan, err := dietPlans(db).GetDietPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get diet plan", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diet plan retrieved", Data: plan})
}

func ListPatientDietPlans(c *gin.Context) {
	patientID, ok := parseIDParam(c, "patientId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	plans, err := dietPlans(db).ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, "Failed to list diet plans", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diet plans retrieved", Data: plans})
}

func ListDietitianDietPlans(c *gin.Context) {
	dietitianID, ok := parseIDParam(c, "dietitianId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	plans, err := dietPlans(db).ListByDietitian(c.Request.Context(), dietitianID)
	if err != nil {
		respondError(c, "Failed to list diet plans", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diet plans retrieved", Data: plans})
}
