package endpoint

import (
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/service"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func prescriptions(db *gorm.DB) *service.Prescriptions {
	return service.NewPrescriptions(repository.NewStore(db))
}

func CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	svc := prescriptions(db)
	p, err := svc.CreatePrescription(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create prescription", err)
		return
	}
	audit(c, util.EventPrescriptionCreated, "prescription", p.ID, "Prescription created", map[string]interface{}{
		"patient_id":  p.PatientID,
		"doctor_id":   p.DoctorID,
		"medications": len(p.Medications),
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription created", Data: svc.Respond(*p)})
}

// UpdatePrescription merges the body into the prescription and reconciles
// its medications when a "medications" list is given.
func UpdatePrescription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch model.PrescriptionPatch
	if !bindJSONOrRespond(c, &patch, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	svc := prescriptions(db)
	p, err := svc.UpdatePrescription(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, "Failed to update prescription", err)
		return
	}
	audit(c, util.EventPrescriptionUpdated, "prescription", p.ID, "Prescription updated", map[string]interface{}{
		"medications_reconciled": patch.Medications.Present(),
		"medications":            len(p.Medications),
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription updated", Data: svc.Respond(*p)})
}

func DeletePrescription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	if err := prescriptions(db).DeletePrescription(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete prescription", err)
		return
	}
	audit(c, util.EventPrescriptionDeleted, "prescription", id, "Prescription deleted", nil)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription deleted", Data: nil})
}

func GetPrescription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	svc := prescriptions(db)
	p, err := svc.GetPrescription(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get prescription", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription retrieved", Data: svc.Respond(*p)})
}

func ListPrescriptions(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	svc := prescriptions(db)
	ps, err := svc.ListPrescriptions(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list prescriptions", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescriptions retrieved", Data: svc.RespondAll(ps)})
}

func ListPatientPrescriptions(c *gin.Context) {
	patientID, ok := parseIDParam(c, "patientId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	svc := prescriptions(db)
	ps, err := svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, "Failed to list prescriptions", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescriptions retrieved", Data: svc.RespondAll(ps)})
}

func ListDoctorPrescriptions(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctorId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	svc := prescriptions(db)
	ps, err := svc.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, "Failed to list prescriptions", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescriptions retrieved", Data: svc.RespondAll(ps)})
}

// PatientsWithPrescriptions reports each patient with their latest prescription.
func PatientsWithPrescriptions(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	summaries, err := prescriptions(db).PatientsWithPrescriptions(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to build report", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Report generated", Data: summaries})
}
