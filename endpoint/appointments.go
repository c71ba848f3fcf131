package endpoint

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
)

// ScheduleAppointment books a new appointment after the conflict check.
func ScheduleAppointment(c *gin.Context) {
	var req model.ScheduleAppointmentRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	ap, err := newScheduler(db).ScheduleAppointment(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			audit(c, util.EventAppointmentConflict, "doctor", req.DoctorID, err.Error(), map[string]interface{}{
				"patient_id":       req.PatientID,
				"appointment_date": req.AppointmentDate,
			})
		}
		respondError(c, "Failed to schedule appointment", err)
		return
	}

	audit(c, util.EventAppointmentScheduled, "appointment", ap.ID, "Appointment scheduled", map[string]interface{}{
		"patient_id":       ap.PatientID,
		"doctor_id":        ap.DoctorID,
		"appointment_date": ap.AppointmentDate,
	})
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Appointment scheduled",
		Data: ap,
	})
}

func ListAppointments(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	aps, err := newScheduler(db).ListAppointments(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list appointments", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: aps})
}

func GetAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	ap, err := newScheduler(db).GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get appointment", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment retrieved", Data: ap})
}

// UpdateAppointment merges the keys present in the body into the appointment.
func UpdateAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch model.AppointmentPatch
	if !bindJSONOrRespond(c, &patch, "Invalid request body") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	ap, err := newScheduler(db).UpdateAppointment(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, "Failed to update appointment", err)
		return
	}
	audit(c, util.EventAppointmentUpdated, "appointment", ap.ID, "Appointment updated", map[string]interface{}{
		"patch": patch,
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment updated", Data: ap})
}

func DeleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	if err := newScheduler(db).DeleteAppointment(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete appointment", err)
		return
	}
	audit(c, util.EventAppointmentDeleted, "appointment", id, "Appointment deleted", nil)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment deleted", Data: nil})
}

// ListDoctorAppointments returns the doctor's agenda rows.
func ListDoctorAppointments(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctorId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	aps, err := newScheduler(db).ListDoctorAppointments(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, "Failed to list doctor appointments", err)
		return
	}
	views := make([]model.DoctorAppointmentView, 0, len(aps))
	for _, ap := range aps {
		views = append(views, model.NewDoctorAppointmentView(ap))
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: views})
}

// GetDoctorSchedule lists the doctor's appointments between the start and
// end query parameters, both inclusive.
func GetDoctorSchedule(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctorId")
	if !ok {
		return
	}
	start, err := util.ParseDateTime(c.Query("start"))
	if err != nil {
		respondError(c, "Invalid start", apperr.Validation("start", fmt.Sprintf("Invalid date format for start: %v", err)))
		return
	}
	end, err := util.ParseDateTime(c.Query("end"))
	if err != nil {
		respondError(c, "Invalid end", apperr.Validation("end", fmt.Sprintf("Invalid date format for end: %v", err)))
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	aps, err := newScheduler(db).GetDoctorSchedule(c.Request.Context(), doctorID, start, end)
	if err != nil {
		respondError(c, "Failed to get doctor schedule", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Schedule retrieved", Data: aps})
}

func ListPatientAppointments(c *gin.Context) {
	patientID, ok := parseIDParam(c, "patientId")
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	aps, err := newScheduler(db).ListPatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, "Failed to list patient appointments", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: aps})
}
