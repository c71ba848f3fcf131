package model

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// AppointmentSlot is the nominal length of an appointment. No two
// appointments of the same doctor may start closer than this.
const AppointmentSlot = 30 * time.Minute

type Appointment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PatientID       uint      `json:"patientId" gorm:"not null;index"`
	Patient         *User     `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID        uint      `json:"doctorId" gorm:"not null;index:idx_appointments_doctor_date,priority:1"`
	Doctor          *User     `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	AppointmentDate time.Time `json:"appointmentDate" gorm:"not null;index:idx_appointments_doctor_date,priority:2"`
	Type            string    `json:"type" gorm:"type:varchar(64);not null"`
	Status          string    `json:"status" gorm:"type:varchar(32);not null"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ScheduleAppointmentRequest struct {
	PatientID       uint   `json:"patientId"`
	DoctorID        uint   `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	Type            string `json:"type"`
	Notes           string `json:"notes"`
}

// AppointmentPatch is a partial update. The patient of an appointment
// cannot be changed, so a patientId key in the body is ignored.
type AppointmentPatch struct {
	DoctorID        Optional[uint]   `json:"doctorId"`
	AppointmentDate Optional[string] `json:"appointmentDate"`
	Type            Optional[string] `json:"type"`
	Notes           Optional[string] `json:"notes"`
	Status          Optional[string] `json:"status"`
}

// IsEmpty reports whether the patch carries no keys at all.
func (p AppointmentPatch) IsEmpty() bool {
	return !p.DoctorID.Set && !p.AppointmentDate.Set && !p.Type.Set && !p.Notes.Set && !p.Status.Set
}

// DoctorAppointmentView is the row shape of a doctor's agenda.
type DoctorAppointmentView struct {
	ID               uint      `json:"id"`
	PatientID        uint      `json:"patientId"`
	PatientFirstName string    `json:"patientFirstName"`
	PatientLastName  string    `json:"patientLastName"`
	AppointmentDate  time.Time `json:"appointmentDate"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	Duration         int       `json:"duration"`
}

// NewDoctorAppointmentView flattens a for the doctor agenda. a.Patient
// should be preloaded; without it the name fields stay empty.
func NewDoctorAppointmentView(a Appointment) DoctorAppointmentView {
	v := DoctorAppointmentView{
		ID:              a.ID,
		PatientID:       a.PatientID,
		AppointmentDate: a.AppointmentDate,
		Type:            a.Type,
		Status:          a.Status,
		Notes:           a.Notes,
		Duration:        int(AppointmentSlot / time.Minute),
	}
	if a.Patient != nil {
		v.PatientFirstName, v.PatientLastName = a.Patient.SplitName()
	}
	return v
}
