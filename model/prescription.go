package model

import (
	"strings"
	"time"
)

const (
	PrescriptionActive    = "ACTIVE"
	PrescriptionCompleted = "COMPLETED"
	PrescriptionCancelled = "CANCELLED"
	PrescriptionExpired   = "EXPIRED"
)

var PrescriptionStatuses = []string{PrescriptionActive, PrescriptionCompleted, PrescriptionCancelled, PrescriptionExpired}

// Prescription owns its medications. PrescriptionDate is written once on
// insert and never updated afterwards.
type Prescription struct {
	ID               uint                     `json:"id" gorm:"primaryKey"`
	PatientID        uint                     `json:"patientId" gorm:"not null;index"`
	DoctorID         uint                     `json:"doctorId" gorm:"not null;index"`
	Diagnosis        string                   `json:"diagnosis" gorm:"type:varchar(500);not null"`
	Notes            string                   `json:"notes" gorm:"type:text"`
	ValidUntil       time.Time                `json:"validUntil" gorm:"type:date;not null"`
	PrescriptionDate time.Time                `json:"prescriptionDate" gorm:"type:date;not null;<-:create"`
	Status           string                   `json:"status" gorm:"type:varchar(20);not null"`
	Medications      []PrescriptionMedication `json:"medications" gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

type PrescriptionMedication struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	PrescriptionID uint   `json:"prescriptionId" gorm:"not null;index"`
	Name           string `json:"name" gorm:"type:varchar(255);not null"`
	Dosage         string `json:"dosage" gorm:"type:varchar(255)"`
	Frequency      string `json:"frequency" gorm:"type:varchar(255)"`
	Duration       string `json:"duration" gorm:"type:varchar(255)"`
	Instructions   string `json:"instructions" gorm:"type:text"`
}

// MedicationRequest with an ID refers to an existing medication of the
// prescription being updated; without one it describes a new medication.
type MedicationRequest struct {
	ID           *uint  `json:"id,omitempty"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type CreatePrescriptionRequest struct {
	PatientID   uint                `json:"patientId"`
	DoctorID    uint                `json:"doctorId"`
	Diagnosis   string              `json:"diagnosis"`
	Notes       string              `json:"notes"`
	ValidUntil  string              `json:"validUntil"`
	Medications []MedicationRequest `json:"medications"`
}

// PrescriptionPatch is a sparse update. Medications absent or null leaves
// the list alone; a present list is reconciled against the stored one.
type PrescriptionPatch struct {
	Diagnosis   Optional[string]              `json:"diagnosis"`
	Notes       Optional[string]              `json:"notes"`
	ValidUntil  Optional[string]              `json:"validUntil"`
	Status      Optional[string]              `json:"status"`
	Medications Optional[[]MedicationRequest] `json:"medications"`
}

// PrescriptionResponse adds display names to a prescription.
type PrescriptionResponse struct {
	Prescription
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
}

// NewPrescriptionResponse decorates p with the given names. The doctor
// name gets a "Dr. " prefix unless it already has one.
func NewPrescriptionResponse(p Prescription, patientName, doctorName string) PrescriptionResponse {
	if doctorName != "" && !strings.HasPrefix(doctorName, "Dr. ") {
		doctorName = "Dr. " + doctorName
	}
	if p.Medications == nil {
		p.Medications = []PrescriptionMedication{}
	}
	return PrescriptionResponse{Prescription: p, PatientName: patientName, DoctorName: doctorName}
}

// PatientPrescriptionSummary describes a patient together with their most
// recent prescription.
type PatientPrescriptionSummary struct {
	PatientID          uint                     `json:"patientId"`
	FullName           string                   `json:"fullName"`
	Email              string                   `json:"email"`
	Phone              string                   `json:"phone"`
	PrescriptionID     uint                     `json:"prescriptionId"`
	PrescriptionDate   time.Time                `json:"prescriptionDate"`
	Diagnosis          string                   `json:"diagnosis"`
	PrescriptionStatus string                   `json:"prescriptionStatus"`
	Medications        []PrescriptionMedication `json:"medications"`
}
