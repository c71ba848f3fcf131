package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// HealthData is a self-reported health snapshot of a user. BMI is derived
// from weight and height every time the row is saved.
type HealthData struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             uint      `json:"userId" gorm:"not null;index"`
	Age                int       `json:"age"`
	Weight             float64   `json:"weight"`
	Height             float64   `json:"height"`
	BMI                float64   `json:"bmi"`
	ActivityLevel      string    `json:"activityLevel" gorm:"type:varchar(64)"`
	Allergies          string    `json:"allergies" gorm:"type:text"`
	MedicalHistory     string    `json:"medicalHistory" gorm:"type:text"`
	DietaryPreferences string    `json:"dietaryPreferences" gorm:"type:text"`
	HealthGoal         string    `json:"healthGoal" gorm:"type:varchar(255)"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type HealthDataRequest struct {
	UserID             uint    `json:"userId"`
	Age                int     `json:"age"`
	Weight             float64 `json:"weight"`
	Height             float64 `json:"height"`
	ActivityLevel      string  `json:"activityLevel"`
	Allergies          string  `json:"allergies"`
	MedicalHistory     string  `json:"medicalHistory"`
	DietaryPreferences string  `json:"dietaryPreferences"`
	HealthGoal         string  `json:"healthGoal"`
}

// CalculateBMI returns weight (kg) over height (cm) squared in metres,
// rounded to one decimal. Non-positive inputs yield 0.
func CalculateBMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return math.Round(weightKg/(h*h)*10) / 10
}

func (h *HealthData) BeforeSave(tx *gorm.DB) error {
	h.BMI = CalculateBMI(h.Weight, h.Height)
	return nil
}
