package model

import "time"

const (
	DietPlanDraft    = "DRAFT"
	DietPlanActive   = "ACTIVE"
	DietPlanArchived = "ARCHIVED"
)

// DietPlan is owned by its meals' lifecycle: deleting the plan deletes
// every meal, and meals are only ever written through the plan.
type DietPlan struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"type:varchar(255);not null"`
	PatientID     uint      `json:"patientId" gorm:"not null;index"`
	Patient       *User     `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DietitianID   uint      `json:"dietitianId" gorm:"not null;index"`
	Dietitian     *User     `json:"dietitian,omitempty" gorm:"foreignKey:DietitianID"`
	Description   string    `json:"description" gorm:"type:text"`
	Status        string    `json:"status" gorm:"type:varchar(20);not null"`
	DailyCalories int       `json:"dailyCalories"`
	Protein       int       `json:"protein"`
	Carbs         int       `json:"carbs"`
	Fat           int       `json:"fat"`
	Notes         string    `json:"notes" gorm:"type:text"`
	Meals         []Meal    `json:"meals" gorm:"foreignKey:DietPlanID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Meal struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	DietPlanID  uint   `json:"dietPlanId" gorm:"not null;index"`
	MealType    string `json:"mealType" gorm:"type:varchar(50);not null"`
	Description string `json:"description" gorm:"type:text"`
	Calories    int    `json:"calories"`
}

type MealRequest struct {
	MealType    string `json:"mealType"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
}

// DietPlanRequest is used for both create and update. On update a nil
// Meals leaves the meals untouched while a present list, even an empty
// one, replaces them.
type DietPlanRequest struct {
	Title         string        `json:"title"`
	PatientID     uint          `json:"patientId"`
	DietitianID   uint          `json:"dietitianId"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	DailyCalories int           `json:"dailyCalories"`
	Protein       int           `json:"protein"`
	Carbs         int           `json:"carbs"`
	Fat           int           `json:"fat"`
	Notes         string        `json:"notes"`
	Meals         []MealRequest `json:"meals"`
}
