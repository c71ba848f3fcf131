package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBMI(t *testing.T) {
	assert.Equal(t, 22.9, CalculateBMI(70, 175))
	assert.Equal(t, 0.0, CalculateBMI(70, 0))
	assert.Equal(t, 0.0, CalculateBMI(0, 170))
}

func TestHealthData_BMIDerivedOnSave(t *testing.T) {
	db := setupTestDB(t, "health", &HealthData{})

	h := HealthData{UserID: 1, Weight: 80, Height: 180}
	assert.NoError(t, db.Create(&h).Error)
	assert.Equal(t, 24.7, h.BMI)

	h.Weight = 90
	assert.NoError(t, db.Save(&h).Error)

	var found HealthData
	assert.NoError(t, db.First(&found, h.ID).Error)
	assert.Equal(t, 27.8, found.BMI)
}
