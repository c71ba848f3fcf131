package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Models lists every table owned by the application, parents first.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Appointment{},
		&DietPlan{},
		&Meal{},
		&Prescription{},
		&PrescriptionMedication{},
		&HealthData{},
		&AuditLog{},
	}
}

// Migrate creates or updates all application tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAccounts inserts the bootstrap accounts that are missing. Existing
// accounts with the same email are left as they are.
func SeedAccounts(db *gorm.DB, accounts []User) error {
	for _, account := range accounts {
		var existing User
		err := db.Where("email = ?", account.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if account.Status == "" {
			account.Status = UserStatusActive
		}
		if err := db.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to seed account %s: %w", account.Email, err)
		}
	}
	return nil
}

// DefaultAccounts returns one account per role for a fresh installation.
func DefaultAccounts(password string) []User {
	return []User{
		{FullName: "Clinic Admin", Email: "admin@clinic.local", Password: password, Role: RoleAdmin},
		{FullName: "Default Doctor", Email: "doctor@clinic.local", Password: password, Role: RoleDoctor},
		{FullName: "Default Dietitian", Email: "dietitian@clinic.local", Password: password, Role: RoleDietitian},
		{FullName: "Front Desk", Email: "reception@clinic.local", Password: password, Role: RoleReceptionist},
	}
}
