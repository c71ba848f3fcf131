package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserModel_CreateAndRead(t *testing.T) {
	db := setupTestDB(t, "user", &User{})

	user := User{
		FullName: "Read Test",
		Email:    "read@test.com",
		Password: "opaque",
		Role:     RoleUser,
		Status:   UserStatusActive,
	}
	assert.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	var found User
	assert.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, "Read Test", found.FullName)
	assert.Nil(t, found.AssignedDietitianID)
}

func TestUserModel_UniqueEmail(t *testing.T) {
	db := setupTestDB(t, "user_unique", &User{})

	first := User{FullName: "A", Email: "dup@test.com", Password: "x", Role: RoleUser, Status: UserStatusActive}
	assert.NoError(t, db.Create(&first).Error)

	second := User{FullName: "B", Email: "dup@test.com", Password: "x", Role: RoleUser, Status: UserStatusActive}
	assert.Error(t, db.Create(&second).Error)
}

func TestUserModel_PasswordNotSerialized(t *testing.T) {
	u := User{FullName: "Secret", Email: "s@test.com", Password: "hunter2"}
	b, err := json.Marshal(u)
	assert.NoError(t, err)
	assert.NotContains(t, string(b), "hunter2")
	assert.NotContains(t, string(b), "password")
}

func TestIsPatientRole(t *testing.T) {
	assert.True(t, IsPatientRole("user"))
	assert.True(t, IsPatientRole("PATIENT"))
	assert.True(t, IsPatientRole(" User "))
	assert.False(t, IsPatientRole("doctor"))
	assert.False(t, IsPatientRole(""))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane Mary Doe", "Jane", "Mary Doe"},
		{"Prince", "Prince", ""},
		{"  Padded   Name ", "Padded", "Name"},
	}
	for _, tc := range tests {
		first, last := User{FullName: tc.name}.SplitName()
		assert.Equal(t, tc.first, first, tc.name)
		assert.Equal(t, tc.last, last, tc.name)
	}
}
