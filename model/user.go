package model

import (
	"strings"
	"time"
)

const (
	RoleAdmin        = "admin"
	RoleUser         = "user"
	RoleDoctor       = "doctor"
	RoleDietitian    = "dietitian"
	RoleReceptionist = "receptionist"
	// RolePatient is accepted wherever a patient is expected; new accounts use RoleUser.
	RolePatient = "patient"
)

const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// SignupRoles are the roles a visitor may pick for themselves.
var SignupRoles = []string{RoleUser, RoleDoctor, RoleDietitian, RoleReceptionist}

// AllRoles are the roles an administrator may assign.
var AllRoles = []string{RoleAdmin, RoleUser, RoleDoctor, RoleDietitian, RoleReceptionist}

// UserStatuses are the accepted account states.
var UserStatuses = []string{UserStatusActive, UserStatusInactive, UserStatusSuspended}

// User is any person known to the clinic. Patients carry role "user".
type User struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	FullName            string    `json:"fullName" gorm:"type:varchar(100);not null"`
	Email               string    `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	Password            string    `json:"-" gorm:"type:varchar(255);not null"`
	Role                string    `json:"role" gorm:"type:varchar(32);index;not null"`
	Phone               string    `json:"phone" gorm:"type:varchar(32)"`
	Age                 int       `json:"age"`
	Status              string    `json:"status" gorm:"type:varchar(32);not null"`
	AssignedDietitianID *uint     `json:"assignedDietitianId,omitempty" gorm:"index"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// IsPatientRole reports whether role denotes a patient account.
func IsPatientRole(role string) bool {
	r := strings.ToLower(strings.TrimSpace(role))
	return r == RoleUser || r == RolePatient
}

// IsActive reports whether the account may log in.
func (u User) IsActive() bool {
	return strings.EqualFold(u.Status, UserStatusActive)
}

// SplitName splits FullName on the first space into first and last name.
func (u User) SplitName() (first, last string) {
	name := strings.TrimSpace(u.FullName)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Age      int    `json:"age"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest is a sparse update; absent keys leave the field unchanged.
type UpdateUserRequest struct {
	FullName Optional[string] `json:"fullName"`
	Email    Optional[string] `json:"email"`
	Password Optional[string] `json:"password"`
	Phone    Optional[string] `json:"phone"`
	Age      Optional[int]    `json:"age"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type AssignDietitianRequest struct {
	DietitianID uint `json:"dietitianId"`
}
