package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/util"
)

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidRoleForAccount = errors.New("invalid role for this account")
	ErrAccountInactive       = errors.New("account is not active")
)

type Accounts struct {
	store *repository.Store
}

func NewAccounts(store *repository.Store) *Accounts {
	return &Accounts{store: store}
}

// Signup registers a visitor. Admin accounts cannot be self-registered.
func (s *Accounts) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	return s.Register(ctx, req, false)
}

// Register creates an active account. allowAdmin widens the accepted
// roles to every role an administrator may assign.
func (s *Accounts) Register(ctx context.Context, req model.SignupRequest, allowAdmin bool) (*model.User, error) {
	fullName, err := requiredText(util.NormalizeName(req.FullName), "fullName")
	if err != nil {
		return nil, err
	}
	email, err := validEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, apperr.Validation("password", "password is required")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleUser
	}
	allowed := model.SignupRoles
	if allowAdmin {
		allowed = model.AllRoles
	}
	if !util.Contains(role, allowed) {
		return nil, apperr.Validationf("role", "role must be one of %s", strings.Join(allowed, ", "))
	}
	if req.Age < 0 {
		return nil, apperr.Validation("age", "age must not be negative")
	}

	var created *model.User
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("user", "Email already in use")
		}
		u := &model.User{
			FullName: fullName,
			Email:    email,
			Password: req.Password,
			Role:     role,
			Phone:    strings.TrimSpace(req.Phone),
			Age:      req.Age,
			Status:   model.UserStatusActive,
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login checks the opaque password and that the account holds role.
func (s *Accounts) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("email", "email and password are required")
	}
	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(req.Password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if role := strings.TrimSpace(req.Role); role != "" && !strings.EqualFold(role, u.Role) {
		return nil, ErrInvalidRoleForAccount
	}
	if !u.IsActive() {
		return nil, ErrAccountInactive
	}
	return u, nil
}

// CheckEmail reports whether email is already registered.
func (s *Accounts) CheckEmail(ctx context.Context, email string) (bool, error) {
	email, err := validEmail(email)
	if err != nil {
		return false, err
	}
	return s.store.ExistsByEmail(ctx, email)
}

func (s *Accounts) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.store.FindUserByID(ctx, id)
}

// ListUsers returns every user, or only those with role when it is set.
func (s *Accounts) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return s.store.ListUsers(ctx)
	}
	if model.IsPatientRole(role) {
		role = model.RoleUser
	}
	return s.store.FindUsersByRole(ctx, role)
}

// UpdateUser applies the present fields of req.
func (s *Accounts) UpdateUser(ctx context.Context, id uint, req model.UpdateUserRequest) (*model.User, error) {
	var updated *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.FindUserByID(ctx, id)
		if err != nil {
			return err
		}
		if req.FullName.Set {
			name, err := requiredText(util.NormalizeName(req.FullName.Value), "fullName")
			if err != nil {
				return err
			}
			u.FullName = name
		}
		if req.Email.Set {
			email, err := validEmail(req.Email.Value)
			if err != nil {
				return err
			}
			if !strings.EqualFold(email, u.Email) {
				taken, err := tx.ExistsByEmail(ctx, email)
				if err != nil {
					return err
				}
				if taken {
					return apperr.Conflict("user", "Email already in use")
				}
			}
			u.Email = email
		}
		if req.Password.Set {
			if req.Password.Value == "" {
				return apperr.Validation("password", "password cannot be empty")
			}
			u.Password = req.Password.Value
		}
		if req.Phone.Set {
			u.Phone = strings.TrimSpace(req.Phone.Value)
		}
		if req.Age.Set {
			if req.Age.Value < 0 {
				return apperr.Validation("age", "age must not be negative")
			}
			u.Age = req.Age.Value
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	util.UserNameCacheInvalidate(id)
	return updated, nil
}

func (s *Accounts) UpdateStatus(ctx context.Context, id uint, status string) (*model.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !util.Contains(status, model.UserStatuses) {
		return nil, apperr.Validationf("status", "status must be one of %s", strings.Join(model.UserStatuses, ", "))
	}
	var updated *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.FindUserByID(ctx, id)
		if err != nil {
			return err
		}
		u.Status = status
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateRole changes the user's role. A dietitian losing the role drops
// their patients; a patient losing the role drops their dietitian.
func (s *Accounts) UpdateRole(ctx context.Context, id uint, role string) (*model.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !util.Contains(role, model.AllRoles) {
		return nil, apperr.Validationf("role", "role must be one of %s", strings.Join(model.AllRoles, ", "))
	}
	var updated *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.FindUserByID(ctx, id)
		if err != nil {
			return err
		}
		if u.Role == model.RoleDietitian && role != model.RoleDietitian {
			if err := tx.ClearAssignedDietitian(ctx, u.ID); err != nil {
				return err
			}
		}
		if !model.IsPatientRole(role) {
			u.AssignedDietitianID = nil
		}
		u.Role = role
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser refuses to remove a user still referenced by appointments,
// diet plans or prescriptions.
func (s *Accounts) DeleteUser(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.FindUserByID(ctx, id); err != nil {
			return err
		}
		refs, err := tx.CountUserReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperr.Conflict("user", fmt.Sprintf("User with id %d still has %d clinical records", id, refs))
		}
		if err := tx.ClearAssignedDietitian(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteHealthDataByUser(ctx, id); err != nil {
			return err
		}
		return tx.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}
	util.UserNameCacheInvalidate(id)
	return nil
}

func validEmail(value string) (string, error) {
	email, err := requiredText(value, "email")
	if err != nil {
		return "", err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.Validation("email", "email is not a valid address")
	}
	return strings.ToLower(email), nil
}
