package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdentityStore is the lookup surface the services need for users.
type IdentityStore interface {
	FindUserByID(ctx context.Context, id uint) (*model.User, error)
	FindUserByIDAndRole(ctx context.Context, id uint, role string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindUsersByRole(ctx context.Context, role string) ([]model.User, error)
	FindUsersByAssignedDietitian(ctx context.Context, dietitianID uint) ([]model.User, error)
	SaveUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id uint) error
}

var _ IdentityStore = (*Store)(nil)

func (s *Store) FindUserByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &u, nil
}

// FindUserByIDAndRole matches the role exactly, independent of the
// database collation.
func (s *Store) FindUserByIDAndRole(ctx context.Context, id uint, role string) (*model.User, error) {
	u, err := s.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound(role, id)
		}
		return nil, err
	}
	if u.Role != role {
		return nil, apperr.NotFound(role, id)
	}
	return u, nil
}

// LockUser loads the user row with SELECT ... FOR UPDATE. Drivers without
// row locks (SQLite) ignore the locking clause.
func (s *Store) LockUser(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.conn(ctx).Where("email = ?", strings.TrimSpace(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.Error{Kind: apperr.KindNotFound, Entity: "user", Message: "user not found with email: " + email}
	}
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ids []uint
	if err := s.conn(ctx).Model(&model.User{}).
		Where("email = ?", strings.TrimSpace(email)).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return len(ids) > 0, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.conn(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) FindUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	if err := s.conn(ctx).Where("role = ?", role).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users with role %s: %w", role, err)
	}
	return users, nil
}

func (s *Store) FindUsersByAssignedDietitian(ctx context.Context, dietitianID uint) ([]model.User, error) {
	var users []model.User
	if err := s.conn(ctx).Where("assigned_dietitian_id = ?", dietitianID).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list patients of dietitian %d: %w", dietitianID, err)
	}
	return users, nil
}

// SaveUser inserts u when it has no ID and updates every column otherwise.
func (s *Store) SaveUser(ctx context.Context, u *model.User) error {
	if err := s.conn(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

// ClearAssignedDietitian detaches every patient from dietitianID.
func (s *Store) ClearAssignedDietitian(ctx context.Context, dietitianID uint) error {
	if err := s.conn(ctx).Model(&model.User{}).
		Where("assigned_dietitian_id = ?", dietitianID).
		Update("assigned_dietitian_id", nil).Error; err != nil {
		return fmt.Errorf("clear dietitian %d assignments: %w", dietitianID, err)
	}
	return nil
}

// CountUserReferences counts the clinical records that point at userID as
// patient, doctor or dietitian.
func (s *Store) CountUserReferences(ctx context.Context, userID uint) (int64, error) {
	var total int64
	counts := []struct {
		model interface{}
		where string
	}{
		{&model.Appointment{}, "patient_id = ? OR doctor_id = ?"},
		{&model.DietPlan{}, "patient_id = ? OR dietitian_id = ?"},
		{&model.Prescription{}, "patient_id = ? OR doctor_id = ?"},
	}
	for _, c := range counts {
		var n int64
		if err := s.conn(ctx).Model(c.model).Where(c.where, userID, userID).Count(&n).Error; err != nil {
			return 0, fmt.Errorf("count references to user %d: %w", userID, err)
		}
		total += n
	}
	return total, nil
}
