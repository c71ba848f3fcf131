package repository

import (
	"context"
	"fmt"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) withPlanGraph(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("meals.id") }).
		Preload("Patient").
		Preload("Dietitian")
}

// FindDietPlan loads the plan with its meals and both parties.
func (s *Store) FindDietPlan(ctx context.Context, id uint) (*model.DietPlan, error) {
	var plan model.DietPlan
	if err := s.withPlanGraph(ctx).First(&plan, id).Error; err != nil {
		return nil, translate(err, "diet plan", id)
	}
	return &plan, nil
}

// FindDietPlanRow loads only the plan's own columns.
func (s *Store) FindDietPlanRow(ctx context.Context, id uint) (*model.DietPlan, error) {
	var plan model.DietPlan
	if err := s.conn(ctx).First(&plan, id).Error; err != nil {
		return nil, translate(err, "diet plan", id)
	}
	return &plan, nil
}

func (s *Store) ListDietPlansByPatient(ctx context.Context, patientID uint) ([]model.DietPlan, error) {
	var plans []model.DietPlan
	if err := s.withPlanGraph(ctx).Where("patient_id = ?", patientID).Order("id").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list diet plans of patient %d: %w", patientID, err)
	}
	return plans, nil
}

func (s *Store) ListDietPlansByDietitian(ctx context.Context, dietitianID uint) ([]model.DietPlan, error) {
	var plans []model.DietPlan
	if err := s.withPlanGraph(ctx).Where("dietitian_id = ?", dietitianID).Order("id").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list diet plans of dietitian %d: %w", dietitianID, err)
	}
	return plans, nil
}

// CreateDietPlan inserts the plan row only; meals go through CreateMeals.
func (s *Store) CreateDietPlan(ctx context.Context, plan *model.DietPlan) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(plan).Error; err != nil {
		return fmt.Errorf("create diet plan: %w", err)
	}
	return nil
}

func (s *Store) SaveDietPlan(ctx context.Context, plan *model.DietPlan) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(plan).Error; err != nil {
		return fmt.Errorf("save diet plan %d: %w", plan.ID, err)
	}
	return nil
}

// CreateMeals inserts meals as children of planID, overwriting whatever
// DietPlanID they carried.
func (s *Store) CreateMeals(ctx context.Context, planID uint, meals []model.Meal) error {
	if len(meals) == 0 {
		return nil
	}
	for i := range meals {
		meals[i].ID = 0
		meals[i].DietPlanID = planID
	}
	if err := s.conn(ctx).Create(&meals).Error; err != nil {
		return fmt.Errorf("create meals of diet plan %d: %w", planID, err)
	}
	return nil
}

// DeleteMealsByDietPlan removes every meal of planID.
func (s *Store) DeleteMealsByDietPlan(ctx context.Context, planID uint) error {
	if err := s.conn(ctx).Where("diet_plan_id = ?", planID).Delete(&model.Meal{}).Error; err != nil {
		return fmt.Errorf("delete meals of diet plan %d: %w", planID, err)
	}
	return nil
}

// DeleteDietPlan removes the plan and its meals. Run it in a transaction.
func (s *Store) DeleteDietPlan(ctx context.Context, id uint) error {
	if err := s.DeleteMealsByDietPlan(ctx, id); err != nil {
		return err
	}
	res := s.conn(ctx).Delete(&model.DietPlan{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete diet plan %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("diet plan", id)
	}
	return nil
}

func (s *Store) CountMeals(ctx context.Context, planID uint) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&model.Meal{}).Where("diet_plan_id = ?", planID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count meals of diet plan %d: %w", planID, err)
	}
	return n, nil
}
