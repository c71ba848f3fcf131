package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
)

type DietPlans struct {
	store *repository.Store
}

func NewDietPlans(store *repository.Store) *DietPlans {
	return &DietPlans{store: store}
}

// CreateDietPlan inserts the plan, then its meals, in one transaction.
func (s *DietPlans) CreateDietPlan(ctx context.Context, req model.DietPlanRequest) (*model.DietPlan, error) {
	title, err := requiredText(req.Title, "title")
	if err != nil {
		return nil, err
	}
	if err := requiredID(req.PatientID, "patientId"); err != nil {
		return nil, err
	}
	if err := requiredID(req.DietitianID, "dietitianId"); err != nil {
		return nil, err
	}
	meals, err := buildMeals(req.Meals)
	if err != nil {
		return nil, err
	}

	var created *model.DietPlan
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := requireUser(ctx, tx, req.PatientID, "patient"); err != nil {
			return err
		}
		if _, err := requireUser(ctx, tx, req.DietitianID, "dietitian"); err != nil {
			return err
		}

		plan := &model.DietPlan{
			PatientID:   req.PatientID,
			DietitianID: req.DietitianID,
		}
		applyDietPlanFields(plan, title, req)
		if plan.Status == "" {
			plan.Status = model.DietPlanDraft
		}
		if err := tx.CreateDietPlan(ctx, plan); err != nil {
			return err
		}
		if err := tx.CreateMeals(ctx, plan.ID, meals); err != nil {
			return err
		}
		created, err = tx.FindDietPlan(ctx, plan.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateDietPlan overwrites the plan's descriptive fields with req. An
// empty status keeps the current one and a zero patient or dietitian id
// keeps the current party. When req.Meals is non-nil the stored meals are
// replaced by exactly that list.
func (s *DietPlans) UpdateDietPlan(ctx context.Context, id uint, req model.DietPlanRequest) (*model.DietPlan, error) {
	title, err := requiredText(req.Title, "title")
	if err != nil {
		return nil, err
	}
	meals, err := buildMeals(req.Meals)
	if err != nil {
		return nil, err
	}

	var updated *model.DietPlan
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		plan, err := tx.FindDietPlanRow(ctx, id)
		if err != nil {
			return err
		}
		if req.PatientID != 0 {
			if _, err := requireUser(ctx, tx, req.PatientID, "patient"); err != nil {
				return err
			}
			plan.PatientID = req.PatientID
		}
		if req.DietitianID != 0 {
			if _, err := requireUser(ctx, tx, req.DietitianID, "dietitian"); err != nil {
				return err
			}
			plan.DietitianID = req.DietitianID
		}

		status := plan.Status
		applyDietPlanFields(plan, title, req)
		if plan.Status == "" {
			plan.Status = status
		}
		if err := tx.SaveDietPlan(ctx, plan); err != nil {
			return err
		}

		if req.Meals != nil {
			if err := tx.DeleteMealsByDietPlan(ctx, plan.ID); err != nil {
				return err
			}
			if err := tx.CreateMeals(ctx, plan.ID, meals); err != nil {
				return err
			}
		}
		updated, err = tx.FindDietPlan(ctx, plan.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDietPlan removes the plan and all of its meals.
func (s *DietPlans) DeleteDietPlan(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.DeleteDietPlan(ctx, id)
	})
}

func (s *DietPlans) GetDietPlan(ctx context.Context, id uint) (*model.DietPlan, error) {
	return s.store.FindDietPlan(ctx, id)
}

func (s *DietPlans) ListByPatient(ctx context.Context, patientID uint) ([]model.DietPlan, error) {
	return s.store.ListDietPlansByPatient(ctx, patientID)
}

func (s *DietPlans) ListByDietitian(ctx context.Context, dietitianID uint) ([]model.DietPlan, error) {
	return s.store.ListDietPlansByDietitian(ctx, dietitianID)
}

func applyDietPlanFields(plan *model.DietPlan, title string, req model.DietPlanRequest) {
	plan.Title = title
	plan.Description = req.Description
	plan.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	plan.DailyCalories = req.DailyCalories
	plan.Protein = req.Protein
	plan.Carbs = req.Carbs
	plan.Fat = req.Fat
	plan.Notes = req.Notes
}

func buildMeals(reqs []model.MealRequest) ([]model.Meal, error) {
	meals := make([]model.Meal, 0, len(reqs))
	for i, r := range reqs {
		mealType := strings.TrimSpace(r.MealType)
		if mealType == "" {
			field := fmt.Sprintf("meals[%d].mealType", i)
			return nil, apperr.Validationf(field, "%s is required", field)
		}
		meals = append(meals, model.Meal{
			MealType:    mealType,
			Description: r.Description,
			Calories:    r.Calories,
		})
	}
	return meals, nil
}
