package service

import (
	"context"
	"strings"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
)

type HealthRecords struct {
	store *repository.Store
}

func NewHealthRecords(store *repository.Store) *HealthRecords {
	return &HealthRecords{store: store}
}

func (s *HealthRecords) Create(ctx context.Context, req model.HealthDataRequest) (*model.HealthData, error) {
	if err := requiredID(req.UserID, "userId"); err != nil {
		return nil, err
	}
	if err := validateMeasurements(req); err != nil {
		return nil, err
	}
	h := &model.HealthData{UserID: req.UserID}
	applyHealthData(h, req)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := requireUser(ctx, tx, req.UserID, "user"); err != nil {
			return err
		}
		return tx.SaveHealthData(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Update overwrites the record's measurements. The owning user never changes.
func (s *HealthRecords) Update(ctx context.Context, id uint, req model.HealthDataRequest) (*model.HealthData, error) {
	if err := validateMeasurements(req); err != nil {
		return nil, err
	}
	var updated *model.HealthData
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		h, err := tx.FindHealthData(ctx, id)
		if err != nil {
			return err
		}
		applyHealthData(h, req)
		if err := tx.SaveHealthData(ctx, h); err != nil {
			return err
		}
		updated = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *HealthRecords) Get(ctx context.Context, id uint) (*model.HealthData, error) {
	return s.store.FindHealthData(ctx, id)
}

func (s *HealthRecords) List(ctx context.Context) ([]model.HealthData, error) {
	return s.store.ListHealthData(ctx)
}

// ListByUser returns the user's records, newest first.
func (s *HealthRecords) ListByUser(ctx context.Context, userID uint) ([]model.HealthData, error) {
	if _, err := requireUser(ctx, s.store, userID, "user"); err != nil {
		return nil, err
	}
	return s.store.ListHealthDataByUser(ctx, userID)
}

func (s *HealthRecords) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.DeleteHealthData(ctx, id)
	})
}

func validateMeasurements(req model.HealthDataRequest) error {
	switch {
	case req.Age < 0:
		return apperr.Validation("age", "age must not be negative")
	case req.Weight < 0:
		return apperr.Validation("weight", "weight must not be negative")
	case req.Height < 0:
		return apperr.Validation("height", "height must not be negative")
	}
	return nil
}

func applyHealthData(h *model.HealthData, req model.HealthDataRequest) {
	h.Age = req.Age
	h.Weight = req.Weight
	h.Height = req.Height
	h.ActivityLevel = strings.TrimSpace(req.ActivityLevel)
	h.Allergies = req.Allergies
	h.MedicalHistory = req.MedicalHistory
	h.DietaryPreferences = req.DietaryPreferences
	h.HealthGoal = req.HealthGoal
}
