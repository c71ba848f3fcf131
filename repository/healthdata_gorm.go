package repository

import (
	"context"
	"fmt"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
)

func (s *Store) FindHealthData(ctx context.Context, id uint) (*model.HealthData, error) {
	var h model.HealthData
	if err := s.conn(ctx).First(&h, id).Error; err != nil {
		return nil, translate(err, "health data", id)
	}
	return &h, nil
}

func (s *Store) ListHealthData(ctx context.Context) ([]model.HealthData, error) {
	var hs []model.HealthData
	if err := s.conn(ctx).Order("id").Find(&hs).Error; err != nil {
		return nil, fmt.Errorf("list health data: %w", err)
	}
	return hs, nil
}

func (s *Store) ListHealthDataByUser(ctx context.Context, userID uint) ([]model.HealthData, error) {
	var hs []model.HealthData
	if err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&hs).Error; err != nil {
		return nil, fmt.Errorf("list health data of user %d: %w", userID, err)
	}
	return hs, nil
}

// SaveHealthData inserts or updates h; BMI is recomputed by the model hook.
func (s *Store) SaveHealthData(ctx context.Context, h *model.HealthData) error {
	if err := s.conn(ctx).Save(h).Error; err != nil {
		return fmt.Errorf("save health data: %w", err)
	}
	return nil
}

func (s *Store) DeleteHealthData(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&model.HealthData{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete health data %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("health data", id)
	}
	return nil
}

func (s *Store) DeleteHealthDataByUser(ctx context.Context, userID uint) error {
	if err := s.conn(ctx).Where("user_id = ?", userID).Delete(&model.HealthData{}).Error; err != nil {
		return fmt.Errorf("delete health data of user %d: %w", userID, err)
	}
	return nil
}
