package service

import (
	"context"
	"fmt"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
)

type Assignments struct {
	store *repository.Store
}

func NewAssignments(store *repository.Store) *Assignments {
	return &Assignments{store: store}
}

// AssignDietitian points the patient at the dietitian, replacing any
// earlier assignment.
func (s *Assignments) AssignDietitian(ctx context.Context, patientID, dietitianID uint) (*model.User, error) {
	var patient *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := requireUser(ctx, tx, patientID, "patient")
		if err != nil {
			return err
		}
		if !model.IsPatientRole(p.Role) {
			return apperr.Validation("patientId", fmt.Sprintf("User with id %d is not a patient", patientID))
		}
		if _, err := tx.FindUserByIDAndRole(ctx, dietitianID, model.RoleDietitian); err != nil {
			return err
		}
		p.AssignedDietitianID = &dietitianID
		if err := tx.SaveUser(ctx, p); err != nil {
			return err
		}
		patient = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Assignments) GetPatientsByDietitianID(ctx context.Context, dietitianID uint) ([]model.User, error) {
	return s.store.FindUsersByAssignedDietitian(ctx, dietitianID)
}

func (s *Assignments) ListDietitians(ctx context.Context) ([]model.User, error) {
	return s.store.FindUsersByRole(ctx, model.RoleDietitian)
}
