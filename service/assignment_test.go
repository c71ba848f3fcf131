package service

import (
	"context"
	"testing"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignDietitian(t *testing.T) {
	store, db := setupStore(t)
	svc := NewAssignments(store)
	ctx := context.Background()
	patient := createUser(t, db, "Pat", model.RoleUser)
	first := createUser(t, db, "Diane", model.RoleDietitian)
	second := createUser(t, db, "Dora", model.RoleDietitian)

	got, err := svc.AssignDietitian(ctx, patient.ID, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedDietitianID)
	assert.Equal(t, first.ID, *got.AssignedDietitianID)

	// last write wins
	_, err = svc.AssignDietitian(ctx, patient.ID, second.ID)
	require.NoError(t, err)

	mine, err := svc.GetPatientsByDietitianID(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, patient.ID, mine[0].ID)

	none, err := svc.GetPatientsByDietitianID(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAssignDietitian_PatientRoleIsCaseInsensitive(t *testing.T) {
	store, db := setupStore(t)
	svc := NewAssignments(store)
	patient := createUser(t, db, "Pat", "PATIENT")
	dietitian := createUser(t, db, "Diane", model.RoleDietitian)

	_, err := svc.AssignDietitian(context.Background(), patient.ID, dietitian.ID)
	assert.NoError(t, err)
}

func TestAssignDietitian_Errors(t *testing.T) {
	store, db := setupStore(t)
	svc := NewAssignments(store)
	ctx := context.Background()
	patient := createUser(t, db, "Pat", model.RoleUser)
	doctor := createUser(t, db, "Doc", model.RoleDoctor)
	dietitian := createUser(t, db, "Diane", model.RoleDietitian)

	tests := []struct {
		name        string
		patientID   uint
		dietitianID uint
		wantErr     error
		wantMsg     string
	}{
		{"unknown patient", 900, dietitian.ID, apperr.ErrNotFound, "patient not found with id: 900"},
		{"patient is a doctor", doctor.ID, dietitian.ID, apperr.ErrValidation, ""},
		{"unknown dietitian", patient.ID, 901, apperr.ErrNotFound, "dietitian not found with id: 901"},
		{"dietitian is a doctor", patient.ID, doctor.ID, apperr.ErrNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignDietitian(ctx, tt.patientID, tt.dietitianID)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}

	var p model.User
	require.NoError(t, db.First(&p, patient.ID).Error)
	assert.Nil(t, p.AssignedDietitianID)
}

func TestListDietitians(t *testing.T) {
	store, db := setupStore(t)
	svc := NewAssignments(store)
	createUser(t, db, "Pat", model.RoleUser)
	d := createUser(t, db, "Diane", model.RoleDietitian)

	got, err := svc.ListDietitians(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, d.ID, got[0].ID)
}
