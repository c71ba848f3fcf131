package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasDoctorAppointmentWithin_OpenInterval(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	patient := createUser(t, db, "Pat", model.RoleUser)
	doctor := createUser(t, db, "Doc", model.RoleDoctor)

	require.NoError(t, store.CreateAppointment(ctx, &model.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, AppointmentDate: at(10, 0), Type: "checkup", Status: model.AppointmentScheduled,
	}))

	tests := []struct {
		name     string
		from, to time.Time
		want     bool
	}{
		{"window around existing", at(9, 45), at(10, 15), true},
		{"upper bound equals existing", at(9, 0), at(10, 0), false},
		{"lower bound equals existing", at(10, 0), at(11, 0), false},
		{"disjoint", at(11, 0), at(12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			busy, err := store.HasDoctorAppointmentWithin(ctx, doctor.ID, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, busy)
		})
	}

	busy, err := store.HasDoctorAppointmentWithin(ctx, doctor.ID+100, at(9, 45), at(10, 15))
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestListDoctorAppointmentsBetween_Inclusive(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	patient := createUser(t, db, "Pat Smith", model.RoleUser)
	doctor := createUser(t, db, "Doc", model.RoleDoctor)

	for _, d := range []time.Time{at(8, 0), at(9, 0), at(10, 0), at(11, 0)} {
		require.NoError(t, store.CreateAppointment(ctx, &model.Appointment{
			PatientID: patient.ID, DoctorID: doctor.ID, AppointmentDate: d, Type: "checkup", Status: model.AppointmentScheduled,
		}))
	}

	aps, err := store.ListDoctorAppointmentsBetween(ctx, doctor.ID, at(9, 0), at(10, 0))
	require.NoError(t, err)
	require.Len(t, aps, 2)
	assert.True(t, aps[0].AppointmentDate.Equal(at(9, 0)))
	assert.True(t, aps[1].AppointmentDate.Equal(at(10, 0)))
	require.NotNil(t, aps[0].Patient)
	assert.Equal(t, "Pat Smith", aps[0].Patient.FullName)
}

func TestAppointmentCreateStoresUTC(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	patient := createUser(t, db, "Pat", model.RoleUser)
	doctor := createUser(t, db, "Doc", model.RoleDoctor)

	plus2 := time.FixedZone("plus2", 2*60*60)
	ap := &model.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID,
		AppointmentDate: time.Date(2025, 3, 1, 12, 0, 0, 0, plus2),
		Type:            "checkup", Status: model.AppointmentScheduled,
	}
	require.NoError(t, store.CreateAppointment(ctx, ap))

	busy, err := store.HasDoctorAppointmentWithin(ctx, doctor.ID, at(9, 50), at(10, 10))
	require.NoError(t, err)
	assert.True(t, busy)
}

func TestDeleteAppointment(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	patient := createUser(t, db, "Pat", model.RoleUser)
	doctor := createUser(t, db, "Doc", model.RoleDoctor)

	ap := &model.Appointment{PatientID: patient.ID, DoctorID: doctor.ID, AppointmentDate: at(10, 0), Type: "checkup", Status: model.AppointmentScheduled}
	require.NoError(t, store.CreateAppointment(ctx, ap))

	exists, err := store.AppointmentExists(ctx, ap.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteAppointment(ctx, ap.ID))
	assert.ErrorIs(t, store.DeleteAppointment(ctx, ap.ID), apperr.ErrNotFound)

	_, err = store.FindAppointment(ctx, ap.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
