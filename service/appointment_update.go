package service

import (
	"context"
	"strings"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/util"
)

// UpdateAppointment applies a sparse patch: only keys present in patch
// change. The patient cannot be changed.
//
// The new date is not checked against the doctor's other appointments;
// only ScheduleAppointment enforces the conflict window.
func (s *Scheduler) UpdateAppointment(ctx context.Context, id uint, patch model.AppointmentPatch) (*model.Appointment, error) {
	var updated *model.Appointment
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		ap, err := tx.FindAppointment(ctx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated, err = tx.FindAppointmentWithParties(ctx, id)
			return err
		}
		if err := applyAppointmentPatch(ctx, tx, ap, patch); err != nil {
			return err
		}
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		updated, err = tx.FindAppointmentWithParties(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyAppointmentPatch validates every present field before touching ap,
// so a rejected patch leaves ap unchanged.
func applyAppointmentPatch(ctx context.Context, users repository.IdentityStore, ap *model.Appointment, patch model.AppointmentPatch) error {
	next := *ap

	if patch.DoctorID.Set {
		if patch.DoctorID.Null || patch.DoctorID.Value == 0 {
			return apperr.Validation("doctorId", "doctorId cannot be null")
		}
		if _, err := requireUser(ctx, users, patch.DoctorID.Value, "doctor"); err != nil {
			return err
		}
		next.DoctorID = patch.DoctorID.Value
	}

	if patch.AppointmentDate.Set {
		if patch.AppointmentDate.Null {
			return apperr.Validation("appointmentDate", "appointmentDate cannot be null")
		}
		date, err := util.ParseDateTime(patch.AppointmentDate.Value)
		if err != nil {
			return apperr.Validation("appointmentDate", "Invalid date format for appointmentDate: expected ISO-8601 date-time")
		}
		next.AppointmentDate = date
	}

	if patch.Type.Set {
		typ := strings.TrimSpace(patch.Type.Value)
		if patch.Type.Null || typ == "" {
			return apperr.Validation("type", "type cannot be empty")
		}
		next.Type = typ
	}

	if patch.Notes.Set {
		// null clears the notes
		next.Notes = patch.Notes.Value
	}

	if patch.Status.Set {
		status := strings.TrimSpace(patch.Status.Value)
		if patch.Status.Null || status == "" {
			return apperr.Validation("status", "status cannot be empty")
		}
		next.Status = status
	}

	*ap = next
	return nil
}
