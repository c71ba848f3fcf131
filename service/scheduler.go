package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/util"
)

// ConflictWindow is the half-width of the open interval around a requested
// date in which another appointment of the same doctor blocks booking.
const ConflictWindow = model.AppointmentSlot

// Locker serialises bookings per doctor. util.DoctorLocker implements it.
type Locker interface {
	Acquire(ctx context.Context, doctorID uint) (func(), error)
}

// Scheduler books appointments without overlapping a doctor's agenda.
type Scheduler struct {
	store  *repository.Store
	locker Locker
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLocker adds a cross-instance per-doctor lock around booking.
func WithLocker(l Locker) SchedulerOption {
	return func(s *Scheduler) {
		s.locker = l
	}
}

// NewScheduler returns a Scheduler over store.
func NewScheduler(store *repository.Store, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleAppointment books a new appointment with status "scheduled".
// It fails with a conflict when the doctor already has an appointment
// starting less than ConflictWindow before or after the requested date.
func (s *Scheduler) ScheduleAppointment(ctx context.Context, req model.ScheduleAppointmentRequest) (*model.Appointment, error) {
	if err := requiredID(req.PatientID, "patientId"); err != nil {
		return nil, err
	}
	if err := requiredID(req.DoctorID, "doctorId"); err != nil {
		return nil, err
	}
	date, err := util.ParseDateTime(req.AppointmentDate)
	if err != nil {
		return nil, apperr.Validation("appointmentDate", "Invalid date format for appointmentDate: expected ISO-8601 date-time")
	}
	typ, err := requiredText(req.Type, "type")
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	defer release()

	var created *model.Appointment
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		// The doctor row lock must be the first read of the transaction.
		// Under REPEATABLE READ an earlier plain read would pin a snapshot
		// taken before a competing booking committed.
		if _, err := tx.LockUser(ctx, req.DoctorID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.NotFound("doctor", req.DoctorID)
			}
			return err
		}
		if _, err := requireUser(ctx, tx, req.PatientID, "patient"); err != nil {
			return err
		}

		busy, err := tx.HasDoctorAppointmentWithin(ctx, req.DoctorID, date.Add(-ConflictWindow), date.Add(ConflictWindow))
		if err != nil {
			return err
		}
		if busy {
			return apperr.Conflict("appointment", fmt.Sprintf(
				"Doctor already has an appointment within %d minutes of %s",
				int(ConflictWindow/time.Minute), date.Format(time.RFC3339)))
		}

		ap := &model.Appointment{
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			AppointmentDate: date,
			Type:            typ,
			Status:          model.AppointmentScheduled,
			Notes:           req.Notes,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// acquire takes the optional per-doctor lock. A busy lock is a conflict;
// an unreachable lock backend only loses the cross-instance guard.
func (s *Scheduler) acquire(ctx context.Context, doctorID uint) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	release, err := s.locker.Acquire(ctx, doctorID)
	switch {
	case err == nil:
		return release, nil
	case errors.Is(err, util.ErrLockBusy):
		return nil, apperr.Conflict("appointment", "Another booking for this doctor is in progress, please retry")
	default:
		util.Logger().Warn().Err(err).Uint("doctor_id", doctorID).Msg("schedule lock unavailable, relying on row lock")
		return noop, nil
	}
}

// GetDoctorSchedule returns the doctor's appointments with a date in
// [start, end], ordered by date.
func (s *Scheduler) GetDoctorSchedule(ctx context.Context, doctorID uint, start, end time.Time) ([]model.Appointment, error) {
	if end.Before(start) {
		return nil, apperr.Validation("end", "end must not be before start")
	}
	return s.store.ListDoctorAppointmentsBetween(ctx, doctorID, start, end)
}

func (s *Scheduler) GetAppointment(ctx context.Context, id uint) (*model.Appointment, error) {
	return s.store.FindAppointmentWithParties(ctx, id)
}

func (s *Scheduler) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	return s.store.ListAppointments(ctx)
}

func (s *Scheduler) ListDoctorAppointments(ctx context.Context, doctorID uint) ([]model.Appointment, error) {
	return s.store.ListAppointmentsByDoctor(ctx, doctorID)
}

func (s *Scheduler) ListPatientAppointments(ctx context.Context, patientID uint) ([]model.Appointment, error) {
	return s.store.ListAppointmentsByPatient(ctx, patientID)
}

// DeleteAppointment hard-deletes the appointment.
func (s *Scheduler) DeleteAppointment(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.DeleteAppointment(ctx, id)
	})
}
