package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (s *Store) withParties(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Preload("Patient").Preload("Doctor")
}

func (s *Store) FindAppointment(ctx context.Context, id uint) (*model.Appointment, error) {
	var ap model.Appointment
	if err := s.conn(ctx).First(&ap, id).Error; err != nil {
		return nil, translate(err, "appointment", id)
	}
	return &ap, nil
}

// FindAppointmentWithParties loads the appointment with patient and doctor.
func (s *Store) FindAppointmentWithParties(ctx context.Context, id uint) (*model.Appointment, error) {
	var ap model.Appointment
	if err := s.withParties(ctx).First(&ap, id).Error; err != nil {
		return nil, translate(err, "appointment", id)
	}
	return &ap, nil
}

func (s *Store) AppointmentExists(ctx context.Context, id uint) (bool, error) {
	var ids []uint
	if err := s.conn(ctx).Model(&model.Appointment{}).Where("id = ?", id).Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("check appointment %d: %w", id, err)
	}
	return len(ids) > 0, nil
}

func (s *Store) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	var aps []model.Appointment
	if err := s.withParties(ctx).Order("appointment_date, id").Find(&aps).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return aps, nil
}

func (s *Store) ListAppointmentsByDoctor(ctx context.Context, doctorID uint) ([]model.Appointment, error) {
	var aps []model.Appointment
	if err := s.withParties(ctx).
		Where("doctor_id = ?", doctorID).
		Order("appointment_date, id").
		Find(&aps).Error; err != nil {
		return nil, fmt.Errorf("list appointments of doctor %d: %w", doctorID, err)
	}
	return aps, nil
}

func (s *Store) ListAppointmentsByPatient(ctx context.Context, patientID uint) ([]model.Appointment, error) {
	var aps []model.Appointment
	if err := s.withParties(ctx).
		Where("patient_id = ?", patientID).
		Order("appointment_date, id").
		Find(&aps).Error; err != nil {
		return nil, fmt.Errorf("list appointments of patient %d: %w", patientID, err)
	}
	return aps, nil
}

// ListDoctorAppointmentsBetween returns the doctor's appointments with a
// date in the closed range [start, end].
func (s *Store) ListDoctorAppointmentsBetween(ctx context.Context, doctorID uint, start, end time.Time) ([]model.Appointment, error) {
	var aps []model.Appointment
	if err := s.withParties(ctx).
		Where("doctor_id = ? AND appointment_date >= ? AND appointment_date <= ?", doctorID, start.UTC(), end.UTC()).
		Order("appointment_date, id").
		Find(&aps).Error; err != nil {
		return nil, fmt.Errorf("list schedule of doctor %d: %w", doctorID, err)
	}
	return aps, nil
}

// HasDoctorAppointmentWithin reports whether the doctor has an appointment
// with a date strictly between from and to. The bounds themselves are free.
// It is a locking read so it sees rows committed after the transaction's
// snapshot was taken.
func (s *Store) HasDoctorAppointmentWithin(ctx context.Context, doctorID uint, from, to time.Time) (bool, error) {
	var ids []uint
	if err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&model.Appointment{}).
		Where("doctor_id = ? AND appointment_date > ? AND appointment_date < ?", doctorID, from.UTC(), to.UTC()).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("check schedule of doctor %d: %w", doctorID, err)
	}
	return len(ids) > 0, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (s *Store) CreateAppointment(ctx context.Context, ap *model.Appointment) error {
	ap.AppointmentDate = ap.AppointmentDate.UTC()
	if err := s.conn(ctx).Omit(clause.Associations).Create(ap).Error; err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func (s *Store) SaveAppointment(ctx context.Context, ap *model.Appointment) error {
	ap.AppointmentDate = ap.AppointmentDate.UTC()
	if err := s.conn(ctx).Omit(clause.Associations).Save(ap).Error; err != nil {
		return fmt.Errorf("save appointment %d: %w", ap.ID, err)
	}
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&model.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete appointment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("appointment", id)
	}
	return nil
}
