package repository

import (
	"context"
	"fmt"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) withMedications(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Preload("Medications", func(db *gorm.DB) *gorm.DB {
		return db.Order("prescription_medications.id")
	})
}

// FindPrescription loads the prescription with its medications.
func (s *Store) FindPrescription(ctx context.Context, id uint) (*model.Prescription, error) {
	var p model.Prescription
	if err := s.withMedications(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "prescription", id)
	}
	return &p, nil
}

func (s *Store) ListPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	var ps []model.Prescription
	if err := s.withMedications(ctx).Order("id").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	return ps, nil
}

func (s *Store) ListPrescriptionsByPatient(ctx context.Context, patientID uint) ([]model.Prescription, error) {
	var ps []model.Prescription
	if err := s.withMedications(ctx).
		Where("patient_id = ?", patientID).
		Order("prescription_date DESC, id DESC").
		Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list prescriptions of patient %d: %w", patientID, err)
	}
	return ps, nil
}

func (s *Store) ListPrescriptionsByDoctor(ctx context.Context, doctorID uint) ([]model.Prescription, error) {
	var ps []model.Prescription
	if err := s.withMedications(ctx).
		Where("doctor_id = ?", doctorID).
		Order("prescription_date DESC, id DESC").
		Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("list prescriptions of doctor %d: %w", doctorID, err)
	}
	return ps, nil
}

// ListPatientsWithPrescriptions returns every user that is the patient of
// at least one prescription.
func (s *Store) ListPatientsWithPrescriptions(ctx context.Context) ([]model.User, error) {
	var users []model.User
	sub := s.conn(ctx).Model(&model.Prescription{}).Select("patient_id")
	if err := s.conn(ctx).Where("id IN (?)", sub).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list patients with prescriptions: %w", err)
	}
	return users, nil
}

func (s *Store) CreatePrescription(ctx context.Context, p *model.Prescription) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("create prescription: %w", err)
	}
	return nil
}

// SavePrescription updates the prescription row. PrescriptionDate is
// create-only and is never written here.
func (s *Store) SavePrescription(ctx context.Context, p *model.Prescription) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return fmt.Errorf("save prescription %d: %w", p.ID, err)
	}
	return nil
}

// CreateMedications inserts meds as children of prescriptionID.
func (s *Store) CreateMedications(ctx context.Context, prescriptionID uint, meds []model.PrescriptionMedication) error {
	if len(meds) == 0 {
		return nil
	}
	for i := range meds {
		meds[i].ID = 0
		meds[i].PrescriptionID = prescriptionID
	}
	if err := s.conn(ctx).Create(&meds).Error; err != nil {
		return fmt.Errorf("create medications of prescription %d: %w", prescriptionID, err)
	}
	return nil
}

// SaveMedication updates an existing medication in place.
func (s *Store) SaveMedication(ctx context.Context, med *model.PrescriptionMedication) error {
	if err := s.conn(ctx).Save(med).Error; err != nil {
		return fmt.Errorf("save medication %d: %w", med.ID, err)
	}
	return nil
}

// DeleteMedicationsExcept removes every medication of prescriptionID whose
// id is not in keep. An empty keep removes them all.
func (s *Store) DeleteMedicationsExcept(ctx context.Context, prescriptionID uint, keep []uint) error {
	q := s.conn(ctx).Where("prescription_id = ?", prescriptionID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	if err := q.Delete(&model.PrescriptionMedication{}).Error; err != nil {
		return fmt.Errorf("delete medications of prescription %d: %w", prescriptionID, err)
	}
	return nil
}

// DeletePrescription removes the prescription and its medications. Run it in a transaction.
func (s *Store) DeletePrescription(ctx context.Context, id uint) error {
	if err := s.DeleteMedicationsExcept(ctx, id, nil); err != nil {
		return err
	}
	res := s.conn(ctx).Delete(&model.Prescription{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete prescription %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("prescription", id)
	}
	return nil
}
