package service

import (
	"context"
	"strings"
	"time"

	"github.com/ariebrainware/clinic-care/apperr"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/repository"
	"github.com/ariebrainware/clinic-care/util"
)

type Prescriptions struct {
	store *repository.Store
	now   func() time.Time
}

func NewPrescriptions(store *repository.Store) *Prescriptions {
	return &Prescriptions{store: store, now: time.Now}
}

// CreatePrescription stores an ACTIVE prescription dated today together
// with its medications.
func (s *Prescriptions) CreatePrescription(ctx context.Context, req model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if err := requiredID(req.PatientID, "patientId"); err != nil {
		return nil, err
	}
	if err := requiredID(req.DoctorID, "doctorId"); err != nil {
		return nil, err
	}
	diagnosis, err := requiredText(req.Diagnosis, "diagnosis")
	if err != nil {
		return nil, err
	}
	validUntil, err := parseValidUntil(req.ValidUntil)
	if err != nil {
		return nil, err
	}
	meds, err := buildMedications(req.Medications)
	if err != nil {
		return nil, err
	}

	var created *model.Prescription
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := requireUser(ctx, tx, req.PatientID, "patient"); err != nil {
			return err
		}
		if _, err := requireUser(ctx, tx, req.DoctorID, "doctor"); err != nil {
			return err
		}
		p := &model.Prescription{
			PatientID:        req.PatientID,
			DoctorID:         req.DoctorID,
			Diagnosis:        diagnosis,
			Notes:            req.Notes,
			ValidUntil:       validUntil,
			PrescriptionDate: util.StartOfDay(s.now()),
			Status:           model.PrescriptionActive,
		}
		if err := tx.CreatePrescription(ctx, p); err != nil {
			return err
		}
		if err := tx.CreateMedications(ctx, p.ID, meds); err != nil {
			return err
		}
		created, err = tx.FindPrescription(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePrescription merges the present fields of patch and, when
// patch.Medications is present, reconciles the medication list.
func (s *Prescriptions) UpdatePrescription(ctx context.Context, id uint, patch model.PrescriptionPatch) (*model.Prescription, error) {
	var updated *model.Prescription
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		p, err := tx.FindPrescription(ctx, id)
		if err != nil {
			return err
		}
		next := *p
		if err := applyPrescriptionPatch(&next, patch); err != nil {
			return err
		}
		next.Medications = nil
		if err := tx.SavePrescription(ctx, &next); err != nil {
			return err
		}
		if patch.Medications.Present() {
			if err := reconcileMedications(ctx, tx, p, patch.Medications.Value); err != nil {
				return err
			}
		}
		updated, err = tx.FindPrescription(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyPrescriptionPatch(p *model.Prescription, patch model.PrescriptionPatch) error {
	if patch.Diagnosis.Set {
		diagnosis, err := requiredText(patch.Diagnosis.Value, "diagnosis")
		if err != nil {
			return err
		}
		p.Diagnosis = diagnosis
	}
	if patch.Notes.Set {
		p.Notes = patch.Notes.Value
	}
	if patch.ValidUntil.Set {
		if patch.ValidUntil.Null {
			return apperr.Validation("validUntil", "validUntil is required")
		}
		validUntil, err := parseValidUntil(patch.ValidUntil.Value)
		if err != nil {
			return err
		}
		p.ValidUntil = validUntil
	}
	if patch.Status.Set {
		status := strings.ToUpper(strings.TrimSpace(patch.Status.Value))
		if !util.Contains(status, model.PrescriptionStatuses) {
			return apperr.Validationf("status", "status must be one of %s", strings.Join(model.PrescriptionStatuses, ", "))
		}
		p.Status = status
	}
	return nil
}

// reconcileMedications makes the stored medications of p equal to reqs.
// Entries whose id matches a current medication of p are updated in
// place; all others are inserted; current medications not referenced are
// deleted.
func reconcileMedications(ctx context.Context, tx *repository.Store, p *model.Prescription, reqs []model.MedicationRequest) error {
	current := make(map[uint]model.PrescriptionMedication, len(p.Medications))
	for _, m := range p.Medications {
		current[m.ID] = m
	}

	keep := make([]uint, 0, len(reqs))
	var matched []model.PrescriptionMedication
	var fresh []model.PrescriptionMedication
	for i, r := range reqs {
		med, err := buildMedication(i, r)
		if err != nil {
			return err
		}
		if r.ID != nil {
			if existing, ok := current[*r.ID]; ok {
				med.ID = existing.ID
				med.PrescriptionID = p.ID
				matched = append(matched, med)
				keep = append(keep, existing.ID)
				delete(current, existing.ID)
				continue
			}
		}
		fresh = append(fresh, med)
	}

	if err := tx.DeleteMedicationsExcept(ctx, p.ID, keep); err != nil {
		return err
	}
	for i := range matched {
		if err := tx.SaveMedication(ctx, &matched[i]); err != nil {
			return err
		}
	}
	return tx.CreateMedications(ctx, p.ID, fresh)
}

// DeletePrescription removes the prescription and its medications.
func (s *Prescriptions) DeletePrescription(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.DeletePrescription(ctx, id)
	})
}

func (s *Prescriptions) GetPrescription(ctx context.Context, id uint) (*model.Prescription, error) {
	return s.store.FindPrescription(ctx, id)
}

func (s *Prescriptions) ListPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	return s.store.ListPrescriptions(ctx)
}

func (s *Prescriptions) ListByDoctor(ctx context.Context, doctorID uint) ([]model.Prescription, error) {
	return s.store.ListPrescriptionsByDoctor(ctx, doctorID)
}

// ListByPatient fails with NotFound when the patient does not exist.
func (s *Prescriptions) ListByPatient(ctx context.Context, patientID uint) ([]model.Prescription, error) {
	if _, err := requireUser(ctx, s.store, patientID, "patient"); err != nil {
		return nil, err
	}
	return s.store.ListPrescriptionsByPatient(ctx, patientID)
}

// PatientsWithPrescriptions summarises every patient that has at least one
// prescription using their most recent one.
func (s *Prescriptions) PatientsWithPrescriptions(ctx context.Context) ([]model.PatientPrescriptionSummary, error) {
	patients, err := s.store.ListPatientsWithPrescriptions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PatientPrescriptionSummary, 0, len(patients))
	for _, u := range patients {
		ps, err := s.store.ListPrescriptionsByPatient(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if len(ps) == 0 {
			continue
		}
		latest := ps[0]
		meds := latest.Medications
		if meds == nil {
			meds = []model.PrescriptionMedication{}
		}
		out = append(out, model.PatientPrescriptionSummary{
			PatientID:          u.ID,
			FullName:           u.FullName,
			Email:              u.Email,
			Phone:              u.Phone,
			PrescriptionID:     latest.ID,
			PrescriptionDate:   latest.PrescriptionDate,
			Diagnosis:          latest.Diagnosis,
			PrescriptionStatus: latest.Status,
			Medications:        meds,
		})
	}
	return out, nil
}

// Respond attaches patient and doctor display names.
func (s *Prescriptions) Respond(p model.Prescription) model.PrescriptionResponse {
	db := s.store.DB()
	return model.NewPrescriptionResponse(p, util.GetUserName(db, p.PatientID), util.GetUserName(db, p.DoctorID))
}

func (s *Prescriptions) RespondAll(ps []model.Prescription) []model.PrescriptionResponse {
	out := make([]model.PrescriptionResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, s.Respond(p))
	}
	return out
}

func parseValidUntil(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, apperr.Validation("validUntil", "validUntil is required")
	}
	t, err := util.ParseDate(value)
	if err != nil {
		return time.Time{}, apperr.Validation("validUntil", "Invalid date format for validUntil: expected ISO-8601 date")
	}
	return t, nil
}

func buildMedications(reqs []model.MedicationRequest) ([]model.PrescriptionMedication, error) {
	meds := make([]model.PrescriptionMedication, 0, len(reqs))
	for i, r := range reqs {
		m, err := buildMedication(i, r)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, nil
}

func buildMedication(i int, r model.MedicationRequest) (model.PrescriptionMedication, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return model.PrescriptionMedication{}, apperr.Validationf("medications", "medications[%d].name is required", i)
	}
	return model.PrescriptionMedication{
		Name:         name,
		Dosage:       r.Dosage,
		Frequency:    r.Frequency,
		Duration:     r.Duration,
		Instructions: r.Instructions,
	}, nil
}
