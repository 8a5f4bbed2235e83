package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

// ListPatients returns every patient with its appointment ids.
func (s *Service) ListPatients(ctx context.Context) ([]PatientRecord, error) {
	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	byOwner := groupIDs(appts, func(a models.Appointment) string { return a.PatientID })
	out := make([]PatientRecord, 0, len(patients))
	for _, p := range patients {
		out = append(out, PatientRecord{Patient: p, Appointments: orEmpty(byOwner[p.ID])})
	}
	return out, nil
}

// GetPatient returns one patient.
func (s *Service) GetPatient(ctx context.Context, id string) (*PatientRecord, error) {
	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPatientNotFound)
	}
	return s.patientRecord(ctx, p)
}

// UpdatePatient overwrites name, date of birth and current treatment where given.
func (s *Service) UpdatePatient(ctx context.Context, id string, in PatientInput) (*PatientRecord, error) {
	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPatientNotFound)
	}

	applyPatient(p, in)
	if err := s.store.UpdatePatient(ctx, p); err != nil {
		return nil, notFoundAs(err, ErrPatientNotFound)
	}
	return s.patientRecord(ctx, p)
}

// DeletePatient removes the patient. Appointments referencing it are kept.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	if err := s.store.DeletePatient(ctx, id); err != nil {
		return notFoundAs(err, ErrPatientNotFound)
	}
	s.log.WithField("patient_id", id).Info("patient deleted")
	return nil
}

// FindOrCreatePatient returns the patient with the same name and date of birth,
// creating it when there is none. The boolean reports whether it was created.
// An existing patient's current treatment is not changed.
func (s *Service) FindOrCreatePatient(ctx context.Context, in PatientInput) (*models.Patient, bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, false, invalid("patient name is required")
	}
	if in.DateOfBirth.IsZero() {
		return nil, false, invalid("patient dateOfBirth is required")
	}
	dob := models.NormalizeDate(in.DateOfBirth)

	existing, err := s.store.FindPatient(ctx, in.Name, dob)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("find patient: %w", err)
	}

	p := &models.Patient{
		Name:             in.Name,
		DateOfBirth:      dob,
		CurrentTreatment: in.CurrentTreatment,
	}
	if err := s.store.CreatePatient(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create patient: %w", err)
	}
	s.log.WithFields(logrus.Fields{"patient_id": p.ID}).Info("new patient saved")
	return p, true, nil
}

func applyPatient(p *models.Patient, in PatientInput) {
	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if !in.DateOfBirth.IsZero() {
		p.DateOfBirth = models.NormalizeDate(in.DateOfBirth)
	}
	if in.CurrentTreatment != "" {
		p.CurrentTreatment = in.CurrentTreatment
	}
}

func (s *Service) patientRecord(ctx context.Context, p *models.Patient) (*PatientRecord, error) {
	ids, err := s.appointmentIDs(ctx, store.AppointmentFilter{PatientID: p.ID})
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return &PatientRecord{Patient: *p, Appointments: ids}, nil
}
