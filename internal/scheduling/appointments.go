package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"clinic-scheduling-server/internal/lock"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

// ListAppointments returns every appointment with its patient resolved.
func (s *Service) ListAppointments(ctx context.Context) ([]AppointmentDetail, error) {
	appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	byID := make(map[string]*models.Patient, len(patients))
	for i := range patients {
		byID[patients[i].ID] = &patients[i]
	}

	out := make([]AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		out = append(out, AppointmentDetail{Appointment: a, PatientDetails: byID[a.PatientID]})
	}
	return out, nil
}

// GetAppointment returns one appointment with its patient resolved.
func (s *Service) GetAppointment(ctx context.Context, id string) (*AppointmentDetail, error) {
	a, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAppointmentNotFound)
	}

	detail := &AppointmentDetail{Appointment: *a}
	if a.PatientID == "" {
		return detail, nil
	}
	p, err := s.store.GetPatient(ctx, a.PatientID)
	switch {
	case err == nil:
		detail.PatientDetails = p
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load appointment patient: %w", err)
	}
	return detail, nil
}

// ListAppointmentsForPatient returns the appointments referencing patientID.
// An unknown patient simply has none.
func (s *Service) ListAppointmentsForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{PatientID: patientID})
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return appts, nil
}

// CreateAppointment books a slot for a professional and a patient. The patient is
// found by name and date of birth, or created. Nothing is left behind when the
// slot turns out to be taken.
func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*Booking, error) {
	in.Time = strings.TrimSpace(in.Time)
	if in.Date.IsZero() {
		return nil, invalid("date is required")
	}
	if in.Time == "" {
		return nil, invalid("time is required")
	}
	if in.Professional.ID == "" && in.Professional.Email == "" {
		return nil, invalid("professionalDetails must carry an id or an email")
	}
	date := models.NormalizeDate(in.Date)

	var booking *Booking
	err := s.locker.WithSlotLock(ctx, models.SlotKey(date, in.Time), func(ctx context.Context) error {
		var err error
		booking, err = s.book(ctx, date, in)
		return err
	})
	if errors.Is(err, lock.ErrLockNotAcquired) {
		return nil, ErrSlotBusy
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *Service) book(ctx context.Context, date time.Time, in CreateAppointmentInput) (*Booking, error) {
	log := s.log.WithFields(logrus.Fields{"date": date.Format(models.DateLayout), "time": in.Time})

	// Cheap early exit so a doomed request does not create a patient. The unique
	// slot constraint on insert is what actually guarantees a single booking.
	_, err := s.store.FindAppointmentBySlot(ctx, date, in.Time)
	if err == nil {
		log.Info("already have an appointment for that date and time")
		return nil, ErrSlotTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check slot: %w", err)
	}

	professional, err := s.resolveProfessional(ctx, in.Professional)
	if err != nil {
		return nil, err
	}

	patient, created, err := s.FindOrCreatePatient(ctx, in.Patient)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		Date:           date,
		Time:           in.Time,
		Status:         models.StatusUpcoming,
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
	}
	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		if created {
			s.compensate(ctx, "delete patient "+patient.ID, func(ctx context.Context) error {
				return s.discardPatient(ctx, patient.ID)
			})
		}
		if errors.Is(err, store.ErrDuplicate) {
			log.Info("slot taken by a concurrent booking")
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	patientRecord, err := s.patientRecord(ctx, patient)
	if err != nil {
		return nil, err
	}
	professionalRecord, err := s.professionalRecord(ctx, professional)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"appointment_id":  appt.ID,
		"patient_id":      patient.ID,
		"professional_id": professional.ID,
		"patient_created": created,
	}).Info("new appointment created")

	return &Booking{
		Appointment:  *appt,
		Patient:      *patientRecord,
		Professional: *professionalRecord,
	}, nil
}

// discardPatient deletes a patient created by a failed booking, unless a
// concurrent booking has started referencing it in the meantime.
func (s *Service) discardPatient(ctx context.Context, id string) error {
	ids, err := s.appointmentIDs(ctx, store.AppointmentFilter{PatientID: id})
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return nil
	}
	if err := s.store.DeletePatient(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) resolveProfessional(ctx context.Context, ref ProfessionalRef) (*models.Professional, error) {
	if ref.ID != "" {
		p, err := s.store.GetProfessional(ctx, ref.ID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrNotFound) || ref.Email == "" {
			return nil, notFoundAs(err, ErrProfessionalNotFound)
		}
	}
	p, err := s.store.FindProfessionalByEmail(ctx, ref.Email)
	if err != nil {
		return nil, notFoundAs(err, ErrProfessionalNotFound)
	}
	return p, nil
}

// UpdateAppointment changes the appointment's date and time and, in the same
// call, the patient's details. If the patient write fails the appointment is
// restored.
func (s *Service) UpdateAppointment(ctx context.Context, id string, in UpdateAppointmentInput) (*AppointmentEdit, error) {
	current, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAppointmentNotFound)
	}

	updated := *current
	if !in.Date.IsZero() {
		updated.Date = models.NormalizeDate(in.Date)
	}
	if t := strings.TrimSpace(in.Time); t != "" {
		updated.Time = t
	}

	var edit *AppointmentEdit
	run := func(ctx context.Context) error {
		var err error
		edit, err = s.editAppointment(ctx, current, &updated, in)
		return err
	}

	if updated.SlotKey() == current.SlotKey() {
		err = run(ctx)
	} else {
		err = s.locker.WithSlotLock(ctx, updated.SlotKey(), run)
	}
	if errors.Is(err, lock.ErrLockNotAcquired) {
		return nil, ErrSlotBusy
	}
	if err != nil {
		return nil, err
	}
	return edit, nil
}

func (s *Service) editAppointment(ctx context.Context, current, updated *models.Appointment, in UpdateAppointmentInput) (*AppointmentEdit, error) {
	patientID := in.PatientID
	if patientID == "" {
		patientID = current.PatientID
	}

	// Load the patient before writing anything so a bad id costs no rollback.
	var patient *models.Patient
	if patientID != "" {
		p, err := s.store.GetPatient(ctx, patientID)
		if err != nil {
			return nil, notFoundAs(err, ErrPatientNotFound)
		}
		patient = p
	}

	if err := s.store.UpdateAppointment(ctx, updated); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrSlotTaken
		}
		return nil, notFoundAs(err, ErrAppointmentNotFound)
	}

	if patient != nil {
		applyPatient(patient, in.Patient)
		if err := s.store.UpdatePatient(ctx, patient); err != nil {
			previous := *current
			s.compensate(ctx, "restore appointment "+current.ID, func(ctx context.Context) error {
				return s.store.UpdateAppointment(ctx, &previous)
			})
			return nil, fmt.Errorf("update patient: %w", notFoundAs(err, ErrPatientNotFound))
		}
	}

	s.log.WithFields(logrus.Fields{"appointment_id": updated.ID, "patient_id": patientID}).Info("appointment updated")
	return &AppointmentEdit{Appointment: *updated, Patient: patient}, nil
}

// UpdateAppointmentStatus sets the status only. Statuses never change on their own.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	a, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAppointmentNotFound)
	}
	a.Status = status
	if err := s.store.UpdateAppointment(ctx, a); err != nil {
		return nil, notFoundAs(err, ErrAppointmentNotFound)
	}
	return a, nil
}

// DeleteAppointment removes the appointment. It disappears from its patient's and
// professional's appointment lists with it.
func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		return notFoundAs(err, ErrAppointmentNotFound)
	}
	s.log.WithField("appointment_id", id).Info("appointment deleted")
	return nil
}
