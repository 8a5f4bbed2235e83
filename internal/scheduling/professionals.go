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

// ListProfessionals returns every professional with its appointment ids.
func (s *Service) ListProfessionals(ctx context.Context) ([]ProfessionalRecord, error) {
	professionals, err := s.store.ListProfessionals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	byOwner := groupIDs(appts, func(a models.Appointment) string { return a.ProfessionalID })
	out := make([]ProfessionalRecord, 0, len(professionals))
	for _, p := range professionals {
		out = append(out, ProfessionalRecord{Professional: p, Appointments: orEmpty(byOwner[p.ID])})
	}
	return out, nil
}

// ListProfessionalsWithAppointments returns every professional with its
// appointments resolved inline.
func (s *Service) ListProfessionalsWithAppointments(ctx context.Context) ([]ProfessionalWithAppointments, error) {
	professionals, err := s.store.ListProfessionals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	appts, err := s.store.ListAppointments(ctx, store.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	byOwner := make(map[string][]models.Appointment)
	for _, a := range appts {
		byOwner[a.ProfessionalID] = append(byOwner[a.ProfessionalID], a)
	}

	out := make([]ProfessionalWithAppointments, 0, len(professionals))
	for _, p := range professionals {
		linked := byOwner[p.ID]
		if linked == nil {
			linked = []models.Appointment{}
		}
		out = append(out, ProfessionalWithAppointments{Professional: p, Appointments: linked})
	}
	return out, nil
}

// GetProfessional returns one professional.
func (s *Service) GetProfessional(ctx context.Context, id string) (*ProfessionalRecord, error) {
	p, err := s.store.GetProfessional(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProfessionalNotFound)
	}
	return s.professionalRecord(ctx, p)
}

// AddProfessional registers a professional, looking for an existing one by name.
// An existing professional is left untouched and ErrAlreadyRegistered is returned.
func (s *Service) AddProfessional(ctx context.Context, in ProfessionalInput) (*ProfessionalRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name is required")
	}

	_, err := s.store.FindProfessionalByName(ctx, in.Name)
	switch {
	case err == nil:
		s.log.WithField("name", in.Name).Info("professional already registered")
		return nil, ErrAlreadyRegistered
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("find professional by name: %w", err)
	}

	p, err := s.createProfessional(ctx, in)
	if err != nil {
		return nil, err
	}
	return &ProfessionalRecord{Professional: *p, Appointments: []string{}}, nil
}

// LoginProfessional looks a professional up by email. A new professional is
// created when none exists; otherwise only LastLoggedIn is updated.
// The boolean reports whether a record was created.
func (s *Service) LoginProfessional(ctx context.Context, in ProfessionalInput) (*ProfessionalRecord, bool, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return nil, false, invalid("email is required")
	}

	existing, err := s.store.FindProfessionalByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			return nil, false, invalid("name is required for a new professional")
		}
		p, err := s.createProfessional(ctx, in)
		if err != nil {
			return nil, false, err
		}
		return &ProfessionalRecord{Professional: *p, Appointments: []string{}}, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find professional by email: %w", err)
	}

	now := s.now()
	existing.LastLoggedIn = &now
	if err := s.store.UpdateProfessional(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("update last login: %w", notFoundAs(err, ErrProfessionalNotFound))
	}
	s.log.WithField("professional_id", existing.ID).Info("lastLoggedIn updated")

	record, err := s.professionalRecord(ctx, existing)
	if err != nil {
		return nil, false, err
	}
	return record, false, nil
}

// UpdateProfessional overwrites name and specialty where given.
func (s *Service) UpdateProfessional(ctx context.Context, id string, in ProfessionalUpdate) (*ProfessionalRecord, error) {
	p, err := s.store.GetProfessional(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProfessionalNotFound)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		p.Name = name
	}
	if in.Specialty != "" {
		p.Specialty = in.Specialty
	}

	if err := s.store.UpdateProfessional(ctx, p); err != nil {
		return nil, notFoundAs(err, ErrProfessionalNotFound)
	}
	return s.professionalRecord(ctx, p)
}

// DeleteProfessional removes the professional. Appointments referencing it are kept.
func (s *Service) DeleteProfessional(ctx context.Context, id string) error {
	if err := s.store.DeleteProfessional(ctx, id); err != nil {
		return notFoundAs(err, ErrProfessionalNotFound)
	}
	s.log.WithField("professional_id", id).Info("professional deleted")
	return nil
}

func (s *Service) createProfessional(ctx context.Context, in ProfessionalInput) (*models.Professional, error) {
	now := s.now()
	p := &models.Professional{
		Email:        in.Email,
		Name:         in.Name,
		Specialty:    in.Specialty,
		LastLoggedIn: &now,
	}
	if err := s.store.CreateProfessional(ctx, p); err != nil {
		return nil, fmt.Errorf("create professional: %w", err)
	}
	s.log.WithFields(logrus.Fields{"professional_id": p.ID, "email": p.Email}).Info("new professional saved")
	return p, nil
}

func (s *Service) professionalRecord(ctx context.Context, p *models.Professional) (*ProfessionalRecord, error) {
	ids, err := s.appointmentIDs(ctx, store.AppointmentFilter{ProfessionalID: p.ID})
	if err != nil {
		return nil, fmt.Errorf("list professional appointments: %w", err)
	}
	return &ProfessionalRecord{Professional: *p, Appointments: ids}, nil
}
