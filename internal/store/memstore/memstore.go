// Package memstore provides an in-memory implementation of store.Store used
// for tests and ephemeral environments.
package memstore

import (
	"context"
	"sync"
	"time"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

var _ store.Store = (*Store)(nil)

// collection keeps records by id plus their insertion order.
type collection[T any] struct {
	byID  map[string]T
	order []string
}

func newCollection[T any]() collection[T] {
	return collection[T]{byID: make(map[string]T)}
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *collection[T]) insert(id string, v T) {
	c.byID[id] = v
	c.order = append(c.order, id)
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Store is a mutex-guarded map store. Records are stored and returned by value
// so callers never share memory with the store.
type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	professionals collection[models.Professional]
	patients      collection[models.Patient]
	appointments  collection[models.Appointment]
	slots         map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:           time.Now,
		professionals: newCollection[models.Professional](),
		patients:      newCollection[models.Patient](),
		appointments:  newCollection[models.Appointment](),
		slots:         make(map[string]string),
	}
}

// Professionals

func (s *Store) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.professionals.list(), nil
}

func (s *Store) GetProfessional(ctx context.Context, id string) (*models.Professional, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.professionals.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindProfessionalByEmail(ctx context.Context, email string) (*models.Professional, error) {
	return s.findProfessional(func(p models.Professional) bool { return p.Email == email })
}

func (s *Store) FindProfessionalByName(ctx context.Context, name string) (*models.Professional, error) {
	return s.findProfessional(func(p models.Professional) bool { return p.Name == name })
}

func (s *Store) findProfessional(match func(models.Professional) bool) (*models.Professional, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.professionals.order {
		p := s.professionals.byID[id]
		if match(p) {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProfessional(ctx context.Context, p *models.Professional) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.EnsureID()
	if _, exists := s.professionals.byID[p.ID]; exists {
		return store.ErrDuplicate
	}
	p.Touch(s.now())
	s.professionals.insert(p.ID, *p)
	return nil
}

func (s *Store) UpdateProfessional(ctx context.Context, p *models.Professional) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.professionals.byID[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.Touch(s.now())
	s.professionals.byID[p.ID] = *p
	return nil
}

func (s *Store) DeleteProfessional(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.professionals.remove(id) {
		return store.ErrNotFound
	}
	return nil
}

// Patients

func (s *Store) ListPatients(ctx context.Context) ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patients.list(), nil
}

func (s *Store) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindPatient(ctx context.Context, name string, dateOfBirth time.Time) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.patients.order {
		p := s.patients.byID[id]
		if p.Name == name && p.DateOfBirth.Equal(dateOfBirth) {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreatePatient(ctx context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.EnsureID()
	if _, exists := s.patients.byID[p.ID]; exists {
		return store.ErrDuplicate
	}
	p.Touch(s.now())
	s.patients.insert(p.ID, *p)
	return nil
}

func (s *Store) UpdatePatient(ctx context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients.byID[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.Touch(s.now())
	s.patients.byID[p.ID] = *p
	return nil
}

func (s *Store) DeletePatient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.patients.remove(id) {
		return store.ErrNotFound
	}
	return nil
}

// Appointments

func (s *Store) ListAppointments(ctx context.Context, filter store.AppointmentFilter) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appointment, 0)
	for _, a := range s.appointments.list() {
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if filter.ProfessionalID != "" && a.ProfessionalID != filter.ProfessionalID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *Store) FindAppointmentBySlot(ctx context.Context, date time.Time, clock string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.slots[models.SlotKey(date, clock)]
	if !ok {
		return nil, store.ErrNotFound
	}
	a := s.appointments.byID[id]
	return &a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.EnsureID()
	key := a.SlotKey()
	if _, taken := s.slots[key]; taken {
		return store.ErrDuplicate
	}
	if _, exists := s.appointments.byID[a.ID]; exists {
		return store.ErrDuplicate
	}
	a.Touch(s.now())
	s.appointments.insert(a.ID, *a)
	s.slots[key] = a.ID
	return nil
}

func (s *Store) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.appointments.byID[a.ID]
	if !ok {
		return store.ErrNotFound
	}
	oldKey, newKey := existing.SlotKey(), a.SlotKey()
	if oldKey != newKey {
		if _, taken := s.slots[newKey]; taken {
			return store.ErrDuplicate
		}
		delete(s.slots, oldKey)
		s.slots[newKey] = a.ID
	}
	a.Touch(s.now())
	s.appointments.byID[a.ID] = *a
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	s.appointments.remove(id)
	delete(s.slots, a.SlotKey())
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close(ctx context.Context) error { return nil }
