// Package mysqlstore implements store.Store on MySQL through gorm.
package mysqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store wraps a migrated *gorm.DB (see models.InitDB).
type Store struct {
	DB *gorm.DB
}

// New creates a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func first[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := db.Where(query, args...).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// save overwrites an existing row, failing with ErrNotFound when id is unknown.
func save[T any](ctx context.Context, db *gorm.DB, id string, v *T) error {
	return translate(db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Save(v).Error
	}))
}

func remove[T any](ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Professionals

func (s *Store) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	out := make([]models.Professional, 0)
	if err := s.DB.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetProfessional(ctx context.Context, id string) (*models.Professional, error) {
	return first[models.Professional](s.DB.WithContext(ctx), "id = ?", id)
}

func (s *Store) FindProfessionalByEmail(ctx context.Context, email string) (*models.Professional, error) {
	return first[models.Professional](s.DB.WithContext(ctx).Order("created_at asc"), "email = ?", email)
}

func (s *Store) FindProfessionalByName(ctx context.Context, name string) (*models.Professional, error) {
	return first[models.Professional](s.DB.WithContext(ctx).Order("created_at asc"), "name = ?", name)
}

func (s *Store) CreateProfessional(ctx context.Context, p *models.Professional) error {
	return translate(s.DB.WithContext(ctx).Create(p).Error)
}

func (s *Store) UpdateProfessional(ctx context.Context, p *models.Professional) error {
	return save(ctx, s.DB, p.ID, p)
}

func (s *Store) DeleteProfessional(ctx context.Context, id string) error {
	return remove[models.Professional](ctx, s.DB, id)
}

// Patients

func (s *Store) ListPatients(ctx context.Context) ([]models.Patient, error) {
	out := make([]models.Patient, 0)
	if err := s.DB.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	return first[models.Patient](s.DB.WithContext(ctx), "id = ?", id)
}

func (s *Store) FindPatient(ctx context.Context, name string, dateOfBirth time.Time) (*models.Patient, error) {
	return first[models.Patient](s.DB.WithContext(ctx).Order("created_at asc"),
		"name = ? AND date_of_birth = ?", name, dateOfBirth.Format(models.DateLayout))
}

func (s *Store) CreatePatient(ctx context.Context, p *models.Patient) error {
	return translate(s.DB.WithContext(ctx).Create(p).Error)
}

func (s *Store) UpdatePatient(ctx context.Context, p *models.Patient) error {
	return save(ctx, s.DB, p.ID, p)
}

func (s *Store) DeletePatient(ctx context.Context, id string) error {
	return remove[models.Patient](ctx, s.DB, id)
}

// Appointments

func (s *Store) ListAppointments(ctx context.Context, filter store.AppointmentFilter) ([]models.Appointment, error) {
	query := s.DB.WithContext(ctx).Order("created_at asc")
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.ProfessionalID != "" {
		query = query.Where("professional_id = ?", filter.ProfessionalID)
	}

	out := make([]models.Appointment, 0)
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return first[models.Appointment](s.DB.WithContext(ctx), "id = ?", id)
}

func (s *Store) FindAppointmentBySlot(ctx context.Context, date time.Time, clock string) (*models.Appointment, error) {
	return first[models.Appointment](s.DB.WithContext(ctx),
		"date = ? AND time = ?", date.Format(models.DateLayout), clock)
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return translate(s.DB.WithContext(ctx).Create(a).Error)
}

func (s *Store) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	return save(ctx, s.DB, a.ID, a)
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return remove[models.Appointment](ctx, s.DB, id)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
