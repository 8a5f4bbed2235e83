// Package mongostore implements store.Store on MongoDB, one collection per record kind.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

var _ store.Store = (*Store)(nil)

const (
	professionalsCollection = "professionals"
	patientsCollection      = "patients"
	appointmentsCollection  = "appointments"
)

// Store holds the client and the three collections.
type Store struct {
	client        *mongo.Client
	professionals *mongo.Collection
	patients      *mongo.Collection
	appointments  *mongo.Collection
	now           func() time.Time
}

// Connect dials uri, verifies the connection and makes sure the indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := New(client, client.Database(database))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps an existing client and database without touching indexes.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:        client,
		professionals: db.Collection(professionalsCollection),
		patients:      db.Collection(patientsCollection),
		appointments:  db.Collection(appointmentsCollection),
		now:           time.Now,
	}
}

// EnsureIndexes creates the slot unique index and the lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	asc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return d
	}

	specs := []struct {
		coll    *mongo.Collection
		indexes []mongo.IndexModel
	}{
		{s.appointments, []mongo.IndexModel{
			{Keys: asc("date", "time"), Options: options.Index().SetUnique(true).SetName("appointment_slot")},
			{Keys: asc("patientDetails")},
			{Keys: asc("professionalDetails")},
		}},
		{s.patients, []mongo.IndexModel{
			{Keys: asc("name", "dateOfBirth"), Options: options.Index().SetName("patient_identity")},
		}},
		{s.professionals, []mongo.IndexModel{
			{Keys: asc("email")},
			{Keys: asc("name")},
		}},
	}

	for _, spec := range specs {
		if _, err := spec.coll.Indexes().CreateMany(ctx, spec.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.coll.Name(), err)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

var byCreation = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, byCreation)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if err := coll.FindOne(ctx, filter, opts).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func remove(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	_, err := coll.InsertOne(ctx, doc)
	return translate(err)
}

// Professionals

func (s *Store) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	return findAll[models.Professional](ctx, s.professionals, bson.M{})
}

func (s *Store) GetProfessional(ctx context.Context, id string) (*models.Professional, error) {
	return findOne[models.Professional](ctx, s.professionals, bson.M{"_id": id})
}

func (s *Store) FindProfessionalByEmail(ctx context.Context, email string) (*models.Professional, error) {
	return findOne[models.Professional](ctx, s.professionals, bson.M{"email": email})
}

func (s *Store) FindProfessionalByName(ctx context.Context, name string) (*models.Professional, error) {
	return findOne[models.Professional](ctx, s.professionals, bson.M{"name": name})
}

func (s *Store) CreateProfessional(ctx context.Context, p *models.Professional) error {
	p.EnsureID()
	p.Touch(s.now())
	return insert(ctx, s.professionals, p)
}

func (s *Store) UpdateProfessional(ctx context.Context, p *models.Professional) error {
	p.Touch(s.now())
	return replace(ctx, s.professionals, p.ID, p)
}

func (s *Store) DeleteProfessional(ctx context.Context, id string) error {
	return remove(ctx, s.professionals, id)
}

// Patients

func (s *Store) ListPatients(ctx context.Context) ([]models.Patient, error) {
	return findAll[models.Patient](ctx, s.patients, bson.M{})
}

func (s *Store) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	return findOne[models.Patient](ctx, s.patients, bson.M{"_id": id})
}

func (s *Store) FindPatient(ctx context.Context, name string, dateOfBirth time.Time) (*models.Patient, error) {
	return findOne[models.Patient](ctx, s.patients, bson.M{"name": name, "dateOfBirth": dateOfBirth})
}

func (s *Store) CreatePatient(ctx context.Context, p *models.Patient) error {
	p.EnsureID()
	p.Touch(s.now())
	return insert(ctx, s.patients, p)
}

func (s *Store) UpdatePatient(ctx context.Context, p *models.Patient) error {
	p.Touch(s.now())
	return replace(ctx, s.patients, p.ID, p)
}

func (s *Store) DeletePatient(ctx context.Context, id string) error {
	return remove(ctx, s.patients, id)
}

// Appointments

func (s *Store) ListAppointments(ctx context.Context, filter store.AppointmentFilter) ([]models.Appointment, error) {
	query := bson.M{}
	if filter.PatientID != "" {
		query["patientDetails"] = filter.PatientID
	}
	if filter.ProfessionalID != "" {
		query["professionalDetails"] = filter.ProfessionalID
	}
	return findAll[models.Appointment](ctx, s.appointments, query)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, s.appointments, bson.M{"_id": id})
}

func (s *Store) FindAppointmentBySlot(ctx context.Context, date time.Time, clock string) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, s.appointments, bson.M{"date": date, "time": clock})
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	a.EnsureID()
	a.Touch(s.now())
	return insert(ctx, s.appointments, a)
}

func (s *Store) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	a.Touch(s.now())
	return replace(ctx, s.appointments, a.ID, a)
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return remove(ctx, s.appointments, id)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
