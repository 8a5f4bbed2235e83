// Package storetest holds the behaviour every store.Store implementation must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

// Run exercises newStore against the store contract. newStore must return an
// empty store for every call.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("unique slot on create", func(t *testing.T) { testUniqueSlot(t, newStore(t)) })
	t.Run("slot moves on update", func(t *testing.T) { testUpdateMovesSlot(t, newStore(t)) })
	t.Run("delete frees slot", func(t *testing.T) { testDeleteFreesSlot(t, newStore(t)) })
	t.Run("filter and order", func(t *testing.T) { testFilterAndOrder(t, newStore(t)) })
	t.Run("lookups", func(t *testing.T) { testLookups(t, newStore(t)) })
	t.Run("missing ids", func(t *testing.T) { testMissingIDs(t, newStore(t)) })
}

// day returns a date far enough from other runs to avoid slot clashes in shared databases.
func day() time.Time {
	return models.NormalizeDate(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(uuid.New().ID()%30000)))
}

func testUniqueSlot(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := day()

	first := &models.Appointment{Date: d, Time: "10:00", Status: models.StatusUpcoming}
	require.NoError(t, s.CreateAppointment(ctx, first))
	assert.NotEmpty(t, first.ID)

	second := &models.Appointment{Date: d, Time: "10:00", Status: models.StatusUpcoming}
	assert.ErrorIs(t, s.CreateAppointment(ctx, second), store.ErrDuplicate)

	found, err := s.FindAppointmentBySlot(ctx, d, "10:00")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, models.StatusUpcoming, found.Status)
}

func testUpdateMovesSlot(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := day()

	a := &models.Appointment{Date: d, Time: "10:00", Status: models.StatusUpcoming}
	b := &models.Appointment{Date: d, Time: "11:00", Status: models.StatusUpcoming}
	require.NoError(t, s.CreateAppointment(ctx, a))
	require.NoError(t, s.CreateAppointment(ctx, b))

	moved := *a
	moved.Time = "11:00"
	assert.ErrorIs(t, s.UpdateAppointment(ctx, &moved), store.ErrDuplicate)

	moved.Time = "12:00"
	require.NoError(t, s.UpdateAppointment(ctx, &moved))

	require.NoError(t, s.CreateAppointment(ctx, &models.Appointment{Date: d, Time: "10:00", Status: models.StatusUpcoming}))

	found, err := s.FindAppointmentBySlot(ctx, d, "12:00")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
}

func testDeleteFreesSlot(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := day()

	a := &models.Appointment{Date: d, Time: "10:00", Status: models.StatusUpcoming}
	require.NoError(t, s.CreateAppointment(ctx, a))
	require.NoError(t, s.DeleteAppointment(ctx, a.ID))

	_, err := s.GetAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAppointment(ctx, a.ID), store.ErrNotFound)
	require.NoError(t, s.CreateAppointment(ctx, &models.Appointment{Date: d, Time: "10:00", Status: models.StatusUpcoming}))
}

func testFilterAndOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := day()
	p1, p2, dr := uuid.NewString(), uuid.NewString(), uuid.NewString()

	for i, clock := range []string{"08:00", "09:00", "10:00"} {
		patient := p1
		if i == 1 {
			patient = p2
		}
		require.NoError(t, s.CreateAppointment(ctx, &models.Appointment{
			Date: d, Time: clock, Status: models.StatusUpcoming, PatientID: patient, ProfessionalID: dr,
		}))
		// Distinct creation timestamps for stores that order by them.
		time.Sleep(5 * time.Millisecond)
	}

	forP1, err := s.ListAppointments(ctx, store.AppointmentFilter{PatientID: p1})
	require.NoError(t, err)
	require.Len(t, forP1, 2)
	assert.Equal(t, "08:00", forP1[0].Time)
	assert.Equal(t, "10:00", forP1[1].Time)

	forDr, err := s.ListAppointments(ctx, store.AppointmentFilter{ProfessionalID: dr})
	require.NoError(t, err)
	assert.Len(t, forDr, 3)
}

func testLookups(t *testing.T, s store.Store) {
	ctx := context.Background()

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	name := "Bob " + uuid.NewString()
	require.NoError(t, s.CreatePatient(ctx, &models.Patient{Name: name, DateOfBirth: dob}))
	_, err := s.FindPatient(ctx, name, dob)
	assert.NoError(t, err)
	_, err = s.FindPatient(ctx, name, dob.AddDate(1, 0, 0))
	assert.ErrorIs(t, err, store.ErrNotFound)

	email := uuid.NewString() + "@clinic.test"
	drName := "Dr. " + uuid.NewString()
	require.NoError(t, s.CreateProfessional(ctx, &models.Professional{Name: drName, Email: email}))
	byEmail, err := s.FindProfessionalByEmail(ctx, email)
	require.NoError(t, err)
	byName, err := s.FindProfessionalByName(ctx, drName)
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, byName.ID)

	byName.Specialty = "Cardiology"
	require.NoError(t, s.UpdateProfessional(ctx, byName))
	reloaded, err := s.GetProfessional(ctx, byName.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", reloaded.Specialty)
}

func testMissingIDs(t *testing.T, s store.Store) {
	ctx := context.Background()
	missing := uuid.NewString()

	_, err := s.GetProfessional(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetPatient(ctx, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.UpdateProfessional(ctx, &models.Professional{BaseModel: models.BaseModel{ID: missing}, Name: "x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.UpdatePatient(ctx, &models.Patient{BaseModel: models.BaseModel{ID: missing}, Name: "x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateAppointment(ctx, &models.Appointment{BaseModel: models.BaseModel{ID: missing}, Date: day(), Time: "10:00"}), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProfessional(ctx, missing), store.ErrNotFound)
	assert.ErrorIs(t, s.DeletePatient(ctx, missing), store.ErrNotFound)
}
