package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/lock"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
	"clinic-scheduling-server/internal/store/memstore"
)

var (
	june1  = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	bobDOB = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
)

func setupService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	return NewService(st, nil, logger.Discard()), st
}

func addDrA(t *testing.T, svc *Service) *ProfessionalRecord {
	t.Helper()
	p, err := svc.AddProfessional(context.Background(), ProfessionalInput{Name: "Dr. A", Email: "a@clinic.test", Specialty: "Cardiology"})
	require.NoError(t, err)
	return p
}

func bookBob(professionalID string) CreateAppointmentInput {
	return CreateAppointmentInput{
		Date:         june1,
		Time:         "10:00",
		Professional: ProfessionalRef{ID: professionalID},
		Patient:      PatientInput{Name: "Bob", DateOfBirth: bobDOB},
	}
}

func TestCreateAppointmentLinksPatientAndProfessional(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)

	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	assert.Equal(t, models.StatusUpcoming, booking.Appointment.Status)
	assert.Equal(t, booking.Patient.ID, booking.Appointment.PatientID)
	assert.Equal(t, dr.ID, booking.Appointment.ProfessionalID)
	assert.Equal(t, []string{booking.Appointment.ID}, booking.Patient.Appointments)
	assert.Equal(t, []string{booking.Appointment.ID}, booking.Professional.Appointments)

	appts, err := svc.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	require.NotNil(t, appts[0].PatientDetails)
	assert.Equal(t, "Bob", appts[0].PatientDetails.Name)

	patients, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Bob", patients[0].Name)
	assert.Len(t, patients[0].Appointments, 1)

	professionals, err := svc.ListProfessionals(ctx)
	require.NoError(t, err)
	require.Len(t, professionals, 1)
	assert.Equal(t, "Dr. A", professionals[0].Name)
	assert.Len(t, professionals[0].Appointments, 1)
}

func TestCreateAppointmentRepeatedIsConflictAndLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, st := setupService(t)
	dr := addDrA(t, svc)

	_, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(ctx, bookBob(dr.ID))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, ErrConflict)

	appts, err := st.ListAppointments(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, appts, 1)
	patients, err := st.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestCreateAppointmentConflictDoesNotCreatePatient(t *testing.T) {
	ctx := context.Background()
	svc, st := setupService(t)
	dr := addDrA(t, svc)

	_, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	other := bookBob(dr.ID)
	other.Patient = PatientInput{Name: "Carol", DateOfBirth: bobDOB}
	_, err = svc.CreateAppointment(ctx, other)
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = st.FindPatient(ctx, "Carol", bobDOB)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAppointmentUnknownProfessionalIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, st := setupService(t)

	_, err := svc.CreateAppointment(ctx, bookBob("no-such-professional"))
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	appts, err := st.ListAppointments(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, appts)
	patients, err := st.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestCreateAppointmentResolvesProfessionalByEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)

	in := bookBob("")
	in.Professional = ProfessionalRef{Email: "a@clinic.test"}
	booking, err := svc.CreateAppointment(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, dr.ID, booking.Professional.ID)
}

func TestCreateAppointmentReusesPatient(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)

	first, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	in := bookBob(dr.ID)
	in.Time = "11:00"
	second, err := svc.CreateAppointment(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.Patient.ID, second.Patient.ID)
	assert.Equal(t, []string{first.Appointment.ID, second.Appointment.ID}, second.Patient.Appointments)
	assert.Equal(t, []string{first.Appointment.ID, second.Appointment.ID}, second.Professional.Appointments)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, _ := setupService(t)

	tests := []struct {
		name string
		in   CreateAppointmentInput
	}{
		{"missing date", CreateAppointmentInput{Time: "10:00", Professional: ProfessionalRef{ID: "x"}}},
		{"missing time", CreateAppointmentInput{Date: june1, Professional: ProfessionalRef{ID: "x"}}},
		{"missing professional", CreateAppointmentInput{Date: june1, Time: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestConcurrentBookingsOfOneSlotCreateOneAppointment(t *testing.T) {
	ctx := context.Background()
	svc, st := setupService(t)
	dr := addDrA(t, svc)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	appts, err := st.ListAppointments(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

type busyLocker struct{}

func (busyLocker) WithSlotLock(ctx context.Context, slot string, fn func(ctx context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func TestCreateAppointmentWithHeldLockIsBusy(t *testing.T) {
	st := memstore.New()
	svc := NewService(st, busyLocker{}, logger.Discard())
	dr := addDrA(t, svc)

	_, err := svc.CreateAppointment(context.Background(), bookBob(dr.ID))
	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.ErrorIs(t, err, ErrConflict)
}

type recordingLocker struct {
	mu    sync.Mutex
	slots []string
}

func (l *recordingLocker) WithSlotLock(ctx context.Context, slot string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	l.slots = append(l.slots, slot)
	l.mu.Unlock()
	return fn(ctx)
}

func TestSlotLockKeys(t *testing.T) {
	ctx := context.Background()
	locker := &recordingLocker{}
	svc := NewService(memstore.New(), locker, logger.Discard())
	dr := addDrA(t, svc)

	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	// Same slot: no lock needed.
	_, err = svc.UpdateAppointment(ctx, booking.Appointment.ID, UpdateAppointmentInput{Time: "10:00"})
	require.NoError(t, err)

	_, err = svc.UpdateAppointment(ctx, booking.Appointment.ID, UpdateAppointmentInput{Time: "14:00"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-06-01@10:00", "2024-06-01@14:00"}, locker.slots)
}

func TestUpdateAppointmentUpdatesPatientToo(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)
	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	edit, err := svc.UpdateAppointment(ctx, booking.Appointment.ID, UpdateAppointmentInput{
		Date:      june1.AddDate(0, 0, 1),
		Time:      "15:30",
		PatientID: booking.Patient.ID,
		Patient:   PatientInput{Name: "Robert", CurrentTreatment: "physio"},
	})
	require.NoError(t, err)

	assert.Equal(t, "15:30", edit.Appointment.Time)
	assert.True(t, june1.AddDate(0, 0, 1).Equal(edit.Appointment.Date))
	require.NotNil(t, edit.Patient)
	assert.Equal(t, "Robert", edit.Patient.Name)
	assert.Equal(t, "physio", edit.Patient.CurrentTreatment)
	assert.True(t, bobDOB.Equal(edit.Patient.DateOfBirth))

	got, err := svc.GetAppointment(ctx, booking.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "15:30", got.Time)
	require.NotNil(t, got.PatientDetails)
	assert.Equal(t, "Robert", got.PatientDetails.Name)
}

func TestUpdateAppointmentOntoTakenSlotIsConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)

	first, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)
	in := bookBob(dr.ID)
	in.Time = "11:00"
	_, err = svc.CreateAppointment(ctx, in)
	require.NoError(t, err)

	_, err = svc.UpdateAppointment(ctx, first.Appointment.ID, UpdateAppointmentInput{Time: "11:00", Patient: PatientInput{Name: "Robert"}})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Nothing written.
	p, err := svc.GetPatient(ctx, first.Patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)
}

func TestUpdateAppointmentUnknownPatientWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)
	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	_, err = svc.UpdateAppointment(ctx, booking.Appointment.ID, UpdateAppointmentInput{Time: "16:00", PatientID: "ghost"})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	got, err := svc.GetAppointment(ctx, booking.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Time)
}

// failingPatientStore fails patient updates to exercise the rollback path.
type failingPatientStore struct {
	*memstore.Store
}

var errDiskFull = errors.New("disk full")

func (failingPatientStore) UpdatePatient(ctx context.Context, p *models.Patient) error {
	return errDiskFull
}

func TestUpdateAppointmentRestoresAppointmentWhenPatientWriteFails(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := NewService(failingPatientStore{mem}, nil, logger.Discard())
	dr := addDrA(t, svc)
	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	_, err = svc.UpdateAppointment(ctx, booking.Appointment.ID, UpdateAppointmentInput{Time: "17:00", Patient: PatientInput{Name: "Robert"}})
	assert.ErrorIs(t, err, errDiskFull)

	got, err := mem.GetAppointment(ctx, booking.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Time)

	// The slot it briefly held is free again.
	_, err = mem.FindAppointmentBySlot(ctx, june1, "17:00")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// failingAppointmentStore fails appointment inserts after the slot check passed.
type failingAppointmentStore struct {
	*memstore.Store
}

func (failingAppointmentStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	return store.ErrDuplicate
}

func TestCreateAppointmentRemovesNewPatientWhenInsertFails(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	svc := NewService(failingAppointmentStore{mem}, nil, logger.Discard())
	dr := addDrA(t, svc)

	_, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	assert.ErrorIs(t, err, ErrSlotTaken)

	patients, err := mem.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)
	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	updated, err := svc.UpdateAppointmentStatus(ctx, booking.Appointment.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	_, err = svc.UpdateAppointmentStatus(ctx, booking.Appointment.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateAppointmentStatusUnknownIDLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, st := setupService(t)
	dr := addDrA(t, svc)
	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	_, err = svc.UpdateAppointmentStatus(ctx, "missing", models.StatusPast)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	appts, err := st.ListAppointments(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, booking.Appointment.ID, appts[0].ID)
	assert.Equal(t, models.StatusUpcoming, appts[0].Status)
}

func TestDeleteAppointmentRetractsFromOwners(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)
	booking, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAppointment(ctx, booking.Appointment.ID))

	_, err = svc.GetAppointment(ctx, booking.Appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, svc.DeleteAppointment(ctx, booking.Appointment.ID), ErrAppointmentNotFound)

	patient, err := svc.GetPatient(ctx, booking.Patient.ID)
	require.NoError(t, err)
	assert.Empty(t, patient.Appointments)
	professional, err := svc.GetProfessional(ctx, dr.ID)
	require.NoError(t, err)
	assert.Empty(t, professional.Appointments)
}

func TestListAppointmentsForPatient(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	dr := addDrA(t, svc)
	bob, err := svc.CreateAppointment(ctx, bookBob(dr.ID))
	require.NoError(t, err)

	carol := bookBob(dr.ID)
	carol.Time = "12:00"
	carol.Patient = PatientInput{Name: "Carol", DateOfBirth: bobDOB}
	_, err = svc.CreateAppointment(ctx, carol)
	require.NoError(t, err)

	appts, err := svc.ListAppointmentsForPatient(ctx, bob.Patient.ID)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, bob.Appointment.ID, appts[0].ID)

	none, err := svc.ListAppointmentsForPatient(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
