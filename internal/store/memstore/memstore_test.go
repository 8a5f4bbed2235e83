package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
	"clinic-scheduling-server/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestConcurrentCreatesOnSameSlotAdmitOne(t *testing.T) {
	ctx := context.Background()
	s := New()
	june1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CreateAppointment(ctx, &models.Appointment{Date: june1, Time: "09:30"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := &models.Patient{Name: "Bob", DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.CreatePatient(ctx, p))

	got, err := s.GetPatient(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "Mallory"

	again, err := s.GetPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", again.Name)
}
