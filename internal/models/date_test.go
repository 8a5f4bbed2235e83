package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"calendar date", "2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 midnight", "2024-06-01T00:00:00.000Z", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 with clock", "1990-01-01T15:30:00Z", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("01/06/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-01"}`), &payload))
	assert.Equal(t, "2024-06-01", payload.Date.Format(DateLayout))

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-01"}`, string(out))
}

func TestSlotKey(t *testing.T) {
	a := Appointment{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Time: "10:00"}
	assert.Equal(t, "2024-06-01@10:00", a.SlotKey())
}

func TestAppointmentStatusValid(t *testing.T) {
	assert.True(t, StatusUpcoming.Valid())
	assert.True(t, StatusPast.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, AppointmentStatus("cancelled").Valid())
}
