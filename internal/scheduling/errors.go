package scheduling

import (
	"errors"
	"fmt"

	"clinic-scheduling-server/internal/store"
)

// Error kinds. Every error the service returns on purpose wraps exactly one of
// these; anything else is an internal failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrProfessionalNotFound = fmt.Errorf("professional %w", ErrNotFound)
	ErrPatientNotFound      = fmt.Errorf("patient %w", ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("appointment %w", ErrNotFound)

	ErrSlotTaken         = fmt.Errorf("%w: an appointment already exists for that date and time", ErrConflict)
	ErrSlotBusy          = fmt.Errorf("%w: slot is currently being booked, please retry", ErrConflict)
	ErrAlreadyRegistered = fmt.Errorf("%w: professional already registered", ErrConflict)

	ErrInvalidStatus = fmt.Errorf("%w: status must be one of upcoming, past, completed", ErrValidation)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundAs replaces store.ErrNotFound with the kind-specific error.
func notFoundAs(err, kind error) error {
	if errors.Is(err, store.ErrNotFound) {
		return kind
	}
	return err
}
