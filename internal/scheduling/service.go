// Package scheduling keeps professionals, patients and appointments consistent
// with each other.
//
// The appointment lists of professionals and patients are never stored; they are
// read back from the appointments that reference the owner, so deleting an
// appointment needs no follow-up writes.
package scheduling

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"clinic-scheduling-server/internal/lock"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
)

// Service implements the scheduling operations on top of a store.Store.
type Service struct {
	store  store.Store
	locker lock.Locker
	log    *logrus.Entry
	now    func() time.Time
}

// NewService wires a service. A nil locker means no slot locking.
func NewService(st store.Store, locker lock.Locker, log *logger.Logger) *Service {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &Service{
		store:  st,
		locker: locker,
		log:    log.WithComponent("scheduling"),
		now:    time.Now,
	}
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// appointmentIDs returns the ids of appointments matching filter, in creation order.
func (s *Service) appointmentIDs(ctx context.Context, filter store.AppointmentFilter) ([]string, error) {
	appts, err := s.store.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// compensate runs an undo step that must happen even if the request was cancelled.
func (s *Service) compensate(ctx context.Context, what string, fn func(ctx context.Context) error) {
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		s.log.WithError(err).WithField("action", what).Error("compensating action failed")
		return
	}
	s.log.WithField("action", what).Warn("compensating action applied")
}

// groupIDs indexes appointment ids by the owner key picked by ownerOf.
func groupIDs(appts []models.Appointment, ownerOf func(models.Appointment) string) map[string][]string {
	out := make(map[string][]string)
	for _, a := range appts {
		owner := ownerOf(a)
		if owner == "" {
			continue
		}
		out[owner] = append(out[owner], a.ID)
	}
	return out
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
