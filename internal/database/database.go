// Package database opens the configured storage backend and slot locker.
package database

import (
	"context"
	"fmt"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/lock"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
	"clinic-scheduling-server/internal/store/memstore"
	"clinic-scheduling-server/internal/store/mongostore"
	"clinic-scheduling-server/internal/store/mysqlstore"
)

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMySQL:
		db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return mysqlstore.New(db), nil
	case config.DriverMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// OpenLocker returns a Redis slot locker when an address is configured and the
// no-op locker otherwise. The returned close function is never nil.
func OpenLocker(ctx context.Context, cfg config.RedisConfig) (lock.Locker, func() error, error) {
	if cfg.Addr == "" {
		return lock.Noop{}, func() error { return nil }, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedisSlotLocker(client, cfg.LockTTL), client.Close, nil
}
