package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/lock"
	"clinic-scheduling-server/internal/store/memstore"
)

func TestOpenMemory(t *testing.T) {
	st, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, st)
	assert.NoError(t, st.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite"})
	assert.ErrorContains(t, err, "sqlite")
}

func TestOpenLockerWithoutRedisIsNoop(t *testing.T) {
	locker, closeFn, err := OpenLocker(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Equal(t, lock.Noop{}, locker)
	assert.NoError(t, closeFn())
}
