package mysqlstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/store"
	"clinic-scheduling-server/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: dsn})
	require.NoError(t, err)
	s := New(db)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	storetest.Run(t, func(t *testing.T) store.Store { return s })
}
