package tester

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewPostgresStore starts a postgres container and returns a gorm store on it.
// The container is terminated when the test ends.
func NewPostgresStore(t testing.TB) *store.GormStore {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("resume"),
		postgres.WithUsername("resume"),
		postgres.WithPassword("resume"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := config.FromEnv()
	cfg.Backend = config.BackendSQL
	cfg.Driver = "postgres"
	cfg.DatabaseURL = dsn

	db, err := config.GetDb(cfg)
	require.NoError(t, err)

	st := store.NewGormStore(db)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
