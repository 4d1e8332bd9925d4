// Package tester provides stores backed by throwaway databases for tests.
package tester

import (
	"path/filepath"
	"testing"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/stretchr/testify/require"
)

// SQLiteConfig returns a config for the sql backend with its database file in a
// test temp dir.
func SQLiteConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.FromEnv()
	cfg.Backend = config.BackendSQL
	cfg.Driver = "sqlite"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "resume.db")
	cfg.RedisAddr = ""
	return cfg
}

// NewStore opens a fresh sqlite gorm store that is closed when the test ends.
func NewStore(t testing.TB) *store.GormStore {
	t.Helper()

	db, err := config.GetDb(SQLiteConfig(t))
	require.NoError(t, err)

	st := store.NewGormStore(db)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
