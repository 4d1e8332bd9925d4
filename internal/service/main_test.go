package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/emrgen/resumectl/internal/cache"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/seed"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/emrgen/resumectl/internal/tester"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.WarnLevel)
	code := m.Run()

	os.Exit(code)
}

// staticConnector serves one already opened store to every environment.
// Table suffixes keep the environments apart.
type staticConnector struct {
	store    store.Store
	Suffixes map[config.Environment]string
}

func (c *staticConnector) Connect(_ context.Context, env config.Environment) (*Target, error) {
	return NewTarget(env, c.store, c.Suffixes[env])
}

type harness struct {
	store     store.Store
	connector *staticConnector
	upserter  *Upserter
	seeder    *Seeder
	syncer    *Syncer
}

func newHarness(t *testing.T, st store.Store) *harness {
	t.Helper()
	if st == nil {
		st = tester.NewStore(t)
	}

	connector := &staticConnector{
		store: st,
		Suffixes: map[config.Environment]string{
			config.Development: "dev",
			config.Production:  "prod",
		},
	}
	upserter := NewUpserter(cache.NewMemory(time.Minute), UpserterOptions{
		TableTimeout: 100 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	})

	return &harness{
		store:     st,
		connector: connector,
		upserter:  upserter,
		seeder:    NewSeeder(connector, upserter, seed.NewGenerator()),
		syncer:    NewSyncer(connector, upserter),
	}
}

func (h *harness) target(t *testing.T, env config.Environment) *Target {
	t.Helper()
	target, err := h.connector.Connect(context.Background(), env)
	require.NoError(t, err)
	return target
}

// records reads every record of entity in env, empty when the table is missing.
func (h *harness) records(t *testing.T, env config.Environment, entity string) []model.Entity {
	t.Helper()
	ctx := context.Background()

	table, err := h.target(t, env).Table(entity)
	require.NoError(t, err)

	status, err := table.Status(ctx)
	require.NoError(t, err)
	if status == store.TableNotFound {
		return nil
	}

	records, err := table.Records(ctx)
	require.NoError(t, err)
	return records
}
