package cmd

import (
	"context"
	"io"

	"github.com/emrgen/resumectl/internal/cache"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/seed"
	"github.com/emrgen/resumectl/internal/service"
	"github.com/sirupsen/logrus"
)

// app holds the per-process services every command builds on.
type app struct {
	cfg       *config.Config
	cache     cache.Cache
	connector *service.BackendConnector
	upserter  *service.Upserter
}

func newApp(ctx context.Context, env config.Environment) (*app, error) {
	if err := model.Validate(model.Registry()); err != nil {
		return nil, err
	}

	loader := newLoader()
	cfg, err := loader.Load(env)
	if err != nil {
		return nil, err
	}

	c := cache.New(ctx, cfg)
	return &app{
		cfg:       cfg,
		cache:     c,
		connector: service.NewBackendConnector(loader),
		upserter: service.NewUpserter(c, service.UpserterOptions{
			TableTimeout: cfg.TableTimeout,
			PollInterval: cfg.TablePollInterval,
		}),
	}, nil
}

// newLoader reads each environment's own env files, so a sync between two
// environments resolves each side with its own region and credentials.
func newLoader() *config.Loader {
	return config.NewLoader(config.Options{EnvFile: envFile})
}

func loadConfig(env config.Environment) (*config.Config, error) {
	return newLoader().Load(env)
}

func (a *app) seeder() *service.Seeder {
	return service.NewSeeder(a.connector, a.upserter, seed.NewGenerator())
}

func (a *app) syncer() *service.Syncer {
	return service.NewSyncer(a.connector, a.upserter)
}

func (a *app) Close() {
	if err := a.connector.Close(); err != nil {
		logrus.Debugf("close stores: %v", err)
	}
	if closer, ok := a.cache.(io.Closer); ok {
		_ = closer.Close()
	}
}

// envArg parses args[i] as an environment, def when absent.
func envArg(args []string, i int, def config.Environment) (config.Environment, error) {
	if len(args) <= i {
		return def, nil
	}
	return config.ParseEnvironment(args[i])
}

func other(env config.Environment) config.Environment {
	if env == config.Production {
		return config.Development
	}
	return config.Production
}
