package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/credentials"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/sirupsen/logrus"
)

// Target is an environment that is ready to be read and written.
type Target struct {
	Env         config.Environment
	Store       store.Store
	Suffix      string
	Credentials *credentials.Descriptor
	tables      map[string]store.Table
}

// NewTarget wires one repository per registered entity onto st.
func NewTarget(env config.Environment, st store.Store, suffix string) (*Target, error) {
	tables, err := store.Tables(st, suffix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendCapability, err)
	}
	return &Target{Env: env, Store: st, Suffix: suffix, tables: tables}, nil
}

// Table returns the repository for entity.
func (t *Target) Table(entity string) (store.Table, error) {
	table, ok := t.tables[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendCapability, entity)
	}
	return table, nil
}

// Connector resolves credentials for an environment and opens its store.
type Connector interface {
	Connect(ctx context.Context, env config.Environment) (*Target, error)
}

var _ Connector = (*BackendConnector)(nil)

// Configs resolves the configuration of one environment.
type Configs interface {
	Load(env config.Environment) (*config.Config, error)
}

type opener func(ctx context.Context, cfg *config.Config, desc *credentials.Descriptor) (store.Store, error)

type BackendConnector struct {
	configs  Configs
	open     opener
	provider *store.EnvironmentStoreProvider
	opened   []store.Store
	// sql stores by database url, every environment lives in one database
	shared map[string]store.Store
}

func NewBackendConnector(configs Configs) *BackendConnector {
	return &BackendConnector{
		configs:  configs,
		open:     store.Open,
		provider: store.NewEnvironmentStoreProvider(),
		shared:   make(map[string]store.Store),
	}
}

// Connect resolves credentials from the environment's own configuration before
// any backend call, then probes the backend so authentication problems surface
// as a classified AuthError. A store is kept only once its probe succeeded.
func (c *BackendConnector) Connect(ctx context.Context, env config.Environment) (*Target, error) {
	cfg, err := c.configs.Load(env)
	if err != nil {
		return nil, err
	}

	desc, err := credentials.NewResolver(cfg).Resolve(env)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("%s credentials: %s", env, desc.Summary())

	st, err := c.provider.Provide(env)
	switch {
	case errors.Is(err, store.ErrStoreNotFound):
		var fresh bool
		st, fresh, err = c.openStore(ctx, cfg, desc)
		if err != nil {
			return nil, err
		}
		if _, err := st.ListTables(ctx); err != nil {
			if fresh {
				c.discard(cfg, st)
			}
			return nil, &AuthError{Kind: credentials.ClassifyError(err), Err: err}
		}
		c.provider.Register(env, st)
	case err != nil:
		return nil, err
	}

	target, err := NewTarget(env, st, cfg.Suffix(env))
	if err != nil {
		return nil, err
	}
	target.Credentials = desc
	return target, nil
}

func (c *BackendConnector) openStore(ctx context.Context, cfg *config.Config, desc *credentials.Descriptor) (store.Store, bool, error) {
	if cfg.Backend == config.BackendSQL {
		if st, ok := c.shared[cfg.DatabaseURL]; ok {
			return st, false, nil
		}
	}

	st, err := c.open(ctx, cfg, desc)
	if err != nil {
		return nil, false, err
	}
	c.opened = append(c.opened, st)
	if cfg.Backend == config.BackendSQL {
		c.shared[cfg.DatabaseURL] = st
	}
	return st, true, nil
}

func (c *BackendConnector) discard(cfg *config.Config, st store.Store) {
	if err := st.Close(); err != nil {
		logrus.Debugf("close rejected store: %v", err)
	}
	for i, opened := range c.opened {
		if opened == st {
			c.opened = append(c.opened[:i], c.opened[i+1:]...)
			break
		}
	}
	if cfg.Backend == config.BackendSQL {
		delete(c.shared, cfg.DatabaseURL)
	}
}

// Close closes every store the connector opened.
func (c *BackendConnector) Close() error {
	var errs []error
	for _, st := range c.opened {
		errs = append(errs, st.Close())
	}
	c.opened = nil
	c.shared = make(map[string]store.Store)
	return errors.Join(errs...)
}
