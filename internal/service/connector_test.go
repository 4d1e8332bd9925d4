package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/credentials"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/emrgen/resumectl/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingStore fails every ListTables call, the way a backend behind
// expired credentials does.
type rejectingStore struct {
	store.Store
	err    error
	closed int
}

func (s *rejectingStore) ListTables(context.Context) ([]string, error) {
	return nil, s.err
}

func (s *rejectingStore) Close() error {
	s.closed++
	return nil
}

// localLoader writes per-environment env files that point both environments
// at a local emulator, each in its own region.
func localLoader(t *testing.T) *config.Loader {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		".env":      "STORE_BACKEND=dynamodb\nUSE_LOCAL_DYNAMODB=true\n",
		".env.dev":  "AWS_REGION=eu-central-1\n",
		".env.prod": "AWS_REGION=us-west-2\nTABLE_SUFFIX_PRODUCTION=live\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	for _, key := range []string{"STORE_BACKEND", "USE_LOCAL_DYNAMODB", "AWS_REGION", "AWS_PROFILE", "TABLE_SUFFIX_PRODUCTION"} {
		t.Setenv(key, "")
	}
	return config.NewLoader(config.Options{Dir: dir})
}

func TestBackendConnector_ResolvesEachEnvironmentOnItsOwn(t *testing.T) {
	ctx := context.Background()
	c := NewBackendConnector(localLoader(t))
	c.open = func(context.Context, *config.Config, *credentials.Descriptor) (store.Store, error) {
		return store.NewDynamoStore(tester.NewDynamo(0)), nil
	}
	defer c.Close()

	dev, err := c.Connect(ctx, config.Development)
	require.NoError(t, err)
	prod, err := c.Connect(ctx, config.Production)
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", dev.Credentials.Region)
	assert.Equal(t, "us-west-2", prod.Credentials.Region)
	assert.Equal(t, credentials.ModeLocal, prod.Credentials.Mode)
	assert.Equal(t, "dev", dev.Suffix)
	assert.Equal(t, "live", prod.Suffix)
	assert.NotSame(t, dev.Store, prod.Store)
}

func TestBackendConnector_RejectedStoreIsNotKept(t *testing.T) {
	ctx := context.Background()
	rejected := &rejectingStore{err: &smithy.GenericAPIError{
		Code:    "ExpiredTokenException",
		Message: "The security token included in the request is expired",
	}}
	accepted := store.NewDynamoStore(tester.NewDynamo(0))

	opens := 0
	c := NewBackendConnector(localLoader(t))
	c.open = func(context.Context, *config.Config, *credentials.Descriptor) (store.Store, error) {
		opens++
		if opens <= 2 {
			return rejected, nil
		}
		return accepted, nil
	}

	for i := 0; i < 2; i++ {
		_, err := c.Connect(ctx, config.Production)
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, credentials.KindExpiredToken, authErr.Kind)
	}
	assert.Equal(t, 2, opens, "every attempt after a rejection checks the backend again")
	assert.Equal(t, 2, rejected.closed)
	assert.Empty(t, c.opened)

	target, err := c.Connect(ctx, config.Production)
	require.NoError(t, err)
	assert.Same(t, accepted, target.Store)

	_, err = c.Connect(ctx, config.Production)
	require.NoError(t, err)
	assert.Equal(t, 3, opens, "an accepted store is reused")

	require.NoError(t, c.Close())
	assert.Equal(t, 2, rejected.closed)
}

func TestBackendConnector_SQLEnvironmentsShareOneDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := tester.SQLiteConfig(t)
	c := NewBackendConnector(configsFunc(func(config.Environment) (*config.Config, error) {
		return cfg, nil
	}))
	defer c.Close()

	dev, err := c.Connect(ctx, config.Development)
	require.NoError(t, err)
	prod, err := c.Connect(ctx, config.Production)
	require.NoError(t, err)

	assert.Same(t, dev.Store, prod.Store)
	assert.Len(t, c.opened, 1)
	assert.NotEqual(t, dev.Suffix, prod.Suffix)
}

type configsFunc func(config.Environment) (*config.Config, error)

func (f configsFunc) Load(env config.Environment) (*config.Config, error) {
	return f(env)
}
