//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/emrgen/resumectl/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStore_Postgres(t *testing.T) {
	ctx := context.Background()
	st := tester.NewPostgresStore(t)

	tables, err := store.Tables(st, "dev")
	require.NoError(t, err)

	for _, name := range model.Names() {
		require.NoError(t, tables[name].Create(ctx))
	}

	repo := store.NewRepository(st, "dev", func() *model.Position { return &model.Position{} })
	position := &model.Position{Base: model.Base{ID: "p1"}, Title: "Engineer", Company: "Acme", ExperienceID: "e1"}
	require.NoError(t, repo.Put(ctx, position))

	position.Company = "Globex"
	require.NoError(t, repo.Put(ctx, position))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Globex", items[0].Company)

	names, err := st.ListTables(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "Resume-dev")
}
