package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/emrgen/resumectl/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, "Resume-dev", store.TableName(model.ResumeEntity, "dev"))
	assert.Equal(t, "Resume", store.TableName(model.ResumeEntity, ""))
}

func TestTables_CoverRegistry(t *testing.T) {
	tables, err := store.Tables(tester.NewStore(t), "dev")
	require.NoError(t, err)

	for _, name := range model.Names() {
		table, ok := tables[name]
		require.True(t, ok, name)
		assert.Equal(t, name, table.Entity())
		assert.Equal(t, name+"-dev", table.Name())
		assert.Equal(t, name, table.New().EntityName())
	}
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(tester.NewStore(t), "dev", func() *model.Skill { return &model.Skill{} })

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.TableNotFound, status)

	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, store.ErrTableNotFound)

	require.NoError(t, repo.Create(ctx))
	status, err = repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.TableActive, status)

	skill := &model.Skill{Base: model.Base{ID: "s1", Typename: model.SkillEntity}, Title: "Go", Link: "https://go.dev", ResumeID: "r1"}
	require.NoError(t, repo.Put(ctx, skill))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, skill, got)

	skill.Link = ""
	require.NoError(t, repo.Put(ctx, skill))
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Link)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_WriteWrongEntity(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(tester.NewStore(t), "dev", func() *model.Resume { return &model.Resume{} })
	require.NoError(t, repo.Create(ctx))

	err := repo.Write(ctx, &model.Skill{Base: model.Base{ID: "s1"}})
	assert.ErrorIs(t, err, store.ErrWrongEntity)
}

func TestRepository_ListPages(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(tester.NewStore(t), "prod", func() *model.Todo { return &model.Todo{} })
	require.NoError(t, repo.Create(ctx))

	const n = 250
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Put(ctx, &model.Todo{Base: model.Base{ID: fmt.Sprintf("todo-%03d", i)}, Content: "x"}))
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, n)
	assert.Equal(t, "todo-000", items[0].ID)
	assert.Equal(t, "todo-249", items[n-1].ID)

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func TestRepository_SuffixesIsolateEnvironments(t *testing.T) {
	ctx := context.Background()
	st := tester.NewStore(t)
	dev := store.NewRepository(st, "dev", func() *model.Todo { return &model.Todo{} })
	prod := store.NewRepository(st, "prod", func() *model.Todo { return &model.Todo{} })
	require.NoError(t, dev.Create(ctx))
	require.NoError(t, prod.Create(ctx))

	require.NoError(t, dev.Put(ctx, &model.Todo{Base: model.Base{ID: "t1"}, Content: "dev only"}))

	items, err := prod.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	tables, err := st.ListTables(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Todo-dev", "Todo-prod"}, tables)
}
