package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/emrgen/resumectl/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamoStore_CreateAndDescribe(t *testing.T) {
	ctx := context.Background()
	fake := tester.NewDynamo(0)
	st := store.NewDynamoStore(fake)

	status, err := st.DescribeTable(ctx, "Resume-dev")
	require.NoError(t, err)
	assert.Equal(t, store.TableNotFound, status)

	require.NoError(t, st.CreateTable(ctx, "Resume-dev", &model.Resume{}))
	require.NoError(t, st.CreateTable(ctx, "Resume-dev", &model.Resume{}))
	created := fake.Created()
	require.Len(t, created, 1)

	in := created[0]
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
	require.Len(t, in.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(in.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, in.KeySchema[0].KeyType)
	assert.Equal(t, types.ScalarAttributeTypeS, in.AttributeDefinitions[0].AttributeType)

	status, err = st.DescribeTable(ctx, "Resume-dev")
	require.NoError(t, err)
	assert.Equal(t, store.TableCreating, status)

	status, err = st.DescribeTable(ctx, "Resume-dev")
	require.NoError(t, err)
	assert.Equal(t, store.TableActive, status)

	tables, err := st.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Resume-dev"}, tables)
}

func TestDynamoStore_Items(t *testing.T) {
	ctx := context.Background()
	fake := tester.NewDynamo(0)
	repo := store.NewRepository(store.NewDynamoStore(fake), "dev", func() *model.Summary { return &model.Summary{} })
	require.NoError(t, repo.Create(ctx))

	summary := &model.Summary{Base: model.Base{ID: "s1", Typename: model.SummaryEntity}, Goals: "ship", Persona: "builder"}
	require.NoError(t, repo.Put(ctx, summary))

	raw := fake.Item("Summary-dev", "s1")
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Summary"}, raw["__typename"])
	// empty fields are written, not omitted
	assert.Equal(t, &types.AttributeValueMemberS{Value: ""}, raw["resumeId"])

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, summary, got)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDynamoStore_ScanFollowsPages(t *testing.T) {
	ctx := context.Background()
	fake := tester.NewDynamo(2)
	repo := store.NewRepository(store.NewDynamoStore(fake), "dev", func() *model.Skill { return &model.Skill{} })
	require.NoError(t, repo.Create(ctx))

	for i := 1; i <= 3; i++ {
		skill := &model.Skill{Base: model.Base{ID: fmt.Sprintf("k%d", i), Typename: model.SkillEntity}, Title: fmt.Sprintf("skill %d", i)}
		require.NoError(t, repo.Put(ctx, skill))
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "k1", items[0].GetID())
	assert.Equal(t, "k3", items[2].GetID())
	assert.Equal(t, 2, fake.Scans())
}

func TestDynamoStore_ListTablesFollowsPages(t *testing.T) {
	ctx := context.Background()
	st := store.NewDynamoStore(tester.NewDynamo(2))
	for _, name := range []string{"Resume-dev", "Skill-dev", "Summary-dev"} {
		require.NoError(t, st.CreateTable(ctx, name, nil))
	}

	tables, err := st.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Resume-dev", "Skill-dev", "Summary-dev"}, tables)
}

func TestDynamoStore_ScanMissingTable(t *testing.T) {
	st := store.NewDynamoStore(tester.NewDynamo(0))
	err := st.Scan(context.Background(), "Skill-dev", func() model.Entity { return &model.Skill{} }, func(model.Entity) error { return nil })
	assert.ErrorIs(t, err, store.ErrTableNotFound)
}

func TestDynamoStore_PutMissingTable(t *testing.T) {
	st := store.NewDynamoStore(tester.NewDynamo(0))
	err := st.PutItem(context.Background(), "Skill-dev", &model.Skill{Base: model.Base{ID: "k1"}})
	assert.ErrorIs(t, err, store.ErrTableNotFound)
}
