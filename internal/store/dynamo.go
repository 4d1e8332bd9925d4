package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/sirupsen/logrus"
)

// DynamoAPI is the part of the DynamoDB client the store uses.
type DynamoAPI interface {
	dynamodb.ListTablesAPIClient
	dynamodb.ScanAPIClient
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ Store = (*DynamoStore)(nil)

type DynamoStore struct {
	client DynamoAPI
}

func NewDynamoStore(client DynamoAPI) *DynamoStore {
	return &DynamoStore{client: client}
}

func (d *DynamoStore) ListTables(ctx context.Context) ([]string, error) {
	var tables []string
	pages := dynamodb.NewListTablesPaginator(d.client, &dynamodb.ListTablesInput{})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, opError("list tables", "", err)
		}
		tables = append(tables, page.TableNames...)
	}
	return tables, nil
}

func (d *DynamoStore) DescribeTable(ctx context.Context, table string) (TableStatus, error) {
	out, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return TableNotFound, nil
		}
		return "", opError("describe table", table, err)
	}

	if out.Table != nil && out.Table.TableStatus == types.TableStatusActive {
		return TableActive, nil
	}
	return TableCreating, nil
}

// CreateTable creates an on-demand table with a single string partition key id.
func (d *DynamoStore) CreateTable(ctx context.Context, table string, _ model.Entity) error {
	logrus.Infof("creating table %s", table)
	_, err := d.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return opError("create table", table, err)
	}
	return nil
}

func (d *DynamoStore) PutItem(ctx context.Context, table string, item model.Entity) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return opError("marshal item", table, err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return opError("put item", table, ErrTableNotFound)
	}
	return opError("put item", table, err)
}

func (d *DynamoStore) GetItem(ctx context.Context, table string, id string, out model.Entity) error {
	res, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       idKey(id),
	})
	if err != nil {
		return opError("get item", table, err)
	}
	if len(res.Item) == 0 {
		return ErrNotFound
	}

	return opError("unmarshal item", table, attributevalue.UnmarshalMap(res.Item, out))
}

func (d *DynamoStore) DeleteItem(ctx context.Context, table string, id string, _ model.Entity) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       idKey(id),
	})
	return opError("delete item", table, err)
}

func (d *DynamoStore) Scan(ctx context.Context, table string, newItem func() model.Entity, fn func(model.Entity) error) error {
	pages := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{TableName: aws.String(table)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			var notFound *types.ResourceNotFoundException
			if errors.As(err, &notFound) {
				return opError("scan", table, ErrTableNotFound)
			}
			return opError("scan", table, err)
		}

		for _, raw := range page.Items {
			item := newItem()
			if err := attributevalue.UnmarshalMap(raw, item); err != nil {
				return opError("unmarshal item", table, err)
			}
			if err := fn(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *DynamoStore) Close() error {
	return nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
