package tester

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/emrgen/resumectl/internal/store"
)

var _ store.DynamoAPI = (*Dynamo)(nil)

// Dynamo keeps DynamoDB tables in memory. New tables report CREATING on the
// first describe and ACTIVE afterwards. ListTables and Scan return at most
// PageSize entries per call and hand out continuation keys like the service.
type Dynamo struct {
	PageSize int

	mu        sync.Mutex
	tables    map[string]map[string]map[string]types.AttributeValue
	described map[string]int
	created   []*dynamodb.CreateTableInput
	scans     int
}

func NewDynamo(pageSize int) *Dynamo {
	return &Dynamo{
		PageSize:  pageSize,
		tables:    map[string]map[string]map[string]types.AttributeValue{},
		described: map[string]int{},
	}
}

// Created returns the create requests in the order they were made.
func (f *Dynamo) Created() []*dynamodb.CreateTableInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*dynamodb.CreateTableInput(nil), f.created...)
}

// Item returns the raw attributes of one stored item.
func (f *Dynamo) Item(table, id string) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[table][id]
}

// Scans counts the Scan calls, one per page.
func (f *Dynamo) Scans() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scans
}

// DropTable deletes a table behind the store's back.
func (f *Dynamo) DropTable(table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tables, table)
	delete(f.described, table)
}

func (f *Dynamo) ListTables(_ context.Context, in *dynamodb.ListTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	names, last := f.page(names, aws.ToString(in.ExclusiveStartTableName))
	return &dynamodb.ListTablesOutput{TableNames: names, LastEvaluatedTableName: last}, nil
}

func (f *Dynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.TableName)
	if _, ok := f.tables[name]; !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	f.described[name]++
	status := types.TableStatusActive
	if f.described[name] == 1 {
		status = types.TableStatusCreating
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName, TableStatus: status}}, nil
}

func (f *Dynamo) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.TableName)
	if _, ok := f.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("in use")}
	}
	f.tables[name] = map[string]map[string]types.AttributeValue{}
	f.created = append(f.created, in)
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *Dynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	table[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *Dynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &dynamodb.GetItemOutput{Item: table[keyOf(in.Key)]}, nil
}

func (f *Dynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tables[aws.ToString(in.TableName)], keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *Dynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	table, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}

	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	ids, last := f.page(ids, keyOf(in.ExclusiveStartKey))

	out := &dynamodb.ScanOutput{}
	for _, id := range ids {
		out.Items = append(out.Items, table[id])
	}
	if last != nil {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: *last},
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

// page sorts keys and returns the page following after, plus the last key of
// that page when more keys remain.
func (f *Dynamo) page(keys []string, after string) ([]string, *string) {
	sort.Strings(keys)
	start := 0
	if after != "" {
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}
	keys = keys[start:]
	if f.PageSize <= 0 || len(keys) <= f.PageSize {
		return keys, nil
	}
	keys = keys[:f.PageSize]
	return keys, aws.String(keys[len(keys)-1])
}

func keyOf(item map[string]types.AttributeValue) string {
	if s, ok := item["id"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
