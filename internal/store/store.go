package store

import (
	"context"

	"github.com/emrgen/resumectl/internal/model"
)

// TableStatus is the provisioning state of a backing table.
type TableStatus string

const (
	TableNotFound TableStatus = "NOT_FOUND"
	TableCreating TableStatus = "CREATING"
	TableActive   TableStatus = "ACTIVE"
)

// Store is a key-value table store with one table per entity, keyed by id.
type Store interface {
	TableStore
	ItemStore
	// Close releases the underlying client.
	Close() error
}

type TableStore interface {
	// ListTables returns every table visible to the store.
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns the table status, TableNotFound when it is absent.
	DescribeTable(ctx context.Context, table string) (TableStatus, error)
	// CreateTable starts creating a table keyed by id, shaped after proto.
	CreateTable(ctx context.Context, table string, proto model.Entity) error
}

type ItemStore interface {
	// PutItem writes item, replacing every attribute of an existing item with the same id.
	PutItem(ctx context.Context, table string, item model.Entity) error
	// GetItem reads the item with id into out, ErrNotFound when absent.
	GetItem(ctx context.Context, table string, id string, out model.Entity) error
	// DeleteItem removes the item with id.
	DeleteItem(ctx context.Context, table string, id string, proto model.Entity) error
	// Scan reads every item of a table page by page and calls fn for each.
	Scan(ctx context.Context, table string, newItem func() model.Entity, fn func(model.Entity) error) error
}

// TableName builds <Entity>[-<suffix>].
func TableName(entity, suffix string) string {
	if suffix == "" {
		return entity
	}
	return entity + "-" + suffix
}
