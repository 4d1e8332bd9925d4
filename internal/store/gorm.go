package store

import (
	"context"
	"errors"
	"reflect"

	"github.com/emrgen/resumectl/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const gormPageSize = 100

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

// GormStore keeps each entity table in a relational database. Tables are
// created synchronously, so they are ACTIVE as soon as they exist.
type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) ListTables(ctx context.Context) ([]string, error) {
	tables, err := g.db.WithContext(ctx).Migrator().GetTables()
	return tables, opError("list tables", "", err)
}

func (g *GormStore) DescribeTable(ctx context.Context, table string) (TableStatus, error) {
	if g.db.WithContext(ctx).Migrator().HasTable(table) {
		return TableActive, nil
	}
	return TableNotFound, nil
}

func (g *GormStore) CreateTable(ctx context.Context, table string, proto model.Entity) error {
	logrus.Debugf("creating table %s", table)
	return opError("create table", table, g.db.WithContext(ctx).Table(table).AutoMigrate(proto))
}

func (g *GormStore) PutItem(ctx context.Context, table string, item model.Entity) error {
	err := g.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(item).Error
	return opError("put item", table, err)
}

func (g *GormStore) GetItem(ctx context.Context, table string, id string, out model.Entity) error {
	err := g.db.WithContext(ctx).Table(table).Where("id = ?", id).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return opError("get item", table, err)
}

func (g *GormStore) DeleteItem(ctx context.Context, table string, id string, proto model.Entity) error {
	return opError("delete item", table, g.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(proto).Error)
}

// Scan pages through the table ordered by id.
func (g *GormStore) Scan(ctx context.Context, table string, newItem func() model.Entity, fn func(model.Entity) error) error {
	if !g.db.WithContext(ctx).Migrator().HasTable(table) {
		return opError("scan", table, ErrTableNotFound)
	}

	itemType := reflect.TypeOf(newItem())
	last := ""
	for {
		page := reflect.New(reflect.SliceOf(itemType))
		err := g.db.WithContext(ctx).Table(table).
			Where("id > ?", last).
			Order("id").
			Limit(gormPageSize).
			Find(page.Interface()).Error
		if err != nil {
			return opError("scan", table, err)
		}

		items := page.Elem()
		for i := 0; i < items.Len(); i++ {
			item := items.Index(i).Interface().(model.Entity)
			if err := fn(item); err != nil {
				return err
			}
			last = item.GetID()
		}

		if items.Len() < gormPageSize {
			return nil
		}
	}
}

func (g *GormStore) Close() error {
	db, err := g.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
