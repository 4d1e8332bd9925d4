package store

import (
	"context"
	"fmt"

	"github.com/emrgen/resumectl/internal/model"
)

// Table is the entity-erased view of a Repository used by code that walks the
// registry.
type Table interface {
	Entity() string
	Name() string
	Status(ctx context.Context) (TableStatus, error)
	Create(ctx context.Context) error
	New() model.Entity
	// Find reads one record by id.
	Find(ctx context.Context, id string) (model.Entity, error)
	// Records reads the whole table.
	Records(ctx context.Context) ([]model.Entity, error)
	// Write stores rec, failing when rec is not this table's entity type.
	Write(ctx context.Context, rec model.Entity) error
	Remove(ctx context.Context, id string) error
}

// Repository is the typed access path for one entity in one environment.
type Repository[T model.Entity] struct {
	store  Store
	entity string
	table  string
	newFn  func() T
}

func NewRepository[T model.Entity](store Store, suffix string, newFn func() T) *Repository[T] {
	entity := newFn().EntityName()
	return &Repository[T]{
		store:  store,
		entity: entity,
		table:  TableName(entity, suffix),
		newFn:  newFn,
	}
}

var _ Table = (*Repository[*model.Resume])(nil)

func (r *Repository[T]) Entity() string { return r.entity }

func (r *Repository[T]) Name() string { return r.table }

func (r *Repository[T]) New() model.Entity { return r.newFn() }

func (r *Repository[T]) Status(ctx context.Context) (TableStatus, error) {
	return r.store.DescribeTable(ctx, r.table)
}

func (r *Repository[T]) Create(ctx context.Context) error {
	return r.store.CreateTable(ctx, r.table, r.newFn())
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	item := r.newFn()
	if err := r.store.GetItem(ctx, r.table, id, item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

func (r *Repository[T]) Put(ctx context.Context, item T) error {
	return r.store.PutItem(ctx, r.table, item)
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.DeleteItem(ctx, r.table, id, r.newFn())
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.store.Scan(ctx, r.table, r.New, func(e model.Entity) error {
		item, ok := e.(T)
		if !ok {
			return fmt.Errorf("scan %s: unexpected item type %T", r.table, e)
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *Repository[T]) Find(ctx context.Context, id string) (model.Entity, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository[T]) Records(ctx context.Context) ([]model.Entity, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]model.Entity, 0, len(items))
	for _, item := range items {
		records = append(records, item)
	}
	return records, nil
}

func (r *Repository[T]) Write(ctx context.Context, rec model.Entity) error {
	item, ok := rec.(T)
	if !ok {
		return fmt.Errorf("%w: %s table cannot store %T", ErrWrongEntity, r.entity, rec)
	}
	return r.Put(ctx, item)
}

func (r *Repository[T]) Remove(ctx context.Context, id string) error {
	return r.Delete(ctx, id)
}

// Tables builds one repository per registered entity, keyed by entity name.
func Tables(store Store, suffix string) (map[string]Table, error) {
	tables := map[string]Table{
		model.TodoEntity:               NewRepository(store, suffix, func() *model.Todo { return &model.Todo{} }),
		model.EducationEntity:          NewRepository(store, suffix, func() *model.Education { return &model.Education{} }),
		model.SchoolEntity:             NewRepository(store, suffix, func() *model.School { return &model.School{} }),
		model.DegreeEntity:             NewRepository(store, suffix, func() *model.Degree { return &model.Degree{} }),
		model.ContactInformationEntity: NewRepository(store, suffix, func() *model.ContactInformation { return &model.ContactInformation{} }),
		model.ReferenceEntity:          NewRepository(store, suffix, func() *model.Reference { return &model.Reference{} }),
		model.ExperienceEntity:         NewRepository(store, suffix, func() *model.Experience { return &model.Experience{} }),
		model.PositionEntity:           NewRepository(store, suffix, func() *model.Position { return &model.Position{} }),
		model.SummaryEntity:            NewRepository(store, suffix, func() *model.Summary { return &model.Summary{} }),
		model.ResumeEntity:             NewRepository(store, suffix, func() *model.Resume { return &model.Resume{} }),
		model.SkillEntity:              NewRepository(store, suffix, func() *model.Skill { return &model.Skill{} }),
	}

	for _, name := range model.Names() {
		if _, ok := tables[name]; !ok {
			return nil, fmt.Errorf("%w: no repository for %s", ErrMissingRepository, name)
		}
	}
	return tables, nil
}
