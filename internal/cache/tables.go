package cache

import (
	"context"

	"github.com/sirupsen/logrus"
)

const tableActive = "ACTIVE"

func tableKey(table string) string {
	return "table:" + table + ":status"
}

// TableStatus remembers which tables were seen ACTIVE so the upsert path does
// not describe the table before every write.
type TableStatus struct {
	cache Cache
}

func NewTableStatus(c Cache) *TableStatus {
	return &TableStatus{cache: c}
}

func (t *TableStatus) IsActive(ctx context.Context, table string) bool {
	v, ok, err := t.cache.Get(ctx, tableKey(table))
	if err != nil {
		logrus.Debugf("table status cache read failed for %s: %v", table, err)
		return false
	}
	return ok && v == tableActive
}

func (t *TableStatus) MarkActive(ctx context.Context, table string) {
	if err := t.cache.Set(ctx, tableKey(table), tableActive); err != nil {
		logrus.Debugf("table status cache write failed for %s: %v", table, err)
	}
}

func (t *TableStatus) Forget(ctx context.Context, table string) {
	if err := t.cache.Delete(ctx, tableKey(table)); err != nil {
		logrus.Debugf("table status cache delete failed for %s: %v", table, err)
	}
}
