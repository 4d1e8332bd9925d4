package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrgen/resumectl/internal/cache"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Outcome is what happened to a single record.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// UpsertResult reports the outcome of one upsert. For skipped records ID is
// the id of the existing duplicate.
type UpsertResult struct {
	Entity  string
	ID      string
	Outcome Outcome
	Message string
	Err     error
}

type UpserterOptions struct {
	TableTimeout time.Duration
	PollInterval time.Duration
	Now          func() time.Time
	NewID        func() string
}

// Upserter writes records idempotently: it provisions the table on first use,
// skips records whose unique fields match an existing record and writes the
// rest as full replacements.
type Upserter struct {
	tables *cache.TableStatus
	opts   UpserterOptions
}

func NewUpserter(c cache.Cache, opts UpserterOptions) *Upserter {
	if opts.TableTimeout <= 0 {
		opts.TableTimeout = 2 * time.Minute
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Upserter{tables: cache.NewTableStatus(c), opts: opts}
}

// EnsureTable creates the table when it is missing and blocks until it is ACTIVE.
func (u *Upserter) EnsureTable(ctx context.Context, table store.Table) error {
	if u.tables.IsActive(ctx, table.Name()) {
		return nil
	}

	status, err := table.Status(ctx)
	if err != nil {
		return err
	}

	if status == store.TableNotFound {
		if err := table.Create(ctx); err != nil {
			return err
		}
		status, err = table.Status(ctx)
		if err != nil {
			return err
		}
	}

	if status != store.TableActive {
		if err := u.waitActive(ctx, table); err != nil {
			return err
		}
	}

	u.tables.MarkActive(ctx, table.Name())
	return nil
}

func (u *Upserter) waitActive(ctx context.Context, table store.Table) error {
	logrus.Infof("waiting for table %s to become active", table.Name())

	timeout := time.NewTimer(u.opts.TableTimeout)
	defer timeout.Stop()
	ticker := time.NewTicker(u.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return fmt.Errorf("%w: %s after %s", ErrTableTimeout, table.Name(), u.opts.TableTimeout)
		case <-ticker.C:
			status, err := table.Status(ctx)
			if err != nil {
				return err
			}
			if status == store.TableActive {
				return nil
			}
			logrus.Debugf("table %s is %s", table.Name(), status)
		}
	}
}

// Upsert writes rec into table. A non-empty key becomes the record id; a
// record without an id gets a fresh one.
func (u *Upserter) Upsert(ctx context.Context, table store.Table, key string, rec model.Entity) UpsertResult {
	res := UpsertResult{Entity: table.Entity(), Outcome: OutcomeFailed}

	if rec == nil || rec.EntityName() != table.Entity() {
		res.Err = fmt.Errorf("%w: %T is not a %s", ErrMalformedRecord, rec, table.Entity())
		return u.fail(res)
	}

	if err := u.EnsureTable(ctx, table); err != nil {
		res.Err = err
		return u.fail(res)
	}

	if key != "" {
		rec.SetID(key)
	}
	if rec.GetID() == "" {
		rec.SetID(u.opts.NewID())
	}
	res.ID = rec.GetID()

	existing, err := u.findDuplicate(ctx, table, rec)
	if err != nil {
		u.forgetMissing(ctx, table, err)
		res.Err = err
		return u.fail(res)
	}
	if existing != "" {
		res.Outcome = OutcomeSkipped
		res.ID = existing
		res.Message = fmt.Sprintf("skipped %s %s, duplicate of %s", table.Entity(), rec.GetID(), existing)
		logrus.Debug(res.Message)
		return res
	}

	now := u.opts.Now().UTC().Format(time.RFC3339Nano)
	meta := rec.Meta()
	meta.Typename = rec.EntityName()
	if meta.CreatedAt == "" {
		meta.CreatedAt = now
	}
	if meta.UpdatedAt == "" {
		meta.UpdatedAt = now
	}

	if err := table.Write(ctx, rec); err != nil {
		if errors.Is(err, store.ErrWrongEntity) {
			res.Err = fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		} else {
			u.forgetMissing(ctx, table, err)
			res.Err = fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		return u.fail(res)
	}

	res.Outcome = OutcomeWritten
	res.Message = fmt.Sprintf("wrote %s %s", table.Entity(), rec.GetID())
	return res
}

// forgetMissing drops the cached ACTIVE status of a table that vanished, so the
// next upsert provisions it again.
func (u *Upserter) forgetMissing(ctx context.Context, table store.Table, err error) {
	if errors.Is(err, store.ErrTableNotFound) {
		logrus.Warnf("table %s disappeared", table.Name())
		u.tables.Forget(ctx, table.Name())
	}
}

// findDuplicate returns the id of another record with the same unique fields.
// A record with the same id is the record itself and is overwritten.
func (u *Upserter) findDuplicate(ctx context.Context, table store.Table, rec model.Entity) (string, error) {
	records, err := table.Records(ctx)
	if err != nil {
		return "", err
	}

	key := rec.UniqueKey()
	for _, existing := range records {
		if existing.GetID() == rec.GetID() {
			continue
		}
		if model.SameKey(existing.UniqueKey(), key) {
			return existing.GetID(), nil
		}
	}
	return "", nil
}

func (u *Upserter) fail(res UpsertResult) UpsertResult {
	res.Message = fmt.Sprintf("failed to write %s %s: %v", res.Entity, res.ID, res.Err)
	logrus.Error(res.Message)
	return res
}

// EnsureTables provisions every registered entity table of target in
// dependency order. It stops at the first failure.
func (u *Upserter) EnsureTables(ctx context.Context, target *Target) ([]string, error) {
	var ready []string
	for _, d := range model.Registry() {
		table, err := target.Table(d.Name)
		if err != nil {
			return ready, err
		}
		if err := u.EnsureTable(ctx, table); err != nil {
			return ready, fmt.Errorf("provision %s: %w", table.Name(), err)
		}
		ready = append(ready, table.Name())
	}
	return ready, nil
}

// UpsertEntity resolves the table for entity in target and upserts rec into it.
func (u *Upserter) UpsertEntity(ctx context.Context, target *Target, entity, key string, rec model.Entity) UpsertResult {
	table, err := target.Table(entity)
	if err != nil {
		res := UpsertResult{Entity: entity, Outcome: OutcomeFailed, Err: err}
		if rec != nil {
			res.ID = rec.GetID()
		}
		return u.fail(res)
	}
	return u.Upsert(ctx, table, key, rec)
}
