package service

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/sirupsen/logrus"
)

type Direction string

const (
	OneWay        Direction = "one-way"
	Bidirectional Direction = "bidirectional"
)

// SyncCount holds per-entity counters for one pass.
type SyncCount struct {
	Entity  string
	Read    int
	Written int
	Skipped int
	Failed  int
}

// SyncPass is one source to target copy.
type SyncPass struct {
	Source   config.Environment
	Target   config.Environment
	Entities []*SyncCount
	Messages []string
}

// Totals sums the counters across entities.
func (p *SyncPass) Totals() SyncCount {
	total := SyncCount{Entity: "total"}
	for _, c := range p.Entities {
		total.Read += c.Read
		total.Written += c.Written
		total.Skipped += c.Skipped
		total.Failed += c.Failed
	}
	return total
}

type SyncReport struct {
	Source    config.Environment
	Target    config.Environment
	Direction Direction
	Passes    []*SyncPass
}

// Syncer mirrors records between environments keeping their ids.
type Syncer struct {
	connector Connector
	upserter  *Upserter
}

func NewSyncer(connector Connector, upserter *Upserter) *Syncer {
	return &Syncer{connector: connector, upserter: upserter}
}

// Sync copies every entity from src to dst, and back again when dir is
// Bidirectional. Whichever pass writes an id last wins.
func (s *Syncer) Sync(ctx context.Context, src, dst config.Environment, dir Direction) (*SyncReport, error) {
	if dir == "" {
		dir = OneWay
	}
	if dir != OneWay && dir != Bidirectional {
		return nil, fmt.Errorf("unknown sync direction %q", dir)
	}
	if src == dst {
		return nil, fmt.Errorf("%w: %s", ErrSameEnvironment, src)
	}

	source, err := s.connector.Connect(ctx, src)
	if err != nil {
		return nil, err
	}
	target, err := s.connector.Connect(ctx, dst)
	if err != nil {
		return nil, err
	}
	if source.Store == target.Store && source.Suffix == target.Suffix {
		return nil, fmt.Errorf("%w: %s and %s", ErrSameEnvironment, src, dst)
	}

	report := &SyncReport{Source: src, Target: dst, Direction: dir}

	if dir == OneWay {
		pass, err := s.pass(ctx, source, target)
		report.Passes = append(report.Passes, pass)
		return report, err
	}

	if err := s.provisionUnion(ctx, source, target); err != nil {
		return report, err
	}

	forward, err := s.pass(ctx, source, target)
	report.Passes = append(report.Passes, forward)
	if err != nil {
		return report, err
	}

	backward, err := s.pass(ctx, target, source)
	report.Passes = append(report.Passes, backward)
	return report, err
}

// provisionUnion creates, empty, every entity table that exists in only one
// of the two environments.
func (s *Syncer) provisionUnion(ctx context.Context, a, b *Target) error {
	present := mapset.NewSet[string]()
	for _, t := range []*Target{a, b} {
		names, err := t.Store.ListTables(ctx)
		if err != nil {
			return err
		}
		present.Append(names...)
	}

	for _, d := range model.Registry() {
		ta, err := a.Table(d.Name)
		if err != nil {
			return err
		}
		tb, err := b.Table(d.Name)
		if err != nil {
			return err
		}
		if !present.Contains(ta.Name()) && !present.Contains(tb.Name()) {
			continue
		}
		for _, t := range []store.Table{ta, tb} {
			if present.Contains(t.Name()) {
				continue
			}
			logrus.Infof("creating missing table %s", t.Name())
			if err := s.upserter.EnsureTable(ctx, t); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Syncer) pass(ctx context.Context, from, to *Target) (*SyncPass, error) {
	pass := &SyncPass{Source: from.Env, Target: to.Env}
	logf := func(format string, args ...any) {
		pass.Messages = append(pass.Messages, fmt.Sprintf(format, args...))
	}
	remap := make(map[string]string)
	var pending []backRef
	var fatal error

	logrus.Infof("syncing %s -> %s", from.Env, to.Env)
	for _, d := range model.Registry() {
		counts := &SyncCount{Entity: d.Name}
		pass.Entities = append(pass.Entities, counts)

		src, err := from.Table(d.Name)
		if err != nil {
			return pass, err
		}
		dst, err := to.Table(d.Name)
		if err != nil {
			return pass, err
		}

		status, err := src.Status(ctx)
		if err != nil {
			logf("describe %s: %v", src.Name(), err)
			counts.Failed++
			continue
		}
		if status == store.TableNotFound {
			logrus.Debugf("%s does not exist, nothing to copy", src.Name())
			continue
		}

		records, err := src.Records(ctx)
		if err != nil {
			logrus.Errorf("scan %s: %v", src.Name(), err)
			logf("scan %s: %v", src.Name(), err)
			counts.Failed++
			continue
		}
		counts.Read = len(records)

		if err := s.upserter.EnsureTable(ctx, dst); err != nil {
			logrus.Errorf("skipping %s: %v", d.Name, err)
			logf("skipped %d %s records: %v", len(records), d.Name, err)
			counts.Failed += len(records)
			fatal = errors.Join(fatal, err)
			continue
		}

		for _, rec := range records {
			id := rec.GetID()
			for _, fk := range rec.ForeignKeys() {
				if existing, ok := remap[*fk]; ok {
					*fk = existing
				}
			}

			res := s.upserter.Upsert(ctx, dst, id, rec)
			switch res.Outcome {
			case OutcomeWritten:
				counts.Written++
				if unresolved(rec, remap) {
					pending = append(pending, backRef{table: dst, rec: rec, counts: counts})
				}
			case OutcomeSkipped:
				counts.Skipped++
				remap[id] = res.ID
				logf("%s", res.Message)
			default:
				counts.Failed++
				logf("%s", res.Message)
			}
		}

		logrus.Infof("%s: read %d, wrote %d, skipped %d, failed %d",
			d.Name, counts.Read, counts.Written, counts.Skipped, counts.Failed)
	}

	s.backFill(ctx, pending, remap, logf)
	return pass, fatal
}

// backRef is a written record whose references may point at a record that is
// copied later in the same pass.
type backRef struct {
	table  store.Table
	rec    model.Entity
	counts *SyncCount
}

func unresolved(rec model.Entity, remap map[string]string) bool {
	for _, fk := range rec.ForeignKeys() {
		if *fk != "" {
			if _, ok := remap[*fk]; !ok {
				return true
			}
		}
	}
	return false
}

// backFill rewrites references to records that were later skipped as
// duplicates, so they point at the record the target already had.
func (s *Syncer) backFill(ctx context.Context, pending []backRef, remap map[string]string, logf func(string, ...any)) {
	for _, p := range pending {
		changed := false
		for _, fk := range p.rec.ForeignKeys() {
			if existing, ok := remap[*fk]; ok {
				*fk = existing
				changed = true
			}
		}
		if !changed {
			continue
		}

		res := s.upserter.Upsert(ctx, p.table, p.rec.GetID(), p.rec)
		switch res.Outcome {
		case OutcomeWritten:
			logrus.Debugf("back-filled references of %s %s", p.table.Entity(), p.rec.GetID())
		case OutcomeSkipped:
			logf("back-fill of %s %s collides with %s", p.table.Entity(), p.rec.GetID(), res.ID)
		default:
			p.counts.Failed++
			logf("%s", res.Message)
		}
	}
}
