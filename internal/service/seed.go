package service

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/model"
	"github.com/emrgen/resumectl/internal/seed"
	"github.com/emrgen/resumectl/internal/store"
	"github.com/sirupsen/logrus"
)

// SeedState is the stage a seed run is in.
type SeedState string

const (
	SeedIdle                 SeedState = "Idle"
	SeedCredentialsResolving SeedState = "CredentialsResolving"
	SeedCleaningUp           SeedState = "CleaningUp"
	SeedGenerating           SeedState = "Generating"
	SeedWriting              SeedState = "WritingInDependencyOrder"
	SeedDone                 SeedState = "Done"
	SeedFailed               SeedState = "Failed"
)

// EntityCount holds per-entity outcome counters.
type EntityCount struct {
	Entity  string
	Written int
	Skipped int
	Failed  int
}

type SeedReport struct {
	Environment config.Environment
	Tag         string
	State       SeedState
	Entities    []*EntityCount
	Cleanup     *CleanupReport
	Messages    []string
}

// Count returns the counters for entity, adding them when missing.
func (r *SeedReport) Count(entity string) *EntityCount {
	for _, c := range r.Entities {
		if c.Entity == entity {
			return c
		}
	}
	c := &EntityCount{Entity: entity}
	r.Entities = append(r.Entities, c)
	return c
}

// Totals sums the counters across entities.
func (r *SeedReport) Totals() EntityCount {
	total := EntityCount{Entity: "total"}
	for _, c := range r.Entities {
		total.Written += c.Written
		total.Skipped += c.Skipped
		total.Failed += c.Failed
	}
	return total
}

func (r *SeedReport) addMessage(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// CleanupCount holds per-entity deletion counters.
type CleanupCount struct {
	Entity  string
	Deleted int
	Failed  int
}

type CleanupReport struct {
	Tag      string
	Entities []*CleanupCount
}

// Deleted returns the number of records removed across entities.
func (r *CleanupReport) Deleted() int {
	n := 0
	for _, c := range r.Entities {
		n += c.Deleted
	}
	return n
}

type SeedOptions struct {
	// CleanupTag removes records of an earlier run before seeding.
	CleanupTag string
}

// Seeder writes a generated record graph into an environment.
type Seeder struct {
	connector Connector
	upserter  *Upserter
	generator *seed.Generator
}

func NewSeeder(connector Connector, upserter *Upserter, generator *seed.Generator) *Seeder {
	return &Seeder{connector: connector, upserter: upserter, generator: generator}
}

// Seed generates one batch tagged with tag and writes it entity by entity in
// dependency order. Per-record failures are counted; the returned error is set
// only when credentials or table provisioning fail.
func (s *Seeder) Seed(ctx context.Context, env config.Environment, tag string, opts SeedOptions) (*SeedReport, error) {
	report := &SeedReport{Environment: env, Tag: tag, State: SeedIdle}
	if tag == "" {
		tag = seed.NewTag()
		report.Tag = tag
	}

	report.State = SeedCredentialsResolving
	target, err := s.connector.Connect(ctx, env)
	if err != nil {
		report.State = SeedFailed
		return report, err
	}

	if opts.CleanupTag != "" {
		report.State = SeedCleaningUp
		cleanup, err := s.cleanup(ctx, target, opts.CleanupTag)
		report.Cleanup = cleanup
		if err != nil {
			report.State = SeedFailed
			return report, err
		}
	}

	report.State = SeedGenerating
	batch := s.generator.Generate(tag)
	logrus.Infof("generated %d records tagged %s for %s", batch.Size(), tag, env)

	report.State = SeedWriting
	if err := s.write(ctx, target, batch, report); err != nil {
		report.State = SeedFailed
		return report, err
	}

	report.State = SeedDone
	return report, nil
}

func (s *Seeder) write(ctx context.Context, target *Target, batch *seed.Batch, report *SeedReport) error {
	// generated id -> id of the record that actually exists
	remap := make(map[string]string)
	failed := mapset.NewSet[string]()
	var fatal error

	for _, d := range model.Registry() {
		counts := report.Count(d.Name)
		records := batch.Records[d.Name]

		table, err := target.Table(d.Name)
		if err != nil {
			return err
		}

		if err := s.upserter.EnsureTable(ctx, table); err != nil {
			logrus.Errorf("skipping %s: %v", d.Name, err)
			report.addMessage("skipped %d %s records: %v", batch.Count(d.Name), d.Name, err)
			for _, rec := range records {
				failed.Add(rec.GetID())
			}
			counts.Failed += batch.Count(d.Name)
			fatal = errors.Join(fatal, err)
			continue
		}

		for _, rec := range records {
			id := rec.GetID()
			if parent := resolveParents(rec, remap, failed); parent != "" {
				err := fmt.Errorf("%w: %s %s references %s", ErrMissingParent, d.Name, id, parent)
				logrus.Error(err)
				report.addMessage("%v", err)
				failed.Add(id)
				counts.Failed++
				continue
			}

			res := s.upserter.Upsert(ctx, table, "", rec)
			switch res.Outcome {
			case OutcomeWritten:
				counts.Written++
			case OutcomeSkipped:
				counts.Skipped++
				remap[id] = res.ID
				report.addMessage("%s", res.Message)
			default:
				counts.Failed++
				failed.Add(id)
				report.addMessage("%s", res.Message)
			}
		}

		for _, bf := range batch.BackFills {
			if bf.After == d.Name {
				s.backFill(ctx, target, bf, remap, failed, report)
			}
		}
	}

	return fatal
}

// resolveParents rewrites foreign keys through remap and returns the first
// parent id that was not written, if any.
func resolveParents(rec model.Entity, remap map[string]string, failed mapset.Set[string]) string {
	for _, fk := range rec.ForeignKeys() {
		if *fk == "" {
			continue
		}
		if failed.Contains(*fk) {
			return *fk
		}
		if existing, ok := remap[*fk]; ok {
			*fk = existing
		}
	}
	return ""
}

func (s *Seeder) backFill(ctx context.Context, target *Target, bf seed.BackFill, remap map[string]string, failed mapset.Set[string], report *SeedReport) {
	if failed.Contains(bf.ID) || failed.Contains(bf.Value) {
		logrus.Warnf("not linking %s %s.%s: record was not written", bf.Entity, bf.ID, bf.Field)
		return
	}

	id, value := bf.ID, bf.Value
	if existing, ok := remap[id]; ok {
		id = existing
	}
	if existing, ok := remap[value]; ok {
		value = existing
	}

	table, err := target.Table(bf.Entity)
	if err != nil {
		report.addMessage("link %s %s: %v", bf.Entity, id, err)
		return
	}
	rec, err := table.Find(ctx, id)
	if err != nil {
		logrus.Errorf("link %s %s: %v", bf.Entity, id, err)
		report.addMessage("link %s %s: %v", bf.Entity, id, err)
		return
	}

	field, ok := rec.ForeignKeys()[bf.Field]
	if !ok {
		report.addMessage("link %s %s: no field %s", bf.Entity, id, bf.Field)
		return
	}
	if *field == value {
		return
	}
	*field = value
	rec.Meta().UpdatedAt = ""

	res := s.upserter.Upsert(ctx, table, id, rec)
	if res.Outcome != OutcomeWritten {
		report.addMessage("%s", res.Message)
		return
	}
	logrus.Debugf("linked %s %s.%s to %s", bf.Entity, id, bf.Field, value)
}

// Cleanup deletes every record whose tagged text field carries tag, children
// before parents.
func (s *Seeder) Cleanup(ctx context.Context, env config.Environment, tag string) (*CleanupReport, error) {
	target, err := s.connector.Connect(ctx, env)
	if err != nil {
		return nil, err
	}
	return s.cleanup(ctx, target, tag)
}

func (s *Seeder) cleanup(ctx context.Context, target *Target, tag string) (*CleanupReport, error) {
	if tag == "" {
		return nil, ErrMissingTag
	}

	report := &CleanupReport{Tag: tag}
	for _, d := range model.Reverse() {
		counts := &CleanupCount{Entity: d.Name}
		report.Entities = append(report.Entities, counts)

		table, err := target.Table(d.Name)
		if err != nil {
			return report, err
		}

		status, err := table.Status(ctx)
		if err != nil {
			return report, err
		}
		if status == store.TableNotFound {
			continue
		}

		records, err := table.Records(ctx)
		if err != nil {
			logrus.Errorf("scan %s: %v", table.Name(), err)
			counts.Failed++
			continue
		}

		for _, rec := range records {
			if !model.HasTag(rec, tag) {
				continue
			}
			if err := table.Remove(ctx, rec.GetID()); err != nil {
				logrus.Errorf("delete %s %s: %v", d.Name, rec.GetID(), err)
				counts.Failed++
				continue
			}
			counts.Deleted++
		}

		if counts.Deleted > 0 {
			logrus.Infof("deleted %d %s records tagged %s", counts.Deleted, d.Name, tag)
		}
	}
	return report, nil
}
