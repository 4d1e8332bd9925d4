package seed

import (
	"regexp"
	"testing"

	"github.com/emrgen/resumectl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Shape(t *testing.T) {
	batch := NewGenerator().Generate("seed-test01")

	want := map[string]int{
		model.TodoEntity:               1,
		model.ResumeEntity:             1,
		model.SummaryEntity:            1,
		model.ContactInformationEntity: 1,
		model.ReferenceEntity:          2,
		model.EducationEntity:          1,
		model.SchoolEntity:             2,
		model.DegreeEntity:             2,
		model.ExperienceEntity:         1,
		model.PositionEntity:           2,
		model.SkillEntity:              5,
	}
	for entity, count := range want {
		assert.Equal(t, count, batch.Count(entity), entity)
	}

	for _, name := range model.Names() {
		for _, rec := range batch.Records[name] {
			assert.True(t, model.HasTag(rec, "seed-test01"), "%s %s is not tagged", name, rec.GetID())
			assert.Equal(t, name, rec.EntityName())
		}
	}
}

func TestGenerator_ForeignKeysPointAtEarlierRecords(t *testing.T) {
	batch := NewGenerator().Generate("seed-test01")

	written := make(map[string]bool)
	for _, d := range model.Registry() {
		for _, rec := range batch.Records[d.Name] {
			for field, fk := range rec.ForeignKeys() {
				if *fk == "" {
					continue
				}
				assert.True(t, written[*fk], "%s.%s points at a record not generated earlier", d.Name, field)
			}
		}
		for _, rec := range batch.Records[d.Name] {
			written[rec.GetID()] = true
		}
	}
}

func TestGenerator_SummaryBackFill(t *testing.T) {
	batch := NewGenerator().Generate("seed-test01")

	require.Len(t, batch.BackFills, 1)
	fill := batch.BackFills[0]
	resume := batch.Records[model.ResumeEntity][0].(*model.Resume)
	summary := batch.Records[model.SummaryEntity][0].(*model.Summary)

	assert.Equal(t, model.ResumeEntity, fill.After)
	assert.Equal(t, resume.ID, fill.Value)
	assert.Equal(t, summary.ID, fill.ID)
	assert.Empty(t, summary.ResumeID)
	assert.Equal(t, summary.ID, resume.SummaryID)
}

func TestGenerator_FreshIDs(t *testing.T) {
	g := NewGenerator()
	first := g.Generate("seed-aaaa0001")
	second := g.Generate("seed-bbbb0002")

	ids := make(map[string]bool)
	for _, batch := range []*Batch{first, second} {
		for _, records := range batch.Records {
			for _, rec := range records {
				assert.False(t, ids[rec.GetID()], "id %s generated twice", rec.GetID())
				ids[rec.GetID()] = true
			}
		}
	}
}

func TestNewTag(t *testing.T) {
	tag := NewTag()
	assert.Regexp(t, regexp.MustCompile(`^seed-[0-9a-f]{8}$`), tag)
	assert.NotEqual(t, tag, NewTag())
}

func TestBatch_Size(t *testing.T) {
	batch := NewGenerator().Generate("seed-test01")
	assert.Equal(t, 19, batch.Size())
	assert.Zero(t, (&Batch{}).Size())
}
