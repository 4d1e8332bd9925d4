// Package seed builds the sample resume record graph written by the seed command.
package seed

import (
	"fmt"
	"strings"

	"github.com/emrgen/resumectl/internal/model"
	"github.com/google/uuid"
)

// Batch is one run's worth of generated records, keyed by entity name.
type Batch struct {
	Tag       string
	Records   map[string][]model.Entity
	BackFills []BackFill
}

// BackFill sets a foreign key on an already written record once the record it
// points at has been written.
type BackFill struct {
	Entity string
	ID     string
	Field  string
	Value  string
	After  string
}

// Count returns the number of generated records for entity.
func (b *Batch) Count(entity string) int {
	return len(b.Records[entity])
}

// Size returns the number of generated records across all entities.
func (b *Batch) Size() int {
	n := 0
	for _, records := range b.Records {
		n += len(records)
	}
	return n
}

// NewTag returns a fresh run tag such as seed-1a2b3c4d.
func NewTag() string {
	return "seed-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

type Generator struct {
	newID func() string
}

func NewGenerator() *Generator {
	return &Generator{newID: uuid.NewString}
}

// Generate builds a complete record graph with fresh ids and tag embedded in
// the tagged text field of every record.
func (g *Generator) Generate(tag string) *Batch {
	t := func(text string) string {
		return text + " " + model.TagMarker(tag)
	}
	mail := func(local string) string {
		return fmt.Sprintf("%s+%s@example.com", local, tag)
	}

	todo := &model.Todo{Content: t("Seed connectivity check")}

	education := &model.Education{Summary: t("Computer science education")}
	university := &model.School{Name: t("State University")}
	college := &model.School{Name: t("Community College")}
	bachelor := &model.Degree{Major: t("Computer Science"), StartYear: "2012", EndYear: "2016"}
	associate := &model.Degree{Major: t("Associate of Science"), StartYear: "2010", EndYear: "2012"}

	contact := &model.ContactInformation{Name: t("Jordan Avery"), Email: mail("jordan.avery"), Phone: "555-0100"}
	references := []*model.Reference{
		{Name: t("Sam Rivera"), Email: mail("sam.rivera"), Phone: "555-0101"},
		{Name: t("Alex Chen"), Email: mail("alex.chen"), Phone: "555-0102"},
	}

	experience := &model.Experience{Title: t("Professional experience")}
	positions := []*model.Position{
		{Title: "Senior Software Engineer", Company: t("Acme Corp"), StartDate: "2020-01", EndDate: "present"},
		{Title: "Software Engineer", Company: t("Globex"), StartDate: "2016-06", EndDate: "2019-12"},
	}

	summary := &model.Summary{
		Goals:    t("Build reliable, well-tested systems"),
		Persona:  "Backend engineer who enjoys data plumbing",
		URL:      "https://example.com/jordan-avery",
		Headshot: "https://example.com/jordan-avery.jpg",
	}
	resume := &model.Resume{Title: t("Software Engineer Resume")}

	skillNames := []struct{ title, link string }{
		{"Go", "https://go.dev"},
		{"TypeScript", "https://www.typescriptlang.org"},
		{"React", "https://react.dev"},
		{"GraphQL", "https://graphql.org"},
		{"AWS", "https://aws.amazon.com"},
	}

	for _, e := range []model.Entity{todo, education, university, college, bachelor, associate, contact, experience, summary, resume} {
		e.SetID(g.newID())
	}
	for _, r := range references {
		r.SetID(g.newID())
		r.ContactInformationID = contact.ID
	}
	for _, p := range positions {
		p.SetID(g.newID())
		p.ExperienceID = experience.ID
	}

	university.EducationID = education.ID
	college.EducationID = education.ID
	bachelor.SchoolID = university.ID
	associate.SchoolID = college.ID

	resume.SummaryID = summary.ID
	resume.ContactInformationID = contact.ID
	resume.EducationID = education.ID
	resume.ExperienceID = experience.ID

	skills := make([]model.Entity, 0, len(skillNames))
	for _, s := range skillNames {
		skill := &model.Skill{Title: t(s.title), Link: s.link, ResumeID: resume.ID}
		skill.SetID(g.newID())
		skills = append(skills, skill)
	}

	batch := &Batch{
		Tag: tag,
		Records: map[string][]model.Entity{
			model.TodoEntity:               {todo},
			model.EducationEntity:          {education},
			model.SchoolEntity:             {university, college},
			model.DegreeEntity:             {bachelor, associate},
			model.ContactInformationEntity: {contact},
			model.ReferenceEntity:          {references[0], references[1]},
			model.ExperienceEntity:         {experience},
			model.PositionEntity:           {positions[0], positions[1]},
			model.SummaryEntity:            {summary},
			model.ResumeEntity:             {resume},
			model.SkillEntity:              skills,
		},
		BackFills: []BackFill{
			{Entity: model.SummaryEntity, ID: summary.ID, Field: "resumeId", Value: resume.ID, After: model.ResumeEntity},
		},
	}

	return batch
}
