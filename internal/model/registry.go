package model

import (
	"fmt"
	"slices"
)

// Descriptor describes one entity type: its name, the entities its foreign
// keys point at, and a constructor for an empty record.
type Descriptor struct {
	Name      string
	DependsOn []string
	New       func() Entity
}

// registry lists entities so that every dependency appears strictly earlier.
var registry = []Descriptor{
	{Name: TodoEntity, New: func() Entity { return &Todo{} }},
	{Name: EducationEntity, New: func() Entity { return &Education{} }},
	{Name: SchoolEntity, DependsOn: []string{EducationEntity}, New: func() Entity { return &School{} }},
	{Name: DegreeEntity, DependsOn: []string{SchoolEntity}, New: func() Entity { return &Degree{} }},
	{Name: ContactInformationEntity, New: func() Entity { return &ContactInformation{} }},
	{Name: ReferenceEntity, DependsOn: []string{ContactInformationEntity}, New: func() Entity { return &Reference{} }},
	{Name: ExperienceEntity, New: func() Entity { return &Experience{} }},
	{Name: PositionEntity, DependsOn: []string{ExperienceEntity}, New: func() Entity { return &Position{} }},
	{Name: SummaryEntity, New: func() Entity { return &Summary{} }},
	{
		Name:      ResumeEntity,
		DependsOn: []string{SummaryEntity, ContactInformationEntity, EducationEntity, ExperienceEntity},
		New:       func() Entity { return &Resume{} },
	},
	{Name: SkillEntity, DependsOn: []string{ResumeEntity}, New: func() Entity { return &Skill{} }},
}

// Registry returns the entities in dependency order.
func Registry() []Descriptor {
	return slices.Clone(registry)
}

// Reverse returns the entities children first.
func Reverse() []Descriptor {
	out := slices.Clone(registry)
	slices.Reverse(out)
	return out
}

// Names returns the entity names in dependency order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, d := range registry {
		names = append(names, d.Name)
	}
	return names
}

// Lookup finds the descriptor for name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Validate checks that every dependency of every descriptor is listed earlier
// than the descriptor itself and that every constructor matches its name.
func Validate(descriptors []Descriptor) error {
	seen := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		if seen[d.Name] {
			return fmt.Errorf("entity %s registered twice", d.Name)
		}
		for _, dep := range d.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("entity %s depends on %s which is not registered before it", d.Name, dep)
			}
		}
		if d.New == nil {
			return fmt.Errorf("entity %s has no constructor", d.Name)
		}
		if got := d.New().EntityName(); got != d.Name {
			return fmt.Errorf("entity %s constructor builds %s", d.Name, got)
		}
		seen[d.Name] = true
	}
	return nil
}
