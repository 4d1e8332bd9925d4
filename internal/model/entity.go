package model

import "strings"

// Entity is one resume-domain record. Every entity is stored in its own table
// keyed by id.
type Entity interface {
	// EntityName returns the registry name, which is also the table base name.
	EntityName() string
	GetID() string
	SetID(id string)
	// Meta returns the fields shared by every entity.
	Meta() *Base
	// UniqueKey returns the values that identify a duplicate record.
	UniqueKey() []string
	// ForeignKeys returns pointers to the foreign key fields, keyed by attribute name.
	ForeignKeys() map[string]*string
	// TaggedText returns the human-readable field that carries the run tag.
	TaggedText() string
}

// Base holds the attributes every table item carries.
type Base struct {
	ID        string `json:"id" dynamodbav:"id" gorm:"primaryKey;column:id"`
	Typename  string `json:"__typename" dynamodbav:"__typename" gorm:"column:typename"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"updatedAt" gorm:"column:updated_at;autoUpdateTime:false"`
}

func (b *Base) GetID() string {
	return b.ID
}

func (b *Base) SetID(id string) {
	b.ID = id
}

func (b *Base) Meta() *Base {
	return b
}

// TagMarker is the form a run tag takes inside text fields.
func TagMarker(tag string) string {
	return "[" + tag + "]"
}

// HasTag reports whether the tagged text field of e carries tag.
func HasTag(e Entity, tag string) bool {
	if tag == "" {
		return false
	}
	return strings.Contains(e.TaggedText(), TagMarker(tag))
}

// SameKey reports whether two unique keys match with every value non-empty.
func SameKey(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == "" || a[i] != b[i] {
			return false
		}
	}
	return true
}
