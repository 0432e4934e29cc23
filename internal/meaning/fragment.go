// Package meaning groups the flat fragment stream of a meaning block into a
// MeaningSection.
package meaning

import "github.com/heartmarshall/jisho-backend/internal/domain"

// Fragment is one item of a meaning block, in document order.
// Implementations: Tag, Entry, OtherFormsBlock, NotesBlock.
type Fragment interface {
	fragment()
}

// Tag is a tag header such as "Noun" or "Other forms".
type Tag struct {
	RawText string
}

// Entry is one definition.
type Entry struct {
	Meaning domain.MeaningWrapper
}

// OtherFormsBlock is the content following an "Other forms" tag.
type OtherFormsBlock struct {
	Forms []domain.OtherForm
}

// NotesBlock is the content following a "Notes" tag.
type NotesBlock struct {
	Notes []string
}

func (Tag) fragment()             {}
func (Entry) fragment()           {}
func (OtherFormsBlock) fragment() {}
func (NotesBlock) fragment()      {}
