package domain

import (
	"time"

	"github.com/google/uuid"
)

// DictionaryEntry is the parsed form of one concept-light block.
type DictionaryEntry struct {
	ID         uuid.UUID
	DocumentID string
	SourceURL  *string
	Word       WordRepresentation
	Labels     ConceptLabels
	Links      SupplementaryLinks
	Meanings   MeaningSection
	ParsedAt   time.Time
}

// ConceptLabels are the proficiency badges shown next to an entry.
type ConceptLabels struct {
	IsCommon      bool
	JLPTLevel     *JLPTLevel
	WaniKaniLevel *int
}

// Validate checks label ranges.
func (l ConceptLabels) Validate() error {
	var errs []FieldError
	if l.JLPTLevel != nil && !l.JLPTLevel.IsValid() {
		errs = append(errs, FieldError{Field: "jlpt_level", Message: "must be one of N1..N5"})
	}
	if l.WaniKaniLevel != nil && (*l.WaniKaniLevel < MinWaniKaniLevel || *l.WaniKaniLevel > MaxWaniKaniLevel) {
		errs = append(errs, FieldError{Field: "wanikani_level", Message: "must be between 1 and 60"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// WaniKani level bounds.
const (
	MinWaniKaniLevel = 1
	MaxWaniKaniLevel = 60
)

// SupplementaryLinks are the side links of an entry.
type SupplementaryLinks struct {
	AudioLinks       []Link
	CollocationLinks []Link
	OtherLinks       []Link
}

// ParseFailure records a document that could not be parsed.
type ParseFailure struct {
	DocumentID string
	Kind       string
	Message    string
	CreatedAt  time.Time
}
