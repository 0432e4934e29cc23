package jisho

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/meaning"
)

// entryNamespace derives stable entry IDs from document IDs, so re-parsing a
// document yields the same ID.
var entryNamespace = uuid.MustParse("6f1c1a52-3d0e-4f43-9a53-1b0c5f2f4d7e")

// EntryID returns the entry ID for a document ID.
func EntryID(documentID string) uuid.UUID {
	return uuid.NewSHA1(entryNamespace, []byte(documentID))
}

// Parser builds DictionaryEntry values from documents. It holds no
// per-document state; one Parser may serve many goroutines as long as its
// Classifier does.
type Parser struct {
	classifier meaning.Classifier
	now        func() time.Time
}

// NewParser creates a Parser that classifies tags with c.
func NewParser(c meaning.Classifier) *Parser {
	return &Parser{classifier: c, now: time.Now}
}

// Parse validates doc and assembles its entry. Structural problems in the
// fragment stream fail the whole document.
func (p *Parser) Parse(doc Document) (domain.DictionaryEntry, error) {
	if err := validateDocument(doc); err != nil {
		return domain.DictionaryEntry{}, err
	}

	labels, err := doc.Labels.toDomain()
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	fragments, err := ToFragments(doc.Fragments)
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	section, err := meaning.Assemble(p.classifier, fragments)
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	return domain.DictionaryEntry{
		ID:         EntryID(doc.ID),
		DocumentID: doc.ID,
		SourceURL:  doc.SourceURL,
		Word:       ParseWord(doc.Word),
		Labels:     labels,
		Links:      doc.Links.toDomain(),
		Meanings:   section,
		ParsedAt:   p.now().UTC(),
	}, nil
}

// ParseWord builds the headword from the input exactly as given.
func ParseWord(w WordInput) domain.WordRepresentation {
	return domain.NewWordRepresentation(w.Writing, w.Reading, w.Alignment)
}

func validateDocument(doc Document) error {
	var errs []domain.FieldError
	if strings.TrimSpace(doc.ID) == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if strings.TrimSpace(doc.Word.Writing) == "" {
		errs = append(errs, domain.FieldError{Field: "word.writing", Message: "required"})
	}
	if strings.TrimSpace(doc.Word.Reading) == "" {
		errs = append(errs, domain.FieldError{Field: "word.reading", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
