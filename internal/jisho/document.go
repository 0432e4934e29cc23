// Package jisho turns the fragments extracted from one jisho.org
// concept-light block into a DictionaryEntry, and defines the JSON schemas
// for both sides.
package jisho

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/meaning"
)

// Fragment kinds accepted in FragmentInput.Kind.
const (
	FragmentTag        = "tag"
	FragmentEntry      = "entry"
	FragmentOtherForms = "other_forms"
	FragmentNotes      = "notes"
)

// maxLineSize bounds a single JSONL document.
const maxLineSize = 4 << 20

// Document is the extractor output for one concept-light block.
type Document struct {
	ID        string          `json:"id"`
	SourceURL *string         `json:"source_url,omitempty"`
	Word      WordInput       `json:"word"`
	Labels    LabelsRecord    `json:"labels"`
	Links     LinksRecord     `json:"links"`
	Fragments []FragmentInput `json:"fragments"`
}

// WordInput is the raw headword. Alignment is optional.
type WordInput struct {
	Writing   string `json:"writing"`
	Reading   string `json:"reading"`
	Alignment []int  `json:"alignment"`
}

// FragmentInput is one fragment of the meaning block. Which fields are read
// depends on Kind.
type FragmentInput struct {
	Kind  string            `json:"kind"`
	Text  string            `json:"text,omitempty"`
	Entry *EntryRecord      `json:"entry,omitempty"`
	Forms []OtherFormRecord `json:"forms,omitempty"`
	Notes []string          `json:"notes,omitempty"`
}

// ToFragments converts the input fragments into assembler fragments.
func ToFragments(in []FragmentInput) ([]meaning.Fragment, error) {
	out := make([]meaning.Fragment, 0, len(in))
	for i, f := range in {
		switch f.Kind {
		case FragmentTag:
			out = append(out, meaning.Tag{RawText: f.Text})
		case FragmentEntry:
			var rec EntryRecord
			if f.Entry != nil {
				rec = *f.Entry
			}
			out = append(out, meaning.Entry{Meaning: rec.toDomain()})
		case FragmentOtherForms:
			out = append(out, meaning.OtherFormsBlock{Forms: otherFormsFromRecord(f.Forms)})
		case FragmentNotes:
			out = append(out, meaning.NotesBlock{Notes: append([]string{}, f.Notes...)})
		default:
			return nil, domain.NewValidationError(fmt.Sprintf("fragments[%d].kind", i), fmt.Sprintf("unknown kind %q", f.Kind))
		}
	}
	return out, nil
}

// ReadDocuments decodes JSONL documents from r and calls fn for each
// non-blank line. A line that is not a valid document is passed to fn with
// its decode error so the caller can record it and continue; an error
// returned by fn stops reading.
func ReadDocuments(r io.Reader, fn func(line int, doc Document, decodeErr error) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		var doc Document
		var decodeErr error
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			decodeErr = domain.NewValidationError("document", err.Error())
		}
		if err := fn(line, doc, decodeErr); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read documents: %w", err)
	}
	return nil
}
