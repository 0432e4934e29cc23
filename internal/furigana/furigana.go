// Package furigana converts between a (writing, reading) pair and its
// per-character decomposition. Pure functions, no I/O.
package furigana

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/heartmarshall/jisho-backend/internal/domain"
)

// Decompose splits a word into parts. Without an alignment the whole word is
// one opaque part; with one, it yields one part per written character, in
// writing order, each holding the reading characters aligned to it.
func Decompose(w domain.WordRepresentation) []domain.WordRepresentationPart {
	if w.Alignment == nil || !domain.ValidAlignment(w.Writing, w.Reading, w.Alignment) {
		return []domain.WordRepresentationPart{{Writing: w.Writing, Reading: w.Reading}}
	}

	writing := []rune(w.Writing)
	readings := make([]strings.Builder, len(writing))

	i := 0
	for _, r := range w.Reading {
		readings[w.Alignment[i]].WriteRune(r)
		i++
	}

	parts := make([]domain.WordRepresentationPart, len(writing))
	for idx, r := range writing {
		parts[idx] = domain.WordRepresentationPart{
			Writing: string(r),
			Reading: readings[idx].String(),
		}
	}
	return parts
}

// Compose is the inverse of Decompose. A single part is an opaque word: it
// only gets an alignment when both writing and reading are one character.
// Multiple parts must each cover exactly one written character.
func Compose(parts []domain.WordRepresentationPart) (domain.WordRepresentation, error) {
	if len(parts) == 0 {
		return domain.WordRepresentation{}, &domain.MalformedPartError{Index: -1, Reason: "no parts"}
	}
	for i, p := range parts {
		if p.Reading == "" {
			return domain.WordRepresentation{}, &domain.MalformedPartError{Index: i, Reason: "empty reading"}
		}
		if p.Writing == "" {
			return domain.WordRepresentation{}, &domain.MalformedPartError{Index: i, Reason: "empty writing"}
		}
	}

	if len(parts) == 1 {
		p := parts[0]
		writing := norm.NFC.String(p.Writing)
		if utf8.RuneCountInString(writing) == 1 && utf8.RuneCountInString(p.Reading) == 1 {
			return domain.NewWordRepresentation(writing, p.Reading, []int{0}), nil
		}
		return domain.NewWordRepresentation(writing, p.Reading, nil), nil
	}

	var writing, reading strings.Builder
	var alignment []int
	for k, p := range parts {
		w := norm.NFC.String(p.Writing)
		if utf8.RuneCountInString(w) != 1 {
			return domain.WordRepresentation{}, &domain.MalformedPartError{
				Index:  k,
				Reason: "writing must be exactly one character",
			}
		}
		writing.WriteString(w)
		reading.WriteString(p.Reading)
		for range utf8.RuneCountInString(p.Reading) {
			alignment = append(alignment, k)
		}
	}

	return domain.NewWordRepresentation(writing.String(), reading.String(), alignment), nil
}

// KanjiList returns the written characters whose reading differs from them.
func KanjiList(w domain.WordRepresentation) []string {
	var out []string
	for _, p := range Decompose(w) {
		if !p.IsPassThrough() {
			out = append(out, p.Writing)
		}
	}
	return out
}

// FuriganaList returns the readings of the parts listed by KanjiList.
func FuriganaList(w domain.WordRepresentation) []string {
	var out []string
	for _, p := range Decompose(w) {
		if !p.IsPassThrough() {
			out = append(out, p.Reading)
		}
	}
	return out
}

// OkuriganaList returns the readings of pass-through kana parts.
func OkuriganaList(w domain.WordRepresentation) []string {
	var out []string
	for _, p := range Decompose(w) {
		if p.IsPassThrough() {
			out = append(out, p.Reading)
		}
	}
	return out
}

// Ruby renders the word in bracket notation, e.g. 食[た]べる.
// Opaque words render as a single annotated run.
func Ruby(w domain.WordRepresentation) string {
	var b strings.Builder
	for _, p := range Decompose(w) {
		b.WriteString(p.Writing)
		if !p.IsPassThrough() {
			b.WriteByte('[')
			b.WriteString(p.Reading)
			b.WriteByte(']')
		}
	}
	return b.String()
}
