package domain

import "unicode/utf8"

// WordRepresentationPart covers one written character and its whole phonetic
// contribution. A word that cannot be subdivided is a single part whose
// Writing holds the entire written form.
type WordRepresentationPart struct {
	Writing string
	Reading string
}

// IsPassThrough reports whether the part is kana written as itself (okurigana).
func (p WordRepresentationPart) IsPassThrough() bool {
	return p.Writing == p.Reading
}

// WordRepresentation is a written form with its reading and an optional
// per-character alignment. Alignment[i] is the index of the written character
// that reading character i belongs to. A nil Alignment means the reading is
// not attributed to individual characters.
type WordRepresentation struct {
	Writing   string
	Reading   string
	Alignment []int
	IsDirty   bool
}

// NewWordRepresentation builds a WordRepresentation. An alignment that fails
// validation is dropped and the result is flagged dirty; a nil alignment is
// kept as-is and is not dirty.
func NewWordRepresentation(writing, reading string, alignment []int) WordRepresentation {
	w := WordRepresentation{Writing: writing, Reading: reading}
	if alignment == nil {
		return w
	}
	if !ValidAlignment(writing, reading, alignment) {
		w.IsDirty = true
		return w
	}
	w.Alignment = append(make([]int, 0, len(alignment)), alignment...)
	return w
}

// HasAlignment reports whether the reading is attributed per character.
func (w WordRepresentation) HasAlignment() bool {
	return w.Alignment != nil
}

// ValidAlignment checks that alignment has one value per reading character,
// is non-decreasing, stays inside the written form and covers every written
// character at least once. Lengths are counted in runes.
func ValidAlignment(writing, reading string, alignment []int) bool {
	writingLen := utf8.RuneCountInString(writing)
	if len(alignment) != utf8.RuneCountInString(reading) {
		return false
	}

	covered := make([]bool, writingLen)
	prev := 0
	for _, idx := range alignment {
		if idx < 0 || idx >= writingLen || idx < prev {
			return false
		}
		covered[idx] = true
		prev = idx
	}
	for _, ok := range covered {
		if !ok {
			return false
		}
	}
	return true
}
