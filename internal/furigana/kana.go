package furigana

import (
	"unicode/utf8"

	"github.com/heartmarshall/jisho-backend/internal/domain"
)

// IsKana reports whether r is hiragana, katakana (including phonetic
// extensions and half-width forms) or the prolonged sound mark.
func IsKana(r rune) bool {
	switch {
	case r >= 0x3041 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana, incl. ー
		return true
	case r >= 0x31F0 && r <= 0x31FF: // katakana phonetic extensions
		return true
	case r >= 0xFF66 && r <= 0xFF9F: // half-width katakana
		return true
	}
	return false
}

// AlignKana returns the identity alignment for a word written entirely in
// kana as its own reading, and nil for anything else.
func AlignKana(writing, reading string) []int {
	if writing == "" || writing != reading {
		return nil
	}
	for _, r := range writing {
		if !IsKana(r) {
			return nil
		}
	}
	alignment := make([]int, utf8.RuneCountInString(writing))
	for i := range alignment {
		alignment[i] = i
	}
	return alignment
}

// CharacterParts is Decompose for display: an unaligned word written
// entirely in kana is split one part per character instead of being shown
// as a single opaque part. The word itself is not changed.
func CharacterParts(w domain.WordRepresentation) []domain.WordRepresentationPart {
	if !w.HasAlignment() && !w.IsDirty {
		if alignment := AlignKana(w.Writing, w.Reading); alignment != nil {
			return Decompose(domain.NewWordRepresentation(w.Writing, w.Reading, alignment))
		}
	}
	return Decompose(w)
}
