package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeText prepares text for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeReading builds the search key for a kana reading: width folded
// (half-width katakana become full-width, full-width ASCII becomes ASCII),
// NFC composed and with katakana mapped onto hiragana.
func NormalizeReading(reading string) string {
	reading = NormalizeText(norm.NFC.String(width.Fold.String(reading)))
	return strings.Map(func(r rune) rune {
		// ァ..ヶ map onto ぁ..ゖ
		if r >= 0x30A1 && r <= 0x30F6 {
			return r - 0x60
		}
		return r
	}, reading)
}
