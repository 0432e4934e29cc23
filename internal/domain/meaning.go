package domain

// MeaningTag is a tag header from a meaning block. RawText is stored as
// scraped; Category and Kind only steer assembly.
type MeaningTag struct {
	RawText  string
	Category TagCategory
	// Kind is set when Category is TagCategoryPartOfSpeech.
	Kind PartOfSpeech
}

// IsSentinel reports whether the tag routes content to a side channel
// instead of opening a MeaningGroup.
func (t MeaningTag) IsSentinel() bool {
	return t.Category.IsSentinel()
}

// Link is a hyperlink with optional anchor text.
type Link struct {
	URL  string
	Text *string
}

// SupplementalPart is one piece of supplemental info ("Usually written using
// kana alone", "See also ...") attached to a definition.
type SupplementalPart struct {
	Text string
	Link *Link
}

// ExampleSentence is a usage example attached to a definition.
type ExampleSentence struct {
	Japanese string
	Reading  *string
	English  string
}

// MeaningWrapper is one definition entry. Nil slices are absent, empty
// slices are present but empty.
type MeaningWrapper struct {
	SectionDivider   *string
	MeaningText      *string
	SupplementalInfo []SupplementalPart
	AbstractText     *string
	AbstractLink     *Link
	ExampleSentences []ExampleSentence
}

// MeaningGroup is a tag header followed by the definitions filed under it.
// Entries is never empty in an assembled section.
type MeaningGroup struct {
	Tag     MeaningTag
	Entries []MeaningWrapper
}

// OtherForm is an alternative spelling listed under "Other forms".
type OtherForm struct {
	Writing string
	Reading *string
}

// MeaningSection is the grouped meaning block of one dictionary entry.
// OtherForms and Notes are nil when the block had no such sentinel.
type MeaningSection struct {
	Groups     []MeaningGroup
	OtherForms []OtherForm
	Notes      []string
}
