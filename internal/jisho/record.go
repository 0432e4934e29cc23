package jisho

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/meaning"
)

// Record is the serialized form of a DictionaryEntry. Optional collections
// are pointers to slices: nil is omitted, a pointer to an empty slice is
// written as [].
type Record struct {
	ID                 string        `json:"id"`
	DocumentID         string        `json:"document_id"`
	SourceURL          *string       `json:"source_url,omitempty"`
	WordRepresentation WordRecord    `json:"word_representation"`
	ConceptLabels      LabelsRecord  `json:"concept_labels"`
	SupplementaryLinks LinksRecord   `json:"supplementary_links"`
	MeaningSection     SectionRecord `json:"meaning_section"`
	ParsedAt           time.Time     `json:"parsed_at"`
}

// WordRecord is a serialized WordRepresentation. A nil alignment is written
// as null.
type WordRecord struct {
	Writing   string `json:"writing"`
	Reading   string `json:"reading"`
	Alignment []int  `json:"alignment"`
	IsDirty   bool   `json:"is_dirty"`
}

type LabelsRecord struct {
	IsCommon      bool    `json:"is_common"`
	JLPTLevel     *string `json:"jlpt_level"`
	WaniKaniLevel *int    `json:"wanikani_level"`
}

type LinksRecord struct {
	AudioLinks       []LinkRecord `json:"audio_links"`
	CollocationLinks []LinkRecord `json:"collocation_links"`
	OtherLinks       []LinkRecord `json:"other_links"`
}

type LinkRecord struct {
	URL  string  `json:"url"`
	Text *string `json:"text,omitempty"`
}

type SectionRecord struct {
	Groups     []GroupRecord      `json:"groups"`
	OtherForms *[]OtherFormRecord `json:"other_forms,omitempty"`
	Notes      *[]string          `json:"notes,omitempty"`
}

// GroupRecord stores the raw tag text; its category is derived again on decode.
type GroupRecord struct {
	Tag     string        `json:"tag"`
	Entries []EntryRecord `json:"entries"`
}

type EntryRecord struct {
	SectionDivider   *string                   `json:"section_divider,omitempty"`
	MeaningText      *string                   `json:"meaning_text,omitempty"`
	SupplementalInfo *[]SupplementalPartRecord `json:"supplemental_info,omitempty"`
	AbstractText     *string                   `json:"abstract_text,omitempty"`
	AbstractLink     *LinkRecord               `json:"abstract_link,omitempty"`
	ExampleSentences *[]ExampleRecord          `json:"example_sentences,omitempty"`
}

type SupplementalPartRecord struct {
	Text string      `json:"text"`
	Link *LinkRecord `json:"link,omitempty"`
}

type ExampleRecord struct {
	Japanese string  `json:"japanese"`
	Reading  *string `json:"reading,omitempty"`
	English  string  `json:"english"`
}

type OtherFormRecord struct {
	Writing string  `json:"writing"`
	Reading *string `json:"reading,omitempty"`
}

// ToRecord converts an entry to its serialized form.
func ToRecord(e domain.DictionaryEntry) Record {
	rec := Record{
		ID:         e.ID.String(),
		DocumentID: e.DocumentID,
		SourceURL:  e.SourceURL,
		WordRepresentation: WordRecord{
			Writing:   e.Word.Writing,
			Reading:   e.Word.Reading,
			Alignment: e.Word.Alignment,
			IsDirty:   e.Word.IsDirty,
		},
		ConceptLabels: LabelsRecord{
			IsCommon:      e.Labels.IsCommon,
			WaniKaniLevel: e.Labels.WaniKaniLevel,
		},
		SupplementaryLinks: LinksRecord{
			AudioLinks:       linksToRecord(e.Links.AudioLinks),
			CollocationLinks: linksToRecord(e.Links.CollocationLinks),
			OtherLinks:       linksToRecord(e.Links.OtherLinks),
		},
		MeaningSection: sectionToRecord(e.Meanings),
		ParsedAt:       e.ParsedAt.UTC(),
	}
	if e.Labels.JLPTLevel != nil {
		lvl := e.Labels.JLPTLevel.String()
		rec.ConceptLabels.JLPTLevel = &lvl
	}
	return rec
}

// FromRecord converts a serialized record back into an entry, classifying
// group tags with c.
func FromRecord(rec Record, c meaning.Classifier) (domain.DictionaryEntry, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return domain.DictionaryEntry{}, domain.NewValidationError("id", "invalid uuid")
	}

	labels, err := rec.ConceptLabels.toDomain()
	if err != nil {
		return domain.DictionaryEntry{}, err
	}

	word := domain.NewWordRepresentation(rec.WordRepresentation.Writing, rec.WordRepresentation.Reading, rec.WordRepresentation.Alignment)
	word.IsDirty = word.IsDirty || rec.WordRepresentation.IsDirty

	return domain.DictionaryEntry{
		ID:         id,
		DocumentID: rec.DocumentID,
		SourceURL:  rec.SourceURL,
		Word:       word,
		Labels:     labels,
		Links:      rec.SupplementaryLinks.toDomain(),
		Meanings:   rec.MeaningSection.toDomain(c),
		ParsedAt:   rec.ParsedAt,
	}, nil
}

// Encode serializes an entry as JSON.
func Encode(e domain.DictionaryEntry) ([]byte, error) {
	data, err := json.Marshal(ToRecord(e))
	if err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	return data, nil
}

// Decode parses JSON produced by Encode.
func Decode(data []byte, c meaning.Classifier) (domain.DictionaryEntry, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("decode entry: %w", err)
	}
	return FromRecord(rec, c)
}

func (l LabelsRecord) toDomain() (domain.ConceptLabels, error) {
	labels := domain.ConceptLabels{
		IsCommon:      l.IsCommon,
		WaniKaniLevel: l.WaniKaniLevel,
	}
	if l.JLPTLevel != nil {
		lvl := domain.JLPTLevel(*l.JLPTLevel)
		labels.JLPTLevel = &lvl
	}
	if err := labels.Validate(); err != nil {
		return domain.ConceptLabels{}, err
	}
	return labels, nil
}

func (l LinksRecord) toDomain() domain.SupplementaryLinks {
	return domain.SupplementaryLinks{
		AudioLinks:       linksFromRecord(l.AudioLinks),
		CollocationLinks: linksFromRecord(l.CollocationLinks),
		OtherLinks:       linksFromRecord(l.OtherLinks),
	}
}

func linksToRecord(links []domain.Link) []LinkRecord {
	out := make([]LinkRecord, len(links))
	for i, l := range links {
		out[i] = LinkRecord{URL: l.URL, Text: l.Text}
	}
	return out
}

func linksFromRecord(links []LinkRecord) []domain.Link {
	out := make([]domain.Link, len(links))
	for i, l := range links {
		out[i] = l.toDomain()
	}
	return out
}

func (l LinkRecord) toDomain() domain.Link {
	return domain.Link{URL: l.URL, Text: l.Text}
}

func linkToRecord(l *domain.Link) *LinkRecord {
	if l == nil {
		return nil
	}
	return &LinkRecord{URL: l.URL, Text: l.Text}
}

func sectionToRecord(s domain.MeaningSection) SectionRecord {
	rec := SectionRecord{Groups: make([]GroupRecord, len(s.Groups))}
	for i, g := range s.Groups {
		entries := make([]EntryRecord, len(g.Entries))
		for j, m := range g.Entries {
			entries[j] = entryToRecord(m)
		}
		rec.Groups[i] = GroupRecord{Tag: g.Tag.RawText, Entries: entries}
	}
	if s.OtherForms != nil {
		forms := make([]OtherFormRecord, len(s.OtherForms))
		for i, f := range s.OtherForms {
			forms[i] = OtherFormRecord{Writing: f.Writing, Reading: f.Reading}
		}
		rec.OtherForms = &forms
	}
	if s.Notes != nil {
		notes := append([]string{}, s.Notes...)
		rec.Notes = &notes
	}
	return rec
}

func (s SectionRecord) toDomain(c meaning.Classifier) domain.MeaningSection {
	section := domain.MeaningSection{Groups: make([]domain.MeaningGroup, len(s.Groups))}
	for i, g := range s.Groups {
		entries := make([]domain.MeaningWrapper, len(g.Entries))
		for j, e := range g.Entries {
			entries[j] = e.toDomain()
		}
		section.Groups[i] = domain.MeaningGroup{Tag: c.Classify(g.Tag), Entries: entries}
	}
	if s.OtherForms != nil {
		section.OtherForms = otherFormsFromRecord(*s.OtherForms)
	}
	if s.Notes != nil {
		section.Notes = append([]string{}, *s.Notes...)
	}
	return section
}

func otherFormsFromRecord(forms []OtherFormRecord) []domain.OtherForm {
	out := make([]domain.OtherForm, len(forms))
	for i, f := range forms {
		out[i] = domain.OtherForm{Writing: f.Writing, Reading: f.Reading}
	}
	return out
}

func entryToRecord(m domain.MeaningWrapper) EntryRecord {
	rec := EntryRecord{
		SectionDivider: m.SectionDivider,
		MeaningText:    m.MeaningText,
		AbstractText:   m.AbstractText,
		AbstractLink:   linkToRecord(m.AbstractLink),
	}
	if m.SupplementalInfo != nil {
		parts := make([]SupplementalPartRecord, len(m.SupplementalInfo))
		for i, p := range m.SupplementalInfo {
			parts[i] = SupplementalPartRecord{Text: p.Text, Link: linkToRecord(p.Link)}
		}
		rec.SupplementalInfo = &parts
	}
	if m.ExampleSentences != nil {
		examples := make([]ExampleRecord, len(m.ExampleSentences))
		for i, ex := range m.ExampleSentences {
			examples[i] = ExampleRecord{Japanese: ex.Japanese, Reading: ex.Reading, English: ex.English}
		}
		rec.ExampleSentences = &examples
	}
	return rec
}

func (e EntryRecord) toDomain() domain.MeaningWrapper {
	m := domain.MeaningWrapper{
		SectionDivider: e.SectionDivider,
		MeaningText:    e.MeaningText,
		AbstractText:   e.AbstractText,
	}
	if e.AbstractLink != nil {
		l := e.AbstractLink.toDomain()
		m.AbstractLink = &l
	}
	if e.SupplementalInfo != nil {
		m.SupplementalInfo = make([]domain.SupplementalPart, len(*e.SupplementalInfo))
		for i, p := range *e.SupplementalInfo {
			part := domain.SupplementalPart{Text: p.Text}
			if p.Link != nil {
				l := p.Link.toDomain()
				part.Link = &l
			}
			m.SupplementalInfo[i] = part
		}
	}
	if e.ExampleSentences != nil {
		m.ExampleSentences = make([]domain.ExampleSentence, len(*e.ExampleSentences))
		for i, ex := range *e.ExampleSentences {
			m.ExampleSentences[i] = domain.ExampleSentence{Japanese: ex.Japanese, Reading: ex.Reading, English: ex.English}
		}
	}
	return m
}
