// Package tags classifies meaning tag headers scraped from jisho.org.
package tags

import (
	"maps"
	"strings"
	"sync"

	"github.com/heartmarshall/jisho-backend/internal/domain"
)

// Reserved tag headers, matched exactly.
const (
	OtherFormsTag = "Other forms"
	NotesTag      = "Notes"
)

// Rule maps a phrase found inside a raw tag to a part of speech.
type Rule struct {
	Phrase string
	Kind   domain.PartOfSpeech
}

// defaultRules is checked in order by substring containment; first match wins.
// Longer phrases come before phrases they contain.
var defaultRules = []Rule{
	// Verbs
	{"Suru verb", domain.PartOfSpeechSuruVerb},
	{"Ichidan verb", domain.PartOfSpeechIchidanVerb},
	{"Godan verb", domain.PartOfSpeechGodanVerb},
	{"Kuru verb", domain.PartOfSpeechKuruVerb},
	{"Auxiliary verb", domain.PartOfSpeechAuxiliaryVerb},
	{"Intransitive verb", domain.PartOfSpeechVerb},
	{"Transitive verb", domain.PartOfSpeechVerb},

	// Adjectives
	{"I-adjective", domain.PartOfSpeechIAdjective},
	{"Na-adjective", domain.PartOfSpeechNaAdjective},
	{"No-adjective", domain.PartOfSpeechNoAdjective},
	{"Taru-adjective", domain.PartOfSpeechTaruAdjective},
	{"Pre-noun adjectival", domain.PartOfSpeechPrenounAdjectival},

	// Lower-case "noun" escapes the final "Noun" rule, and "Adverbial noun"
	// must win over "Adverb".
	{"Adverbial noun", domain.PartOfSpeechNoun},
	{"Temporal noun", domain.PartOfSpeechNoun},
	{"Adverb", domain.PartOfSpeechAdverb},
	{"Expression", domain.PartOfSpeechExpression},
	{"Counter", domain.PartOfSpeechCounter},
	{"Numeric", domain.PartOfSpeechNumeric},
	{"Pronoun", domain.PartOfSpeechPronoun},
	{"Prefix", domain.PartOfSpeechPrefix},
	{"Suffix", domain.PartOfSpeechSuffix},
	{"Particle", domain.PartOfSpeechParticle},
	{"Conjunction", domain.PartOfSpeechConjunction},
	{"Interjection", domain.PartOfSpeechInterjection},
	{"Auxiliary", domain.PartOfSpeechAuxiliary},

	// Proper names and encyclopedic senses
	{"Place", domain.PartOfSpeechPlace},
	{"Full name", domain.PartOfSpeechName},
	{"Family name", domain.PartOfSpeechName},
	{"Given name", domain.PartOfSpeechName},
	{"Wikipedia definition", domain.PartOfSpeechWikipedia},

	{"Noun", domain.PartOfSpeechNoun},
}

// Registry classifies raw tag text. It also counts tags that matched no rule
// so callers can surface them; it is safe for concurrent use.
type Registry struct {
	rules []Rule

	mu      sync.Mutex
	unknown map[string]int
}

// NewRegistry creates a Registry that checks rules in the given order.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{
		rules:   append([]Rule(nil), rules...),
		unknown: make(map[string]int),
	}
}

// Default returns a fresh Registry loaded with the built-in jisho.org rules.
func Default() *Registry {
	return NewRegistry(defaultRules...)
}

// Rules returns a copy of the rule table in match order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Classify maps raw tag text to a MeaningTag. Unmatched text is classified
// TagCategoryUnknown and counted; it is never an error.
func (r *Registry) Classify(raw string) domain.MeaningTag {
	tag := domain.MeaningTag{RawText: raw}

	switch raw {
	case OtherFormsTag:
		tag.Category = domain.TagCategoryOtherForms
		return tag
	case NotesTag:
		tag.Category = domain.TagCategoryNotes
		return tag
	}

	for _, rule := range r.rules {
		if strings.Contains(raw, rule.Phrase) {
			tag.Category = domain.TagCategoryPartOfSpeech
			tag.Kind = rule.Kind
			return tag
		}
	}

	r.mu.Lock()
	r.unknown[raw]++
	r.mu.Unlock()

	tag.Category = domain.TagCategoryUnknown
	return tag
}

// Unknown returns a snapshot of unmatched tag texts and how often each was seen.
func (r *Registry) Unknown() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.unknown)
}

// DrainUnknown returns the unmatched tag counts and resets them.
func (r *Registry) DrainUnknown() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.unknown
	r.unknown = make(map[string]int)
	return out
}
