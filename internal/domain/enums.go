package domain

// TagCategory classifies a meaning tag header.
type TagCategory int

const (
	TagCategoryUnknown TagCategory = iota
	TagCategoryPartOfSpeech
	TagCategoryOtherForms
	TagCategoryNotes
)

func (c TagCategory) String() string {
	switch c {
	case TagCategoryPartOfSpeech:
		return "PART_OF_SPEECH"
	case TagCategoryOtherForms:
		return "OTHER_FORMS"
	case TagCategoryNotes:
		return "NOTES"
	}
	return "UNKNOWN"
}

// IsSentinel reports whether the category routes content to a side channel.
func (c TagCategory) IsSentinel() bool {
	return c == TagCategoryOtherForms || c == TagCategoryNotes
}

// PartOfSpeech is the grammatical kind named by a tag header.
type PartOfSpeech string

const (
	PartOfSpeechNoun              PartOfSpeech = "NOUN"
	PartOfSpeechSuruVerb          PartOfSpeech = "SURU_VERB"
	PartOfSpeechIchidanVerb       PartOfSpeech = "ICHIDAN_VERB"
	PartOfSpeechGodanVerb         PartOfSpeech = "GODAN_VERB"
	PartOfSpeechKuruVerb          PartOfSpeech = "KURU_VERB"
	PartOfSpeechAuxiliaryVerb     PartOfSpeech = "AUXILIARY_VERB"
	PartOfSpeechVerb              PartOfSpeech = "VERB"
	PartOfSpeechIAdjective        PartOfSpeech = "I_ADJECTIVE"
	PartOfSpeechNaAdjective       PartOfSpeech = "NA_ADJECTIVE"
	PartOfSpeechNoAdjective       PartOfSpeech = "NO_ADJECTIVE"
	PartOfSpeechTaruAdjective     PartOfSpeech = "TARU_ADJECTIVE"
	PartOfSpeechPrenounAdjectival PartOfSpeech = "PRENOUN_ADJECTIVAL"
	PartOfSpeechAdverb            PartOfSpeech = "ADVERB"
	PartOfSpeechExpression        PartOfSpeech = "EXPRESSION"
	PartOfSpeechCounter           PartOfSpeech = "COUNTER"
	PartOfSpeechNumeric           PartOfSpeech = "NUMERIC"
	PartOfSpeechPronoun           PartOfSpeech = "PRONOUN"
	PartOfSpeechPrefix            PartOfSpeech = "PREFIX"
	PartOfSpeechSuffix            PartOfSpeech = "SUFFIX"
	PartOfSpeechParticle          PartOfSpeech = "PARTICLE"
	PartOfSpeechConjunction       PartOfSpeech = "CONJUNCTION"
	PartOfSpeechInterjection      PartOfSpeech = "INTERJECTION"
	PartOfSpeechAuxiliary         PartOfSpeech = "AUXILIARY"
	PartOfSpeechPlace             PartOfSpeech = "PLACE"
	PartOfSpeechName              PartOfSpeech = "NAME"
	PartOfSpeechWikipedia         PartOfSpeech = "WIKIPEDIA"
)

func (p PartOfSpeech) String() string { return string(p) }

// JLPTLevel is a Japanese-Language Proficiency Test level.
type JLPTLevel string

const (
	JLPTLevelN1 JLPTLevel = "N1"
	JLPTLevelN2 JLPTLevel = "N2"
	JLPTLevelN3 JLPTLevel = "N3"
	JLPTLevelN4 JLPTLevel = "N4"
	JLPTLevelN5 JLPTLevel = "N5"
)

func (l JLPTLevel) String() string { return string(l) }

func (l JLPTLevel) IsValid() bool {
	switch l {
	case JLPTLevelN1, JLPTLevelN2, JLPTLevelN3, JLPTLevelN4, JLPTLevelN5:
		return true
	}
	return false
}
