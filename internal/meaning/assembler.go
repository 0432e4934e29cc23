package meaning

import (
	"fmt"

	"github.com/heartmarshall/jisho-backend/internal/domain"
)

// Classifier maps raw tag text to a MeaningTag. *tags.Registry implements it.
type Classifier interface {
	Classify(raw string) domain.MeaningTag
}

type state int

const (
	stateEmpty     state = iota // nothing seen yet
	stateOpenGroup              // a group tag is open, entries may follow
	stateSentinel               // an "Other forms"/"Notes" tag is open
	stateClosed                 // finalized
)

// Assembler is a single-use state machine. Feed it fragments with Append in
// document order, then call Finalize. Not safe for concurrent use.
type Assembler struct {
	classifier Classifier

	state state
	pos   int

	current        domain.MeaningGroup
	sentinel       domain.MeaningTag
	sentinelFilled bool

	groups     []domain.MeaningGroup
	otherForms []domain.OtherForm
	notes      []string
}

// NewAssembler creates an Assembler that classifies tags with c.
func NewAssembler(c Classifier) *Assembler {
	return &Assembler{classifier: c}
}

// Append applies one fragment. A rejected fragment leaves the state unchanged.
func (a *Assembler) Append(f Fragment) error {
	if a.state == stateClosed {
		return &domain.AssemblerClosedError{}
	}

	var err error
	switch f := f.(type) {
	case Tag:
		err = a.onTag(f)
	case Entry:
		err = a.onEntry(f)
	case OtherFormsBlock:
		err = a.onOtherForms(f)
	case NotesBlock:
		err = a.onNotes(f)
	default:
		err = fmt.Errorf("fragment %d: unsupported fragment type %T", a.pos, f)
	}
	if err != nil {
		return err
	}

	a.pos++
	return nil
}

func (a *Assembler) onTag(f Tag) error {
	switch a.state {
	case stateOpenGroup:
		if len(a.current.Entries) == 0 {
			return &domain.ConsecutiveTagError{Position: a.pos, Previous: a.current.Tag.RawText, Tag: f.RawText}
		}
		a.groups = append(a.groups, a.current)
	case stateSentinel:
		if !a.sentinelFilled {
			return &domain.ConsecutiveTagError{Position: a.pos, Previous: a.sentinel.RawText, Tag: f.RawText}
		}
	}

	a.open(a.classifier.Classify(f.RawText))
	return nil
}

func (a *Assembler) open(tag domain.MeaningTag) {
	a.current = domain.MeaningGroup{}
	a.sentinel = domain.MeaningTag{}
	a.sentinelFilled = false

	if tag.IsSentinel() {
		a.sentinel = tag
		a.state = stateSentinel
		return
	}
	a.current.Tag = tag
	a.state = stateOpenGroup
}

func (a *Assembler) onEntry(f Entry) error {
	switch a.state {
	case stateEmpty:
		return &domain.StartsWithEntryError{Position: a.pos}
	case stateSentinel:
		return &domain.SentinelContentMismatchError{Position: a.pos, Sentinel: a.sentinel.RawText}
	}
	a.current.Entries = append(a.current.Entries, f.Meaning)
	return nil
}

func (a *Assembler) onOtherForms(f OtherFormsBlock) error {
	if !a.expectsBlock(domain.TagCategoryOtherForms) {
		return &domain.UnexpectedSentinelBlockError{Position: a.pos, Block: "other forms"}
	}
	a.otherForms = append(make([]domain.OtherForm, 0, len(f.Forms)), f.Forms...)
	a.sentinelFilled = true
	return nil
}

func (a *Assembler) onNotes(f NotesBlock) error {
	if !a.expectsBlock(domain.TagCategoryNotes) {
		return &domain.UnexpectedSentinelBlockError{Position: a.pos, Block: "notes"}
	}
	a.notes = append(make([]string, 0, len(f.Notes)), f.Notes...)
	a.sentinelFilled = true
	return nil
}

func (a *Assembler) expectsBlock(c domain.TagCategory) bool {
	return a.state == stateSentinel && !a.sentinelFilled && a.sentinel.Category == c
}

// Finalize closes the last group and returns the section. The assembler
// rejects every call after the first Finalize.
func (a *Assembler) Finalize() (domain.MeaningSection, error) {
	switch a.state {
	case stateClosed:
		return domain.MeaningSection{}, &domain.AssemblerClosedError{}
	case stateOpenGroup:
		if len(a.current.Entries) == 0 {
			return domain.MeaningSection{}, &domain.DanglingGroupError{Tag: a.current.Tag.RawText}
		}
		a.groups = append(a.groups, a.current)
	case stateSentinel:
		if !a.sentinelFilled {
			return domain.MeaningSection{}, &domain.DanglingGroupError{Tag: a.sentinel.RawText}
		}
	}

	a.state = stateClosed
	a.current = domain.MeaningGroup{}

	groups := a.groups
	if groups == nil {
		groups = []domain.MeaningGroup{}
	}
	return domain.MeaningSection{
		Groups:     groups,
		OtherForms: a.otherForms,
		Notes:      a.notes,
	}, nil
}

// Assemble runs a fresh Assembler over fragments.
func Assemble(c Classifier, fragments []Fragment) (domain.MeaningSection, error) {
	a := NewAssembler(c)
	for _, f := range fragments {
		if err := a.Append(f); err != nil {
			return domain.MeaningSection{}, err
		}
	}
	return a.Finalize()
}
