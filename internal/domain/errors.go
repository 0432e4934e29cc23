package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrStructural    = errors.New("structural error")
)

// Error kinds recorded for failed documents.
const (
	KindMalformedPart           = "malformed_part"
	KindConsecutiveTag          = "consecutive_tag"
	KindStartsWithEntry         = "starts_with_entry"
	KindSentinelContentMismatch = "sentinel_content_mismatch"
	KindUnexpectedSentinelBlock = "unexpected_sentinel_block"
	KindDanglingGroup           = "dangling_group"
	KindAssemblerClosed         = "assembler_closed"
	KindValidation              = "validation"
	KindInternal                = "internal"
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// MalformedPartError rejects a part list that cannot form a word.
// Index is -1 when the list itself is at fault.
type MalformedPartError struct {
	Index  int
	Reason string
}

func (e *MalformedPartError) Error() string {
	if e.Index < 0 {
		return "malformed parts: " + e.Reason
	}
	return fmt.Sprintf("malformed part %d: %s", e.Index, e.Reason)
}

func (e *MalformedPartError) Unwrap() error { return ErrStructural }
func (e *MalformedPartError) Kind() string  { return KindMalformedPart }

// ConsecutiveTagError is returned when a tag directly follows another tag.
type ConsecutiveTagError struct {
	Position int
	Previous string
	Tag      string
}

func (e *ConsecutiveTagError) Error() string {
	return fmt.Sprintf("fragment %d: tag %q follows tag %q with no entry between", e.Position, e.Tag, e.Previous)
}

func (e *ConsecutiveTagError) Unwrap() error { return ErrStructural }
func (e *ConsecutiveTagError) Kind() string  { return KindConsecutiveTag }

// StartsWithEntryError is returned when an entry arrives before any tag.
type StartsWithEntryError struct {
	Position int
}

func (e *StartsWithEntryError) Error() string {
	return fmt.Sprintf("fragment %d: entry before any tag", e.Position)
}

func (e *StartsWithEntryError) Unwrap() error { return ErrStructural }
func (e *StartsWithEntryError) Kind() string  { return KindStartsWithEntry }

// SentinelContentMismatchError is returned when an ordinary entry arrives
// while an "Other forms" or "Notes" sentinel is active.
type SentinelContentMismatchError struct {
	Position int
	Sentinel string
}

func (e *SentinelContentMismatchError) Error() string {
	return fmt.Sprintf("fragment %d: entry under sentinel tag %q", e.Position, e.Sentinel)
}

func (e *SentinelContentMismatchError) Unwrap() error { return ErrStructural }
func (e *SentinelContentMismatchError) Kind() string  { return KindSentinelContentMismatch }

// UnexpectedSentinelBlockError is returned when an other-forms or notes block
// arrives without its matching sentinel tag.
type UnexpectedSentinelBlockError struct {
	Position int
	Block    string
}

func (e *UnexpectedSentinelBlockError) Error() string {
	return fmt.Sprintf("fragment %d: %s block without matching sentinel tag", e.Position, e.Block)
}

func (e *UnexpectedSentinelBlockError) Unwrap() error { return ErrStructural }
func (e *UnexpectedSentinelBlockError) Kind() string  { return KindUnexpectedSentinelBlock }

// DanglingGroupError is returned by finalize when the last tag never
// received content.
type DanglingGroupError struct {
	Tag string
}

func (e *DanglingGroupError) Error() string {
	return fmt.Sprintf("tag %q has no content", e.Tag)
}

func (e *DanglingGroupError) Unwrap() error { return ErrStructural }
func (e *DanglingGroupError) Kind() string  { return KindDanglingGroup }

// AssemblerClosedError is returned when an assembler is used after finalize.
type AssemblerClosedError struct{}

func (e *AssemblerClosedError) Error() string { return "assembler already finalized" }
func (e *AssemblerClosedError) Unwrap() error { return ErrStructural }
func (e *AssemblerClosedError) Kind() string  { return KindAssemblerClosed }

// ErrorKind returns the stable kind string recorded for a failed document.
func ErrorKind(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	return KindInternal
}
