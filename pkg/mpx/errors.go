package mpx

import (
	"errors"
	"fmt"
)

// Sentinels for the three error kinds. Every error returned by the parsers
// and builders in this package matches exactly one of them with errors.Is.
var (
	ErrStructure         = errors.New("unexpected document structure")
	ErrUnrecognizedValue = errors.New("unrecognized value")
	ErrMissingField      = errors.New("missing field")
)

// StructureError reports that the document did not have the expected shape
// at the expected position: a missing region, cell, child or attribute.
type StructureError struct {
	Context string
	Detail  string
}

func (e *StructureError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%v: %s", ErrStructure, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", ErrStructure, e.Context, e.Detail)
}

func (e *StructureError) Is(target error) bool { return target == ErrStructure }

// UnrecognizedValueError reports a string that was read successfully but is
// not part of the closed vocabulary it was decoded against.
type UnrecognizedValueError struct {
	// Field is the table label the value was read from, if any.
	Field string
	// Vocabulary names what the value was decoded as (a type, a unit or a
	// sentinel word set).
	Vocabulary string
	Value      string
}

func (e *UnrecognizedValueError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %q is not a known %s", ErrUnrecognizedValue, e.Value, e.Vocabulary)
	}
	return fmt.Sprintf("%v: %s: %q is not a known %s", ErrUnrecognizedValue, e.Field, e.Value, e.Vocabulary)
}

func (e *UnrecognizedValueError) Is(target error) bool { return target == ErrUnrecognizedValue }

// MissingFieldError reports a label that is absent from a RawTable.
type MissingFieldError struct {
	Label string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingField, e.Label)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

func structureErr(context, format string, args ...any) error {
	return &StructureError{Context: context, Detail: fmt.Sprintf(format, args...)}
}

func unrecognized(vocabulary, value string) error {
	return &UnrecognizedValueError{Vocabulary: vocabulary, Value: value}
}

// withField attaches a table label to an unrecognized value error so the
// caller can tell which row carried the bad value.
func withField(err error, label string) error {
	var uv *UnrecognizedValueError
	if errors.As(err, &uv) && uv.Field == "" {
		return &UnrecognizedValueError{Field: label, Vocabulary: uv.Vocabulary, Value: uv.Value}
	}
	return err
}
