package mpx

import (
	"fmt"
	"strconv"
	"strings"
)

// Units as rendered in the unit column of the info tables.
const (
	UnitEnergy        = "kWH"
	UnitPower         = "W"
	UnitApparentPower = "VA"
	UnitVoltage       = "VAC"
	UnitCurrent       = "A AC"
	UnitPercent       = "%"
	UnitFrequency     = "Hz"
	UnitSeconds       = "sec"
	// UnitNone is the non-breaking space the device puts in the unit column
	// of dimensionless values such as power factor.
	UnitNone = "\u00a0"
)

// fieldReader pulls typed fields out of a RawTable. The first failure is
// kept and every later read returns a zero value without touching the table,
// so a builder can read all of its fields and check err once at the end.
type fieldReader struct {
	table RawTable
	err   error
}

func newFieldReader(table RawTable) *fieldReader {
	return &fieldReader{table: table}
}

func (r *fieldReader) lookup(label string) (TableValue, bool) {
	if r.err != nil {
		return TableValue{}, false
	}
	tv, ok := r.table[label]
	if !ok {
		r.err = &MissingFieldError{Label: label}
		return TableValue{}, false
	}
	return tv, true
}

func (r *fieldReader) fail(label string, err error) {
	if r.err == nil {
		r.err = withField(err, label)
	}
}

func (r *fieldReader) checkUnit(label string, tv TableValue, unit string) bool {
	if tv.Unit != unit {
		r.fail(label, unrecognized(fmt.Sprintf("unit (want %q)", unit), tv.Unit))
		return false
	}
	return true
}

// float reads a real number after checking its unit.
func (r *fieldReader) float(label, unit string) float32 {
	tv, ok := r.lookup(label)
	if !ok || !r.checkUnit(label, tv, unit) {
		return 0
	}
	v, err := strconv.ParseFloat(tv.Value, 32)
	if err != nil {
		r.fail(label, unrecognized("number", tv.Value))
		return 0
	}
	return float32(v)
}

// integer reads a whole number after checking its unit.
func (r *fieldReader) integer(label, unit string) uint32 {
	tv, ok := r.lookup(label)
	if !ok || !r.checkUnit(label, tv, unit) {
		return 0
	}
	v, err := strconv.ParseUint(tv.Value, 10, 32)
	if err != nil {
		r.fail(label, unrecognized("number", tv.Value))
		return 0
	}
	return uint32(v)
}

func (r *fieldReader) text(label string) string {
	tv, ok := r.lookup(label)
	if !ok {
		return ""
	}
	return tv.Value
}

// assetTag reads a free-text field with the placeholder non-breaking space
// removed.
func (r *fieldReader) assetTag(label string) string {
	return strings.ReplaceAll(r.text(label), UnitNone, "")
}

// flag reads a two-state word such as On/Off through words.
func (r *fieldReader) flag(label string, words vocabulary[bool]) bool {
	return decodeField(r, label, words.decode)
}

func (r *fieldReader) severity(label string) Severity {
	return decodeField(r, label, ParseSeverity)
}

// decodeField reads a field through a vocabulary decoder.
func decodeField[T any](r *fieldReader, label string, decode func(string) (T, error)) T {
	var zero T
	tv, ok := r.lookup(label)
	if !ok {
		return zero
	}
	v, err := decode(tv.Value)
	if err != nil {
		r.fail(label, err)
		return zero
	}
	return v
}
