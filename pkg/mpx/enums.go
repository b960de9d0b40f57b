package mpx

import "fmt"

// Severity is the health level a device renders as a status icon.
type Severity int

const (
	SeverityOK Severity = iota + 1
	SeverityInfo
	SeverityWarning
	SeverityAlarm
)

var severities = newVocabulary("severity icon", map[string]Severity{
	"../../../images/accept.png":      SeverityOK,
	"../../../images/information.png": SeverityInfo,
	"../../../images/warn.png":        SeverityWarning,
	"../../../images/err.png":         SeverityAlarm,
})

// ParseSeverity decodes a status icon path.
func ParseSeverity(src string) (Severity, error) { return severities.decode(src) }

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityAlarm:
		return "ALARM"
	}
	return unknownName(int(s))
}

// Icon returns the icon path the device uses for s.
func (s Severity) Icon() string {
	src, _ := severities.encode(s)
	return src
}

func (s Severity) MarshalText() ([]byte, error) { return marshalName(s) }

func (s *Severity) UnmarshalText(b []byte) error {
	return unmarshalName(severities, "severity", string(b), s)
}

// WiringType is the PDU input wiring.
type WiringType int

const (
	OnePhase WiringType = iota + 1
	ThreePhase
)

var wiringTypes = newVocabulary("wiring type", map[string]WiringType{
	"1-Phase / 3-Wire (L, N, PE)":          OnePhase,
	"3-Phase / 5-Wire (L1, L2, L3, N, PE)": ThreePhase,
})

func ParseWiringType(s string) (WiringType, error) { return wiringTypes.decode(s) }

func (w WiringType) String() string {
	switch w {
	case OnePhase:
		return "1-Phase"
	case ThreePhase:
		return "3-Phase"
	}
	return unknownName(int(w))
}

func (w WiringType) Vendor() string {
	s, _ := wiringTypes.encode(w)
	return s
}

func (w WiringType) MarshalText() ([]byte, error) { return marshalName(w) }

func (w *WiringType) UnmarshalText(b []byte) error {
	return unmarshalName(wiringTypes, "wiring type", string(b), w)
}

// ReceptacleType is the connector a receptacle accepts.
type ReceptacleType int

const (
	C13 ReceptacleType = iota + 1
	C19
	Schuko
)

// Only the C13 string has been seen on a live device; the other two are
// assumed to be rendered verbatim.
var receptacleTypes = newVocabulary("receptacle type", map[string]ReceptacleType{
	"IEC 60320 Sheet F C13": C13,
	"C19":                   C19,
	"Schuko":                Schuko,
})

func ParseReceptacleType(s string) (ReceptacleType, error) { return receptacleTypes.decode(s) }

func (r ReceptacleType) String() string {
	switch r {
	case C13:
		return "C13"
	case C19:
		return "C19"
	case Schuko:
		return "Schuko"
	}
	return unknownName(int(r))
}

func (r ReceptacleType) Vendor() string {
	s, _ := receptacleTypes.encode(r)
	return s
}

func (r ReceptacleType) MarshalText() ([]byte, error) { return marshalName(r) }

func (r *ReceptacleType) UnmarshalText(b []byte) error {
	return unmarshalName(receptacleTypes, "receptacle type", string(b), r)
}

// LineSource is the phase a branch or receptacle is fed from.
type LineSource int

const (
	L1N LineSource = iota + 1
	L2N
	L3N
)

var lineSources = newVocabulary("line source", map[string]LineSource{
	"Type L1-N": L1N,
	"Type L2-N": L2N,
	"Type L3-N": L3N,
})

func ParseLineSource(s string) (LineSource, error) { return lineSources.decode(s) }

func (l LineSource) String() string {
	switch l {
	case L1N:
		return "L1-N"
	case L2N:
		return "L2-N"
	case L3N:
		return "L3-N"
	}
	return unknownName(int(l))
}

func (l LineSource) Vendor() string {
	s, _ := lineSources.encode(l)
	return s
}

func (l LineSource) MarshalText() ([]byte, error) { return marshalName(l) }

func (l *LineSource) UnmarshalText(b []byte) error {
	return unmarshalName(lineSources, "line source", string(b), l)
}

// Capability describes what a module can measure and control.
type Capability int

const (
	MeasureAndControl Capability = iota + 1
)

var capabilities = newVocabulary("capability", map[string]Capability{
	"All Measurements/Control": MeasureAndControl,
})

func ParseCapability(s string) (Capability, error) { return capabilities.decode(s) }

func (c Capability) String() string {
	if c == MeasureAndControl {
		return "Measure & Control"
	}
	return unknownName(int(c))
}

func (c Capability) Vendor() string {
	s, _ := capabilities.encode(c)
	return s
}

func (c Capability) MarshalText() ([]byte, error) { return marshalName(c) }

func (c *Capability) UnmarshalText(b []byte) error {
	return unmarshalName(capabilities, "capability", string(b), c)
}

// EventType is the kind of an active alarm or event.
type EventType int

const (
	ReceptacleOverCurrent EventType = iota + 1
	ReceptacleLowCurrent
	BranchLowVoltage
	BranchOverCurrent
	BranchLowCurrent
	BranchFailure
	BranchBreakerOpen
	PDULowVoltageL1
	PDULowVoltageL2
	PDULowVoltageL3
	PDUOverCurrentL1
	PDUOverCurrentL2
	PDUOverCurrentL3
	PDULowCurrentL1
	PDULowCurrentL2
	PDULowCurrentL3
	PDUFailure
	PDUCommunicationFail
	PDUOverCurrentN
)

var eventTypes = newVocabulary("event type", map[string]EventType{
	"Receptacle Over Current":  ReceptacleOverCurrent,
	"Receptacle Low Current":   ReceptacleLowCurrent,
	"Branch Low Voltage (LN)":  BranchLowVoltage,
	"Branch Over Current":      BranchOverCurrent,
	"Branch Low Current":       BranchLowCurrent,
	"Branch Failure":           BranchFailure,
	"Branch Breaker Open":      BranchBreakerOpen,
	"PDU Low Voltage L1-N":     PDULowVoltageL1,
	"PDU Low Voltage L2-N":     PDULowVoltageL2,
	"PDU Low Voltage L3-N":     PDULowVoltageL3,
	"PDU Over Current L1":      PDUOverCurrentL1,
	"PDU Over Current L2":      PDUOverCurrentL2,
	"PDU Over Current L3":      PDUOverCurrentL3,
	"PDU Low Current L1":       PDULowCurrentL1,
	"PDU Low Current L2":       PDULowCurrentL2,
	"PDU Low Current L3":       PDULowCurrentL3,
	"PDU Failure":              PDUFailure,
	"PDU Communication Fail":   PDUCommunicationFail,
	"PDU Neutral Over Current": PDUOverCurrentN,
})

func ParseEventType(s string) (EventType, error) { return eventTypes.decode(s) }

// String returns the label the device uses for the event.
func (e EventType) String() string {
	if s, ok := eventTypes.encode(e); ok {
		return s
	}
	return unknownName(int(e))
}

func (e EventType) MarshalText() ([]byte, error) { return marshalName(e) }

func (e *EventType) UnmarshalText(b []byte) error {
	return unmarshalName(eventTypes, "event type", string(b), e)
}

func unknownName(v int) string {
	return fmt.Sprintf("unknown(%d)", v)
}

// marshalName renders the display name of v. The zero value, which no page
// ever decodes to, is written as an empty string.
func marshalName[T interface {
	~int
	fmt.Stringer
}](v T) ([]byte, error) {
	if v == 0 {
		return []byte{}, nil
	}
	return []byte(v.String()), nil
}

// unmarshalName accepts either the display name or the vendor string of a
// value so records written by MarshalText can be read back. An empty string
// is the zero value.
func unmarshalName[T interface {
	comparable
	fmt.Stringer
}](v vocabulary[T], what, name string, dst *T) error {
	if name == "" {
		var zero T
		*dst = zero
		return nil
	}
	if t, err := v.decode(name); err == nil {
		*dst = t
		return nil
	}
	for _, t := range v.values {
		if t.String() == name {
			*dst = t
			return nil
		}
	}
	return unrecognized(what, name)
}
