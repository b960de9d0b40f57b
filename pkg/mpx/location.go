package mpx

import (
	"fmt"
	"strconv"
	"strings"
)

// Location addresses a PDU, a branch on it or a receptacle on a branch. A
// zero component means the address stops at the level above, so the PDU
// itself is {PDU: 1} and its first branch is {PDU: 1, Branch: 1}.
type Location struct {
	PDU        uint8 `json:"pdu" yaml:"pdu" db:"pdu"`
	Branch     uint8 `json:"branch" yaml:"branch" db:"branch"`
	Receptacle uint8 `json:"receptacle" yaml:"receptacle" db:"receptacle"`
}

// ParseLocation parses a dash-joined triplet such as "1-2-3". Exactly three
// unsigned byte components are required.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Location{}, structureErr("location", "%q must have 3 dash-separated components, got %d", s, len(parts))
	}
	return locationFromParts(s, parts)
}

// parseEventLocation parses the location column of the alarm table. PDU and
// branch level events leave out the trailing components, which default to 0.
func parseEventLocation(s string) (Location, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return Location{}, structureErr("event location", "%q has more than 3 components", s)
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return locationFromParts(s, parts)
}

func locationFromParts(s string, parts []string) (Location, error) {
	var values [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return Location{}, structureErr("location", "%q: component %d (%q) is not an unsigned byte", s, i+1, p)
		}
		values[i] = uint8(v)
	}
	return Location{PDU: values[0], Branch: values[1], Receptacle: values[2]}, nil
}

func (l Location) String() string {
	return fmt.Sprintf("%d-%d-%d", l.PDU, l.Branch, l.Receptacle)
}

// DataPoint renders the location the way the device embeds it in page paths.
func (l Location) DataPoint() string {
	return fmt.Sprintf("std:%d.%d.%d_0.0.0", l.PDU, l.Branch, l.Receptacle)
}

// Level reports which kind of entity the location addresses.
func (l Location) Level() Level {
	switch {
	case l.Receptacle != 0:
		return LevelReceptacle
	case l.Branch != 0:
		return LevelBranch
	default:
		return LevelPDU
	}
}

// Level is the entity tier a location or command applies to.
type Level int

const (
	LevelPDU Level = iota + 1
	LevelBranch
	LevelReceptacle
)

func (l Level) String() string {
	switch l {
	case LevelPDU:
		return "pdu"
	case LevelBranch:
		return "branch"
	case LevelReceptacle:
		return "receptacle"
	}
	return unknownName(int(l))
}

// ParseLevel accepts the names returned by Level.String.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "pdu":
		return LevelPDU, nil
	case "branch":
		return LevelBranch, nil
	case "receptacle":
		return LevelReceptacle, nil
	}
	return 0, unrecognized("level", s)
}

// FirmwareVersion is the four-part version a module reports as "1-2-3-4".
type FirmwareVersion [4]uint8

func ParseFirmwareVersion(s string) (FirmwareVersion, error) {
	var v FirmwareVersion
	parts := strings.Split(s, "-")
	if len(parts) != len(v) {
		return v, unrecognized("firmware version", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return FirmwareVersion{}, unrecognized("firmware version", s)
		}
		v[i] = uint8(n)
	}
	return v, nil
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v[0], v[1], v[2], v[3])
}

func (v FirmwareVersion) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText accepts both the dotted form from MarshalText and the
// dash-joined form the device renders.
func (v *FirmwareVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseFirmwareVersion(strings.ReplaceAll(string(b), ".", "-"))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
