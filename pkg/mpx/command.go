package mpx

import (
	"net/url"
	"strings"
)

// Field is one form field name and value.
type Field struct {
	Name  string
	Value string
}

// Form is an ordered set of form fields as the device's pages submit them.
type Form []Field

// Values converts the form for use with an HTTP client. Order is lost.
func (f Form) Values() url.Values {
	v := url.Values{}
	for _, field := range f {
		v.Add(field.Name, field.Value)
	}
	return v
}

// Encode renders the form as application/x-www-form-urlencoded, keeping the
// field order.
func (f Form) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
	}
	return b.String()
}

// Get returns the value of the first field with the given name.
func (f Form) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Every Form method builds a new slice, so callers may change the result.
func resetEnergyForm() Form { return Form{{"energyControl", "Reset"}} }

func testEventForm() Form { return Form{{"testEvent", "Send"}} }

// PDUCommand is an action on a power entry module.
type PDUCommand int

const (
	PDUTestEvent PDUCommand = iota + 1
	PDUResetEnergy
)

var pduCommands = newVocabulary("PDU command", map[string]PDUCommand{
	"test-event":   PDUTestEvent,
	"reset-energy": PDUResetEnergy,
})

func ParsePDUCommand(s string) (PDUCommand, error) { return pduCommands.decode(strings.ToLower(s)) }

func PDUCommandNames() []string { return pduCommands.words() }

func (c PDUCommand) String() string {
	if s, ok := pduCommands.encode(c); ok {
		return s
	}
	return unknownName(int(c))
}

func (c PDUCommand) Form() Form {
	switch c {
	case PDUTestEvent:
		return testEventForm()
	case PDUResetEnergy:
		return resetEnergyForm()
	}
	return nil
}

// BranchCommand is an action on a branch module.
type BranchCommand int

const (
	BranchResetEnergy BranchCommand = iota + 1
)

var branchCommands = newVocabulary("branch command", map[string]BranchCommand{
	"reset-energy": BranchResetEnergy,
})

func ParseBranchCommand(s string) (BranchCommand, error) {
	return branchCommands.decode(strings.ToLower(s))
}

func BranchCommandNames() []string { return branchCommands.words() }

func (c BranchCommand) String() string {
	if s, ok := branchCommands.encode(c); ok {
		return s
	}
	return unknownName(int(c))
}

func (c BranchCommand) Form() Form {
	if c == BranchResetEnergy {
		return resetEnergyForm()
	}
	return nil
}

// ReceptacleCommand is an action on a single receptacle.
type ReceptacleCommand int

const (
	ReceptacleDisable ReceptacleCommand = iota + 1
	ReceptacleEnable
	ReceptacleReboot
	ReceptacleIdentify
	ReceptacleResetEnergy
)

var receptacleCommands = newVocabulary("receptacle command", map[string]ReceptacleCommand{
	"disable":      ReceptacleDisable,
	"enable":       ReceptacleEnable,
	"reboot":       ReceptacleReboot,
	"identify":     ReceptacleIdentify,
	"reset-energy": ReceptacleResetEnergy,
})

func ParseReceptacleCommand(s string) (ReceptacleCommand, error) {
	return receptacleCommands.decode(strings.ToLower(s))
}

func ReceptacleCommandNames() []string { return receptacleCommands.words() }

func (c ReceptacleCommand) String() string {
	if s, ok := receptacleCommands.encode(c); ok {
		return s
	}
	return unknownName(int(c))
}

func (c ReceptacleCommand) Form() Form {
	switch c {
	case ReceptacleDisable:
		return Form{{"receptacleStateGroup", "0"}, {"Submit", "Save"}}
	case ReceptacleEnable:
		return Form{{"receptacleStateGroup", "1"}, {"Submit", "Save"}}
	case ReceptacleReboot:
		return Form{{"receptacleStateGroup", "2"}, {"Submit", "Save"}}
	case ReceptacleIdentify:
		return Form{{"rcpIdentControl", "Submit"}}
	case ReceptacleResetEnergy:
		return resetEnergyForm()
	}
	return nil
}
