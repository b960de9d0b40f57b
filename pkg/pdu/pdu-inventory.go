// Package pdu holds a vendor-neutral inventory of a power distribution unit,
// the shape that is exported to SMD.
package pdu

import (
	"github.com/OpenCHAMI/mpx/pkg/mpx"
)

const (
	PowerOn  = "On"
	PowerOff = "Off"
)

type PDUOutlet struct {
	ID         string `json:"id" yaml:"id"`                   // e.g. "1-2-3"
	Name       string `json:"name" yaml:"name"`               // the receptacle label
	PowerState string `json:"power_state" yaml:"power_state"` // "On" or "Off"
	Locked     bool   `json:"locked" yaml:"locked"`
	Health     string `json:"health" yaml:"health"`

	Location mpx.Location `json:"-" yaml:"-"`
}

type PDUInventory struct {
	Hostname        string      `json:"hostname" yaml:"hostname"`
	Label           string      `json:"label,omitempty" yaml:"label,omitempty"`
	Model           string      `json:"model,omitempty" yaml:"model,omitempty"`
	SerialNumber    string      `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	FirmwareVersion string      `json:"firmware_version,omitempty" yaml:"firmware_version,omitempty"`
	Outlets         []PDUOutlet `json:"outlets" yaml:"outlets"`
}

// NewInventory builds the inventory of host from its receptacle overview.
// info is optional; when present it fills in the label and hardware fields.
func NewInventory(host string, info *mpx.PDUInfo, list mpx.ReceptacleList) PDUInventory {
	inv := PDUInventory{
		Hostname: host,
		Outlets:  make([]PDUOutlet, 0, len(list)),
	}
	if info != nil {
		inv.Label = info.Settings.Label
		inv.Model = info.Hardware.Model.Vendor()
		inv.SerialNumber = info.Hardware.SerialNumber
		inv.FirmwareVersion = info.Hardware.FirmwareVersion.String()
	}
	for _, entry := range list {
		inv.Outlets = append(inv.Outlets, NewOutlet(entry))
	}
	return inv
}

func NewOutlet(entry mpx.ReceptacleListEntry) PDUOutlet {
	state := PowerOff
	if entry.Enabled {
		state = PowerOn
	}
	return PDUOutlet{
		ID:         entry.Location.String(),
		Name:       entry.Label,
		PowerState: state,
		Locked:     entry.Locked,
		Health:     entry.Status.String(),
		Location:   entry.Location,
	}
}

// OutletsOf returns the outlets sitting on the given PDU of a daisy chain.
func (inv PDUInventory) OutletsOf(pdu uint8) []PDUOutlet {
	var outlets []PDUOutlet
	for _, o := range inv.Outlets {
		if o.Location.PDU == pdu {
			outlets = append(outlets, o)
		}
	}
	return outlets
}
