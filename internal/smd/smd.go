// Package smd turns PDU snapshots into State Management Database records.
package smd

import (
	"fmt"

	"github.com/Cray-HPE/hms-xname/xnames"
	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/OpenCHAMI/mpx/pkg/idmap"
	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/OpenCHAMI/mpx/pkg/pdu"
	"github.com/samber/lo"
)

const (
	TypeController     = "CabinetPDUController"
	TypePowerConnector = "CabinetPDUPowerConnector"

	// connectorStride packs branch and receptacle into one connector
	// number: receptacle 1-2-3 becomes connector 23 of PDU 1.
	connectorStride = 10
)

type Outlet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state"`
	SocketType string `json:"socket_type,omitempty"`
}

type Inventory struct {
	Model           string   `json:"Model"`
	SerialNumber    string   `json:"SerialNumber"`
	FirmwareVersion string   `json:"FirmwareVersion"`
	Outlets         []Outlet `json:"Outlets"`
}

// Endpoint is the RedfishEndpoints payload registering one PDU controller.
type Endpoint struct {
	ID                 string    `json:"ID"`
	Type               string    `json:"Type"`
	FQDN               string    `json:"FQDN"`
	Hostname           string    `json:"Hostname"`
	Enabled            bool      `json:"Enabled"`
	RediscoverOnUpdate bool      `json:"RediscoverOnUpdate"`
	PDUInventory       Inventory `json:"PDUInventory"`
}

type OutletInfo struct {
	Name    string         `json:"Name"`
	Actions map[string]any `json:"Actions"`
}

// PowerConnector is the component endpoint record of one receptacle.
type PowerConnector struct {
	ID                    string     `json:"ID"`
	Type                  string     `json:"Type"`
	RedfishType           string     `json:"RedfishType"`
	RedfishSubtype        string     `json:"RedfishSubtype"`
	OdataID               string     `json:"OdataID"`
	RedfishEndpointID     string     `json:"RedfishEndpointID"`
	Enabled               bool       `json:"Enabled"`
	RedfishEndpointFQDN   string     `json:"RedfishEndpointFQDN"`
	RedfishURL            string     `json:"RedfishURL"`
	ComponentEndpointType string     `json:"ComponentEndpointType"`
	RedfishOutletInfo     OutletInfo `json:"RedfishOutletInfo"`
}

// ConnectorID addresses the receptacle at loc under controller.
func ConnectorID(controller xnames.CabinetPDUController, loc mpx.Location) xnames.CabinetPDUPowerConnector {
	return xnames.CabinetPDUPowerConnector{
		Cabinet:                  controller.Cabinet,
		CabinetPDUController:     controller.CabinetPDUController,
		CabinetPDU:               int(loc.PDU),
		CabinetPDUPowerConnector: int(loc.Branch)*connectorStride + int(loc.Receptacle),
	}
}

func NewEndpoint(controller xnames.CabinetPDUController, inv pdu.PDUInventory) Endpoint {
	return Endpoint{
		ID:       controller.String(),
		Type:     TypeController,
		FQDN:     inv.Hostname,
		Hostname: inv.Hostname,
		Enabled:  true,
		PDUInventory: Inventory{
			Model:           inv.Model,
			SerialNumber:    inv.SerialNumber,
			FirmwareVersion: inv.FirmwareVersion,
			Outlets: lo.Map(inv.Outlets, func(o pdu.PDUOutlet, _ int) Outlet {
				return Outlet{ID: o.ID, Name: o.Name, State: o.PowerState}
			}),
		},
	}
}

// PowerConnectors builds one record per outlet. The control target is the
// receptacle command page of the PDU web interface.
func PowerConnectors(controller xnames.CabinetPDUController, inv pdu.PDUInventory) []PowerConnector {
	return lo.Map(inv.Outlets, func(o pdu.PDUOutlet, _ int) PowerConnector {
		target := mpx.ReceptacleCommandPath(o.Location)
		return PowerConnector{
			ID:                    ConnectorID(controller, o.Location).String(),
			Type:                  TypePowerConnector,
			RedfishType:           "Outlet",
			RedfishSubtype:        "Cx",
			OdataID:               mpx.ReceptacleInfoPath(o.Location),
			RedfishEndpointID:     controller.String(),
			Enabled:               true,
			RedfishEndpointFQDN:   inv.Hostname,
			RedfishURL:            inv.Hostname + mpx.ReceptacleInfoPath(o.Location),
			ComponentEndpointType: "ComponentEndpointOutlet",
			RedfishOutletInfo: OutletInfo{
				Name: o.Name,
				Actions: map[string]any{
					"#Outlet.PowerControl": map[string]any{
						"PowerState@Redfish.AllowableValues": []string{pdu.PowerOn, pdu.PowerOff},
						"target":                             target,
					},
				},
			},
		}
	})
}

// Export is everything sent to SMD for one PDU host.
type Export struct {
	Endpoint   Endpoint         `json:"endpoint"`
	Connectors []PowerConnector `json:"connectors"`
}

// FromSnapshot maps a successful snapshot to its SMD records. The controller
// xname comes from mapper, keyed by host and PDU label.
func FromSnapshot(snap collect.Snapshot, mapper idmap.Mapper) (Export, error) {
	if snap.Failed() {
		return Export{}, fmt.Errorf("snapshot of %s failed: %s", snap.Host, snap.Error)
	}
	inv := pdu.NewInventory(snap.Host, snap.PDU, snap.Receptacles)
	id := mapper.GetMappedID(&idmap.MapperKeys{Host: snap.Host, Label: inv.Label})
	if id == "" {
		return Export{}, fmt.Errorf("no controller xname for %s", snap.Host)
	}
	controller, err := idmap.ParseController(id)
	if err != nil {
		return Export{}, err
	}
	return Export{
		Endpoint:   NewEndpoint(controller, inv),
		Connectors: PowerConnectors(controller, inv),
	}, nil
}

// FromSnapshots exports every snapshot it can and collects the errors of the
// rest.
func FromSnapshots(snaps []collect.Snapshot, mapper idmap.Mapper) ([]Export, []error) {
	var (
		exports []Export
		errs    []error
	)
	for _, snap := range snaps {
		export, err := FromSnapshot(snap, mapper)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		exports = append(exports, export)
	}
	return exports, errs
}
