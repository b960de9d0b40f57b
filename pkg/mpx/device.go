package mpx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/OpenCHAMI/mpx/pkg/markup"
)

// Transport moves pages and forms between a Device and the PDU it talks to.
// Paths are relative to the PDU's base URL. Implementations own credentials,
// timeouts and TLS.
type Transport interface {
	Get(ctx context.Context, path string) ([]byte, error)
	PostForm(ctx context.Context, path string, form Form) error
}

// Accepted reports whether a form submission status counts as success. The
// device answers a successful POST with either a page or a redirect.
func Accepted(code int) bool {
	return code >= 200 && code < 400
}

// Device reads and controls one PDU through its web interface.
type Device struct {
	Transport Transport
}

func NewDevice(t Transport) *Device {
	return &Device{Transport: t}
}

func (d *Device) fetch(ctx context.Context, path string) (*markup.Node, error) {
	body, err := d.Transport.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	doc, err := markup.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// read fetches a page and runs a parser over it, naming the page in any error.
func read[T any](ctx context.Context, d *Device, path string, parse func(*markup.Node) (T, error)) (T, error) {
	var zero T
	doc, err := d.fetch(ctx, path)
	if err != nil {
		return zero, err
	}
	v, err := parse(doc)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return v, nil
}

func (d *Device) post(ctx context.Context, path string, form Form) error {
	if err := d.Transport.PostForm(ctx, path, form); err != nil {
		return fmt.Errorf("failed to submit %s: %w", path, err)
	}
	return nil
}

// Receptacles returns the receptacle overview in page order.
func (d *Device) Receptacles(ctx context.Context) (ReceptacleList, error) {
	return read(ctx, d, ReceptacleListPath, ParseReceptacleList)
}

// Events returns the active alarms in page order.
func (d *Device) Events(ctx context.Context) (EventList, error) {
	return read(ctx, d, ActiveAlarmsPath, ParseEvents)
}

func (d *Device) PDUInfo(ctx context.Context, pdu uint8) (PDUInfo, error) {
	return read(ctx, d, PDUInfoPath(pdu), ParsePDUInfo)
}

func (d *Device) BranchInfo(ctx context.Context, pdu, branch uint8) (BranchInfo, error) {
	return read(ctx, d, BranchInfoPath(pdu, branch), ParseBranchInfo)
}

func (d *Device) ReceptacleInfo(ctx context.Context, loc Location) (ReceptacleInfo, error) {
	return read(ctx, d, ReceptacleInfoPath(loc), ParseReceptacleInfo)
}

func (d *Device) PDUCommand(ctx context.Context, pdu uint8, cmd PDUCommand) error {
	form := cmd.Form()
	if form == nil {
		return unrecognized(pduCommands.name, cmd.String())
	}
	return d.post(ctx, PDUCommandPath(pdu), form)
}

func (d *Device) BranchCommand(ctx context.Context, pdu, branch uint8, cmd BranchCommand) error {
	form := cmd.Form()
	if form == nil {
		return unrecognized(branchCommands.name, cmd.String())
	}
	return d.post(ctx, BranchCommandPath(pdu, branch), form)
}

func (d *Device) ReceptacleCommand(ctx context.Context, loc Location, cmd ReceptacleCommand) error {
	form := cmd.Form()
	if form == nil {
		return unrecognized(receptacleCommands.name, cmd.String())
	}
	return d.post(ctx, ReceptacleCommandPath(loc), form)
}

func (d *Device) PDUTestEvent(ctx context.Context, pdu uint8) error {
	return d.PDUCommand(ctx, pdu, PDUTestEvent)
}

func (d *Device) PDUResetEnergy(ctx context.Context, pdu uint8) error {
	return d.PDUCommand(ctx, pdu, PDUResetEnergy)
}

func (d *Device) BranchResetEnergy(ctx context.Context, pdu, branch uint8) error {
	return d.BranchCommand(ctx, pdu, branch, BranchResetEnergy)
}

func (d *Device) ReceptacleEnable(ctx context.Context, loc Location) error {
	return d.ReceptacleCommand(ctx, loc, ReceptacleEnable)
}

func (d *Device) ReceptacleDisable(ctx context.Context, loc Location) error {
	return d.ReceptacleCommand(ctx, loc, ReceptacleDisable)
}

func (d *Device) ReceptacleReboot(ctx context.Context, loc Location) error {
	return d.ReceptacleCommand(ctx, loc, ReceptacleReboot)
}

func (d *Device) ReceptacleIdentify(ctx context.Context, loc Location) error {
	return d.ReceptacleCommand(ctx, loc, ReceptacleIdentify)
}

func (d *Device) ReceptacleResetEnergy(ctx context.Context, loc Location) error {
	return d.ReceptacleCommand(ctx, loc, ReceptacleResetEnergy)
}

func (d *Device) SetPDUSettings(ctx context.Context, pdu uint8, s PDUSettings) error {
	return d.post(ctx, PDUSettingPath(pdu), s.Form())
}

func (d *Device) SetBranchSettings(ctx context.Context, pdu, branch uint8, s BranchSettings) error {
	return d.post(ctx, BranchSettingPath(pdu, branch), s.Form())
}

func (d *Device) SetReceptacleSettings(ctx context.Context, loc Location, s ReceptacleSettings) error {
	return d.post(ctx, ReceptacleSettingPath(loc), s.Form())
}
