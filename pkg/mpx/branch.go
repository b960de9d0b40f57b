package mpx

import (
	"fmt"

	"github.com/OpenCHAMI/mpx/pkg/markup"
)

type BranchStatus struct {
	AccumulatedEnergy       float32 `json:"accumulated_energy_kwh" yaml:"accumulated_energy_kwh"`
	Voltage                 float32 `json:"voltage" yaml:"voltage"`
	Current                 float32 `json:"current" yaml:"current"`
	CurrentAvailableToAlarm float32 `json:"current_available_to_alarm" yaml:"current_available_to_alarm"`
	CurrentUtilization      float32 `json:"current_utilization" yaml:"current_utilization"`
	Power                   float32 `json:"power_w" yaml:"power_w"`
	ApparentPower           float32 `json:"apparent_power_va" yaml:"apparent_power_va"`
	PowerFactor             float32 `json:"power_factor" yaml:"power_factor"`
}

func BuildBranchStatus(table RawTable) (BranchStatus, error) {
	r := newFieldReader(table)
	s := BranchStatus{
		AccumulatedEnergy:       r.float("Branch Accumulated Energy", UnitEnergy),
		Voltage:                 r.float("Branch Voltage", UnitVoltage),
		Current:                 r.float("Branch Current", UnitCurrent),
		CurrentAvailableToAlarm: r.float("Branch Available Current Until Alarm", UnitCurrent),
		CurrentUtilization:      r.float("Branch Percent Current Utilization", UnitPercent),
		Power:                   r.float("Branch Power", UnitPower),
		ApparentPower:           r.float("Branch Apparent Power", UnitApparentPower),
		PowerFactor:             r.float("Branch Power Factor", UnitNone),
	}
	if r.err != nil {
		return BranchStatus{}, r.err
	}
	return s, nil
}

type BranchSettings struct {
	Label                       string `json:"label" yaml:"label"`
	AssetTag1                   string `json:"asset_tag_1" yaml:"asset_tag_1"`
	AssetTag2                   string `json:"asset_tag_2" yaml:"asset_tag_2"`
	OverCurrentAlarmThreshold   uint32 `json:"over_current_alarm_threshold" yaml:"over_current_alarm_threshold"`
	OverCurrentWarningThreshold uint32 `json:"over_current_warning_threshold" yaml:"over_current_warning_threshold"`
	LowCurrentAlarmThreshold    uint32 `json:"low_current_alarm_threshold" yaml:"low_current_alarm_threshold"`
}

func BuildBranchSettings(table RawTable) (BranchSettings, error) {
	r := newFieldReader(table)
	s := BranchSettings{
		Label:                       r.text("Branch User Assigned Label"),
		AssetTag1:                   r.assetTag("Branch Asset Tag 01"),
		AssetTag2:                   r.assetTag("Branch Asset Tag 02"),
		OverCurrentAlarmThreshold:   r.integer("Over Current Alarm Threshold", UnitPercent),
		OverCurrentWarningThreshold: r.integer("Over Current Warning Threshold", UnitPercent),
		LowCurrentAlarmThreshold:    r.integer("Low Current Alarm Threshold", UnitPercent),
	}
	if r.err != nil {
		return BranchSettings{}, r.err
	}
	return s, nil
}

// Form renders the settings as the fields of the branch settings page.
func (s BranchSettings) Form() Form {
	return Form{
		{"Submit", "Save"},
		{"label", s.Label},
		{"assetTag1", s.AssetTag1},
		{"assetTag2", s.AssetTag2},
		{"ecThresholdHiAlmLN", fmt.Sprint(s.OverCurrentAlarmThreshold)},
		{"ecThresholdHiWrnLN", fmt.Sprint(s.OverCurrentWarningThreshold)},
		{"ecThresholdLoAlmLN", fmt.Sprint(s.LowCurrentAlarmThreshold)},
	}
}

type BranchHardware struct {
	Model              BRMModel        `json:"model" yaml:"model"`
	FirmwareVersion    FirmwareVersion `json:"firmware_version" yaml:"firmware_version"`
	SerialNumber       string          `json:"serial_number" yaml:"serial_number"`
	ReceptacleType     ReceptacleType  `json:"receptacle_type" yaml:"receptacle_type"`
	Capabilities       Capability      `json:"capabilities" yaml:"capabilities"`
	LineSource         LineSource      `json:"line_source" yaml:"line_source"`
	RatedLineVoltage   uint32          `json:"rated_line_voltage" yaml:"rated_line_voltage"`
	RatedLineCurrent   uint32          `json:"rated_line_current" yaml:"rated_line_current"`
	RatedLineFrequency uint32          `json:"rated_line_frequency" yaml:"rated_line_frequency"`
}

func BuildBranchHardware(table RawTable) (BranchHardware, error) {
	r := newFieldReader(table)
	h := BranchHardware{
		Model:              decodeField(r, "BRM Model", ParseBRMModel),
		ReceptacleType:     decodeField(r, "Branch Receptacle Type", ParseReceptacleType),
		Capabilities:       decodeField(r, "Branch Capabilities", ParseCapability),
		LineSource:         decodeField(r, "Branch Line Source", ParseLineSource),
		RatedLineVoltage:   r.integer("Branch Rated Line Voltage", UnitVoltage),
		RatedLineCurrent:   r.integer("Branch Rated Line Current", UnitCurrent),
		RatedLineFrequency: r.integer("Branch Rated Line Frequency", UnitFrequency),
		FirmwareVersion:    decodeField(r, "Firmware Version", ParseFirmwareVersion),
		SerialNumber:       r.text("Branch Serial Number"),
	}
	if r.err != nil {
		return BranchHardware{}, r.err
	}
	return h, nil
}

type BranchEvents struct {
	LowVoltage  Severity `json:"low_voltage" yaml:"low_voltage"`
	OverCurrent Severity `json:"over_current" yaml:"over_current"`
	LowCurrent  Severity `json:"low_current" yaml:"low_current"`
	Failure     Severity `json:"failure" yaml:"failure"`
	BreakerOpen Severity `json:"breaker_open" yaml:"breaker_open"`
}

func BuildBranchEvents(table RawTable) (BranchEvents, error) {
	r := newFieldReader(table)
	e := BranchEvents{
		LowVoltage:  r.severity("Branch Low Voltage (LN)"),
		OverCurrent: r.severity("Branch Over Current"),
		LowCurrent:  r.severity("Branch Low Current"),
		Failure:     r.severity("Branch Failure"),
		BreakerOpen: r.severity("Branch Breaker Open"),
	}
	if r.err != nil {
		return BranchEvents{}, r.err
	}
	return e, nil
}

// BranchInfo is everything a branch info page shows.
type BranchInfo struct {
	Status   BranchStatus   `json:"status" yaml:"status"`
	Events   BranchEvents   `json:"events" yaml:"events"`
	Settings BranchSettings `json:"settings" yaml:"settings"`
	Hardware BranchHardware `json:"hardware" yaml:"hardware"`
}

func BuildBranchInfo(tables InfoTables) (BranchInfo, error) {
	var (
		info BranchInfo
		err  error
	)
	if info.Status, err = BuildBranchStatus(tables.Status); err != nil {
		return BranchInfo{}, err
	}
	if info.Events, err = BuildBranchEvents(tables.Events); err != nil {
		return BranchInfo{}, err
	}
	if info.Settings, err = BuildBranchSettings(tables.Settings); err != nil {
		return BranchInfo{}, err
	}
	if info.Hardware, err = BuildBranchHardware(tables.Hardware); err != nil {
		return BranchInfo{}, err
	}
	return info, nil
}

func ParseBranchInfo(doc *markup.Node) (BranchInfo, error) {
	tables, err := ReadInfoTables(doc)
	if err != nil {
		return BranchInfo{}, err
	}
	return BuildBranchInfo(tables)
}
