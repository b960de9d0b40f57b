package mpx

import (
	"fmt"

	"github.com/OpenCHAMI/mpx/pkg/markup"
)

type ReceptacleStatus struct {
	AccumulatedEnergy       float32 `json:"accumulated_energy_kwh" yaml:"accumulated_energy_kwh"`
	Voltage                 float32 `json:"voltage" yaml:"voltage"`
	Current                 float32 `json:"current" yaml:"current"`
	CurrentAvailableToAlarm float32 `json:"current_available_to_alarm" yaml:"current_available_to_alarm"`
	CurrentUtilization      float32 `json:"current_utilization" yaml:"current_utilization"`
	Power                   float32 `json:"power_w" yaml:"power_w"`
	ApparentPower           float32 `json:"apparent_power_va" yaml:"apparent_power_va"`
	PowerFactor             float32 `json:"power_factor" yaml:"power_factor"`
	CurrentCrestFactor      float32 `json:"current_crest_factor" yaml:"current_crest_factor"`
}

func BuildReceptacleStatus(table RawTable) (ReceptacleStatus, error) {
	r := newFieldReader(table)
	s := ReceptacleStatus{
		AccumulatedEnergy:       r.float("Receptacle Accumulated Energy", UnitEnergy),
		Voltage:                 r.float("Receptacle Voltage", UnitVoltage),
		Current:                 r.float("Receptacle Current", UnitCurrent),
		CurrentAvailableToAlarm: r.float("Receptacle Available Current Until Alarm", UnitCurrent),
		CurrentUtilization:      r.float("Receptacle Percent Current Utilization", UnitPercent),
		Power:                   r.float("Receptacle Power", UnitPower),
		ApparentPower:           r.float("Receptacle Apparent Power", UnitApparentPower),
		PowerFactor:             r.float("Receptacle Power Factor", UnitNone),
		CurrentCrestFactor:      r.float("Receptacle Current Crest Factor", UnitNone),
	}
	if r.err != nil {
		return ReceptacleStatus{}, r.err
	}
	return s, nil
}

// ReceptacleSettings are the user-editable settings of a receptacle.
// PowerState and PowerControl are read-only on the device and are not sent
// back by Form.
type ReceptacleSettings struct {
	Label                       string `json:"label" yaml:"label"`
	AssetTag1                   string `json:"asset_tag_1" yaml:"asset_tag_1"`
	AssetTag2                   string `json:"asset_tag_2" yaml:"asset_tag_2"`
	OverCurrentAlarmThreshold   uint32 `json:"over_current_alarm_threshold" yaml:"over_current_alarm_threshold"`
	OverCurrentWarningThreshold uint32 `json:"over_current_warning_threshold" yaml:"over_current_warning_threshold"`
	LowCurrentAlarmThreshold    uint32 `json:"low_current_alarm_threshold" yaml:"low_current_alarm_threshold"`
	PowerState                  bool   `json:"power_state" yaml:"power_state"`
	PowerControl                bool   `json:"power_control" yaml:"power_control"`
	ControlLocked               bool   `json:"control_locked" yaml:"control_locked"`
	// PowerOnDelay is in seconds.
	PowerOnDelay uint32 `json:"power_on_delay" yaml:"power_on_delay"`
}

func BuildReceptacleSettings(table RawTable) (ReceptacleSettings, error) {
	r := newFieldReader(table)
	s := ReceptacleSettings{
		Label:                       r.text("Receptacle User Assigned Label"),
		AssetTag1:                   r.assetTag("Receptacle Asset Tag 01"),
		AssetTag2:                   r.assetTag("Receptacle Asset Tag 02"),
		OverCurrentAlarmThreshold:   r.integer("Over Current Alarm Threshold", UnitPercent),
		OverCurrentWarningThreshold: r.integer("Over Current Warning Threshold", UnitPercent),
		LowCurrentAlarmThreshold:    r.integer("Low Current Alarm Threshold", UnitPercent),
		PowerState:                  r.flag("Receptacle Power State", powerStates),
		PowerControl:                r.flag("Receptacle Power Control", powerStates),
		ControlLocked:               r.flag("Receptacle Control Lock State", lockStates),
		PowerOnDelay:                r.integer("Receptacle Power On Delay", UnitSeconds),
	}
	if r.err != nil {
		return ReceptacleSettings{}, r.err
	}
	return s, nil
}

// Form renders the settings as the fields of the receptacle settings page.
func (s ReceptacleSettings) Form() Form {
	lock := "0"
	if s.ControlLocked {
		lock = "1"
	}
	return Form{
		{"Submit", "Save"},
		{"label", s.Label},
		{"assetTag1", s.AssetTag1},
		{"assetTag2", s.AssetTag2},
		{"ecThresholdHiAlmL1", fmt.Sprint(s.OverCurrentAlarmThreshold)},
		{"ecThresholdHiWrnL1", fmt.Sprint(s.OverCurrentWarningThreshold)},
		{"ecThresholdLoAlmL1", fmt.Sprint(s.LowCurrentAlarmThreshold)},
		{"powerUpDelay", fmt.Sprint(s.PowerOnDelay)},
		{"lockStateTypeGroup1", lock},
	}
}

type ReceptacleHardware struct {
	ReceptacleType ReceptacleType `json:"receptacle_type" yaml:"receptacle_type"`
	LineSource     LineSource     `json:"line_source" yaml:"line_source"`
	Capabilities   Capability     `json:"capabilities" yaml:"capabilities"`
}

func BuildReceptacleHardware(table RawTable) (ReceptacleHardware, error) {
	r := newFieldReader(table)
	h := ReceptacleHardware{
		ReceptacleType: decodeField(r, "Receptacle Type", ParseReceptacleType),
		LineSource:     decodeField(r, "Receptacle Line Source", ParseLineSource),
		Capabilities:   decodeField(r, "Receptacle Capabilities", ParseCapability),
	}
	if r.err != nil {
		return ReceptacleHardware{}, r.err
	}
	return h, nil
}

type ReceptacleEvents struct {
	OverCurrent Severity `json:"over_current" yaml:"over_current"`
	LowCurrent  Severity `json:"low_current" yaml:"low_current"`
}

func BuildReceptacleEvents(table RawTable) (ReceptacleEvents, error) {
	r := newFieldReader(table)
	e := ReceptacleEvents{
		OverCurrent: r.severity("Receptacle Over Current"),
		LowCurrent:  r.severity("Receptacle Low Current"),
	}
	if r.err != nil {
		return ReceptacleEvents{}, r.err
	}
	return e, nil
}

// ReceptacleInfo is everything a receptacle info page shows.
type ReceptacleInfo struct {
	Status   ReceptacleStatus   `json:"status" yaml:"status"`
	Events   ReceptacleEvents   `json:"events" yaml:"events"`
	Settings ReceptacleSettings `json:"settings" yaml:"settings"`
	Hardware ReceptacleHardware `json:"hardware" yaml:"hardware"`
}

func BuildReceptacleInfo(tables InfoTables) (ReceptacleInfo, error) {
	var (
		info ReceptacleInfo
		err  error
	)
	if info.Status, err = BuildReceptacleStatus(tables.Status); err != nil {
		return ReceptacleInfo{}, err
	}
	if info.Events, err = BuildReceptacleEvents(tables.Events); err != nil {
		return ReceptacleInfo{}, err
	}
	if info.Settings, err = BuildReceptacleSettings(tables.Settings); err != nil {
		return ReceptacleInfo{}, err
	}
	if info.Hardware, err = BuildReceptacleHardware(tables.Hardware); err != nil {
		return ReceptacleInfo{}, err
	}
	return info, nil
}

func ParseReceptacleInfo(doc *markup.Node) (ReceptacleInfo, error) {
	tables, err := ReadInfoTables(doc)
	if err != nil {
		return ReceptacleInfo{}, err
	}
	return BuildReceptacleInfo(tables)
}
