package mpx

import (
	"fmt"

	"github.com/OpenCHAMI/mpx/pkg/markup"
)

// PDUStatus holds the live measurements of a power entry module.
type PDUStatus struct {
	AccumulatedEnergy         float32 `json:"accumulated_energy_kwh" yaml:"accumulated_energy_kwh"`
	InputPower                float32 `json:"input_power_w" yaml:"input_power_w"`
	VoltageL1N                float32 `json:"voltage_l1_n" yaml:"voltage_l1_n"`
	VoltageL2N                float32 `json:"voltage_l2_n" yaml:"voltage_l2_n"`
	VoltageL3N                float32 `json:"voltage_l3_n" yaml:"voltage_l3_n"`
	CurrentL1                 float32 `json:"current_l1" yaml:"current_l1"`
	CurrentL2                 float32 `json:"current_l2" yaml:"current_l2"`
	CurrentL3                 float32 `json:"current_l3" yaml:"current_l3"`
	CurrentN                  float32 `json:"current_n" yaml:"current_n"`
	CurrentAvailableToAlarmL1 float32 `json:"current_available_to_alarm_l1" yaml:"current_available_to_alarm_l1"`
	CurrentAvailableToAlarmL2 float32 `json:"current_available_to_alarm_l2" yaml:"current_available_to_alarm_l2"`
	CurrentAvailableToAlarmL3 float32 `json:"current_available_to_alarm_l3" yaml:"current_available_to_alarm_l3"`
	CurrentUtilizationL1      float32 `json:"current_utilization_l1" yaml:"current_utilization_l1"`
	CurrentUtilizationL2      float32 `json:"current_utilization_l2" yaml:"current_utilization_l2"`
	CurrentUtilizationL3      float32 `json:"current_utilization_l3" yaml:"current_utilization_l3"`
	LineFrequency             float32 `json:"line_frequency_hz" yaml:"line_frequency_hz"`
}

func BuildPDUStatus(table RawTable) (PDUStatus, error) {
	r := newFieldReader(table)
	s := PDUStatus{
		AccumulatedEnergy:         r.float("PDU Accumulated Energy", UnitEnergy),
		InputPower:                r.float("PDU Total Input Power", UnitPower),
		VoltageL1N:                r.float("PDU Voltage L1-N", UnitVoltage),
		VoltageL2N:                r.float("PDU Voltage L2-N", UnitVoltage),
		VoltageL3N:                r.float("PDU Voltage L3-N", UnitVoltage),
		CurrentL1:                 r.float("PDU Current L1", UnitCurrent),
		CurrentL2:                 r.float("PDU Current L2", UnitCurrent),
		CurrentL3:                 r.float("PDU Current L3", UnitCurrent),
		CurrentN:                  r.float("PDU Neutral Current Measurement", UnitCurrent),
		CurrentAvailableToAlarmL1: r.float("PDU Available L1 Current Until Alarm", UnitCurrent),
		CurrentAvailableToAlarmL2: r.float("PDU Available L2 Current Until Alarm", UnitCurrent),
		CurrentAvailableToAlarmL3: r.float("PDU Available L3 Current Until Alarm", UnitCurrent),
		CurrentUtilizationL1:      r.float("PDU Percent L1 Current Utilization", UnitPercent),
		CurrentUtilizationL2:      r.float("PDU Percent L2 Current Utilization", UnitPercent),
		CurrentUtilizationL3:      r.float("PDU Percent L3 Current Utilization", UnitPercent),
		LineFrequency:             r.float("PEM Line Frequency", UnitFrequency),
	}
	if r.err != nil {
		return PDUStatus{}, r.err
	}
	return s, nil
}

// PDUSettings are the user-editable settings of a power entry module.
// Thresholds are percentages of the rated current.
type PDUSettings struct {
	Label                         string `json:"label" yaml:"label"`
	AssetTag1                     string `json:"asset_tag_1" yaml:"asset_tag_1"`
	AssetTag2                     string `json:"asset_tag_2" yaml:"asset_tag_2"`
	NOverCurrentAlarmThreshold    uint32 `json:"n_over_current_alarm_threshold" yaml:"n_over_current_alarm_threshold"`
	NOverCurrentWarningThreshold  uint32 `json:"n_over_current_warning_threshold" yaml:"n_over_current_warning_threshold"`
	L1OverCurrentAlarmThreshold   uint32 `json:"l1_over_current_alarm_threshold" yaml:"l1_over_current_alarm_threshold"`
	L1OverCurrentWarningThreshold uint32 `json:"l1_over_current_warning_threshold" yaml:"l1_over_current_warning_threshold"`
	L1LowCurrentAlarmThreshold    uint32 `json:"l1_low_current_alarm_threshold" yaml:"l1_low_current_alarm_threshold"`
	L2OverCurrentAlarmThreshold   uint32 `json:"l2_over_current_alarm_threshold" yaml:"l2_over_current_alarm_threshold"`
	L2OverCurrentWarningThreshold uint32 `json:"l2_over_current_warning_threshold" yaml:"l2_over_current_warning_threshold"`
	L2LowCurrentAlarmThreshold    uint32 `json:"l2_low_current_alarm_threshold" yaml:"l2_low_current_alarm_threshold"`
	L3OverCurrentAlarmThreshold   uint32 `json:"l3_over_current_alarm_threshold" yaml:"l3_over_current_alarm_threshold"`
	L3OverCurrentWarningThreshold uint32 `json:"l3_over_current_warning_threshold" yaml:"l3_over_current_warning_threshold"`
	L3LowCurrentAlarmThreshold    uint32 `json:"l3_low_current_alarm_threshold" yaml:"l3_low_current_alarm_threshold"`
}

func BuildPDUSettings(table RawTable) (PDUSettings, error) {
	r := newFieldReader(table)
	s := PDUSettings{
		Label:                         r.text("PDU User Assigned Label"),
		AssetTag1:                     r.assetTag("PDU Asset Tag 01"),
		AssetTag2:                     r.assetTag("PDU Asset Tag 02"),
		NOverCurrentAlarmThreshold:    r.integer("Neutral Over Current Alarm Threshold", UnitPercent),
		NOverCurrentWarningThreshold:  r.integer("Neutral Over Current Warning Threshold", UnitPercent),
		L1OverCurrentWarningThreshold: r.integer("Over Current Warn Threshold L1", UnitPercent),
		L2OverCurrentWarningThreshold: r.integer("Over Current Warn Threshold L2", UnitPercent),
		L3OverCurrentWarningThreshold: r.integer("Over Current Warn Threshold L3", UnitPercent),
		L1OverCurrentAlarmThreshold:   r.integer("Over Current Alarm Threshold L1", UnitPercent),
		L2OverCurrentAlarmThreshold:   r.integer("Over Current Alarm Threshold L2", UnitPercent),
		L3OverCurrentAlarmThreshold:   r.integer("Over Current Alarm Threshold L3", UnitPercent),
		L1LowCurrentAlarmThreshold:    r.integer("Low Current Alarm Threshold L1", UnitPercent),
		L2LowCurrentAlarmThreshold:    r.integer("Low Current Alarm Threshold L2", UnitPercent),
		L3LowCurrentAlarmThreshold:    r.integer("Low Current Alarm Threshold L3", UnitPercent),
	}
	if r.err != nil {
		return PDUSettings{}, r.err
	}
	return s, nil
}

// Form renders the settings as the fields of the PDU settings page.
func (s PDUSettings) Form() Form {
	return Form{
		{"Submit", "Save"},
		{"label", s.Label},
		{"assetTag1", s.AssetTag1},
		{"assetTag2", s.AssetTag2},
		{"ecNeutralThrshldOverAlarm", fmt.Sprint(s.NOverCurrentAlarmThreshold)},
		{"ecNeutralThrshldOverWarn", fmt.Sprint(s.NOverCurrentWarningThreshold)},
		{"ecThresholdHiAlmL1", fmt.Sprint(s.L1OverCurrentAlarmThreshold)},
		{"ecThresholdHiAlmL2", fmt.Sprint(s.L2OverCurrentAlarmThreshold)},
		{"ecThresholdHiAlmL3", fmt.Sprint(s.L3OverCurrentAlarmThreshold)},
		{"ecThresholdHiWrnL1", fmt.Sprint(s.L1OverCurrentWarningThreshold)},
		{"ecThresholdHiWrnL2", fmt.Sprint(s.L2OverCurrentWarningThreshold)},
		{"ecThresholdHiWrnL3", fmt.Sprint(s.L3OverCurrentWarningThreshold)},
		{"ecThresholdLoAlmL1", fmt.Sprint(s.L1LowCurrentAlarmThreshold)},
		{"ecThresholdLoAlmL2", fmt.Sprint(s.L2LowCurrentAlarmThreshold)},
		{"ecThresholdLoAlmL3", fmt.Sprint(s.L3LowCurrentAlarmThreshold)},
	}
}

// PDUHardware describes the installed power entry module.
type PDUHardware struct {
	Model                   PEMModel        `json:"model" yaml:"model"`
	FirmwareVersion         FirmwareVersion `json:"firmware_version" yaml:"firmware_version"`
	SerialNumber            string          `json:"serial_number" yaml:"serial_number"`
	WiringType              WiringType      `json:"wiring_type" yaml:"wiring_type"`
	RatedInputVoltage       uint32          `json:"rated_input_voltage" yaml:"rated_input_voltage"`
	RatedInputCurrent       uint32          `json:"rated_input_current" yaml:"rated_input_current"`
	RatedInputLineFrequency uint32          `json:"rated_input_line_frequency" yaml:"rated_input_line_frequency"`
}

func BuildPDUHardware(table RawTable) (PDUHardware, error) {
	r := newFieldReader(table)
	h := PDUHardware{
		Model:                   decodeField(r, "PEM Model", ParsePEMModel),
		WiringType:              decodeField(r, "The PDU input wiring type", ParseWiringType),
		RatedInputVoltage:       r.integer("Rated Input Line Voltage", UnitVoltage),
		RatedInputCurrent:       r.integer("Rated Input Line Current", UnitCurrent),
		RatedInputLineFrequency: r.integer("Rated Input Line Frequency", UnitFrequency),
		FirmwareVersion:         decodeField(r, "Firmware Version", ParseFirmwareVersion),
		SerialNumber:            r.text("PEM Serial Number"),
	}
	if r.err != nil {
		return PDUHardware{}, r.err
	}
	return h, nil
}

// PDUEvents is the state of every alarm a power entry module can raise.
type PDUEvents struct {
	LowVoltageL1      Severity `json:"low_voltage_l1" yaml:"low_voltage_l1"`
	LowVoltageL2      Severity `json:"low_voltage_l2" yaml:"low_voltage_l2"`
	LowVoltageL3      Severity `json:"low_voltage_l3" yaml:"low_voltage_l3"`
	OverCurrentL1     Severity `json:"over_current_l1" yaml:"over_current_l1"`
	OverCurrentL2     Severity `json:"over_current_l2" yaml:"over_current_l2"`
	OverCurrentL3     Severity `json:"over_current_l3" yaml:"over_current_l3"`
	LowCurrentL1      Severity `json:"low_current_l1" yaml:"low_current_l1"`
	LowCurrentL2      Severity `json:"low_current_l2" yaml:"low_current_l2"`
	LowCurrentL3      Severity `json:"low_current_l3" yaml:"low_current_l3"`
	Failure           Severity `json:"failure" yaml:"failure"`
	CommunicationFail Severity `json:"communication_fail" yaml:"communication_fail"`
	OverCurrentN      Severity `json:"over_current_n" yaml:"over_current_n"`
}

func BuildPDUEvents(table RawTable) (PDUEvents, error) {
	r := newFieldReader(table)
	e := PDUEvents{
		LowVoltageL1:      r.severity("PDU Low Voltage L1-N"),
		LowVoltageL2:      r.severity("PDU Low Voltage L2-N"),
		LowVoltageL3:      r.severity("PDU Low Voltage L3-N"),
		OverCurrentL1:     r.severity("PDU Over Current L1"),
		OverCurrentL2:     r.severity("PDU Over Current L2"),
		OverCurrentL3:     r.severity("PDU Over Current L3"),
		LowCurrentL1:      r.severity("PDU Low Current L1"),
		LowCurrentL2:      r.severity("PDU Low Current L2"),
		LowCurrentL3:      r.severity("PDU Low Current L3"),
		Failure:           r.severity("PDU Failure"),
		CommunicationFail: r.severity("PDU Communication Fail"),
		OverCurrentN:      r.severity("PDU Neutral Over Current"),
	}
	if r.err != nil {
		return PDUEvents{}, r.err
	}
	return e, nil
}

// PDUInfo is everything the PDU info page shows.
type PDUInfo struct {
	Status   PDUStatus   `json:"status" yaml:"status"`
	Events   PDUEvents   `json:"events" yaml:"events"`
	Settings PDUSettings `json:"settings" yaml:"settings"`
	Hardware PDUHardware `json:"hardware" yaml:"hardware"`
}

func BuildPDUInfo(tables InfoTables) (PDUInfo, error) {
	var (
		info PDUInfo
		err  error
	)
	if info.Status, err = BuildPDUStatus(tables.Status); err != nil {
		return PDUInfo{}, err
	}
	if info.Events, err = BuildPDUEvents(tables.Events); err != nil {
		return PDUInfo{}, err
	}
	if info.Settings, err = BuildPDUSettings(tables.Settings); err != nil {
		return PDUInfo{}, err
	}
	if info.Hardware, err = BuildPDUHardware(tables.Hardware); err != nil {
		return PDUInfo{}, err
	}
	return info, nil
}

// ParsePDUInfo reads a PDU info page.
func ParsePDUInfo(doc *markup.Node) (PDUInfo, error) {
	tables, err := ReadInfoTables(doc)
	if err != nil {
		return PDUInfo{}, err
	}
	return BuildPDUInfo(tables)
}
