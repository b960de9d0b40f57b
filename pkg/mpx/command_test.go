package mpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceptacleCommandForms(t *testing.T) {
	tests := []struct {
		cmd  ReceptacleCommand
		want string
	}{
		{ReceptacleDisable, "receptacleStateGroup=0&Submit=Save"},
		{ReceptacleEnable, "receptacleStateGroup=1&Submit=Save"},
		{ReceptacleReboot, "receptacleStateGroup=2&Submit=Save"},
		{ReceptacleIdentify, "rcpIdentControl=Submit"},
		{ReceptacleResetEnergy, "energyControl=Reset"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Form().Encode())

			parsed, err := ParseReceptacleCommand(tt.cmd.String())
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, parsed)
		})
	}
	assert.Nil(t, ReceptacleCommand(0).Form())
}

func TestBranchAndPDUCommandForms(t *testing.T) {
	assert.Equal(t, "energyControl=Reset", BranchResetEnergy.Form().Encode())
	assert.Equal(t, "energyControl=Reset", PDUResetEnergy.Form().Encode())
	assert.Equal(t, "testEvent=Send", PDUTestEvent.Form().Encode())

	cmd, err := ParsePDUCommand("Test-Event")
	require.NoError(t, err)
	assert.Equal(t, PDUTestEvent, cmd)

	_, err = ParseBranchCommand("reboot")
	assert.ErrorIs(t, err, ErrUnrecognizedValue)
	assert.Equal(t, []string{"reset-energy", "test-event"}, PDUCommandNames())
}

func TestCommandFormsAreNotShared(t *testing.T) {
	changed := PDUResetEnergy.Form()
	changed[0].Value = "Clobbered"
	PDUTestEvent.Form()[0].Value = "Clobbered"
	ReceptacleEnable.Form()[1].Value = "Clobbered"

	assert.Equal(t, "energyControl=Reset", PDUResetEnergy.Form().Encode())
	assert.Equal(t, "energyControl=Reset", BranchResetEnergy.Form().Encode())
	assert.Equal(t, "energyControl=Reset", ReceptacleResetEnergy.Form().Encode())
	assert.Equal(t, "testEvent=Send", PDUTestEvent.Form().Encode())
	assert.Equal(t, "receptacleStateGroup=1&Submit=Save", ReceptacleEnable.Form().Encode())
}

func TestSettingsForms(t *testing.T) {
	rs := ReceptacleSettings{
		Label:                       "node 7",
		AssetTag1:                   "a&b",
		OverCurrentAlarmThreshold:   80,
		OverCurrentWarningThreshold: 70,
		LowCurrentAlarmThreshold:    1,
		PowerOnDelay:                3,
		ControlLocked:               true,
	}
	form := rs.Form()
	assert.Equal(t,
		"Submit=Save&label=node+7&assetTag1=a%26b&assetTag2=&ecThresholdHiAlmL1=80&ecThresholdHiWrnL1=70&ecThresholdLoAlmL1=1&powerUpDelay=3&lockStateTypeGroup1=1",
		form.Encode())

	rs.ControlLocked = false
	lock, ok := rs.Form().Get("lockStateTypeGroup1")
	require.True(t, ok)
	assert.Equal(t, "0", lock)

	bs := BranchSettings{Label: "b", OverCurrentAlarmThreshold: 9, OverCurrentWarningThreshold: 8, LowCurrentAlarmThreshold: 7}
	assert.Equal(t,
		"Submit=Save&label=b&assetTag1=&assetTag2=&ecThresholdHiAlmLN=9&ecThresholdHiWrnLN=8&ecThresholdLoAlmLN=7",
		bs.Form().Encode())

	ps := PDUSettings{NOverCurrentAlarmThreshold: 90, L3LowCurrentAlarmThreshold: 3}
	pf := ps.Form()
	require.Len(t, pf, 15)
	assert.Equal(t, Field{"ecNeutralThrshldOverAlarm", "90"}, pf[4])
	assert.Equal(t, Field{"ecThresholdLoAlmL3", "3"}, pf[14])
	assert.Equal(t, []string{"90"}, pf.Values()["ecNeutralThrshldOverAlarm"])
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/dp/std:1.0.0_0.0.0/rpc/rpcAps.htm", PDUInfoPath(1))
	assert.Equal(t, "/dp/std:1.2.0_0.0.0/rpc/rpcRem.htm", BranchInfoPath(1, 2))
	assert.Equal(t, "/dp/std:1.2.3_0.0.0/rpc/rpcReceptacle.htm", ReceptacleInfoPath(Location{1, 2, 3}))
	assert.Equal(t, "/dp/std:1.2.3_0.0.0/rpc/rpcControlReceptacleCommand", ReceptacleCommandPath(Location{1, 2, 3}))
	assert.Equal(t, "/dp/std:1.2.0_0.0.0/rpc/rpcControlRemSetting", BranchSettingPath(1, 2))
	assert.Equal(t, "/dp/std:1.0.0_0.0.0/rpc/rpcControlApsCommand", PDUCommandPath(1))
}
