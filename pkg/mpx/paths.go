package mpx

// Page paths served by the device. Per-entity pages live under a data point
// prefix built from the location, see Location.DataPoint.
const (
	ReceptacleListPath = "/rpc/rpcReceptacleListData.htm"
	ActiveAlarmsPath   = "/rpc/rpcActiveAlarms.htm"

	pduInfoPage        = "rpcAps.htm"
	branchInfoPage     = "rpcRem.htm"
	receptacleInfoPage = "rpcReceptacle.htm"

	pduCommandPage        = "rpcControlApsCommand"
	branchCommandPage     = "rpcControlRemCommand"
	receptacleCommandPage = "rpcControlReceptacleCommand"

	pduSettingPage        = "rpcControlApsSetting"
	branchSettingPage     = "rpcControlRemSetting"
	receptacleSettingPage = "rpcControlReceptacleSetting"
)

func dataPointPath(loc Location, page string) string {
	return "/dp/" + loc.DataPoint() + "/rpc/" + page
}

func PDUInfoPath(pdu uint8) string {
	return dataPointPath(Location{PDU: pdu}, pduInfoPage)
}

func BranchInfoPath(pdu, branch uint8) string {
	return dataPointPath(Location{PDU: pdu, Branch: branch}, branchInfoPage)
}

func ReceptacleInfoPath(loc Location) string {
	return dataPointPath(loc, receptacleInfoPage)
}

func PDUCommandPath(pdu uint8) string {
	return dataPointPath(Location{PDU: pdu}, pduCommandPage)
}

func BranchCommandPath(pdu, branch uint8) string {
	return dataPointPath(Location{PDU: pdu, Branch: branch}, branchCommandPage)
}

func ReceptacleCommandPath(loc Location) string {
	return dataPointPath(loc, receptacleCommandPage)
}

func PDUSettingPath(pdu uint8) string {
	return dataPointPath(Location{PDU: pdu}, pduSettingPage)
}

func BranchSettingPath(pdu, branch uint8) string {
	return dataPointPath(Location{PDU: pdu, Branch: branch}, branchSettingPage)
}

func ReceptacleSettingPath(loc Location) string {
	return dataPointPath(loc, receptacleSettingPage)
}
