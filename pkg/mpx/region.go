package mpx

import (
	"github.com/OpenCHAMI/mpx/pkg/markup"
)

// Container ids used by the device's info pages.
const (
	StatusArea  = "RpcStatusArea"
	AlarmArea   = "RpcAlarmArea"
	SettingArea = "RpcSettingArea"
	InfoArea    = "RpcInfoArea"
	DetailArea  = "DetailPanelArea"

	receptacleTableID = "rcpTable"
)

// InfoTables holds the four tables of a PDU, branch or receptacle info page.
type InfoTables struct {
	Status   RawTable
	Events   RawTable
	Settings RawTable
	Hardware RawTable
}

// LocateTable finds the body of doc, the div with the given id inside it and
// the first table inside that div.
func LocateTable(doc *markup.Node, container string) (*markup.Node, error) {
	body := doc.Find("body", "")
	if body == nil {
		return nil, structureErr(container, "document has no body")
	}
	div := body.Find("div", container)
	if div == nil {
		return nil, structureErr(container, "expected container not found")
	}
	table := div.FindFirst("table")
	if table == nil {
		return nil, structureErr(container, "no table inside container")
	}
	return table, nil
}

// ReadInfoTables locates and extracts the status, alarm, settings and
// hardware tables of an info page.
func ReadInfoTables(doc *markup.Node) (InfoTables, error) {
	var tables InfoTables
	regions := []struct {
		id     string
		layout Layout
		dst    *RawTable
	}{
		{StatusArea, Plain, &tables.Status},
		{AlarmArea, Icon, &tables.Events},
		{SettingArea, Plain, &tables.Settings},
		{InfoArea, Plain, &tables.Hardware},
	}
	for _, r := range regions {
		table, err := LocateTable(doc, r.id)
		if err != nil {
			return InfoTables{}, err
		}
		if *r.dst, err = ExtractTable(table, r.layout); err != nil {
			return InfoTables{}, err
		}
	}
	return tables, nil
}
