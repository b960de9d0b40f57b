package mpx

import (
	"github.com/OpenCHAMI/mpx/pkg/markup"
)

// TableValue is one row of a data table: the raw value text and the unit
// column next to it.
type TableValue struct {
	Value string
	Unit  string
}

// RawTable maps row labels to their values. It is built per document and
// consumed by the record builders.
type RawTable map[string]TableValue

// Layout selects how the cells of a table row are read.
type Layout int

const (
	// Plain rows are [label, value, unit]. The unit column is optional for
	// tables that have none.
	Plain Layout = iota
	// Icon rows are [icon, label] where the icon's src attribute is the
	// value. Icon rows carry no unit.
	Icon
)

func (l Layout) String() string {
	if l == Icon {
		return "icon"
	}
	return "plain"
}

// ExtractTable reads every row of table into a RawTable. Rows whose label
// cell is a header cell are skipped. Duplicate labels keep the last value.
func ExtractTable(table *markup.Node, layout Layout) (RawTable, error) {
	if !table.Is("table") {
		return nil, structureErr("table", "expected a table element, got %s", table)
	}
	raw := RawTable{}
	for i, row := range Rows(table) {
		cells := Cells(row)
		labelIdx, valueIdx := 0, 1
		if layout == Icon {
			labelIdx, valueIdx = 1, 0
		}
		if isHeaderRow(cells, labelIdx) {
			continue
		}
		if len(cells) < 2 {
			return nil, structureErr("table", "row %d has %d cells, expected at least 2", i+1, len(cells))
		}

		label, ok := cells[labelIdx].FirstText()
		if !ok {
			return nil, structureErr("table", "row %d has no label text", i+1)
		}

		var tv TableValue
		switch layout {
		case Icon:
			img := cells[valueIdx].FindFirst("img")
			if img == nil {
				return nil, structureErr("table", "row %q has no icon", label)
			}
			src, ok := img.Attr("src")
			if !ok {
				return nil, structureErr("table", "icon in row %q has no src", label)
			}
			tv.Value = src
		default:
			value, ok := cells[valueIdx].FirstText()
			if !ok {
				return nil, structureErr("table", "row %q has no value text", label)
			}
			tv.Value = value
			if len(cells) > 2 {
				unit, ok := cells[2].FirstText()
				if !ok {
					return nil, structureErr("table", "row %q has no unit text", label)
				}
				tv.Unit = unit
			}
		}
		raw[label] = tv
	}
	return raw, nil
}

// Rows returns the tr elements of a table, looking through the thead, tbody
// and tfoot sections that parsers insert.
func Rows(table *markup.Node) []*markup.Node {
	var rows []*markup.Node
	for _, c := range table.Elements() {
		switch c.Name() {
		case "tr":
			rows = append(rows, c)
		case "thead", "tbody", "tfoot":
			for _, r := range c.Elements() {
				if r.Is("tr") {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

// isHeaderRow reports whether the label cell is a th, or, for short header
// rows spanning the table, whether every cell is a th.
func isHeaderRow(cells []*markup.Node, labelIdx int) bool {
	if labelIdx < len(cells) {
		return cells[labelIdx].Is("th")
	}
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !c.Is("th") {
			return false
		}
	}
	return true
}

// Cells returns the td and th children of a row.
func Cells(row *markup.Node) []*markup.Node {
	var cells []*markup.Node
	for _, c := range row.Elements() {
		if c.Is("td") || c.Is("th") {
			cells = append(cells, c)
		}
	}
	return cells
}
