package mpx

import (
	"github.com/OpenCHAMI/mpx/pkg/markup"
)

// ReceptacleListEntry is one row of the receptacle overview.
type ReceptacleListEntry struct {
	Location Location `json:"location" yaml:"location"`
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	Locked   bool     `json:"locked" yaml:"locked"`
	Status   Severity `json:"status" yaml:"status"`
	Label    string   `json:"label" yaml:"label"`
}

type ReceptacleList []ReceptacleListEntry

// Cell positions of a receptacle overview row. The cell at index 1 holds the
// receptacle's load bar and is not read.
const (
	listingLabelCell  = 0
	listingPowerCell  = 2
	listingLockCell   = 3
	listingHealthCell = 4
)

var (
	powerStates = newVocabulary("power state", map[string]bool{"On": true, "Off": false})
	lockStates  = newVocabulary("lock state", map[string]bool{"Locked": true, "Unlocked": false})
)

// ParseReceptacleListRow reads one overview row. The row id is the
// receptacle's location; the label sits in td > a > nobr, the power and lock
// states in the title of a marker element and the health in a status icon.
func ParseReceptacleListRow(row *markup.Node) (ReceptacleListEntry, error) {
	var entry ReceptacleListEntry
	if !row.Is("tr") {
		return entry, structureErr("receptacle row", "expected a tr element, got %s", row)
	}
	loc, err := ParseLocation(row.ID())
	if err != nil {
		return entry, err
	}
	entry.Location = loc
	context := "receptacle " + loc.String()

	cells := Cells(row)
	cell := func(idx int, role string) (*markup.Node, error) {
		if idx >= len(cells) {
			return nil, structureErr(context, "missing %s cell (position %d)", role, idx+1)
		}
		return cells[idx], nil
	}

	labelCell, err := cell(listingLabelCell, "label")
	if err != nil {
		return entry, err
	}
	nobr, err := descend(context, labelCell, "a", "nobr")
	if err != nil {
		return entry, err
	}
	label, ok := nobr.FirstText()
	if !ok {
		return entry, structureErr(context, "label has no text")
	}
	entry.Label = label

	powerCell, err := cell(listingPowerCell, "power state")
	if err != nil {
		return entry, err
	}
	if entry.Enabled, err = markerTitle(context, powerCell, powerStates); err != nil {
		return entry, err
	}

	lockCell, err := cell(listingLockCell, "lock state")
	if err != nil {
		return entry, err
	}
	if entry.Locked, err = markerTitle(context, lockCell, lockStates); err != nil {
		return entry, err
	}

	healthCell, err := cell(listingHealthCell, "health")
	if err != nil {
		return entry, err
	}
	img, err := descend(context, healthCell, "img")
	if err != nil {
		return entry, err
	}
	src, ok := img.Attr("src")
	if !ok {
		return entry, structureErr(context, "health icon has no src")
	}
	if entry.Status, err = ParseSeverity(src); err != nil {
		return entry, err
	}
	return entry, nil
}

// ParseReceptacleList reads the rcpTable overview. Rows without an id are
// section headers and are skipped.
func ParseReceptacleList(doc *markup.Node) (ReceptacleList, error) {
	table := doc.Find("table", receptacleTableID)
	if table == nil {
		return nil, structureErr(receptacleTableID, "receptacle table not found")
	}
	list := ReceptacleList{}
	for _, row := range Rows(table) {
		if row.ID() == "" {
			continue
		}
		entry, err := ParseReceptacleListRow(row)
		if err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	return list, nil
}

// descend follows a chain of first element children, checking each name.
func descend(context string, n *markup.Node, names ...string) (*markup.Node, error) {
	for _, name := range names {
		next := n.FirstChild()
		if next == nil || !next.Is(name) {
			return nil, structureErr(context, "expected <%s> inside %s, got %s", name, n, next)
		}
		n = next
	}
	return n, nil
}

// markerTitle decodes the title attribute of the first element in a cell.
func markerTitle(context string, cell *markup.Node, words vocabulary[bool]) (bool, error) {
	marker := cell.FirstChild()
	if marker == nil {
		return false, structureErr(context, "%s cell is empty", words.name)
	}
	title, ok := marker.Attr("title")
	if !ok {
		return false, structureErr(context, "%s marker has no title", words.name)
	}
	return words.decode(title)
}
