package mpx

import (
	"github.com/OpenCHAMI/mpx/pkg/markup"
)

// NoAlarmsPresent is the text of the single row the alarm table shows when
// nothing is active.
const NoAlarmsPresent = "No Alarms Present"

// Event is one active alarm or event.
type Event struct {
	Severity Severity  `json:"severity" yaml:"severity"`
	Location Location  `json:"location" yaml:"location"`
	Type     EventType `json:"type" yaml:"type"`
}

type EventList []Event

// ParseEventRow reads one row of the active alarm table. It returns false
// without an error for header rows and the "No Alarms Present" row.
func ParseEventRow(row *markup.Node) (Event, bool, error) {
	const context = "event row"
	cells := Cells(row)
	if len(cells) == 0 {
		return Event{}, false, structureErr(context, "row has no cells")
	}
	first := cells[0]
	if first.Is("th") {
		return Event{}, false, nil
	}
	if text, ok := first.FirstText(); ok && text == NoAlarmsPresent {
		return Event{}, false, nil
	}

	img := first.FindFirst("img")
	if img == nil {
		return Event{}, false, structureErr(context, "severity cell has no icon")
	}
	src, ok := img.Attr("src")
	if !ok {
		return Event{}, false, structureErr(context, "severity icon has no src")
	}
	severity, err := ParseSeverity(src)
	if err != nil {
		return Event{}, false, err
	}

	if len(cells) < 3 {
		return Event{}, false, structureErr(context, "row has %d cells, expected 3", len(cells))
	}
	id, ok := cells[1].FirstText()
	if !ok {
		return Event{}, false, structureErr(context, "location cell has no text")
	}
	kind, ok := cells[2].FirstText()
	if !ok {
		return Event{}, false, structureErr(context, "event cell has no text")
	}

	loc, err := parseEventLocation(id)
	if err != nil {
		return Event{}, false, err
	}
	eventType, err := ParseEventType(kind)
	if err != nil {
		return Event{}, false, err
	}
	return Event{Severity: severity, Location: loc, Type: eventType}, true, nil
}

// ParseEvents reads the active alarm page.
func ParseEvents(doc *markup.Node) (EventList, error) {
	table, err := LocateTable(doc, DetailArea)
	if err != nil {
		return nil, err
	}
	events := EventList{}
	for _, row := range Rows(table) {
		event, ok, err := ParseEventRow(row)
		if err != nil {
			return nil, err
		}
		if ok {
			events = append(events, event)
		}
	}
	return events, nil
}
