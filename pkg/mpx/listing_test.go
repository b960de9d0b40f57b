package mpx

import (
	"testing"

	"github.com/OpenCHAMI/mpx/pkg/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReceptacleList(t *testing.T) {
	list, err := ParseReceptacleList(loadFixture(t, "receptacle-list.htm"))
	require.NoError(t, err)

	assert.Equal(t, ReceptacleList{
		{Location: Location{1, 1, 1}, Enabled: true, Locked: false, Status: SeverityOK, Label: "node-0001"},
		{Location: Location{1, 1, 2}, Enabled: false, Locked: true, Status: SeverityWarning, Label: "node-0002"},
		{Location: Location{1, 2, 1}, Enabled: true, Locked: true, Status: SeverityAlarm, Label: "node-0003"},
	}, list)
}

func listingRow(t *testing.T, id, power, lock string) *markup.Node {
	t.Helper()
	doc, err := markup.ParseString(`<table><tr id="` + id + `">
		<td><a href="#"><nobr>node</nobr></a></td>
		<td></td>
		<td><span title="` + power + `"></span></td>
		<td><span title="` + lock + `"></span></td>
		<td><img src="../../../images/accept.png"></td>
	</tr></table>`)
	require.NoError(t, err)
	row := doc.FindFirst("tr")
	require.NotNil(t, row)
	return row
}

func TestParseReceptacleListRow(t *testing.T) {
	entry, err := ParseReceptacleListRow(listingRow(t, "2-3-4", "On", "Unlocked"))
	require.NoError(t, err)
	assert.True(t, entry.Enabled)
	assert.False(t, entry.Locked)
	assert.Equal(t, Location{2, 3, 4}, entry.Location)
	assert.Equal(t, "node", entry.Label)

	_, err = ParseReceptacleListRow(listingRow(t, "2-3-4", "Standby", "Unlocked"))
	assert.ErrorIs(t, err, ErrUnrecognizedValue)

	_, err = ParseReceptacleListRow(listingRow(t, "2-3-4", "On", "locked"))
	assert.ErrorIs(t, err, ErrUnrecognizedValue)

	_, err = ParseReceptacleListRow(listingRow(t, "2-3", "On", "Locked"))
	assert.ErrorIs(t, err, ErrStructure)
}

func TestParseReceptacleListRowStructure(t *testing.T) {
	tests := map[string]string{
		"label without nobr": `<tr id="1-1-1"><td><a>node</a></td><td></td><td><i title="On"></i></td><td><i title="Locked"></i></td><td><img src="../../../images/accept.png"></td></tr>`,
		"missing health":     `<tr id="1-1-1"><td><a><nobr>n</nobr></a></td><td></td><td><i title="On"></i></td><td><i title="Locked"></i></td></tr>`,
		"marker no title":    `<tr id="1-1-1"><td><a><nobr>n</nobr></a></td><td></td><td><i></i></td><td><i title="Locked"></i></td><td><img src="../../../images/accept.png"></td></tr>`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := markup.ParseString("<table>" + src + "</table>")
			require.NoError(t, err)
			_, err = ParseReceptacleListRow(doc.FindFirst("tr"))
			assert.ErrorIs(t, err, ErrStructure)
		})
	}
}

func TestParseReceptacleListWithoutTable(t *testing.T) {
	doc, err := markup.ParseString(`<html><body><p>login required</p></body></html>`)
	require.NoError(t, err)
	_, err = ParseReceptacleList(doc)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestParseEventsNoAlarms(t *testing.T) {
	events, err := ParseEvents(loadFixture(t, "events-none.htm"))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestParseEventsActive(t *testing.T) {
	events, err := ParseEvents(loadFixture(t, "events-active.htm"))
	require.NoError(t, err)
	assert.Equal(t, EventList{
		{Severity: SeverityWarning, Location: Location{1, 2, 3}, Type: ReceptacleOverCurrent},
		{Severity: SeverityAlarm, Location: Location{1, 4, 0}, Type: BranchBreakerOpen},
		{Severity: SeverityInfo, Location: Location{1, 0, 0}, Type: PDUCommunicationFail},
	}, events)
}

func TestParseEventRowErrors(t *testing.T) {
	row := func(cells string) *markup.Node {
		doc, err := markup.ParseString("<table><tr>" + cells + "</tr></table>")
		require.NoError(t, err)
		return doc.FindFirst("tr")
	}

	_, ok, err := ParseEventRow(row(`<th>Severity</th><th>Location</th><th>Event</th>`))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ParseEventRow(row(`<td>?</td><td>1-1-1</td><td>Branch Failure</td>`))
	assert.ErrorIs(t, err, ErrStructure)

	_, _, err = ParseEventRow(row(`<td><img></td><td>1-1-1</td><td>Branch Failure</td>`))
	assert.ErrorIs(t, err, ErrStructure)

	_, _, err = ParseEventRow(row(`<td><img src="../../../images/err.png"></td><td>1-1-1</td>`))
	assert.ErrorIs(t, err, ErrStructure)

	_, _, err = ParseEventRow(row(`<td><img src="../../../images/err.png"></td><td>1-1-1</td><td>Rack On Fire</td>`))
	assert.ErrorIs(t, err, ErrUnrecognizedValue)

	_, _, err = ParseEventRow(row(`<td><img src="../../../images/bad.png"></td><td>1-1-1</td><td>Branch Failure</td>`))
	assert.ErrorIs(t, err, ErrUnrecognizedValue)
}
