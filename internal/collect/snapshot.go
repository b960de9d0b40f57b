package collect

import (
	"strconv"
	"time"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/google/uuid"
)

// Snapshot is what one poll of one PDU host saw. Error is set, and the
// readings may be partial, when the poll failed.
type Snapshot struct {
	ID          uuid.UUID          `json:"id" yaml:"id"`
	Host        string             `json:"host" yaml:"host"`
	Timestamp   time.Time          `json:"timestamp" yaml:"timestamp"`
	Receptacles mpx.ReceptacleList `json:"receptacles" yaml:"receptacles"`
	Events      mpx.EventList      `json:"events" yaml:"events"`
	PDU         *mpx.PDUInfo       `json:"pdu,omitempty" yaml:"pdu,omitempty"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

func NewSnapshot(host string) Snapshot {
	return Snapshot{
		ID:          uuid.New(),
		Host:        host,
		Timestamp:   time.Now().UTC(),
		Receptacles: mpx.ReceptacleList{},
		Events:      mpx.EventList{},
	}
}

func (s Snapshot) Failed() bool { return s.Error != "" }

func (s Snapshot) EnabledCount() int {
	n := 0
	for _, r := range s.Receptacles {
		if r.Enabled {
			n++
		}
	}
	return n
}

func (s Snapshot) EventCounts() map[mpx.Severity]int {
	counts := map[mpx.Severity]int{}
	for _, e := range s.Events {
		counts[e.Severity]++
	}
	return counts
}

// Snapshots prints as a one-line-per-host summary in the list format.
type Snapshots []Snapshot

func (s Snapshots) Header() []string {
	return []string{"HOST", "TIMESTAMP", "RECEPTACLES", "ON", "EVENTS", "ERROR"}
}

func (s Snapshots) Rows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, snap := range s {
		rows = append(rows, []string{
			snap.Host,
			snap.Timestamp.Format(time.RFC3339),
			strconv.Itoa(len(snap.Receptacles)),
			strconv.Itoa(snap.EnabledCount()),
			strconv.Itoa(len(snap.Events)),
			snap.Error,
		})
	}
	return rows
}
