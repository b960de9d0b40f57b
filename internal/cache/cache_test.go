package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/OpenCHAMI/mpx/pkg/markup"
	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "nested", "mpx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func loadPDUInfo(t *testing.T) *mpx.PDUInfo {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "..", "pkg", "mpx", "testdata", "pdu-info.htm"))
	require.NoError(t, err)
	defer f.Close()
	doc, err := markup.Parse(f)
	require.NoError(t, err)
	info, err := mpx.ParsePDUInfo(doc)
	require.NoError(t, err)
	return &info
}

func snapshot(host string, at time.Time) collect.Snapshot {
	snap := collect.NewSnapshot(host)
	snap.Timestamp = at
	snap.Receptacles = mpx.ReceptacleList{
		{Location: mpx.Location{PDU: 1, Branch: 1, Receptacle: 2}, Locked: true, Status: mpx.SeverityWarning, Label: "node-02"},
		{Location: mpx.Location{PDU: 1, Branch: 1, Receptacle: 1}, Enabled: true, Status: mpx.SeverityOK, Label: "node-01"},
	}
	snap.Events = mpx.EventList{
		{Severity: mpx.SeverityAlarm, Location: mpx.Location{PDU: 1, Branch: 4}, Type: mpx.BranchBreakerOpen},
		{Severity: mpx.SeverityInfo, Location: mpx.Location{PDU: 1}, Type: mpx.PDUCommunicationFail},
	}
	return snap
}

func TestInsertAndGetSnapshots(t *testing.T) {
	c := openTestCache(t)
	t0 := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	first := snapshot("pdu-a", t0)
	first.PDU = loadPDUInfo(t)
	failed := collect.NewSnapshot("pdu-b")
	failed.Timestamp = t0.Add(time.Minute)
	failed.Error = "failed to connect: dial failed"

	require.NoError(t, c.InsertSnapshots(first, failed))
	require.NoError(t, c.InsertSnapshots())

	snaps, err := c.GetSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	got := snaps[0]
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.Timestamp.Equal(t0))
	// receptacles come back in location order
	assert.Equal(t, mpx.ReceptacleList{first.Receptacles[1], first.Receptacles[0]}, got.Receptacles)
	assert.Equal(t, first.Events, got.Events)
	require.NotNil(t, got.PDU)
	assert.Equal(t, *first.PDU, *got.PDU)

	assert.Equal(t, "pdu-b", snaps[1].Host)
	assert.True(t, snaps[1].Failed())
	assert.Empty(t, snaps[1].Receptacles)
	assert.Nil(t, snaps[1].PDU)

	only, err := c.GetSnapshots("pdu-b", "pdu-z")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, failed.ID, only[0].ID)
}

func TestLatestSnapshots(t *testing.T) {
	c := openTestCache(t)
	t0 := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	oldA, newA := snapshot("pdu-a", t0), snapshot("pdu-a", t0.Add(time.Hour))
	onlyB := snapshot("pdu-b", t0.Add(time.Minute))
	require.NoError(t, c.InsertSnapshots(oldA, onlyB, newA))

	latest, err := c.LatestSnapshots()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, newA.ID, latest[0].ID)
	assert.Equal(t, onlyB.ID, latest[1].ID)

	latest, err = c.LatestSnapshots("pdu-a")
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, newA.ID, latest[0].ID)
}

func TestDeleteSnapshots(t *testing.T) {
	c := openTestCache(t)
	t0 := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.InsertSnapshots(
		snapshot("pdu-a", t0),
		snapshot("pdu-a", t0.Add(2*time.Hour)),
		snapshot("pdu-b", t0),
		snapshot("pdu-c", t0),
	))

	n, err := c.DeleteSnapshotsBefore(t0.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = c.DeleteSnapshots("pdu-b")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = c.DeleteSnapshots("pdu-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	snaps, err := c.GetSnapshots()
	require.NoError(t, err)
	assert.Empty(t, snaps)

	var orphans int
	require.NoError(t, c.db.Get(&orphans, "SELECT COUNT(*) FROM "+ReceptaclesTable))
	assert.Zero(t, orphans)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}
