package smd

import (
	"testing"

	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/OpenCHAMI/mpx/internal/format"
	"github.com/OpenCHAMI/mpx/pkg/idmap"
	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(host string) collect.Snapshot {
	snap := collect.NewSnapshot(host)
	snap.Receptacles = mpx.ReceptacleList{
		{Location: mpx.Location{PDU: 1, Branch: 2, Receptacle: 3}, Enabled: true, Status: mpx.SeverityOK, Label: "node-01"},
		{Location: mpx.Location{PDU: 1, Branch: 1, Receptacle: 1}, Status: mpx.SeverityOK, Label: "node-02"},
	}
	return snap
}

func TestFromSnapshot(t *testing.T) {
	mapper, err := idmap.PickIDMapper(`{"map_key":"pdu-host","id_map":{"pdu-a":"x3000m0"}}`, format.FORMAT_JSON)
	require.NoError(t, err)

	export, err := FromSnapshot(testSnapshot("pdu-a"), mapper)
	require.NoError(t, err)

	assert.Equal(t, "x3000m0", export.Endpoint.ID)
	assert.Equal(t, TypeController, export.Endpoint.Type)
	assert.Equal(t, []Outlet{
		{ID: "1-2-3", Name: "node-01", State: "On"},
		{ID: "1-1-1", Name: "node-02", State: "Off"},
	}, export.Endpoint.PDUInventory.Outlets)

	require.Len(t, export.Connectors, 2)
	c := export.Connectors[0]
	assert.Equal(t, "x3000m0p1v23", c.ID)
	assert.Equal(t, TypePowerConnector, c.Type)
	assert.Equal(t, "x3000m0", c.RedfishEndpointID)
	assert.Equal(t, "/dp/std:1.2.3_0.0.0/rpc/rpcReceptacle.htm", c.OdataID)
	assert.Equal(t, "node-01", c.RedfishOutletInfo.Name)
	assert.Equal(t, "x3000m0p1v11", export.Connectors[1].ID)
}

func TestFromSnapshotsCollectsErrors(t *testing.T) {
	mapper, err := idmap.PickIDMapper("", format.FORMAT_JSON)
	require.NoError(t, err)

	failed := testSnapshot("x1000m1")
	failed.Error = "timeout"
	exports, errs := FromSnapshots([]collect.Snapshot{
		testSnapshot("x1000m0.mgmt"),
		testSnapshot("pdu-unmapped"),
		failed,
	}, mapper)

	require.Len(t, exports, 1)
	assert.Equal(t, "x1000m0", exports[0].Endpoint.ID)
	assert.Len(t, errs, 2)
}
