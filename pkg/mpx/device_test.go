package mpx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	path string
	form Form
}

// fakeTransport serves fixture files by path and records posted forms.
type fakeTransport struct {
	pages map[string]string
	posts []post
	err   error
}

func (f *fakeTransport) Get(_ context.Context, path string) ([]byte, error) {
	name, ok := f.pages[path]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return os.ReadFile(filepath.Join("testdata", name))
}

func (f *fakeTransport) PostForm(_ context.Context, path string, form Form) error {
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, post{path, form})
	return nil
}

func TestDeviceReads(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{
		ReceptacleListPath:                    "receptacle-list.htm",
		ActiveAlarmsPath:                      "events-active.htm",
		PDUInfoPath(1):                        "pdu-info.htm",
		BranchInfoPath(1, 1):                  "branch-info.htm",
		ReceptacleInfoPath(Location{1, 1, 2}): "receptacle-info.htm",
	}}
	d := NewDevice(ft)
	ctx := context.Background()

	list, err := d.Receptacles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	events, err := d.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	pdu, err := d.PDUInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, EHAXXR30, pdu.Hardware.Model)

	branch, err := d.BranchInfo(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "branch-1", branch.Settings.Label)

	rcp, err := d.ReceptacleInfo(ctx, Location{1, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, "node-0042", rcp.Settings.Label)

	_, err = d.PDUInfo(ctx, 2)
	assert.ErrorContains(t, err, PDUInfoPath(2))
}

func TestDeviceWrapsParseErrors(t *testing.T) {
	// an alarm page served where the PDU page is expected
	ft := &fakeTransport{pages: map[string]string{PDUInfoPath(1): "events-none.htm"}}
	_, err := NewDevice(ft).PDUInfo(context.Background(), 1)
	require.ErrorIs(t, err, ErrStructure)
	assert.Contains(t, err.Error(), PDUInfoPath(1))
}

func TestDeviceCommands(t *testing.T) {
	ft := &fakeTransport{}
	d := NewDevice(ft)
	ctx := context.Background()
	loc := Location{1, 2, 3}

	require.NoError(t, d.ReceptacleReboot(ctx, loc))
	require.NoError(t, d.BranchResetEnergy(ctx, 1, 2))
	require.NoError(t, d.PDUTestEvent(ctx, 1))
	require.NoError(t, d.SetReceptacleSettings(ctx, loc, ReceptacleSettings{Label: "x"}))

	require.Len(t, ft.posts, 4)
	assert.Equal(t, ReceptacleCommandPath(loc), ft.posts[0].path)
	assert.Equal(t, ReceptacleReboot.Form(), ft.posts[0].form)
	assert.Equal(t, BranchCommandPath(1, 2), ft.posts[1].path)
	assert.Equal(t, PDUCommandPath(1), ft.posts[2].path)
	assert.Equal(t, ReceptacleSettingPath(loc), ft.posts[3].path)

	err := d.ReceptacleCommand(ctx, loc, ReceptacleCommand(42))
	assert.ErrorIs(t, err, ErrUnrecognizedValue)

	ft.err = errors.New("401 unauthorized")
	err = d.ReceptacleEnable(ctx, loc)
	assert.ErrorContains(t, err, "401 unauthorized")
}

func TestAccepted(t *testing.T) {
	for _, code := range []int{200, 204, 302, 303} {
		assert.True(t, Accepted(code), code)
	}
	for _, code := range []int{100, 400, 401, 500} {
		assert.False(t, Accepted(code), code)
	}
}
