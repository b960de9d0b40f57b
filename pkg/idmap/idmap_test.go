package idmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenCHAMI/mpx/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseController(t *testing.T) {
	c, err := ParseController("x3000m1")
	require.NoError(t, err)
	assert.Equal(t, 3000, c.Cabinet)
	assert.Equal(t, 1, c.CabinetPDUController)
	assert.Equal(t, "x3000m1", c.String())

	for _, bad := range []string{"", "pdu-a", "x3000c0s1b0", "x3000m0p0"} {
		_, err := ParseController(bad)
		assert.Error(t, err, bad)
	}
}

func TestGeneratedMapper(t *testing.T) {
	mapper, err := PickIDMapper("", format.FORMAT_JSON)
	require.NoError(t, err)

	assert.Equal(t, "x1000m0", mapper.GetMappedID(&MapperKeys{Host: "x1000m0.mgmt.example.com:443"}))
	assert.Equal(t, "x1000m2", mapper.GetMappedID(&MapperKeys{Host: "10.1.0.5", Label: "x1000m2"}))
	assert.Empty(t, mapper.GetMappedID(&MapperKeys{Host: "pdu-a", Label: "rack 12"}))
}

func TestUserProvidedMapperInline(t *testing.T) {
	mapper, err := PickIDMapper(`{"map_key":"pdu-host","id_map":{"pdu-a":"x3000m0"}}`, format.FORMAT_JSON)
	require.NoError(t, err)
	assert.Equal(t, "x3000m0", mapper.GetMappedID(&MapperKeys{Host: "pdu-a"}))
	assert.Empty(t, mapper.GetMappedID(&MapperKeys{Host: "pdu-b"}))
}

func TestUserProvidedMapperFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.yaml")
	doc := "map_key: pdu-label\nid_map:\n  rack-12-pdu-a: x3000m1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	mapper, err := PickIDMapper("@"+path, format.FORMAT_JSON)
	require.NoError(t, err)
	assert.Equal(t, "x3000m1", mapper.GetMappedID(&MapperKeys{Host: "pdu-a", Label: "rack-12-pdu-a"}))
}

func TestUserProvidedMapperErrors(t *testing.T) {
	tests := map[string]string{
		"bad key":   `{"map_key":"bmc-ip-addr","id_map":{}}`,
		"bad xname": `{"map_key":"pdu-host","id_map":{"pdu-a":"node7"}}`,
		"bad json":  `{`,
		"no file":   "@/does/not/exist.yaml",
	}
	for name, idMap := range tests {
		_, err := PickIDMapper(idMap, format.FORMAT_JSON)
		assert.Error(t, err, name)
	}
}
