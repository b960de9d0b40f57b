package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hosts []string

func (h hosts) Header() []string { return []string{"HOST", "N"} }

func (h hosts) Rows() [][]string {
	rows := make([][]string, len(h))
	for i, host := range h {
		rows[i] = []string{host, "1"}
	}
	return rows
}

func TestMarshal(t *testing.T) {
	data := map[string]string{"host": "pdu-a"}

	b, err := Marshal(data, FORMAT_JSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"host":"pdu-a"}`, string(b))

	b, err = Marshal(data, FORMAT_YAML)
	require.NoError(t, err)
	assert.Equal(t, "host: pdu-a\n", string(b))

	b, err = Marshal(hosts{"pdu-a", "pdu-bb"}, FORMAT_LIST)
	require.NoError(t, err)
	assert.Equal(t, "HOST    N\npdu-a   1\npdu-bb  1\n", string(b))

	_, err = Marshal(data, FORMAT_LIST)
	assert.Error(t, err)
	_, err = Marshal(data, "xml")
	assert.Error(t, err)
}

func TestUnmarshal(t *testing.T) {
	var v map[string]string
	require.NoError(t, Unmarshal([]byte("host: pdu-a\n"), &v, FORMAT_YAML))
	assert.Equal(t, "pdu-a", v["host"])
	assert.Error(t, Unmarshal([]byte("{"), &v, FORMAT_JSON))
	assert.Error(t, Unmarshal(nil, &v, FORMAT_LIST))
}

func TestDataFormatFromFileExt(t *testing.T) {
	assert.Equal(t, FORMAT_JSON, DataFormatFromFileExt("map.JSON", FORMAT_YAML))
	assert.Equal(t, FORMAT_YAML, DataFormatFromFileExt("map.yml", FORMAT_JSON))
	assert.Equal(t, FORMAT_LIST, DataFormatFromFileExt("map.txt", FORMAT_LIST))

	var df DataFormat
	assert.NoError(t, df.Set("yaml"))
	assert.Error(t, df.Set("db"))
}
