package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelSet(t *testing.T) {
	var ll LogLevel
	require.NoError(t, ll.Set("WARN"))
	assert.Equal(t, WARN, ll)
	assert.Error(t, ll.Set("verbose"))
	assert.Equal(t, WARN, ll)
}

func TestLogLevelMapping(t *testing.T) {
	tests := map[LogLevel]zerolog.Level{
		DEBUG:    zerolog.DebugLevel,
		INFO:     zerolog.InfoLevel,
		DISABLED: zerolog.Disabled,
		TRACE:    zerolog.TraceLevel,
	}
	for ll, want := range tests {
		got, err := ll.Level()
		require.NoError(t, err)
		assert.Equal(t, want, got, ll)
	}
	_, err := LogLevel("loud").Level()
	assert.Error(t, err)
}

func TestInitWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpx.log")
	require.NoError(t, InitWithLogLevel(INFO, path))
	t.Cleanup(func() {
		_ = Close()
		log.Logger = zerolog.New(os.Stderr)
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	log.Debug().Msg("hidden")
	log.Info().Str("host", "pdu-a").Msg("visible")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"host":"pdu-a"`)
	assert.NotContains(t, string(b), "hidden")

	assert.Error(t, InitWithLogLevel("loud", ""))
}
