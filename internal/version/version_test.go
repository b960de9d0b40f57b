package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version, GitCommit = saved, "" })

	Version, GitCommit = "", ""
	assert.Equal(t, "dev", VersionInfo())
	Version = "v0.1.0"
	assert.Equal(t, "v0.1.0", VersionInfo())
	GitCommit = "abc123"
	assert.Equal(t, "v0.1.0 (abc123)", VersionInfo())

	assert.Equal(t, runtime.Version(), Get().GoVersion)

	var buf bytes.Buffer
	PrintVersionInfo(&buf)
	assert.Contains(t, buf.String(), "Version: v0.1.0\n")
	assert.Contains(t, buf.String(), "Git Commit: abc123\n")
}
