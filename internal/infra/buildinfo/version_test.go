package buildinfo

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.BuildTime)
	assert.LessOrEqual(t, len(info.Commit), 12)
}

func TestGet_InjectedValuesWin(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })

	Version, Commit, BuildTime = "v1.2.3", "abcdef", "2026-01-01T00:00:00Z"

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abcdef", info.Commit)
	assert.Equal(t, "2026-01-01T00:00:00Z", info.BuildTime)
}

func TestString(t *testing.T) {
	s := String()
	assert.True(t, strings.HasPrefix(s, Version+" ("))
	assert.Contains(t, s, runtime.Version())
}
