package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(DisableAll)

	Configure("nav, fs")
	assert.Equal(t, []Category{FS, NAV}, ListEnabled())
	assert.False(t, IsEnabled(OPS))

	Configure("all")
	assert.True(t, IsEnabled(FS_ENTRY))

	Configure("none")
	assert.Empty(t, ListEnabled())
}

func TestLogRespectsCategory(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		DisableAll()
		SetOutput(&bytes.Buffer{})
	})

	Log(CACHE, "hidden %d", 1)
	assert.Zero(t, buf.Len())

	Enable(CACHE)
	Log(CACHE, "load gen=%d", 7)
	assert.Contains(t, buf.String(), "load gen=7")
	assert.Contains(t, buf.String(), "CACHE")

	Disable(CACHE)
	buf.Reset()
	Log(CACHE, "again")
	assert.Zero(t, buf.Len())
}
