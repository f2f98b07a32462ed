package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debugw("hidden")
	log.Warnw("skipping foreign dependency", "package", "rhttp")
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN skipping foreign dependency")
	assert.Contains(t, out, `"package": "rhttp"`)
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debugw("shown")
	_ = log.Sync()

	assert.Contains(t, buf.String(), "DEBUG shown")
}
