package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Console{Level: InfoLevel, Out: &out, Err: &errOut}

	c.Debug("hidden")
	c.Info("loading model")
	c.Warnf("version %d is old", 1)
	c.Error("line one\nline two")
	c.Output("result")
	c.Success("done")

	assert.Equal(t, "loading model\nversion 1 is old\nline one\nline two\n", errOut.String())
	assert.Equal(t, "result\ndone\n", out.String())
}

func TestConsoleColor(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Console{Level: DebugLevel, Color: true, Out: &out, Err: &errOut}

	c.Warn("careful")
	c.Success("done")

	assert.Contains(t, errOut.String(), "⚠ ")
	assert.Contains(t, errOut.String(), "careful")
	assert.Contains(t, out.String(), "✓ ")
}

func TestFormatTimeSince(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, strings.HasSuffix(FormatTimeSince(now.Add(-time.Minute), now), " ago"))
	assert.Contains(t, FormatTimeSince(now.Add(-3*time.Hour), now), "3 hours")
}
