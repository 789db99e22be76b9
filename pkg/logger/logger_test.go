package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBuffered(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	cfg.Colorize = false
	cfg.ShowTime = false
	cfg.Level = level
	cfg.Prefix = "test"
	return New(cfg), &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBuffered(WARN)
	l.Infof("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warnf("shown %d", 2)
	out := buf.String()
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "component=test")
}

func TestSetLevel(t *testing.T) {
	l, buf := newBuffered(INFO)
	l.Debug("quiet")
	assert.Empty(t, buf.String())

	l.SetLevel(DEBUG)
	l.Debug("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestWithField(t *testing.T) {
	l, buf := newBuffered(INFO)
	l.WithField("run", "abc").Info("stored")
	assert.Contains(t, buf.String(), "run=abc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
	assert.Equal(t, "FATAL", FATAL.String())
}
