package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelWarn)

	l.Info("booking id=%d created", 1)
	l.Warn("slot %s is taken", "10:00-11:00")
	l.Error("claim failed: %v", "timeout")

	out := buf.String()
	assert.NotContains(t, out, "created")
	assert.Contains(t, out, "[WARN] slot 10:00-11:00 is taken")
	assert.Contains(t, out, "[ERROR] claim failed: timeout")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing %d", 1)
	assert.NoError(t, l.Close())
}
