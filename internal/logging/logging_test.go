package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", &buf)
	require.NoError(t, err)

	logger.WithField("set", "Base Set").Debug("scan")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), `set="Base Set"`)
}

func TestNew_DefaultLevelHidesInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}
