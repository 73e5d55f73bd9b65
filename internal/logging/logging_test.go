package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	l, err := New(Config{Level: "debug", Format: "JSON"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(Config{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_BadLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loud"`)
}

func TestNormalizeFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "json", normalizeFormat(" Json "))
	assert.Equal(t, "console", normalizeFormat(""))
	assert.Equal(t, "console", normalizeFormat("text"))
}
