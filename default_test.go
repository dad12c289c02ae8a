package fanlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultLogger verifies Setup, the package-level functions and Shutdown
func TestDefaultLogger(t *testing.T) {
	defer Shutdown()

	// No-ops before Setup
	assert.Nil(t, Default())
	Info("dropped")

	cfg := DefaultConfig()
	cfg.EnableConsole = false
	cfg.Level = "debug"
	require.NoError(t, Setup(cfg))

	h := newMemoryHandler(HandlerOptions{Formatter: Template("{level} {msg}")})
	require.NoError(t, Default().AddHandler(h))

	Debug("d")
	Info("i {0}", 1)
	Warning("w")
	Error("e")
	Critical("c")
	assert.Equal(t, []string{"DEBUG d", "INFO i 1", "WARNING w", "ERROR e", "CRITICAL c"}, h.Lines())

	// Replacing the default closes the previous one
	require.NoError(t, Setup(cfg))
	assert.False(t, h.Ready())

	bad := DefaultConfig()
	bad.Level = "loud"
	assert.Error(t, Setup(bad))
	assert.NotNil(t, Default())

	Shutdown()
	assert.Nil(t, Default())
}
