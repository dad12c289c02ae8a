package fanlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConsole(t *testing.T, opts HandlerOptions) (*ConsoleHandler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleOptions{HandlerOptions: opts, Writer: &buf})
	require.NoError(t, h.Setup())
	t.Cleanup(h.Destroy)
	return h, &buf
}

// TestConsoleColors verifies the prefix is dimmed and the message carries the level color
func TestConsoleColors(t *testing.T) {
	h, buf := createTestConsole(t, HandlerOptions{Formatter: Template("[{level}] {msg}")})

	require.NoError(t, h.Handle(testRecord(LevelInfo, "hello")))
	assert.Equal(t, colorDim+"[INFO] "+colorReset+levelColors[LevelInfo]+"hello"+colorReset+"\n", buf.String())
}

func TestConsoleColorsWithoutPrefix(t *testing.T) {
	h, buf := createTestConsole(t, HandlerOptions{Formatter: Template("{msg} ({level})")})

	require.NoError(t, h.Handle(testRecord(LevelError, "bad")))
	assert.Equal(t, levelColors[LevelError]+"bad (ERROR)"+colorReset+"\n", buf.String())
}

func TestConsoleColorsTemplateWithoutMsg(t *testing.T) {
	h, buf := createTestConsole(t, HandlerOptions{Formatter: Template("{level}")})

	require.NoError(t, h.Handle(testRecord(LevelWarning, "ignored")))
	assert.Equal(t, levelColors[LevelWarning]+"WARNING"+colorReset+"\n", buf.String())
}

func TestConsoleCustomLevelIsPlain(t *testing.T) {
	h, buf := createTestConsole(t, HandlerOptions{Formatter: Template("{level} {msg}")})

	require.NoError(t, h.Handle(testRecord(25, "between")))
	assert.Equal(t, "LEVEL(25) between\n", buf.String())
}

// TestConsoleNoColor verifies plain output and stripping of embedded sequences
func TestConsoleNoColor(t *testing.T) {
	h, buf := createTestConsole(t, HandlerOptions{Formatter: Template("[{level}] {msg}"), NoColor: true})

	require.NoError(t, h.Handle(testRecord(LevelCritical, "\x1b[1mbold\x1b[0m")))
	assert.Equal(t, "[CRITICAL] bold\n", buf.String())
}

// TestConsoleLog verifies Log writes the message verbatim
func TestConsoleLog(t *testing.T) {
	h, buf := createTestConsole(t, HandlerOptions{})

	require.NoError(t, h.Log("raw \x1b[32mline\x1b[0m"))
	assert.Equal(t, "raw \x1b[32mline\x1b[0m\n", buf.String())
}

func TestConsoleTargets(t *testing.T) {
	for _, target := range []string{"", "stdout", "stderr"} {
		h := NewConsoleHandler(ConsoleOptions{Target: target})
		assert.NoError(t, h.Setup(), target)
		h.Destroy()
	}

	h := NewConsoleHandler(ConsoleOptions{Target: "printer"})
	assert.Error(t, h.Setup())
	assert.False(t, h.Ready())
}
