package compat

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/lixenwraith/fanlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a goroutine-safe bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimRight(b.buf.String(), "\n"), "\n")
}

// createTestLogger returns a debug logger writing "[category] LEVEL msg" lines to a buffer
func createTestLogger(t *testing.T, format string) (*fanlog.Logger, *syncBuffer) {
	t.Helper()
	if format == "" {
		format = "[{category}] {level} {msg}"
	}
	out := &syncBuffer{}
	logger := fanlog.NewLogger("compat", fanlog.LevelDebug)
	logger.SetInternalLogger(nil)
	err := logger.AddHandler(fanlog.NewConsoleHandler(fanlog.ConsoleOptions{
		HandlerOptions: fanlog.HandlerOptions{
			Formatter: fanlog.Template(format),
			NoColor:   true,
		},
		Writer: out,
	}))
	require.NoError(t, err)
	t.Cleanup(logger.Close)
	return logger, out
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		logger, _ := createTestLogger(t, "")
		builder := NewBuilder().WithLogger(logger)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, logger, gnetAdapter.logger.Logger())

		got, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, logger, got)
	})

	t.Run("with config", func(t *testing.T) {
		cfg := fanlog.DefaultConfig()
		cfg.Name = "from-config"
		cfg.EnableConsole = false

		builder := NewBuilder().WithConfig(cfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)

		logger := fasthttpAdapter.logger.Logger()
		defer logger.Close()
		assert.Equal(t, "from-config", logger.Name())

		// Subsequent builds reuse the cached logger
		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, logger, gnetAdapter.logger.Logger())
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := fanlog.DefaultConfig()
		cfg.Level = "loud"
		_, err := NewBuilder().WithConfig(cfg).BuildFastHTTP()
		assert.Error(t, err)
	})
}

// TestGnetAdapter tests the gnet adapter's logging output and format
func TestGnetAdapter(t *testing.T) {
	logger, out := createTestLogger(t, "")

	var fatalMsg string
	adapter := NewGnetAdapter(logger, WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	assert.Equal(t, []string{
		"[gnet] DEBUG gnet debug id=1",
		"[gnet] INFO gnet info id=2",
		"[gnet] WARNING gnet warn id=3",
		"[gnet] ERROR gnet error id=4",
		"[gnet] CRITICAL gnet fatal id=5",
	}, out.lines())
	assert.Equal(t, "gnet fatal id=5", fatalMsg)

	// Fatalf closes the logger
	assert.Empty(t, logger.Handlers())
}

// TestGnetAdapterDefersFormatting checks that gated calls never format their arguments
func TestGnetAdapterDefersFormatting(t *testing.T) {
	logger, out := createTestLogger(t, "")
	logger.SetLevel(fanlog.LevelInfo)
	adapter := NewGnetAdapter(logger)

	called := false
	adapter.Debugf("value %v", stringerFunc(func() string {
		called = true
		return "x"
	}))

	assert.False(t, called)
	assert.Equal(t, []string{""}, out.lines())
}

type stringerFunc func() string

func (f stringerFunc) String() string { return f() }

// TestStructuredGnetAdapter tests the gnet adapter with structured field extraction
func TestStructuredGnetAdapter(t *testing.T) {
	logger, out := createTestLogger(t, "{level} addr={addr} fd={fd} | {msg}")
	adapter := NewStructuredGnetAdapter(logger)

	adapter.Infof("client connected addr=%s fd: %d", "10.0.0.1:5000", 7)
	adapter.Warnf("no structured fields %d", 3)

	lines := out.lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "INFO addr=10.0.0.1:5000 fd=7 | client connected addr=10.0.0.1:5000 fd: 7", lines[0])
	assert.Equal(t, "WARNING addr={addr} fd={fd} | no structured fields 3", lines[1])
}

func TestParseFormat(t *testing.T) {
	fields := parseFormat("user=%s count: %d", []any{"ana", 3})
	assert.Equal(t, map[string]any{"user": "ana", "count": 3}, fields)

	assert.Nil(t, parseFormat("plain %s", []any{"x"}))
	assert.Nil(t, parseFormat("a=%s b=%s", []any{"only-one"}))
}

// TestFastHTTPAdapter tests the fasthttp adapter's logging output and level detection
func TestFastHTTPAdapter(t *testing.T) {
	logger, out := createTestLogger(t, "")
	adapter := NewFastHTTPAdapter(logger)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	assert.Equal(t, []string{
		"[fasthttp] INFO this is some informational message",
		"[fasthttp] DEBUG a debug message for the developers",
		"[fasthttp] WARNING warning: something might be wrong",
		"[fasthttp] ERROR an error occurred while processing",
	}, out.lines())
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	logger, out := createTestLogger(t, "")
	adapter := NewFastHTTPAdapter(logger,
		WithDefaultLevel(fanlog.LevelWarning),
		WithLevelDetector(func(string) int64 { return fanlog.LevelNotSet }),
	)

	adapter.Printf("request %d failed", 42)
	assert.Equal(t, []string{"[fasthttp] WARNING request 42 failed"}, out.lines())
}

func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, fanlog.LevelError, DetectLogLevel("panic: boom"))
	assert.Equal(t, fanlog.LevelWarning, DetectLogLevel("field is deprecated"))
	assert.Equal(t, fanlog.LevelDebug, DetectLogLevel("trace id 7"))
	assert.Equal(t, fanlog.LevelNotSet, DetectLogLevel("hello"))
}
