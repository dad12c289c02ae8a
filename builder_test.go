package fanlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewFromConfig verifies handlers are built from configuration
func TestNewFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := DefaultConfig()
	cfg.Name = "svc"
	cfg.Level = "debug"
	cfg.Format = "{name} {level} {msg}"
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.FilePath = path
	cfg.FileLevel = "info"

	logger, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "svc", logger.Name())
	assert.Equal(t, LevelDebug, logger.Level())
	require.Len(t, logger.Handlers(), 1)

	logger.Debug("below file threshold")
	logger.Info("\x1b[32mgreen\x1b[0m")
	logger.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "svc INFO green\n", string(data))
}

func TestNewFromConfigDefaults(t *testing.T) {
	logger, err := NewFromConfig(nil)
	require.NoError(t, err)
	defer logger.Close()

	handlers := logger.Handlers()
	require.Len(t, handlers, 1)
	assert.IsType(t, &ConsoleHandler{}, handlers[0])
}

func TestNewFromConfigRemote(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableConsole = false
	cfg.EnableRemote = true
	cfg.RemoteToken = "t"
	cfg.RemoteChatID = "c"
	cfg.RemoteBaseURL = "http://127.0.0.1:1"
	cfg.RemoteFlushTimeoutMs = 10
	cfg.InternalErrorsToStderr = false

	logger, err := NewFromConfig(cfg)
	require.NoError(t, err)

	handlers := logger.Handlers()
	require.Len(t, handlers, 1)
	remote, ok := handlers[0].(*RemoteHandler)
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, remote.interval)
	assert.Equal(t, 10*time.Millisecond, remote.flushTimeout)
	logger.Close()
}

// TestNewFromConfigRollback verifies handlers already set up are destroyed when a later one fails
func TestNewFromConfigRollback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableConsole = false

	good := newMemoryHandler(HandlerOptions{})
	bad := newMemoryHandler(HandlerOptions{})
	bad.Destroy()

	_, err := NewFromConfig(cfg, good, bad)
	assert.ErrorIs(t, err, ErrHandlerDestroyed)
	assert.False(t, good.Ready())

	cfg.Level = "loud"
	_, err = NewFromConfig(cfg)
	assert.Error(t, err)
}

// TestBuilder verifies the fluent API produces the expected configuration
func TestBuilder(t *testing.T) {
	cfg, err := NewBuilder().
		Name("api").
		Level("warning").
		Format("{level} {msg}").
		DatetimeFormat(time.RFC3339).
		NoColor(true).
		Console(true).
		ConsoleTarget("stdout").
		ConsoleLevel("error").
		File("/tmp/api.log").
		FileMode(ModeTruncate).
		Rotation(1024, 3).
		FileLevel("info").
		Remote("token", "chat", "api").
		RemoteBaseURL("http://localhost:8081").
		RemoteInterval(250 * time.Millisecond).
		RemoteFlushTimeout(time.Second).
		RemoteLevel("critical").
		InternalErrorsToStderr(false).
		Config()
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, "warning", cfg.Level)
	assert.Equal(t, "{level} {msg}", cfg.Format)
	assert.Equal(t, time.RFC3339, cfg.DatetimeFormat)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "stdout", cfg.ConsoleTarget)
	assert.Equal(t, "error", cfg.ConsoleLevel)
	assert.True(t, cfg.EnableFile)
	assert.Equal(t, "/tmp/api.log", cfg.FilePath)
	assert.Equal(t, string(ModeTruncate), cfg.FileMode)
	assert.Equal(t, int64(1024), cfg.FileMaxBytes)
	assert.Equal(t, int64(3), cfg.FileMaxBackups)
	assert.Equal(t, "info", cfg.FileLevel)
	assert.True(t, cfg.EnableRemote)
	assert.Equal(t, "token", cfg.RemoteToken)
	assert.Equal(t, "chat", cfg.RemoteChatID)
	assert.Equal(t, "api", cfg.RemoteProject)
	assert.Equal(t, "http://localhost:8081", cfg.RemoteBaseURL)
	assert.Equal(t, int64(250), cfg.RemoteIntervalMs)
	assert.Equal(t, int64(1000), cfg.RemoteFlushTimeoutMs)
	assert.Equal(t, "critical", cfg.RemoteLevel)
	assert.False(t, cfg.InternalErrorsToStderr)
}

// TestBuilderErrors verifies the first error is kept and returned by Build
func TestBuilderErrors(t *testing.T) {
	_, err := NewBuilder().Level("loud").Name("ignored").Build()
	assert.Error(t, err)

	_, err = NewBuilder().FileLevel("nope").Build()
	assert.Error(t, err)

	_, err = NewBuilder().Handler(nil).Build()
	assert.Error(t, err)

	_, err = NewBuilder().Override("no_color=perhaps").Config()
	assert.Error(t, err)
}

func TestBuilderBuild(t *testing.T) {
	h := newMemoryHandler(HandlerOptions{Formatter: Template("{msg}")})
	logger, err := NewBuilder().
		Console(false).
		Override("level=debug").
		Handler(h).
		Build()
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("built")
	assert.Equal(t, []string{"built"}, h.Lines())
}
