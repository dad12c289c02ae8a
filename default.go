package fanlog

import (
	"sync/atomic"
)

// Process-scoped logger used by the package-level functions
var defaultLogger atomic.Pointer[Logger]

// Setup builds a logger from cfg and installs it as the default.
// The previous default, if any, is closed.
func Setup(cfg *Config) error {
	logger, err := NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if prev := defaultLogger.Swap(logger); prev != nil {
		prev.Close()
	}
	return nil
}

// Default returns the installed logger, or nil before Setup
func Default() *Logger {
	return defaultLogger.Load()
}

// Shutdown closes the default logger and uninstalls it. Nothing calls this
// automatically on process exit.
func Shutdown() {
	if prev := defaultLogger.Swap(nil); prev != nil {
		prev.Close()
	}
}

// Debug logs a message at debug level
func Debug(msg any, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.emit(LevelDebug, "", msg, args)
	}
}

// Info logs a message at info level
func Info(msg any, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.emit(LevelInfo, "", msg, args)
	}
}

// Warning logs a message at warning level
func Warning(msg any, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.emit(LevelWarning, "", msg, args)
	}
}

// Error logs a message at error level
func Error(msg any, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.emit(LevelError, "", msg, args)
	}
}

// Critical logs a message at critical level
func Critical(msg any, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.emit(LevelCritical, "", msg, args)
	}
}
