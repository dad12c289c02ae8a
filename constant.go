package fanlog

import (
	"time"
)

// Log level constants, ordered NOTSET < DEBUG < INFO < WARNING < ERROR < CRITICAL
const (
	LevelNotSet   int64 = 0
	LevelDebug    int64 = 10
	LevelInfo     int64 = 20
	LevelWarning  int64 = 30
	LevelError    int64 = 40
	LevelCritical int64 = 50
)

// Defaults shared by handlers and config
const (
	DefaultTemplate       = "{datetime} [{level}] {msg}"
	DefaultDatetimeFormat = "2006-01-02 15:04:05"
)

// Remote delivery
const (
	defaultRemoteBaseURL      = "https://api.telegram.org"
	defaultRemoteInterval     = 500 * time.Millisecond
	defaultRemoteFlushTimeout = 2 * time.Second

	// Per-request bound for the HTTP transport
	defaultRemoteRequestTimeout = 10 * time.Second
)

// Handler lifecycle states
const (
	stateUnconfigured int32 = iota
	stateReady
	stateDestroyed
)
