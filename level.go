package fanlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLevel converts a level name or numeric string to its level constant.
func ParseLevel(levelStr string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	switch s {
	case "notset":
		return LevelNotSet, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
		return n, nil
	}
	return 0, fmtErrorf("invalid level string: '%s' (use notset, debug, info, warning, error, critical)", levelStr)
}

// levelToString returns the canonical name for a level
func levelToString(level int64) string {
	switch level {
	case LevelNotSet:
		return "NOTSET"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
