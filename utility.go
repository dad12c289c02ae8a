package fanlog

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors, checkable with errors.Is
var (
	ErrInvalidThreshold   = errors.New("fanlog: invalid rotation threshold")
	ErrMissingCredentials = errors.New("fanlog: missing remote credentials")
	ErrFileExists         = errors.New("fanlog: log file already exists")
	ErrNotConfigured      = errors.New("fanlog: handler not set up")
	ErrHandlerDestroyed   = errors.New("fanlog: handler destroyed")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "fanlog: ") {
		format = "fanlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// InternalLogger receives library diagnostics
type InternalLogger func(format string, args ...any)

// stderrInternalLog writes diagnostics to stderr with the package prefix
func stderrInternalLog(format string, args ...any) {
	if !strings.HasPrefix(format, "fanlog: ") {
		format = "fanlog: " + format
	}
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// discardInternalLog drops diagnostics
func discardInternalLog(string, ...any) {}
