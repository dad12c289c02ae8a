package compat

import (
	"fmt"
	"regexp"

	"github.com/lixenwraith/fanlog"
)

// keyValuePattern detects verbs introduced by a key, like "addr=%v" or "fd: %d"
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat pairs the keys found in a printf-style format with their
// arguments. It returns nil when the verbs cannot be matched up reliably.
func parseFormat(format string, args []any) map[string]any {
	matches := keyValuePattern.FindAllStringSubmatch(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return nil
	}

	fields := make(map[string]any, len(matches))
	for i, match := range matches {
		fields[match[1]] = args[i]
	}
	return fields
}

// StructuredGnetAdapter extracts key=value pairs from gnet format strings and
// passes them as the record's mapping argument, so templates can reference
// them as {key}
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(logger *fanlog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(logger, opts...),
		extractFields: true,
	}
}

// Debugf logs with structured field extraction
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.log(fanlog.LevelDebug, format, args)
}

// Infof logs with structured field extraction
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.log(fanlog.LevelInfo, format, args)
}

// Warnf logs with structured field extraction
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.log(fanlog.LevelWarning, format, args)
}

// Errorf logs with structured field extraction
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.log(fanlog.LevelError, format, args)
}

func (a *StructuredGnetAdapter) log(level int64, format string, args []any) {
	if !a.extractFields {
		a.logger.Log(level, sprintf(format, args))
		return
	}
	if fields := parseFormat(format, args); fields != nil {
		a.logger.Log(level, fmt.Sprintf(format, args...), fields)
		return
	}
	a.logger.Log(level, sprintf(format, args))
}
