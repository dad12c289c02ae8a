package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/fanlog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps a fanlog.Logger to implement the gnet logging.Logger interface.
// Records carry the "gnet" category.
type GnetAdapter struct {
	logger       *fanlog.CategoryLogger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *fanlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger.WithCategory("gnet"),
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(sprintf(format, args))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info(sprintf(format, args))
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warning(sprintf(format, args))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error(sprintf(format, args))
}

// Fatalf logs at critical level, closes the logger so queued output is
// delivered, then triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Critical(msg)

	a.logger.Logger().Close()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// sprintf defers formatting until the record passes the level gate
func sprintf(format string, args []any) fanlog.MessageFunc {
	return func() string {
		return fmt.Sprintf(format, args...)
	}
}
