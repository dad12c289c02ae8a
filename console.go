package fanlog

import (
	"io"
	"os"
	"strings"
	"sync"
)

// ANSI styles per level; prefix text is dimmed
var levelColors = map[int64]string{
	LevelDebug:    "\x1b[36m",
	LevelInfo:     "\x1b[32m",
	LevelWarning:  "\x1b[33m",
	LevelError:    "\x1b[31m",
	LevelCritical: "\x1b[1;31m",
}

const (
	colorDim   = "\x1b[2m"
	colorReset = "\x1b[0m"
)

// ConsoleOptions configures a ConsoleHandler
type ConsoleOptions struct {
	HandlerOptions
	Target string    // "stdout" or "stderr", ignored when Writer is set
	Writer io.Writer // Explicit destination, mainly for tests
}

// ConsoleHandler writes colored lines to a terminal stream
type ConsoleHandler struct {
	handlerBase
	target string
	w      io.Writer
	mu     sync.Mutex
}

// NewConsoleHandler creates an unconfigured console handler
func NewConsoleHandler(opts ConsoleOptions) *ConsoleHandler {
	h := &ConsoleHandler{target: opts.Target, w: opts.Writer}
	h.init(opts.HandlerOptions)
	return h
}

// Setup resolves the output stream
func (h *ConsoleHandler) Setup() error {
	return h.setup(func() error {
		if h.w != nil {
			return nil
		}
		switch h.target {
		case "", "stdout":
			h.w = os.Stdout
		case "stderr":
			h.w = os.Stderr
		default:
			return fmtErrorf("invalid console target: '%s' (use stdout or stderr)", h.target)
		}
		return nil
	})
}

// Handle writes rec if it passes the threshold
func (h *ConsoleHandler) Handle(rec *Record) error {
	return h.handle(rec, h.colorize, h.Log)
}

// Log writes msg followed by a newline
func (h *ConsoleHandler) Log(msg string) error {
	if err := h.checkReady(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	b.Grow(len(msg) + 1)
	b.WriteString(msg)
	b.WriteByte('\n')
	if _, err := io.WriteString(h.w, b.String()); err != nil {
		return fmtErrorf("failed to write to console: %w", err)
	}
	return nil
}

// Destroy has nothing to release for standard streams
func (h *ConsoleHandler) Destroy() {
	h.destroy(func() {
		if s, ok := h.w.(interface{ Sync() error }); ok && h.w != os.Stdout && h.w != os.Stderr {
			_ = s.Sync()
		}
	})
}

// colorize styles the template prefix and the message part independently
func (h *ConsoleHandler) colorize(rec *Record) string {
	if h.opts.NoColor {
		return h.render(rec)
	}
	color, ok := levelColors[rec.Level()]
	if !ok {
		return h.render(rec)
	}

	prefix, rest := h.opts.Formatter.split()
	if rest == nil {
		return color + h.render(rec) + colorReset
	}
	lookup := recordLookup(rec, h.opts.DatetimeFormat, h.opts.DateFormatter)

	var b strings.Builder
	if prefix != nil {
		b.WriteString(colorDim)
		b.WriteString(prefix.Expand(lookup))
		b.WriteString(colorReset)
	}
	b.WriteString(color)
	b.WriteString(rest.Expand(lookup))
	b.WriteString(colorReset)
	return b.String()
}
