package fanlog

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/fanlog/formatter"
)

// MessageFunc defers message construction until a record is known to be processed
type MessageFunc func() string

// Logger owns a level gate and an ordered list of handlers.
// Each record is handed to handlers sequentially, in registration order.
type Logger struct {
	name     string
	level    atomic.Int64
	mu       sync.RWMutex
	handlers []Handler
	internal InternalLogger
	now      func() time.Time
}

// NewLogger creates a logger with the given name and threshold
func NewLogger(name string, level int64) *Logger {
	l := &Logger{
		name:     name,
		internal: stderrInternalLog,
		now:      time.Now,
	}
	l.level.Store(level)
	return l
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the threshold
func (l *Logger) Level() int64 {
	return l.level.Load()
}

// SetLevel changes the threshold
func (l *Logger) SetLevel(level int64) {
	l.level.Store(level)
}

// SetInternalLogger redirects dispatch diagnostics; nil discards them
func (l *Logger) SetInternalLogger(fn InternalLogger) {
	if fn == nil {
		fn = discardInternalLog
	}
	l.mu.Lock()
	l.internal = fn
	l.mu.Unlock()
}

// AddHandler sets h up if needed and appends it. Setup errors are returned
// and the handler is not added.
func (l *Logger) AddHandler(h Handler) error {
	if h == nil {
		return fmtErrorf("handler cannot be nil")
	}
	if err := h.Setup(); err != nil {
		return err
	}
	l.mu.Lock()
	l.handlers = append(l.handlers, h)
	l.mu.Unlock()
	return nil
}

// RemoveHandler detaches h without destroying it
func (l *Logger) RemoveHandler(h Handler) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, cur := range l.handlers {
		if cur == h {
			l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Handlers returns a snapshot of the handler list
func (l *Logger) Handlers() []Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make([]Handler, len(l.handlers))
	copy(cp, l.handlers)
	return cp
}

// Enabled reports whether a record at level would reach at least one handler
func (l *Logger) Enabled(level int64) bool {
	if level < l.level.Load() {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, h := range l.handlers {
		if h.Enabled(level) {
			return true
		}
	}
	return false
}

// Close destroys every handler and detaches them
func (l *Logger) Close() {
	l.mu.Lock()
	handlers := l.handlers
	l.handlers = nil
	l.mu.Unlock()

	for _, h := range handlers {
		h.Destroy()
	}
}

// Debug logs at DEBUG
func (l *Logger) Debug(msg any, args ...any) {
	l.emit(LevelDebug, "", msg, args)
}

// Info logs at INFO
func (l *Logger) Info(msg any, args ...any) {
	l.emit(LevelInfo, "", msg, args)
}

// Warning logs at WARNING
func (l *Logger) Warning(msg any, args ...any) {
	l.emit(LevelWarning, "", msg, args)
}

// Error logs at ERROR
func (l *Logger) Error(msg any, args ...any) {
	l.emit(LevelError, "", msg, args)
}

// Critical logs at CRITICAL
func (l *Logger) Critical(msg any, args ...any) {
	l.emit(LevelCritical, "", msg, args)
}

// Log logs at an arbitrary level
func (l *Logger) Log(level int64, msg any, args ...any) {
	l.emit(level, "", msg, args)
}

// emit gates, builds the record and fans it out. msg is resolved only after
// the gate passes, so a MessageFunc is never called for rejected records.
func (l *Logger) emit(level int64, category string, msg any, args []any) {
	if !l.Enabled(level) {
		return
	}

	rec := newRecord(l.name, category, level, messageText(msg), args, l.now())

	l.mu.RLock()
	handlers := l.handlers
	internal := l.internal
	l.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(rec); err != nil {
			internal("handler %T failed for logger '%s': %v", h, l.name, err)
		}
	}
}

// messageText converts a message argument to text
func messageText(msg any) string {
	switch m := msg.(type) {
	case string:
		return m
	case MessageFunc:
		return m()
	case func() string:
		return m()
	case fmt.Stringer:
		return m.String()
	case error:
		return m.Error()
	default:
		return formatter.Value(m)
	}
}
