package fanlog

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/fanlog/sanitizer"
)

// Handler consumes records that meet its threshold.
// Lifecycle: Setup moves an unconfigured handler to ready; Destroy is terminal,
// idempotent and never fails.
type Handler interface {
	// Setup acquires resources; failures are fatal and leave nothing acquired
	Setup() error
	// Handle gates, formats and writes a record
	Handle(rec *Record) error
	// Log writes an already formatted message
	Log(msg string) error
	// Destroy releases resources, best-effort
	Destroy()
	// Level returns the threshold
	Level() int64
	// Enabled reports whether a record at level passes the threshold
	Enabled(level int64) bool
}

var (
	_ Handler = (*ConsoleHandler)(nil)
	_ Handler = (*RotatingFileHandler)(nil)
	_ Handler = (*RemoteHandler)(nil)
)

// HandlerOptions holds settings shared by all handlers
type HandlerOptions struct {
	Level          int64         // Threshold, records below are ignored
	Formatter      Formatter     // Template or callback, zero value uses DefaultTemplate
	DatetimeFormat string        // Layout for {datetime}
	NoColor        bool          // Strip color sequences before Log
	DateFormatter  DateFormatter // Renders {datetime}, defaults to time.Format
	StripColor     func(string) string
	InternalLog    InternalLogger // Receives handler diagnostics, defaults to stderr
}

// withDefaults fills collaborators left unset
func (o HandlerOptions) withDefaults() HandlerOptions {
	if o.DatetimeFormat == "" {
		o.DatetimeFormat = DefaultDatetimeFormat
	}
	if o.DateFormatter == nil {
		o.DateFormatter = defaultDateFormatter
	}
	if o.StripColor == nil {
		o.StripColor = sanitizer.StripANSI
	}
	if o.InternalLog == nil {
		o.InternalLog = stderrInternalLog
	}
	return o
}

// handlerBase implements the lifecycle state machine and the Handle pipeline
type handlerBase struct {
	opts    HandlerOptions
	state   atomic.Int32
	level   atomic.Int64
	setupMu sync.Mutex

	handled atomic.Uint64 // Records that passed the gate
}

// init applies options; called once by the owning handler constructor
func (b *handlerBase) init(opts HandlerOptions) {
	b.opts = opts.withDefaults()
	b.level.Store(opts.Level)
}

// Level returns the threshold
func (b *handlerBase) Level() int64 {
	return b.level.Load()
}

// SetLevel changes the threshold
func (b *handlerBase) SetLevel(level int64) {
	b.level.Store(level)
}

// Enabled reports whether level passes the threshold
func (b *handlerBase) Enabled(level int64) bool {
	return level >= b.level.Load()
}

// Ready reports whether setup completed and destroy has not run
func (b *handlerBase) Ready() bool {
	return b.state.Load() == stateReady
}

// setup runs acquire once; a ready handler is left untouched
func (b *handlerBase) setup(acquire func() error) error {
	b.setupMu.Lock()
	defer b.setupMu.Unlock()

	switch b.state.Load() {
	case stateReady:
		return nil
	case stateDestroyed:
		return ErrHandlerDestroyed
	}
	if err := acquire(); err != nil {
		return err
	}
	b.state.Store(stateReady)
	return nil
}

// destroy runs release at most once, after a successful setup
func (b *handlerBase) destroy(release func()) {
	b.setupMu.Lock()
	defer b.setupMu.Unlock()

	prev := b.state.Swap(stateDestroyed)
	if prev != stateReady || release == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.internalLog("handler destroy panicked: %v", r)
		}
	}()
	release()
}

// checkReady returns the lifecycle error for a handler not accepting writes
func (b *handlerBase) checkReady() error {
	switch b.state.Load() {
	case stateReady:
		return nil
	case stateDestroyed:
		return ErrHandlerDestroyed
	default:
		return ErrNotConfigured
	}
}

// handle is the shared pipeline: gate, render, optional color strip, log
func (b *handlerBase) handle(rec *Record, render func(*Record) string, log func(string) error) error {
	if rec == nil || !b.Enabled(rec.Level()) {
		return nil
	}
	if err := b.checkReady(); err != nil {
		return err
	}
	b.handled.Add(1)

	msg := render(rec)
	if b.opts.NoColor {
		msg = b.opts.StripColor(msg)
	}
	return log(msg)
}

// render formats a record with the handler formatter
func (b *handlerBase) render(rec *Record) string {
	return b.opts.Formatter.Format(rec, b.opts.DatetimeFormat, b.opts.DateFormatter)
}

func (b *handlerBase) internalLog(format string, args ...any) {
	b.opts.InternalLog(format, args...)
}
