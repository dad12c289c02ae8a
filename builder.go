package fanlog

import (
	"time"
)

// NewFromConfig validates cfg and builds a logger with the handlers it enables.
// If any handler fails to set up, the ones already set up are destroyed.
func NewFromConfig(cfg *Config, extra ...Handler) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := ParseLevel(cfg.Level)
	logger := NewLogger(cfg.Name, level)

	internal := discardInternalLog
	if cfg.InternalErrorsToStderr {
		internal = stderrInternalLog
	}
	logger.SetInternalLogger(internal)

	base := HandlerOptions{
		Formatter:      Template(cfg.Format),
		DatetimeFormat: cfg.DatetimeFormat,
		NoColor:        cfg.NoColor,
		InternalLog:    internal,
	}

	var handlers []Handler
	if cfg.EnableConsole {
		opts := base
		opts.Level = handlerLevel(cfg.ConsoleLevel)
		handlers = append(handlers, NewConsoleHandler(ConsoleOptions{
			HandlerOptions: opts,
			Target:         cfg.ConsoleTarget,
		}))
	}
	if cfg.EnableFile {
		opts := base
		opts.Level = handlerLevel(cfg.FileLevel)
		// Files never carry color sequences
		opts.NoColor = true
		mode, _ := ParseFileMode(cfg.FileMode)
		handlers = append(handlers, NewRotatingFileHandler(RotatingFileOptions{
			HandlerOptions: opts,
			Filename:       cfg.FilePath,
			Mode:           mode,
			MaxBytes:       cfg.FileMaxBytes,
			MaxBackupCount: int(cfg.FileMaxBackups),
		}))
	}
	if cfg.EnableRemote {
		opts := base
		opts.Level = handlerLevel(cfg.RemoteLevel)
		opts.NoColor = true
		handlers = append(handlers, NewRemoteHandler(RemoteOptions{
			HandlerOptions: opts,
			Token:          cfg.RemoteToken,
			ChatID:         cfg.RemoteChatID,
			Project:        cfg.RemoteProject,
			BaseURL:        cfg.RemoteBaseURL,
			Interval:       time.Duration(cfg.RemoteIntervalMs) * time.Millisecond,
			FlushTimeout:   time.Duration(cfg.RemoteFlushTimeoutMs) * time.Millisecond,
		}))
	}
	handlers = append(handlers, extra...)

	for _, h := range handlers {
		if err := logger.AddHandler(h); err != nil {
			logger.Close()
			return nil, err
		}
	}

	return logger, nil
}

// handlerLevel maps an empty per-handler level to NOTSET
func handlerLevel(s string) int64 {
	if s == "" {
		return LevelNotSet
	}
	level, _ := ParseLevel(s)
	return level
}

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg      *Config
	handlers []Handler
	err      error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewFromConfig(b.cfg, b.handlers...)
}

// Config returns a copy of the accumulated configuration.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Name sets the logger name.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Level sets the dispatcher threshold from a level name.
func (b *Builder) Level(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = level
	return b
}

// Format sets the placeholder template.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// DatetimeFormat sets the {datetime} layout.
func (b *Builder) DatetimeFormat(layout string) *Builder {
	b.cfg.DatetimeFormat = layout
	return b
}

// NoColor disables color sequences on every handler.
func (b *Builder) NoColor(noColor bool) *Builder {
	b.cfg.NoColor = noColor
	return b
}

// Console enables or disables console output.
func (b *Builder) Console(enabled bool) *Builder {
	b.cfg.EnableConsole = enabled
	return b
}

// ConsoleTarget sets the console stream, "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// ConsoleLevel sets the console threshold.
func (b *Builder) ConsoleLevel(level string) *Builder {
	return b.handlerLevel(&b.cfg.ConsoleLevel, level)
}

// File enables the rotating file handler at path.
func (b *Builder) File(path string) *Builder {
	b.cfg.EnableFile = true
	b.cfg.FilePath = path
	return b
}

// FileMode sets how the file handler opens its active file.
func (b *Builder) FileMode(mode FileMode) *Builder {
	b.cfg.FileMode = string(mode)
	return b
}

// Rotation sets the rotation byte threshold and backup count.
func (b *Builder) Rotation(maxBytes int64, maxBackups int64) *Builder {
	b.cfg.FileMaxBytes = maxBytes
	b.cfg.FileMaxBackups = maxBackups
	return b
}

// FileLevel sets the file threshold.
func (b *Builder) FileLevel(level string) *Builder {
	return b.handlerLevel(&b.cfg.FileLevel, level)
}

// Remote enables the remote handler.
func (b *Builder) Remote(token, chatID, project string) *Builder {
	b.cfg.EnableRemote = true
	b.cfg.RemoteToken = token
	b.cfg.RemoteChatID = chatID
	b.cfg.RemoteProject = project
	return b
}

// RemoteBaseURL overrides the remote API root.
func (b *Builder) RemoteBaseURL(url string) *Builder {
	b.cfg.RemoteBaseURL = url
	return b
}

// RemoteInterval sets the minimum spacing between deliveries.
func (b *Builder) RemoteInterval(d time.Duration) *Builder {
	b.cfg.RemoteIntervalMs = d.Milliseconds()
	return b
}

// RemoteFlushTimeout sets the shutdown delivery budget.
func (b *Builder) RemoteFlushTimeout(d time.Duration) *Builder {
	b.cfg.RemoteFlushTimeoutMs = d.Milliseconds()
	return b
}

// RemoteLevel sets the remote threshold.
func (b *Builder) RemoteLevel(level string) *Builder {
	return b.handlerLevel(&b.cfg.RemoteLevel, level)
}

// Handler appends a pre-built handler after the configured ones.
func (b *Builder) Handler(h Handler) *Builder {
	if b.err != nil {
		return b
	}
	if h == nil {
		b.err = fmtErrorf("handler cannot be nil")
		return b
	}
	b.handlers = append(b.handlers, h)
	return b
}

// InternalErrorsToStderr sets whether to write internal errors to stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Override applies "key=value" strings on top of the current values.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.cfg.ApplyOverride(overrides...)
	return b
}

func (b *Builder) handlerLevel(dst *string, level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	*dst = level
	return b
}
