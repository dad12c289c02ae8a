package fanlog

// CategoryLogger stamps a category label on records and delegates to its parent
type CategoryLogger struct {
	parent   *Logger
	category string
}

// WithCategory returns a logger whose records carry the given category
func (l *Logger) WithCategory(category string) *CategoryLogger {
	return &CategoryLogger{parent: l, category: category}
}

// Category returns the label
func (c *CategoryLogger) Category() string { return c.category }

// Logger returns the parent logger
func (c *CategoryLogger) Logger() *Logger { return c.parent }

// Debug logs at DEBUG
func (c *CategoryLogger) Debug(msg any, args ...any) {
	c.parent.emit(LevelDebug, c.category, msg, args)
}

// Info logs at INFO
func (c *CategoryLogger) Info(msg any, args ...any) {
	c.parent.emit(LevelInfo, c.category, msg, args)
}

// Warning logs at WARNING
func (c *CategoryLogger) Warning(msg any, args ...any) {
	c.parent.emit(LevelWarning, c.category, msg, args)
}

// Error logs at ERROR
func (c *CategoryLogger) Error(msg any, args ...any) {
	c.parent.emit(LevelError, c.category, msg, args)
}

// Critical logs at CRITICAL
func (c *CategoryLogger) Critical(msg any, args ...any) {
	c.parent.emit(LevelCritical, c.category, msg, args)
}

// Log logs at an arbitrary level
func (c *CategoryLogger) Log(level int64, msg any, args ...any) {
	c.parent.emit(level, c.category, msg, args)
}
