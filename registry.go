package fanlog

import (
	"sort"
	"sync"
)

// Registry hands out named loggers, creating them on first use
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
	level   int64
}

// NewRegistry creates a registry; loggers it creates start at level
func NewRegistry(level int64) *Registry {
	return &Registry{
		loggers: make(map[string]*Logger),
		level:   level,
	}
}

// Get returns the logger named name, creating an empty one if needed
func (r *Registry) Get(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loggers[name]; ok {
		return l
	}
	l := NewLogger(name, r.level)
	r.loggers[name] = l
	return l
}

// Register adds a logger under its own name
func (r *Registry) Register(l *Logger) error {
	if l == nil {
		return fmtErrorf("logger cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loggers[l.Name()]; ok {
		return fmtErrorf("logger '%s' already registered", l.Name())
	}
	r.loggers[l.Name()] = l
	return nil
}

// Names returns registered logger names in sorted order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every logger and empties the registry
func (r *Registry) Close() {
	r.mu.Lock()
	loggers := r.loggers
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()

	for _, l := range loggers {
		l.Close()
	}
}
