package fanlog

import (
	"time"

	"github.com/lixenwraith/fanlog/formatter"
)

// Record is an immutable snapshot of one log event
type Record struct {
	message  string
	args     []any
	level    int64
	name     string
	category string
	created  time.Time
}

// NewRecord builds a record stamped with the current time.
// args is copied; later changes to the caller's slice are not observed.
func NewRecord(name string, level int64, message string, args ...any) *Record {
	return newRecord(name, "", level, message, args, time.Now())
}

func newRecord(name, category string, level int64, message string, args []any, created time.Time) *Record {
	var cp []any
	if len(args) > 0 {
		cp = make([]any, len(args))
		copy(cp, args)
	}
	return &Record{
		message:  message,
		args:     cp,
		level:    level,
		name:     name,
		category: category,
		created:  created,
	}
}

// Message returns the raw message before argument substitution
func (r *Record) Message() string { return r.message }

// Args returns a copy of the positional arguments
func (r *Record) Args() []any {
	if len(r.args) == 0 {
		return nil
	}
	cp := make([]any, len(r.args))
	copy(cp, r.args)
	return cp
}

// Level returns the numeric level
func (r *Record) Level() int64 { return r.level }

// LevelName returns the canonical level name
func (r *Record) LevelName() string { return levelToString(r.level) }

// Name returns the logger name
func (r *Record) Name() string { return r.name }

// Category returns the optional category label
func (r *Record) Category() string { return r.category }

// Time returns the creation timestamp
func (r *Record) Time() time.Time { return r.created }

// Text returns the message with "{n}" and mapping placeholders resolved
// against the record arguments
func (r *Record) Text() string {
	if len(r.args) == 0 {
		return r.message
	}
	return formatter.Expand(r.message, r.argLookup)
}

// argLookup resolves numeric names by index and other names against a
// mapping passed as the first argument
func (r *Record) argLookup(name string) (any, bool) {
	if idx, ok := parseIndex(name); ok {
		if idx < len(r.args) {
			return r.args[idx], true
		}
		return nil, false
	}
	if len(r.args) > 0 {
		if lookup := formatter.MapLookup(r.args[0]); lookup != nil {
			return lookup(name)
		}
	}
	return nil, false
}

// parseIndex accepts non-negative decimal integers only
func parseIndex(name string) (int, bool) {
	if name == "" || len(name) > 9 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
