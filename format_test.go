package fanlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRecord(level int64, msg string, args ...any) *Record {
	return newRecord("app", "", level, msg, args, fixedTime)
}

// TestFormatterTemplate checks placeholder resolution against record fields
func TestFormatterTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		rec      *Record
		expected string
	}{
		{
			name:     "default template",
			template: "",
			rec:      testRecord(LevelInfo, "hello"),
			expected: "2024-01-02 03:04:05 [INFO] hello",
		},
		{
			name:     "builtin fields",
			template: "{name} {levelname} {levelno} {msg}",
			rec:      testRecord(LevelError, "oops"),
			expected: "app ERROR 40 oops",
		},
		{
			name:     "unresolved placeholder stays literal",
			template: "[{level}] {nope} {msg}",
			rec:      testRecord(LevelInfo, "x"),
			expected: "[INFO] {nope} x",
		},
		{
			name:     "positional arguments",
			template: "{msg} {0}|{1}|{2}",
			rec:      testRecord(LevelInfo, "args:", "a", 7),
			expected: "args: a|7|{2}",
		},
		{
			name:     "first argument mapping",
			template: "{user} did {action}",
			rec:      testRecord(LevelInfo, "ignored", map[string]any{"user": "ana", "action": "login"}),
			expected: "ana did login",
		},
		{
			name:     "builtin fields win over mapping",
			template: "{level}",
			rec:      testRecord(LevelWarning, "x", map[string]any{"level": "shadow"}),
			expected: "WARNING",
		},
		{
			name:     "nil mapping value stays literal",
			template: "{user}",
			rec:      testRecord(LevelInfo, "x", map[string]any{"user": nil}),
			expected: "{user}",
		},
		{
			name:     "message placeholders resolve inside msg",
			template: "{msg}",
			rec:      testRecord(LevelInfo, "{0} connected from {1}", "ana", "10.0.0.1"),
			expected: "ana connected from 10.0.0.1",
		},
		{
			name:     "message mapping placeholders",
			template: "{msg}",
			rec:      testRecord(LevelInfo, "user {user} missing {other}", map[string]string{"user": "ana"}),
			expected: "user ana missing {other}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Template(tt.template)
			if tt.template == "" {
				f = Formatter{}
			}
			assert.Equal(t, tt.expected, f.Format(tt.rec, DefaultDatetimeFormat, nil))
		})
	}
}

// TestFormatterDatetime checks layout and injected date formatter
func TestFormatterDatetime(t *testing.T) {
	rec := testRecord(LevelInfo, "tick")

	f := Template("{datetime} {msg}")
	assert.Equal(t, "03:04 tick", f.Format(rec, "15:04", nil))
	assert.Equal(t, "2024-01-02 03:04:05 tick", f.Format(rec, "", nil))

	stamp := func(layout string, ts time.Time) string {
		return "T" + layout + ts.Format("2006")
	}
	assert.Equal(t, "Tfoo2024 tick", f.Format(rec, "foo", stamp))
}

// TestFormatterCallback checks callback delegation
func TestFormatterCallback(t *testing.T) {
	f := Callback(func(rec *Record) string {
		return rec.LevelName() + "!" + rec.Text()
	})
	assert.True(t, f.IsCallback())
	assert.Empty(t, f.TemplateString())
	assert.Equal(t, "INFO!hi", f.Format(testRecord(LevelInfo, "hi"), "", nil))

	prefix, rest := f.split()
	assert.Nil(t, prefix)
	assert.Nil(t, rest)
}

func TestFormatterTemplateString(t *testing.T) {
	assert.Equal(t, DefaultTemplate, Formatter{}.TemplateString())
	assert.Equal(t, "{msg}", Template("{msg}").TemplateString())
	assert.False(t, Template("{msg}").IsCallback())
}
