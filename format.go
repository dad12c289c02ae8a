package fanlog

import (
	"time"

	"github.com/lixenwraith/fanlog/formatter"
)

// DateFormatter renders a timestamp with the given layout
type DateFormatter func(layout string, t time.Time) string

// defaultDateFormatter uses Go reference-time layouts
func defaultDateFormatter(layout string, t time.Time) string {
	return t.Format(layout)
}

// Formatter is either a placeholder template or a callback; the zero value
// formats with DefaultTemplate
type Formatter struct {
	template *formatter.Template
	callback func(*Record) string
}

// Template returns a formatter expanding tmpl against each record
func Template(tmpl string) Formatter {
	return Formatter{template: formatter.Parse(tmpl)}
}

// Callback returns a formatter delegating to fn
func Callback(fn func(*Record) string) Formatter {
	return Formatter{callback: fn}
}

// IsCallback reports whether the formatter delegates to a callback
func (f Formatter) IsCallback() bool {
	return f.callback != nil
}

// TemplateString returns the template source, empty for callbacks
func (f Formatter) TemplateString() string {
	if f.callback != nil {
		return ""
	}
	return f.parsed().String()
}

// parsed returns the template, falling back to the default one
func (f Formatter) parsed() *formatter.Template {
	if f.template == nil {
		return defaultTemplate
	}
	return f.template
}

var defaultTemplate = formatter.Parse(DefaultTemplate)

// Format renders rec with the given datetime layout and date formatter
func (f Formatter) Format(rec *Record, layout string, dates DateFormatter) string {
	if f.callback != nil {
		return f.callback(rec)
	}
	return f.parsed().Expand(recordLookup(rec, layout, dates))
}

// split cuts the template before the first {msg}; callbacks have no prefix
func (f Formatter) split() (prefix, rest *formatter.Template) {
	if f.callback != nil {
		return nil, nil
	}
	return f.parsed().Split("msg")
}

// recordLookup resolves template names against a record.
// Order: positional index, datetime, record fields, first-argument mapping.
func recordLookup(rec *Record, layout string, dates DateFormatter) formatter.Lookup {
	if dates == nil {
		dates = defaultDateFormatter
	}
	if layout == "" {
		layout = DefaultDatetimeFormat
	}
	return func(name string) (any, bool) {
		if _, ok := parseIndex(name); ok {
			return rec.argLookup(name)
		}
		switch name {
		case "datetime":
			return dates(layout, rec.Time()), true
		case "msg":
			return rec.Text(), true
		case "level", "levelname":
			return rec.LevelName(), true
		case "levelno":
			return rec.Level(), true
		case "name":
			return rec.Name(), true
		case "category":
			if rec.Category() == "" {
				return nil, false
			}
			return rec.Category(), true
		}
		return rec.argLookup(name)
	}
}
