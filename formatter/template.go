// Package formatter expands "{name}" placeholder templates against a caller
// supplied lookup and renders arbitrary values as log text.
package formatter

import (
	"strings"
)

// Lookup resolves a placeholder name. A false result, or a nil value, leaves
// the placeholder text in the output unchanged.
type Lookup func(name string) (any, bool)

// segment is either literal text or a placeholder name
type segment struct {
	text  string
	field bool
}

// Template is a parsed placeholder template, safe for concurrent use
type Template struct {
	src  string
	segs []segment
}

// Parse splits src into literal and placeholder segments.
// An unterminated "{" or an empty "{}" is kept as literal text.
func Parse(src string) *Template {
	t := &Template{src: src}
	rest := src
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.appendLiteral(rest)
			break
		}
		end := strings.IndexByte(rest[open+1:], '}')
		if end < 0 {
			t.appendLiteral(rest)
			break
		}
		name := rest[open+1 : open+1+end]
		// A nested "{" starts the placeholder over at the inner brace
		if inner := strings.LastIndexByte(name, '{'); inner >= 0 {
			t.appendLiteral(rest[:open+1+inner])
			rest = rest[open+1+inner:]
			continue
		}
		t.appendLiteral(rest[:open])
		if name == "" {
			t.appendLiteral("{}")
		} else {
			t.segs = append(t.segs, segment{text: name, field: true})
		}
		rest = rest[open+end+2:]
	}
	return t
}

func (t *Template) appendLiteral(s string) {
	if s == "" {
		return
	}
	if n := len(t.segs); n > 0 && !t.segs[n-1].field {
		t.segs[n-1].text += s
		return
	}
	t.segs = append(t.segs, segment{text: s})
}

// String returns the source template
func (t *Template) String() string {
	return t.src
}

// Fields returns placeholder names in order of appearance
func (t *Template) Fields() []string {
	var names []string
	for _, s := range t.segs {
		if s.field {
			names = append(names, s.text)
		}
	}
	return names
}

// Expand replaces every placeholder with its rendered value
func (t *Template) Expand(lookup Lookup) string {
	var b strings.Builder
	b.Grow(len(t.src) + 32)
	for _, s := range t.segs {
		if !s.field {
			b.WriteString(s.text)
			continue
		}
		var (
			v  any
			ok bool
		)
		if lookup != nil {
			v, ok = lookup(s.text)
		}
		if !ok || v == nil {
			b.WriteByte('{')
			b.WriteString(s.text)
			b.WriteByte('}')
			continue
		}
		b.WriteString(Value(v))
	}
	return b.String()
}

// Split cuts the template before the first occurrence of the named
// placeholder. prefix is nil when the placeholder is absent or leads the template.
func (t *Template) Split(field string) (prefix *Template, rest *Template) {
	for i, s := range t.segs {
		if s.field && s.text == field {
			if i == 0 {
				return nil, t
			}
			return fromSegments(t.segs[:i]), fromSegments(t.segs[i:])
		}
	}
	return nil, t
}

// fromSegments rebuilds a template and its source text from segments
func fromSegments(segs []segment) *Template {
	var b strings.Builder
	for _, s := range segs {
		if s.field {
			b.WriteByte('{')
			b.WriteString(s.text)
			b.WriteByte('}')
		} else {
			b.WriteString(s.text)
		}
	}
	cp := make([]segment, len(segs))
	copy(cp, segs)
	return &Template{src: b.String(), segs: cp}
}

// Expand parses and expands src in one step
func Expand(src string, lookup Lookup) string {
	if strings.IndexByte(src, '{') < 0 {
		return src
	}
	return Parse(src).Expand(lookup)
}
