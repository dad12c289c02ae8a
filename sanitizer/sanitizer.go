// Package sanitizer provides a fluent and composable interface for sanitizing
// strings based on configurable rules using bitwise filter flags and transforms.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterHTMLSpecial                     // Matches '<', '>', '&', '"'
	FilterANSI                            // Matches whole ANSI escape sequences (ESC [ ... final byte)
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Removes the character or sequence
	TransformHexEncode                     // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformHTMLEscape                    // Replaces the character with its HTML entity
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Raw is a no-op (passthrough)
	PolicyTxt  PolicyPreset = "txt"  // Policy for sanitizing text written to log files
	PolicyANSI PolicyPreset = "ansi" // Policy for removing terminal color sequences
	PolicyHTML PolicyPreset = "html" // Policy for embedding text in HTML markup
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyANSI: {{filter: FilterANSI, transform: TransformStrip}},
	PolicyHTML: {{filter: FilterHTMLSpecial, transform: TransformHTMLEscape}},
}

// filterCheckers maps individual rune filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterHTMLSpecial: func(r rune) bool {
		switch r {
		case '<', '>', '&', '"':
			return true
		}
		return false
	},
}

var htmlEntities = map[rune]string{
	'<': "&lt;",
	'>': "&gt;",
	'&': "&amp;",
	'"': "&quot;",
}

// Sanitizer provides chainable text sanitization, not safe for concurrent use
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	s.buf = s.buf[:0]

	for i := 0; i < len(data); {
		if data[i] == 0x1b {
			if n := ansiSequenceLen(data[i:]); n > 0 {
				if rl, ok := s.sequenceRule(); ok {
					if rl.transform&TransformHexEncode != 0 {
						s.buf = appendHex(s.buf, data[i:i+n])
					}
					i += n
					continue
				}
			}
		}

		r, size := utf8.DecodeRuneInString(data[i:])
		i += size

		matched := false
		// Check rules in order (first match wins)
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				applyTransform(&s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}

	return string(s.buf)
}

// sequenceRule returns the first rule filtering ANSI sequences
func (s *Sanitizer) sequenceRule() (rule, bool) {
	for _, rl := range s.rules {
		if rl.filter&FilterANSI != 0 {
			return rl, true
		}
	}
	return rule{}, false
}

// ansiSequenceLen returns the byte length of a CSI or two-byte escape
// sequence at the start of s, or 0 if s does not start with one
func ansiSequenceLen(s string) int {
	if len(s) < 2 || s[0] != 0x1b {
		return 0
	}
	if s[1] != '[' {
		// Two-byte escapes such as ESC M
		if s[1] >= 0x40 && s[1] <= 0x5f {
			return 2
		}
		return 0
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if c >= 0x40 && c <= 0x7e {
			return i + 1
		}
		// Only parameter and intermediate bytes may precede the final byte
		if c < 0x20 || c > 0x7e {
			return 0
		}
	}
	return 0
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the buffer
func applyTransform(buf *[]byte, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:
		// Do nothing (strip)

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		*buf = appendHex(*buf, string(runeBytes[:n]))

	case (transformMask & TransformHTMLEscape) != 0:
		if entity, ok := htmlEntities[r]; ok {
			*buf = append(*buf, entity...)
		} else {
			*buf = utf8.AppendRune(*buf, r)
		}

	default:
		*buf = utf8.AppendRune(*buf, r)
	}
}

func appendHex(buf []byte, s string) []byte {
	buf = append(buf, '<')
	buf = append(buf, hex.EncodeToString([]byte(s))...)
	return append(buf, '>')
}

// StripANSI removes terminal escape sequences from s
func StripANSI(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			return New().Policy(PolicyANSI).Sanitize(s)
		}
	}
	return s
}

// Text hex-encodes non-printable runes in s, newlines and tabs included
func Text(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c >= 0x7f {
			return New().Policy(PolicyTxt).Sanitize(s)
		}
	}
	return s
}

// EscapeHTML replaces HTML special characters in s with entities
func EscapeHTML(s string) string {
	return New().Policy(PolicyHTML).Sanitize(s)
}
