// File: internal/dom/style.go
package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Declaration is one `property: value` pair of an inline style attribute.
type Declaration struct {
	Property string
	Value    string
}

// Style is an ordered inline style declaration block.
type Style []Declaration

// ParseStyle parses the contents of a style attribute. Malformed declarations are skipped.
func ParseStyle(s string) Style {
	var st Style
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		st = st.With(prop, val)
	}
	return st
}

// Get returns the value of a property, or "" if unset.
func (s Style) Get(prop string) string {
	for _, d := range s {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// With returns the block with prop set to value, replacing an earlier declaration in place.
func (s Style) With(prop, value string) Style {
	for i := range s {
		if s[i].Property == prop {
			s[i].Value = value
			return s
		}
	}
	return append(s, Declaration{Property: prop, Value: value})
}

// Without returns the block with prop removed.
func (s Style) Without(prop string) Style {
	out := s[:0]
	for _, d := range s {
		if d.Property != prop {
			out = append(out, d)
		}
	}
	return out
}

// String serializes the block back to attribute form.
func (s Style) String() string {
	parts := make([]string, 0, len(s))
	for _, d := range s {
		parts = append(parts, d.Property+": "+d.Value)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}

// StyleOf parses the element's style attribute.
func StyleOf(n *html.Node) Style {
	return ParseStyle(Attr(n, "style"))
}

// GetStyle returns a single inline style property.
func GetStyle(n *html.Node, prop string) string {
	return StyleOf(n).Get(prop)
}

// SetStyle sets a single inline style property, keeping the others.
func SetStyle(n *html.Node, prop, value string) {
	writeStyle(n, StyleOf(n).With(prop, value))
}

// RemoveStyle clears a single inline style property.
func RemoveStyle(n *html.Node, prop string) {
	writeStyle(n, StyleOf(n).Without(prop))
}

func writeStyle(n *html.Node, st Style) {
	if s := st.String(); s != "" {
		SetAttr(n, "style", s)
		return
	}
	RemoveAttr(n, "style")
}

// PX formats a pixel length the way inline styles expect it.
func PX(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// ParseLength resolves a CSS length against a reference size. Supported units are
// px, % and unitless numbers. ok is false for "auto", empty and unparsable values.
func ParseLength(value string, reference float64) (float64, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch {
	case value == "" || value == "auto":
		return 0, false
	case strings.HasSuffix(value, "%"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return 0, false
		}
		return reference * f / 100, true
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
