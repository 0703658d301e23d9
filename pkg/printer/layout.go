package printer

import (
	"strings"
	"unicode/utf8"
)

// Layout renders fixed-width plain text for thermal paper. It has no
// control codes so the same output can go to any transport.
type Layout struct {
	sb    strings.Builder
	width int
}

// Column is one fixed-width cell in a table row.
type Column struct {
	Width int
	Right bool
}

// NewLayout creates a layout with the given character width
// (32 for 58mm paper, 40 to 48 for 80mm).
func NewLayout(width int) *Layout {
	if width <= 0 {
		width = 40
	}
	return &Layout{width: width}
}

// Width returns the line width in characters.
func (l *Layout) Width() int {
	return l.width
}

// Line writes s truncated to the line width.
func (l *Layout) Line(s string) *Layout {
	l.sb.WriteString(Truncate(s, l.width))
	l.sb.WriteByte('\n')
	return l
}

// Blank writes an empty line.
func (l *Layout) Blank() *Layout {
	l.sb.WriteByte('\n')
	return l
}

// Center writes s centered on the line. Empty strings are skipped.
func (l *Layout) Center(s string) *Layout {
	if s == "" {
		return l
	}
	s = Truncate(s, l.width)
	pad := (l.width - utf8.RuneCountInString(s)) / 2
	l.sb.WriteString(strings.Repeat(" ", pad))
	l.sb.WriteString(s)
	l.sb.WriteByte('\n')
	return l
}

// Wrap writes s over as many lines as needed, breaking between words.
func (l *Layout) Wrap(s string) *Layout {
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= l.width:
			line += " " + word
		default:
			l.Line(line)
			line = word
		}
	}
	if line != "" {
		l.Line(line)
	}
	return l
}

// Separator writes a full-width rule.
func (l *Layout) Separator(char byte) *Layout {
	l.sb.WriteString(strings.Repeat(string(char), l.width))
	l.sb.WriteByte('\n')
	return l
}

// KeyValue writes a left-aligned key and right-aligned value on one line.
func (l *Layout) KeyValue(key, value string) *Layout {
	spaces := l.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		key = Truncate(key, l.width-utf8.RuneCountInString(value)-1)
		spaces = 1
	}
	l.sb.WriteString(key)
	l.sb.WriteString(strings.Repeat(" ", spaces))
	l.sb.WriteString(value)
	l.sb.WriteByte('\n')
	return l
}

// Row writes one table row. Each value is truncated to its column width.
func (l *Layout) Row(cols []Column, values ...string) *Layout {
	var row strings.Builder
	for i, col := range cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		if col.Right {
			row.WriteString(PadLeft(v, col.Width))
		} else {
			row.WriteString(PadRight(v, col.Width))
		}
	}
	l.sb.WriteString(strings.TrimRight(row.String(), " "))
	l.sb.WriteByte('\n')
	return l
}

// String returns the rendered text.
func (l *Layout) String() string {
	return l.sb.String()
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// PadRight truncates or pads s with spaces to exactly n characters.
func PadRight(s string, n int) string {
	s = Truncate(s, n)
	return s + strings.Repeat(" ", n-utf8.RuneCountInString(s))
}

// PadLeft truncates or left-pads s with spaces to exactly n characters.
func PadLeft(s string, n int) string {
	s = Truncate(s, n)
	return strings.Repeat(" ", n-utf8.RuneCountInString(s)) + s
}
