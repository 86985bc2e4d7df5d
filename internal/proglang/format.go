package proglang

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	nan    = math.NaN()
	posInf = math.Inf(1)
	negInf = math.Inf(-1)

	errUnterminatedQuote = errors.New("unterminated quoted string")
)

// Format renders v in the textual sample encoding, so that
// t.ParseValue(Format(v)) reproduces v for the int, double and string
// representation types.
func Format(v Value) string {
	switch val := v.(type) {
	case Null:
		return "null"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return formatFloat(float64(val))
	case String:
		return `"` + Escape(string(val)) + `"`
	case IntArray:
		parts := make([]string, len(val))
		for i, x := range val {
			parts[i] = strconv.FormatInt(x, 10)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case FloatArray:
		parts := make([]string, len(val))
		for i, x := range val {
			parts[i] = formatFloat(x)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case StringArray:
		parts := make([]string, len(val))
		for i, x := range val {
			parts[i] = Format(x)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return "<invalid>"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Escape backslash-escapes s for use inside double quotes. Control
// characters without a short escape use three-digit octal.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteByte('\\')
				b.WriteString(leftPad(strconv.FormatInt(int64(r), 8), 3))
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses Escape. Octal escapes denote code points, so \377 is
// U+00FF. Unknown escapes yield the escaped character itself; a trailing
// lone backslash is kept.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '0', '1', '2', '3':
			if i+2 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) {
				n, _ := strconv.ParseUint(s[i:i+3], 8, 8)
				b.WriteRune(rune(n))
				i += 2
				continue
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
