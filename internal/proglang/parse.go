package proglang

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ParseValue interprets text as a value of type t, canonicalizing where
// possible. Only representation types need to be handled: int, double,
// java.lang.String (plus char, which the front ends sometimes emit) at
// depth 0 or 1. Anything else is a fatal *ParseError.
func (t *Type) ParseValue(text string) (Value, error) {
	switch t.dims {
	case 0:
		return t.parseScalar(text)
	case 1:
		return t.parseArray(text)
	default:
		return nil, unsupported(t, text)
	}
}

func (t *Type) parseScalar(text string) (Value, error) {
	switch t.base {
	case BaseString:
		if text == "null" {
			return Null{}, nil
		}
		quoted := isQuoted(text)
		if !quoted {
			t.reg.log().Warn("unquoted string value", "type", t.String(), "value", text)
		} else {
			text = text[1 : len(text)-1]
		}
		return String(norm.NFC.String(Unescape(text))), nil

	case BaseChar:
		n, err := parseChar(text)
		if err != nil {
			return nil, malformed(t, text, "bad character", err)
		}
		return Int(n), nil

	case BaseInt:
		n, err := parseIntToken(text)
		if err != nil {
			return nil, malformed(t, text, "bad integer", err)
		}
		return Int(n), nil

	case BaseDouble:
		f, err := parseDoubleToken(text)
		if err != nil {
			return nil, malformed(t, text, "bad floating-point number", err)
		}
		return Float(f), nil
	}
	return nil, unsupported(t, text)
}

func (t *Type) parseArray(text string) (Value, error) {
	text = strings.TrimSpace(text)

	// A bare null is an absent array, distinct from "[]".
	if text == "null" {
		return Null{}, nil
	}

	open := strings.HasPrefix(text, "[")
	closed := len(text) > 1 && strings.HasSuffix(text, "]")
	switch {
	case open && closed:
		text = strings.TrimSpace(text[1 : len(text)-1])
	case open || closed:
		return nil, malformed(t, text, "unbalanced array brackets", nil)
	default:
		t.reg.log().Warn("array value not enclosed in square brackets", "type", t.String(), "value", text)
	}

	switch t.base {
	case BaseInt, BaseChar:
		elems := strings.Fields(text)
		result := make(IntArray, len(elems))
		for i, e := range elems {
			n, err := t.parseIntElement(e)
			if err != nil {
				return nil, err
			}
			result[i] = n
		}
		return t.reg.interner.IntArray(result), nil

	case BaseDouble:
		elems := strings.Fields(text)
		result := make(FloatArray, len(elems))
		for i, e := range elems {
			if e == "null" {
				continue
			}
			f, err := parseDoubleToken(e)
			if err != nil {
				return nil, malformed(t, e, "bad floating-point array element", err)
			}
			result[i] = f
		}
		return t.reg.interner.FloatArray(result), nil

	case BaseString:
		tokens, err := tokenizeQuoted(text)
		if err != nil {
			return nil, malformed(t, text, "bad string array", err)
		}
		result := make(StringArray, len(tokens))
		for i, tok := range tokens {
			switch {
			case tok.quoted:
				result[i] = String(norm.NFC.String(tok.text))
			case tok.text == "null":
				result[i] = Null{}
			default:
				t.reg.log().Warn("unquoted string array element", "type", t.String(), "value", tok.text)
				result[i] = String(norm.NFC.String(tok.text))
			}
		}
		return t.reg.interner.StringArray(result), nil
	}
	return nil, unsupported(t, text)
}

func (t *Type) parseIntElement(e string) (int64, error) {
	if t.base == BaseChar && e != "null" {
		n, err := parseChar(e)
		if err != nil {
			return 0, malformed(t, e, "bad character array element", err)
		}
		return n, nil
	}
	n, err := parseIntToken(e)
	if err != nil {
		return 0, malformed(t, e, "bad integer array element", err)
	}
	return n, nil
}

// parseIntToken handles the boolean and null synonyms used by the front
// ends for int-represented variables.
func parseIntToken(s string) (int64, error) {
	switch s {
	case "false", "0", "null":
		return 0, nil
	case "true", "1":
		return 1, nil
	}
	return ParseLong(s)
}

// ParseLong is like strconv.ParseInt, but transforms large unsigned 64-bit
// values (as printed by C front ends for unsigned long long) into the
// corresponding negative two's-complement int64 instead of failing.
func ParseLong(s string) (int64, error) {
	if isLargeUnsigned(s) {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, err
		}
		return int64(u), nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// isLargeUnsigned detects unsigned values above MaxInt64 by length and
// leading digit. Equal-length digit strings compare numerically.
func isLargeUnsigned(s string) bool {
	switch len(s) {
	case 20:
		return s[0] == '1'
	case 19:
		return s[0] == '9' && s >= "9223372036854775808"
	}
	return false
}

// parseDoubleToken is case-insensitive for the special values because
// different front ends print "NaN", "nan", "Infinity" or "inf".
func parseDoubleToken(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "nan":
		return nan, nil
	case "infinity", "inf", "+infinity", "+inf":
		return posInf, nil
	case "-infinity", "-inf":
		return negInf, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseChar accepts a single character, a backslash escape pair, or a
// three-digit octal escape, and returns the character's ordinal.
func parseChar(s string) (int64, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return int64(r), nil
	}
	if len(s) == 2 && s[0] == '\\' {
		r, _ := utf8.DecodeRuneInString(Unescape(s))
		return int64(r), nil
	}
	if len(s) == 4 && s[0] == '\\' {
		n, err := strconv.ParseUint(s[1:], 8, 8)
		if err != nil {
			return 0, err
		}
		return int64(n), nil
	}
	return 0, strconv.ErrSyntax
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

type token struct {
	text   string
	quoted bool
}

// tokenizeQuoted splits s on whitespace, keeping double-quoted substrings
// (which may contain whitespace and escapes) as single tokens.
func tokenizeQuoted(s string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(s) {
		c := s[i]
		if isSpace(c) {
			i++
			continue
		}
		if c == '"' {
			j := i + 1
			for j < len(s) && s[j] != '"' {
				if s[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(s) {
				return nil, errUnterminatedQuote
			}
			tokens = append(tokens, token{text: Unescape(s[i+1 : j]), quoted: true})
			i = j + 1
			continue
		}
		j := i
		for j < len(s) && !isSpace(s[j]) {
			j++
		}
		tokens = append(tokens, token{text: s[i:j]})
		i = j
	}
	return tokens, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
