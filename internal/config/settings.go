package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Settings is a typed store of switch values.
//
// Thread-safety: Settings is safe for concurrent reads. Mutation (Set,
// Override, loading) happens before the settings are handed to the engine.
type Settings struct {
	values map[string]any
}

// Defaults returns settings holding every switch's default.
func Defaults() *Settings {
	s := &Settings{values: make(map[string]any, len(switches))}
	for _, sw := range switches {
		s.values[sw.Name] = cloneValue(sw.Default)
	}
	return s
}

// Clone returns an independent copy.
func (s *Settings) Clone() *Settings {
	c := &Settings{values: maps.Clone(s.values)}
	for k, v := range c.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	if ss, ok := v.([]string); ok {
		return slices.Clone(ss)
	}
	return v
}

// Get returns the value of a switch.
func (s *Settings) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Bool returns a bool switch. Unknown names and kind mismatches panic:
// switch names are compile-time constants.
func (s *Settings) Bool(name string) bool { return mustGet[bool](s, name) }

// Int returns an int switch.
func (s *Settings) Int(name string) int { return mustGet[int](s, name) }

// Float returns a float switch.
func (s *Settings) Float(name string) float64 { return mustGet[float64](s, name) }

// Strings returns a copy of a strings switch.
func (s *Settings) Strings(name string) []string {
	return slices.Clone(mustGet[[]string](s, name))
}

func mustGet[T any](s *Settings, name string) T {
	v, ok := s.values[name].(T)
	if !ok {
		panic(fmt.Sprintf("config: switch %q is not a %T", name, v))
	}
	return v
}

// Set assigns a switch, converting compatible numeric and list types.
func (s *Settings) Set(name string, v any) error {
	sw, ok := Lookup(name)
	if !ok {
		return &Error{Code: ErrCodeUnknownSwitch, Switch: name, Message: "no such switch"}
	}
	conv, err := convert(sw, v)
	if err != nil {
		return err
	}
	s.values[name] = conv
	return nil
}

func convert(sw Switch, v any) (any, error) {
	switch sw.Kind {
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt:
		switch n := v.(type) {
		case int:
			return checkRange(sw, n)
		case int64:
			return checkRange(sw, int(n))
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return checkProbability(sw, n)
		case int:
			return checkProbability(sw, float64(n))
		case int64:
			return checkProbability(sw, float64(n))
		}
	case KindStrings:
		switch l := v.(type) {
		case []string:
			return slices.Clone(l), nil
		case []any:
			out := make([]string, 0, len(l))
			for _, e := range l {
				str, ok := e.(string)
				if !ok {
					return nil, badValue(sw.Name, v, sw.Kind)
				}
				out = append(out, str)
			}
			return out, nil
		}
	}
	return nil, badValue(sw.Name, v, sw.Kind)
}

func checkRange(sw Switch, n int) (any, error) {
	if n < 0 {
		return nil, &Error{Code: ErrCodeBadValue, Switch: sw.Name, Message: fmt.Sprintf("%d must not be negative", n)}
	}
	return n, nil
}

func checkProbability(sw Switch, f float64) (any, error) {
	if f < 0 || f > 1 {
		return nil, &Error{Code: ErrCodeBadValue, Switch: sw.Name, Message: fmt.Sprintf("%g is not in [0,1]", f)}
	}
	return f, nil
}

// Override applies a "name=value" assignment, parsing value by the
// switch's kind. Strings switches take a comma-separated list.
func (s *Settings) Override(assign string) error {
	name, text, ok := strings.Cut(assign, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return &Error{Code: ErrCodeBadValue, Message: fmt.Sprintf("override %q is not name=value", assign)}
	}
	sw, known := Lookup(name)
	if !known {
		return &Error{Code: ErrCodeUnknownSwitch, Switch: name, Message: "no such switch"}
	}
	text = strings.TrimSpace(text)

	var v any
	var err error
	switch sw.Kind {
	case KindBool:
		v, err = strconv.ParseBool(text)
	case KindInt:
		v, err = strconv.Atoi(text)
	case KindFloat:
		v, err = strconv.ParseFloat(text, 64)
	case KindStrings:
		list := []string{}
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		v = list
	}
	if err != nil {
		return badValue(name, text, sw.Kind)
	}
	return s.Set(name, v)
}

// Format renders a switch value for display.
func (s *Settings) Format(name string) string {
	switch v := s.values[name].(type) {
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
