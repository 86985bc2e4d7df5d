package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/invgen/internal/config"
)

// marshalSettings converts settings to JSON TEXT for storage. Keys are
// switch names; encoding/json sorts map keys, so equal settings always
// produce identical text.
func marshalSettings(s *config.Settings) (string, error) {
	m := make(map[string]any)
	for _, sw := range config.Switches() {
		if v, ok := s.Get(sw.Name); ok {
			m[sw.Name] = v
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalSettings parses stored settings over the defaults. Switches
// unknown to this build are ignored so older databases stay readable.
func unmarshalSettings(data string) (*config.Settings, error) {
	s := config.Defaults()
	if data == "" || data == "{}" {
		return s, nil
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	for name, v := range m {
		sw, ok := config.Lookup(name)
		if !ok {
			continue
		}
		if n, isNum := v.(json.Number); isNum {
			var err error
			switch sw.Kind {
			case config.KindInt:
				v, err = n.Int64()
			default:
				v, err = n.Float64()
			}
			if err != nil {
				return nil, fmt.Errorf("unmarshal settings: %s: %w", name, err)
			}
		}
		if err := s.Set(name, v); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}
	return s, nil
}
