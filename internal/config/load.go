package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE []byte

// Load reads a config file, choosing the format by extension (.yaml, .yml
// or .cue), and applies it on top of the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".cue":
		return LoadCUE(data, path)
	}
	return nil, &Error{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("unsupported config format: %s", path)}
}

// LoadYAML applies a nested YAML document on top of the defaults.
func LoadYAML(data []byte) (*Settings, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	s := Defaults()
	if err := s.Merge(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Merge sets every value in doc, which may nest switch names by their
// dotted segments ({"oneof": {"size": 3}}) or spell them out
// ({"oneof.size": 3}). On error s may be partially updated.
func (s *Settings) Merge(doc map[string]any) error {
	flat := make(map[string]any)
	flattenYAML("", doc, flat)
	return s.setAll(flat)
}

func flattenYAML(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenYAML(name, nested, out)
			continue
		}
		out[name] = v
	}
}

// LoadCUE unifies a CUE document with the closed config schema, requires
// it to be concrete, and applies it on top of the defaults.
func LoadCUE(data []byte, filename string) (*Settings, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	flat := make(map[string]any)
	if err := flattenCUE("", unified, flat); err != nil {
		return nil, err
	}
	return apply(flat)
}

func flattenCUE(prefix string, v cue.Value, out map[string]any) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		if prefix != "" {
			name = prefix + "." + name
		}
		val := iter.Value()
		switch val.Kind() {
		case cue.StructKind:
			if err := flattenCUE(name, val, out); err != nil {
				return err
			}
		case cue.BoolKind:
			b, _ := val.Bool()
			out[name] = b
		case cue.IntKind:
			n, err := val.Int64()
			if err != nil {
				return formatCUEError(err)
			}
			out[name] = n
		case cue.FloatKind, cue.NumberKind:
			f, _ := val.Float64()
			out[name] = f
		case cue.ListKind:
			list, err := val.List()
			if err != nil {
				return formatCUEError(err)
			}
			strs := []string{}
			for list.Next() {
				str, err := list.Value().String()
				if err != nil {
					return formatCUEError(err)
				}
				strs = append(strs, str)
			}
			out[name] = strs
		default:
			return &Error{Code: ErrCodeBadValue, Switch: name, Message: fmt.Sprintf("unsupported CUE kind %s", val.Kind()), Pos: val.Pos()}
		}
	}
	return nil
}

// apply sets flat values on defaults.
func apply(flat map[string]any) (*Settings, error) {
	s := Defaults()
	if err := s.setAll(flat); err != nil {
		return nil, err
	}
	return s, nil
}

// setAll sets values in name order, so the first error is deterministic.
func (s *Settings) setAll(flat map[string]any) error {
	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.Set(name, flat[name]); err != nil {
			return err
		}
	}
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: ErrCodeLoadFailed, Message: err.Error()}
	}
	first := errs[0]
	ce := &Error{Code: ErrCodeLoadFailed, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
