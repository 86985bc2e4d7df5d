package proglang

import (
	"log/slog"
	"strings"
	"sync"
)

// typeKey identifies a canonical type within a registry.
type typeKey struct {
	base string
	dims int
}

// Registry hash-conses Types and owns the array interner used when parsing
// values.
//
// Thread-safety: all methods are safe for concurrent use. Concurrent first
// requests for the same (base, dims) race through LoadOrStore; exactly one
// instance wins and the losers are discarded before anyone observes them.
//
// INVARIANTS:
//   - At most one *Type per (base, dims) for the lifetime of the registry
//   - Types are never removed
type Registry struct {
	types    sync.Map // typeKey -> *Type
	listMu   sync.RWMutex
	lists    map[string]struct{}
	interner *Interner
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithListTypes registers class names that behave like lists. Types with
// these bases get one extra pseudo-dimension.
func WithListTypes(names ...string) RegistryOption {
	return func(r *Registry) {
		for _, n := range names {
			r.lists[n] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for recoverable parse warnings.
// Default: slog.Default() at the time of the warning.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an isolated registry. Production code normally uses
// Default(); tests create their own for isolation.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		lists:    make(map[string]struct{}),
		interner: NewInterner(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry()
})

// Default returns the process-wide registry, created on first use.
func Default() *Registry {
	return defaultRegistry()
}

// RegisterListType marks name as a list type. Only types created after the
// call see the extra pseudo-dimension; existing canonical types are never
// mutated.
func (r *Registry) RegisterListType(name string) {
	r.listMu.Lock()
	defer r.listMu.Unlock()
	r.lists[name] = struct{}{}
}

func (r *Registry) isListType(name string) bool {
	r.listMu.RLock()
	defer r.listMu.RUnlock()
	_, ok := r.lists[name]
	return ok
}

// Interner returns the array interner owned by r.
func (r *Registry) Interner() *Interner {
	return r.interner
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Parse returns the canonical type for rep, the name of a type optionally
// suffixed by (possibly multiple) "[]".
func (r *Registry) Parse(rep string) *Type {
	base := rep
	dims := 0
	for strings.HasSuffix(base, "[]") {
		dims++
		base = base[:len(base)-2]
	}
	return r.intern(base, dims)
}

// RepParse is like Parse but normalizes wire-level synonyms so that front
// end vocabulary does not multiply cached types: address and pointer become
// hashcode, float becomes double.
func (r *Registry) RepParse(rep string) *Type {
	candidate := r.Parse(rep)
	switch candidate.base {
	case BaseAddress, BasePointer:
		return r.intern(BaseHashcode, candidate.dims)
	case BaseFloat:
		return r.intern(BaseDouble, candidate.dims)
	}
	return candidate
}

// Lookup returns the canonical type for (base, dims) if it has been created.
func (r *Registry) Lookup(base string, dims int) (*Type, bool) {
	v, ok := r.types.Load(typeKey{base, dims})
	if !ok {
		return nil, false
	}
	return v.(*Type), true
}

// Len returns the number of canonical types created so far.
func (r *Registry) Len() int {
	n := 0
	r.types.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// intern returns the single *Type for (base, dims), creating it if absent.
func (r *Registry) intern(base string, dims int) *Type {
	key := typeKey{base, dims}
	if v, ok := r.types.Load(key); ok {
		return v.(*Type)
	}
	t := &Type{base: base, dims: dims, pseudoDims: dims, reg: r}
	if r.isListType(base) {
		t.pseudoDims++
	}
	actual, _ := r.types.LoadOrStore(key, t)
	return actual.(*Type)
}
