package inv

import (
	"fmt"
	"sync"
)

// UnaryFunc is a named integer function usable by PairwiseFunctionUnary.
type UnaryFunc func(int64) int64

// FunctionRegistry maps names to known unary functions. Families look
// functions up by name at instantiation; nothing is resolved dynamically.
//
// Thread-safety: FunctionRegistry is safe for concurrent use.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]UnaryFunc
	names []string
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: make(map[string]UnaryFunc)}
}

// BuiltinFunctions returns a fresh registry holding abs, negate,
// bitwiseComplement and square. Integer overflow wraps.
func BuiltinFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	r.mustRegister("abs", func(x int64) int64 {
		if x < 0 {
			return -x
		}
		return x
	})
	r.mustRegister("negate", func(x int64) int64 { return -x })
	r.mustRegister("bitwiseComplement", func(x int64) int64 { return ^x })
	r.mustRegister("square", func(x int64) int64 { return x * x })
	return r
}

// Register adds fn under name. Names are unique.
func (r *FunctionRegistry) Register(name string, fn UnaryFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("register function: name and function are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.funcs[name]; dup {
		return fmt.Errorf("register function: %q already registered", name)
	}
	r.funcs[name] = fn
	r.names = append(r.names, name)
	return nil
}

func (r *FunctionRegistry) mustRegister(name string, fn UnaryFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (UnaryFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in registration order.
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}
