// Package environment implements the variable store consumed by
// internal/engine: a plain string-to-string mapping with stable,
// insertion-ordered iteration (spec.md §6).
package environment

import (
	"strings"
	"sync"
)

// Environment is an order-preserving name -> value map.
type Environment struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// New builds an Environment from a list of "KEY=VALUE" strings (typically
// os.Environ()), splitting each on the first '='. Entries without '=' are
// stored with an empty value, per spec.md §6.
func New(variables []string) *Environment {
	e := &Environment{values: make(map[string]string, len(variables))}
	for _, v := range variables {
		e.setRaw(v)
	}
	return e
}

func (e *Environment) setRaw(raw string) {
	name, value, _ := strings.Cut(raw, "=")
	e.Set(name, value)
}

// Set replaces any prior value at name, appending name to the iteration
// order only the first time it is seen.
func (e *Environment) Set(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.values[name]; !exists {
		e.order = append(e.order, name)
	}
	e.values[name] = value
}

// Get returns the value stored at name and whether it exists.
func (e *Environment) Get(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[name]
	return v, ok
}

// Unset removes name from the environment.
func (e *Environment) Unset(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.values[name]; !exists {
		return
	}
	delete(e.values, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Iterate calls fn for each name/value pair in stable insertion order.
func (e *Environment) Iterate(fn func(name, value string)) {
	e.mu.RLock()
	order := append([]string(nil), e.order...)
	e.mu.RUnlock()

	for _, name := range order {
		e.mu.RLock()
		value := e.values[name]
		e.mu.RUnlock()
		fn(name, value)
	}
}

// Envp flattens the mapping to a freshly built "KEY=VALUE" vector,
// preserving iteration order, for every child process spawn.
func (e *Environment) Envp() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, name+"="+e.values[name])
	}
	return out
}
