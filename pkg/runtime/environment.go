package runtime

import (
	"fmt"
	"sort"
)

// Environment is one lexical scope. Closures keep a pointer to the scope they
// were created in, so a scope lives as long as anything still refers to it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope. Redefining a
// name in the same scope replaces it.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return undefinedVariable(name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, undefinedVariable(name)
}

// Ancestor returns the scope distance hops outward, or nil if the chain is
// shorter than that.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from exactly the scope distance hops outward.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, undefinedVariable(name)
	}
	v, ok := env.values[name]
	if !ok {
		return nil, undefinedVariable(name)
	}
	return v, nil
}

// AssignAt writes name in exactly the scope distance hops outward.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	env := e.Ancestor(distance)
	if env == nil {
		return undefinedVariable(name)
	}
	if _, ok := env.values[name]; !ok {
		return undefinedVariable(name)
	}
	env.values[name] = value
	return nil
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func undefinedVariable(name string) error {
	return fmt.Errorf("Undefined variable '%s'.", name)
}
