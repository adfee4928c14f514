// environment.go - lexical scoping for the interpreter in interp.go.
package lang

import (
	"fmt"

	"github.com/vela-lang/vela/pkg/value"
)

// Environment is one scope level; Get/Set walk the parent chain. Get
// reads through function scopes into enclosing ones; Set stops at the
// nearest function scope (see Set).
type Environment struct {
	variables       map[string]value.Value
	parent          *Environment
	self            value.Value
	isFunctionScope bool
}

func NewEnvironment() *Environment {
	return &Environment{variables: make(map[string]value.Value), self: value.Undefined()}
}

func NewChildEnvironment(parent *Environment) *Environment {
	return &Environment{variables: make(map[string]value.Value), parent: parent, self: value.Undefined()}
}

func NewFunctionEnvironment(parent *Environment, self value.Value) *Environment {
	return &Environment{variables: make(map[string]value.Value), parent: parent, self: self, isFunctionScope: true}
}

// Define creates a new binding in the current scope.
func (e *Environment) Define(name string, v value.Value) {
	e.variables[name] = v
}

// Get resolves name, consulting self's fields (via the Indexer, so
// prototype walk and __get both apply) before walking to the parent.
func (e *Environment) Get(name string) (value.Value, error) {
	if v, ok := e.variables[name]; ok {
		return v, nil
	}
	if e.self.IsObject() {
		if v, err := value.Get(e.self, value.String(name)); err == nil && !v.IsUndefined() {
			return v, nil
		}
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return value.Undefined(), fmt.Errorf("undefined variable: %s", name)
}

// Set updates an existing binding, walking the parent chain up to and
// including the nearest function scope (or the global scope). If the
// name is not bound along that walk, it is defined in the scope where
// the walk stopped (Duso-style implicit declaration on first
// assignment). Bindings outside the nearest function scope are never
// updated by Set.
func (e *Environment) Set(name string, v value.Value) error {
	if _, ok := e.variables[name]; ok {
		e.variables[name] = v
		return nil
	}
	if e.isFunctionScope {
		e.variables[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	e.variables[name] = v
	return nil
}
