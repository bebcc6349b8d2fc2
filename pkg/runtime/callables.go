package runtime

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
)

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a user function or method closed over the environment it
// was declared in.
type FunctionValue struct {
	Declaration   *ast.FunctionDefinition
	Closure       *Environment
	IsInitializer bool
}

func NewFunction(decl *ast.FunctionDefinition, closure *Environment, isInitializer bool) *FunctionValue {
	return &FunctionValue{Declaration: decl, Closure: closure, IsInitializer: isInitializer}
}

func (f *FunctionValue) Kind() Kind { return KindFunction }

func (f *FunctionValue) Name() string {
	if f.Declaration == nil || f.Declaration.IsAnonymous() {
		return ""
	}
	return f.Declaration.Name.Lexeme
}

func (f *FunctionValue) Arity() int {
	if f.Declaration == nil {
		return 0
	}
	return len(f.Declaration.Params)
}

// Bind returns a copy of the method whose closure defines `this` as instance.
func (f *FunctionValue) Bind(instance *InstanceValue) *FunctionValue {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return NewFunction(f.Declaration, env, f.IsInitializer)
}

// Call runs the body in a fresh scope under the closure. Initializers always
// produce the bound instance, including after a bare `return;`.
func (f *FunctionValue) Call(exec Executor, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}
	completion, err := exec.ExecuteBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	if completion.IsReturn() && completion.Value != nil {
		return completion.Value, nil
	}
	return NilValue{}, nil
}

//-----------------------------------------------------------------------------
// Classes and instances
//-----------------------------------------------------------------------------

type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Methods    map[string]*FunctionValue
}

func NewClass(name string, superclass *ClassValue, methods map[string]*FunctionValue) *ClassValue {
	if methods == nil {
		methods = make(map[string]*FunctionValue)
	}
	return &ClassValue{Name: name, Superclass: superclass, Methods: methods}
}

func (c *ClassValue) Kind() Kind { return KindClass }

// FindMethod looks name up on the class, then along the superclass chain.
func (c *ClassValue) FindMethod(name string) (*FunctionValue, bool) {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// Arity is the initializer's arity, or zero without one.
func (c *ClassValue) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs an instance and runs init on it when present. The instance
// is the result regardless of what init returns.
func (c *ClassValue) Call(exec Executor, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(exec, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (i *InstanceValue) Kind() Kind { return KindInstance }

// Get reads a field, falling back to a method bound to this instance.
func (i *InstanceValue) Get(name string) (Value, error) {
	if v, ok := i.Fields[name]; ok {
		return v, nil
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), nil
	}
	return nil, fmt.Errorf("Undefined property '%s'.", name)
}

func (i *InstanceValue) Set(name string, value Value) {
	i.Fields[name] = value
}
