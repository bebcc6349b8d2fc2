package runtime

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Executor runs a function body against a prepared environment. The
// interpreter implements it; callables use it to run user code.
type Executor interface {
	ExecuteBlock(stmts []ast.Statement, env *Environment) (Completion, error)
}

// Callable is implemented by every value that can appear in call position.
type Callable interface {
	Value
	Arity() int
	Call(exec Executor, args []Value) (Value, error)
}

// CompletionKind distinguishes ordinary statement completion from a return.
type CompletionKind int

const (
	CompletionNormal CompletionKind = iota
	CompletionReturn
)

// Completion is the outcome of executing a statement. A return travels up
// through blocks and loops as a CompletionReturn until the enclosing call
// consumes it.
type Completion struct {
	Kind  CompletionKind
	Value Value
}

// Normal is the completion of a statement that fell through.
func Normal() Completion {
	return Completion{Kind: CompletionNormal}
}

// Returned is the completion of a `return` carrying value.
func Returned(value Value) Completion {
	return Completion{Kind: CompletionReturn, Value: value}
}

// IsReturn reports whether the completion unwinds to the caller.
func (c Completion) IsReturn() bool {
	return c.Kind == CompletionReturn
}

type NativeCallContext struct {
	Executor Executor
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a host function exposed to Lox code.
type NativeFunctionValue struct {
	Name       string
	ParamCount int
	Impl       NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v NativeFunctionValue) Arity() int { return v.ParamCount }

func (v NativeFunctionValue) Call(exec Executor, args []Value) (Value, error) {
	if v.Impl == nil {
		return nil, fmt.Errorf("Native function '%s' has no implementation.", v.Name)
	}
	result, err := v.Impl(&NativeCallContext{Executor: exec}, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return NilValue{}, nil
	}
	return result, nil
}
