package lox

import (
	"lox/interpreter-go/pkg/runtime"
)

func defaultNatives(cfg config) []runtime.NativeFunctionValue {
	clock := cfg.clock
	return []runtime.NativeFunctionValue{
		{
			Name:       "clock",
			ParamCount: 0,
			Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
				// Seconds since the Unix epoch, with sub-second precision.
				return runtime.NumberValue{Val: float64(clock().UnixNano()) / 1e9}, nil
			},
		},
	}
}
