// Package assert holds startup-time invariants for singleton construction.
package assert

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// NotNil panics when v is nil or a typed nil.
func NotNil(v interface{}) {
	if v == nil {
		panic("assert: unexpected nil value")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			panic(fmt.Sprintf("assert: unexpected nil %T", v))
		}
	}
}

// NotCircular panics if the calling Default* constructor re-enters itself on the same
// call stack, which would otherwise deadlock inside sync.Once.
func NotCircular() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return
	}
	name := fn.Name()

	stack := make([]uintptr, 64)
	n := runtime.Callers(3, stack)
	frames := runtime.CallersFrames(stack[:n])
	for {
		frame, more := frames.Next()
		if frame.Function == name || strings.HasPrefix(frame.Function, name+".func") {
			panic("assert: circular initialization of " + name)
		}
		if !more {
			break
		}
	}
}
