package dispatch

import (
	"errors"
	"fmt"
)

// errPluginPanic marks a recovered panic from plugin code.
var errPluginPanic = errors.New("plugin panicked")

// result is the outcome of a single plugin call.
type result[T any] struct {
	value T
	err   error
}

func (r result[T]) ok() bool { return r.err == nil }

// invoke runs fn and converts a panic into an error so one plugin cannot
// unwind the caller.
func invoke[T any](fn func() (T, error)) (res result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = result[T]{err: fmt.Errorf("%w: %v", errPluginPanic, r)}
		}
	}()
	value, err := fn()
	return result[T]{value: value, err: err}
}

// invokeErr is invoke for calls that only return an error.
func invokeErr(fn func() error) error {
	return invoke(func() (struct{}, error) {
		return struct{}{}, fn()
	}).err
}
