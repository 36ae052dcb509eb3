package errors

import (
	"fmt"
)

// NormalizePanic converts a panic into a proper error.
func NormalizePanic(p interface{}) error {
	if err, ok := p.(error); ok {
		return Wrap(err, "panic")
	}
	return ErrPanic.Newf("%v", p)
}

// Recover takes a pointer to the returned error,
// and sets it upon panic
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = NormalizePanic(r)
	}
}

// WithType is a helper to augment an error with a corresponding type message
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}
