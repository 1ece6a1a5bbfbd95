package collections

import "errors"

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrIncompatibleValue = errors.New("value is not assignable to the element type")
)
