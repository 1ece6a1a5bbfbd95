package provider

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotAProvider = errors.New("not a provider")
	ErrNilType      = errors.New("capability and holder types are required")
)

// NotAProviderError is returned when no field of a holder type, down to the
// allowed depth, satisfies the capability.
type NotAProviderError struct {
	Holder     reflect.Type
	Capability reflect.Type
	MaxDepth   int
}

func (e *NotAProviderError) Error() string {
	return fmt.Sprintf("type %s is not a provider of %s within depth %d", e.Holder, e.Capability, e.MaxDepth)
}

func (e *NotAProviderError) Is(target error) bool {
	return target == ErrNotAProvider
}
