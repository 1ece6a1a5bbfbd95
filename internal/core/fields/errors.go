package fields

import (
	"errors"

	"github.com/zeusync/ifacedeps/pkg/collections"
)

var (
	ErrNotACollectionField = errors.New("field is not a slice or list")
	ErrIndexOutOfRange     = collections.ErrIndexOutOfRange
	ErrIncompatibleValue   = collections.ErrIncompatibleValue
	ErrUnsupportedField    = errors.New("field type is not an interface, interface slice or interface list")
	ErrFieldNotFound       = errors.New("field not found")
	ErrNilHolder           = errors.New("holder is nil")
	ErrNotStruct           = errors.New("holder is not a struct")
	ErrNotAddressable      = errors.New("holder is not addressable")
)
