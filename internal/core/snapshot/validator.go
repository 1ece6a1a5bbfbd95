package snapshot

import (
	"reflect"

	"github.com/zeusync/ifacedeps/internal/core/schema/registry"
)

// ValidationLevel selects how strictly a stored type token is checked against
// the live field type before a value is restored into it.
type ValidationLevel uint8

const (
	// ValidationNone accepts any stored type.
	ValidationNone ValidationLevel = iota
	// ValidationQuick compares the live type's token with the stored one.
	ValidationQuick
	// ValidationFull resolves the stored token to a type and compares types,
	// which also honors registry aliases.
	ValidationFull
)

func (l ValidationLevel) String() string {
	switch l {
	case ValidationNone:
		return "none"
	case ValidationQuick:
		return "quick"
	case ValidationFull:
		return "full"
	default:
		return "unknown"
	}
}

type Validator struct {
	registry *registry.TypeRegistry
}

func NewValidator(r *registry.TypeRegistry) *Validator {
	return &Validator{registry: r}
}

// Validate reports whether token still describes current. Levels above
// ValidationFull validate like ValidationFull.
func (v *Validator) Validate(level ValidationLevel, current reflect.Type, token string) bool {
	switch level {
	case ValidationNone:
		return true
	case ValidationQuick:
		return v.registry.Token(current) == token
	default:
		v.registry.Register(current)
		t, err := v.registry.Resolve(token)
		return err == nil && t == current
	}
}
