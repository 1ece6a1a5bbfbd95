// Package registry maps Go types to stable string tokens and back. Tokens are
// what snapshots persist in place of live reflect.Type values.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"sync"
)

var (
	ErrUnknownType   = errors.New("type token is not registered")
	ErrAliasConflict = errors.New("type token is already bound to another type")
	ErrNilType       = errors.New("nil type")
)

// TypeRegistry resolves tokens produced by Token back to types. It only knows
// types it has seen, either through Token, Register or Alias. Safe for
// concurrent use; one registry is meant to live as long as a host session.
type TypeRegistry struct {
	mu      sync.RWMutex
	byToken map[string]reflect.Type
	tokens  map[reflect.Type]string
}

func New() *TypeRegistry {
	return &TypeRegistry{
		byToken: make(map[string]reflect.Type),
		tokens:  make(map[reflect.Type]string),
	}
}

// Token returns the token of t and remembers t for later resolution.
func (r *TypeRegistry) Token(t reflect.Type) string {
	if t == nil {
		return ""
	}

	r.mu.RLock()
	token, ok := r.tokens[t]
	r.mu.RUnlock()
	if ok {
		return token
	}

	token = TokenOf(t)
	r.mu.Lock()
	r.tokens[t] = token
	if _, exists := r.byToken[token]; !exists {
		r.byToken[token] = t
	}
	r.mu.Unlock()
	return token
}

func (r *TypeRegistry) Register(types ...reflect.Type) {
	for _, t := range types {
		r.Token(t)
	}
}

// Alias makes token resolve to t, typically to keep snapshots written under an
// old type name loadable after a rename.
func (r *TypeRegistry) Alias(token string, t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byToken[token]; ok && existing != t {
		return fmt.Errorf("%w: %q -> %s", ErrAliasConflict, token, existing)
	}
	r.byToken[token] = t
	return nil
}

func (r *TypeRegistry) Resolve(token string) (reflect.Type, error) {
	r.mu.RLock()
	t, ok := r.byToken[token]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, token)
	}
	return t, nil
}

// Tokens lists every resolvable token in sorted order.
func (r *TypeRegistry) Tokens() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.byToken))
	for token := range r.byToken {
		out = append(out, token)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

// TokenOf computes the package-qualified identity string of t without
// registering it. Named types use their import path; composite types are
// spelled out from their element tokens.
func TokenOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if name := t.Name(); name != "" {
		if pkg := t.PkgPath(); pkg != "" {
			return pkg + "." + name
		}
		return name
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TokenOf(t.Elem())
	case reflect.Slice:
		return "[]" + TokenOf(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + TokenOf(t.Elem())
	case reflect.Map:
		return "map[" + TokenOf(t.Key()) + "]" + TokenOf(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + TokenOf(t.Elem())
		case reflect.SendDir:
			return "chan<- " + TokenOf(t.Elem())
		default:
			return "chan " + TokenOf(t.Elem())
		}
	default:
		return t.String()
	}
}
