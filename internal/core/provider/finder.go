// Package provider finds where inside a holder type a capability can be
// obtained: the holder itself, or a field some levels down.
package provider

import (
	"reflect"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zeusync/ifacedeps/internal/core/observability/log"
)

const (
	DefaultMaxDepth  = 1
	DefaultCacheSize = 256
)

type cacheKey struct {
	capability reflect.Type
	holder     reflect.Type
	maxDepth   int
}

type cacheEntry struct {
	path string
	err  error
}

// Finder runs provider path searches and remembers their outcome. Safe for
// concurrent use.
type Finder struct {
	cache  *lru.Cache[cacheKey, cacheEntry]
	logger log.Log
}

type Option func(*finderOptions)

type finderOptions struct {
	cacheSize int
	logger    log.Log
}

func WithCacheSize(size int) Option {
	return func(o *finderOptions) { o.cacheSize = size }
}

func WithLogger(l log.Log) Option {
	return func(o *finderOptions) { o.logger = l }
}

func NewFinder(opts ...Option) (*Finder, error) {
	o := finderOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Provide()
	}

	cache, err := lru.New[cacheKey, cacheEntry](o.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Finder{cache: cache, logger: o.logger}, nil
}

// FindPath returns the dotted field path under holder whose declared type
// satisfies capability. "" means holder itself satisfies it. Fields are
// searched breadth first, maxDepth levels deep; within a level a field of a
// concrete type wins over one of an interface type, otherwise the first field
// in declaration order wins. Struct and pointer-to-struct fields are descended
// into, each struct type once.
func (f *Finder) FindPath(capability, holder reflect.Type, maxDepth int) (string, error) {
	if capability == nil || holder == nil {
		return "", ErrNilType
	}

	key := cacheKey{capability: capability, holder: holder, maxDepth: maxDepth}
	if e, ok := f.cache.Get(key); ok {
		return e.path, e.err
	}

	p, err := search(capability, holder, maxDepth)
	if err != nil {
		f.logger.Debug("provider path not found",
			log.Type("capability", capability),
			log.Type("holder", holder),
			log.Int("max_depth", maxDepth))
	}
	f.cache.Add(key, cacheEntry{path: p, err: err})
	return p, err
}

// Cached reports how many searches are remembered.
func (f *Finder) Cached() int {
	return f.cache.Len()
}

func (f *Finder) Purge() {
	f.cache.Purge()
}

type node struct {
	typ  reflect.Type
	path []string
}

func search(capability, holder reflect.Type, maxDepth int) (string, error) {
	if satisfies(holder, capability) {
		return "", nil
	}

	root := structOf(holder)
	if root == nil {
		return "", &NotAProviderError{Holder: holder, Capability: capability, MaxDepth: maxDepth}
	}

	visited := map[reflect.Type]bool{root: true}
	frontier := []node{{typ: root}}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var (
			concrete, abstract []string
			next               []node
		)
		for _, n := range frontier {
			for i := 0; i < n.typ.NumField(); i++ {
				sf := n.typ.Field(i)
				p := append(append([]string(nil), n.path...), sf.Name)

				if satisfies(sf.Type, capability) {
					if sf.Type.Kind() == reflect.Interface {
						if abstract == nil {
							abstract = p
						}
					} else if concrete == nil {
						concrete = p
					}
				}

				if st := structOf(sf.Type); st != nil && !visited[st] {
					visited[st] = true
					next = append(next, node{typ: st, path: p})
				}
			}
		}
		if concrete != nil {
			return strings.Join(concrete, "."), nil
		}
		if abstract != nil {
			return strings.Join(abstract, "."), nil
		}
		frontier = next
	}
	return "", &NotAProviderError{Holder: holder, Capability: capability, MaxDepth: maxDepth}
}

// satisfies reports whether a value of type t, or a pointer to one, provides
// capability.
func satisfies(t, capability reflect.Type) bool {
	if capability.Kind() != reflect.Interface {
		return t.AssignableTo(capability)
	}
	if t.Implements(capability) {
		return true
	}
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer:
		return false
	}
	return reflect.PointerTo(t).Implements(capability)
}

func structOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
