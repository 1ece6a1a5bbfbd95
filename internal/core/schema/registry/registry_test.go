package registry

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engine interface{ Start() }

type wheel struct{}

type pair[T any] struct{ a, b T }

func TestTokenOf(t *testing.T) {
	const pkg = "github.com/zeusync/ifacedeps/internal/core/schema/registry"

	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"nil", nil, ""},
		{"builtin", reflect.TypeFor[int](), "int"},
		{"error", reflect.TypeFor[error](), "error"},
		{"named interface", reflect.TypeFor[engine](), pkg + ".engine"},
		{"pointer", reflect.TypeFor[*wheel](), "*" + pkg + ".wheel"},
		{"slice", reflect.TypeFor[[]engine](), "[]" + pkg + ".engine"},
		{"array", reflect.TypeFor[[2]engine](), "[2]" + pkg + ".engine"},
		{"map", reflect.TypeFor[map[string]engine](), "map[string]" + pkg + ".engine"},
		{"recv chan", reflect.TypeFor[<-chan int](), "<-chan int"},
		{"generic", reflect.TypeFor[pair[engine]](), pkg + ".pair[" + pkg + ".engine]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenOf(tt.typ))
		})
	}
}

func TestTypeRegistry_ResolveSeenTypes(t *testing.T) {
	r := New()
	typ := reflect.TypeFor[[]engine]()

	_, err := r.Resolve(TokenOf(typ))
	assert.ErrorIs(t, err, ErrUnknownType)

	token := r.Token(typ)
	got, err := r.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, typ, got)
	assert.Contains(t, r.Tokens(), token)
}

func TestTypeRegistry_Alias(t *testing.T) {
	r := New()
	typ := reflect.TypeFor[engine]()

	require.NoError(t, r.Alias("legacy.Engine", typ))
	got, err := r.Resolve("legacy.Engine")
	require.NoError(t, err)
	assert.Equal(t, typ, got)

	assert.ErrorIs(t, r.Alias("legacy.Engine", reflect.TypeFor[wheel]()), ErrAliasConflict)
	assert.ErrorIs(t, r.Alias("x", nil), ErrNilType)
	assert.NoError(t, r.Alias("legacy.Engine", typ))
}

func TestTypeRegistry_ConcurrentToken(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register(reflect.TypeFor[engine](), reflect.TypeFor[[]engine]())
		}()
	}
	wg.Wait()
	assert.Len(t, r.Tokens(), 2)
}
