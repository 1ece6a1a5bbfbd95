package object

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type prop struct {
	Base
	destroyed bool
}

func (p *prop) Destroyed() bool { return p.destroyed }

func TestAlive(t *testing.T) {
	p := &prop{Base: NewBase()}

	assert.True(t, Alive(p))
	assert.False(t, Alive(nil))
	assert.False(t, Alive(Missing{ID: uuid.New()}))

	p.destroyed = true
	assert.False(t, Alive(p))
}

func TestTable(t *testing.T) {
	a := &prop{Base: NewBase()}
	b := &prop{Base: NewBase()}
	table := NewTable(a, b, nil)

	assert.Equal(t, 2, table.Len())

	got, ok := table.Resolve(a.ObjectID())
	assert.True(t, ok)
	assert.Same(t, a, got)

	table.Remove(a.ObjectID())
	_, ok = table.Resolve(a.ObjectID())
	assert.False(t, ok)
}

func TestBaseWithID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, BaseWithID(id).ObjectID())
	assert.NotEqual(t, NewBase().ObjectID(), NewBase().ObjectID())
}
