package collections

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface{ Area() float64 }

type square struct{ side float64 }

func (s square) Area() float64 { return s.side * s.side }

func TestList_NilReceiver(t *testing.T) {
	var l *List[shape]

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, reflect.TypeFor[shape](), l.ElemType())
	assert.Empty(t, l.Items())

	_, err := l.At(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestList_AddInsertRemove(t *testing.T) {
	l := NewList[int](1, 2, 3)

	assert.Equal(t, 3, l.Add(4))
	require.NoError(t, l.Insert(1, 9))
	assert.Equal(t, []int{1, 9, 2, 3, 4}, l.Items())

	require.NoError(t, l.Insert(l.Len(), 7))
	assert.Equal(t, []int{1, 9, 2, 3, 4, 7}, l.Items())

	require.NoError(t, l.RemoveAt(0))
	assert.Equal(t, []int{9, 2, 3, 4, 7}, l.Items())

	assert.ErrorIs(t, l.RemoveAt(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Insert(7, 0), ErrIndexOutOfRange)
	assert.Equal(t, []int{9, 2, 3, 4, 7}, l.Items())
}

func TestList_Move(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 3, []string{"b", "c", "d", "a"}},
		{"backward", 3, 0, []string{"d", "a", "b", "c"}},
		{"middle", 1, 2, []string{"a", "c", "b", "d"}},
		{"same", 2, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList("a", "b", "c", "d")
			require.NoError(t, l.Move(tt.from, tt.to))
			assert.Equal(t, tt.want, l.Items())
		})
	}

	l := NewList("a", "b")
	assert.ErrorIs(t, l.Move(-1, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Move(0, 2), ErrIndexOutOfRange)
}

func TestList_DynamicView(t *testing.T) {
	var d Dynamic = NewListWithCapacity[shape](2)

	idx, err := d.AddAny(square{2})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = d.AddAny(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = d.AddAny("not a shape")
	assert.ErrorIs(t, err, ErrIncompatibleValue)

	v, err := d.AnyAt(0)
	require.NoError(t, err)
	assert.Equal(t, square{2}, v)

	v, err = d.AnyAt(1)
	require.NoError(t, err)
	assert.Nil(t, v)

	slot, err := d.Slot(1)
	require.NoError(t, err)
	assert.True(t, slot.CanSet())

	d.Clear()
	assert.Equal(t, 0, d.Len())
}
