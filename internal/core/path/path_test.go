package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ifacedeps/pkg/collections"
)

type levelTwo struct {
	Label string
}

type levelOne struct {
	Label  string
	Twos   []levelTwo
	hidden *levelTwo
}

type levelZero struct {
	Ones []*levelOne
	list *collections.List[any]
}

type root struct {
	Zero   levelZero
	Zeros  []levelZero
	Ptr    *levelOne
	Nil    *levelOne
	Boxed  any
	Matrix [2][2]int
}

func TestDeriveHolderPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a.b.snapshotField", "a.b"},
		{"snapshotField", ""},
		{"", ""},
		{"a.Array.data[0].snapshotField", "a.[0]"},
		{"levelZero.levelOne.iDeps", "levelZero.levelOne"},
		{"levelZero.Array.data[0].levelOne.Array.data[1].iDeps", "levelZero.[0].levelOne.[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveHolderPath(tt.in))
		})
	}
}

func TestSplit(t *testing.T) {
	got, err := Split("a.[1].b[2][3].Array.data[4]")
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		{Name: "a"},
		{Index: 1, IsIndex: true},
		{Name: "b"},
		{Index: 2, IsIndex: true},
		{Index: 3, IsIndex: true},
		{Index: 4, IsIndex: true},
	}, got)

	got, err = Split("")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"a..b", "a.[x]", "a.[-1]", "a.[1", "a[1]x"} {
		_, err := Split(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}

	assert.Equal(t, "[3]", Segment{Index: 3, IsIndex: true}.String())
	assert.Equal(t, "b", Segment{Name: "b"}.String())
}

func fixture() *root {
	deep := &levelOne{Label: "deep", Twos: []levelTwo{{Label: "t0"}, {Label: "t1"}}, hidden: &levelTwo{Label: "h"}}
	return &root{
		Zero:  levelZero{Ones: []*levelOne{{Label: "first"}, deep}, list: collections.NewList[any]("x", deep)},
		Zeros: []levelZero{{}, {Ones: []*levelOne{nil, deep}}},
		Ptr:   deep,
		Boxed: deep,
	}
}

func TestResolve_Trivial(t *testing.T) {
	r := fixture()

	assert.Nil(t, Resolve(nil, "Zero"))
	assert.Nil(t, Resolve(nil, ""))
	assert.Same(t, r, Resolve(r, ""))
}

func TestResolve_Fields(t *testing.T) {
	r := fixture()

	zero, ok := Resolve(r, "Zero").(*levelZero)
	require.True(t, ok)
	assert.Same(t, &r.Zero, zero)

	assert.Same(t, r.Ptr, Resolve(r, "Ptr"))
	assert.Same(t, r.Ptr, Resolve(r, "Boxed"))
	assert.Equal(t, "deep", Resolve(r, "Ptr.Label"))
	assert.Same(t, r.Ptr.hidden, Resolve(r, "Ptr.hidden"))
	assert.Equal(t, "h", Resolve(r, "Boxed.hidden.Label"))
}

func TestResolve_NestedIndexes(t *testing.T) {
	r := fixture()

	two, ok := Resolve(r, "Zeros.[1].Ones.[1].Twos.[1]").(*levelTwo)
	require.True(t, ok)
	assert.Same(t, &r.Zeros[1].Ones[1].Twos[1], two)

	two, ok = Resolve(r, "Zeros.Array.data[1].Ones.Array.data[1].Twos.Array.data[0]").(*levelTwo)
	require.True(t, ok)
	assert.Same(t, &r.Ptr.Twos[0], two)

	assert.Same(t, r.Ptr, Resolve(r, "Zero.list.[1]"))
	assert.Equal(t, "x", Resolve(r, "Zero.list[0]"))
	assert.Equal(t, 0, Resolve(r, "Matrix.[1].[0]"))
}

func TestResolve_Failures(t *testing.T) {
	r := fixture()

	tests := []string{
		"Missing",
		"Nil.Label",
		"Zeros.[1].Ones.[0].Label",
		"Zeros.[9]",
		"Zero.list.[5]",
		"Ptr.Label.[0]",
		"Ptr.[0]",
		"Zero..Ones",
		"Nil",
	}
	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			assert.Nil(t, Resolve(r, p))
		})
	}
}

func TestResolveFieldHolder(t *testing.T) {
	r := fixture()

	assert.Same(t, r, ResolveFieldHolder(r, "deps"))
	assert.Same(t, r.Ptr, ResolveFieldHolder(r, "Zero.Ones.Array.data[1].deps"))
}

func TestResolve_HolderIsMutable(t *testing.T) {
	r := fixture()

	two := Resolve(r, "Ptr.Twos.[0]").(*levelTwo)
	two.Label = "changed"
	assert.Equal(t, "changed", r.Ptr.Twos[0].Label)
}
