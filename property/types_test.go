package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	v, err := List(Int(1), Int(2))
	require.NoError(t, err)
	items, ok := v.AsList()
	require.True(t, ok)
	assert.Len(t, items, 2)

	_, err = List(Int(1), Float(2))
	var hErr *HeterogeneousListError
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, 1, hErr.Index)
	assert.Equal(t, KindInt, hErr.Want)
	assert.Equal(t, KindFloat, hErr.Got)
	assert.ErrorIs(t, err, ErrHeterogeneousList)

	assert.Panics(t, func() { MustList(Bool(true), Null()) })
}

func TestAccessors(t *testing.T) {
	i, ok := Int(7).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = Int(7).AsString()
	assert.False(t, ok)

	s, ok := String("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	f, ok := Float(1.5).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.True(t, Null().IsNull())
}

func TestValueAny(t *testing.T) {
	assert.Nil(t, Null().Any())
	assert.Equal(t, int64(3), Int(3).Any())
	assert.Equal(t, "s", String("s").Any())
	assert.Equal(t, []any{true, false}, MustList(Bool(true), Bool(false)).Any())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, `["a", "b"]`, MustList(String("a"), String("b")).String())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "2.5", Float(2.5).String())
}

func TestMapCloneIsDeep(t *testing.T) {
	orig := Map{"l": MustList(Int(1), Int(2))}
	clone := orig.Clone()

	clone["l"].L[0] = Int(99)
	clone["new"] = Bool(true)

	assert.Equal(t, int64(1), orig["l"].L[0].I64)
	assert.NotContains(t, orig, "new")
	assert.NotNil(t, Map(nil).Clone())
}
