package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewStruct_CopiesInput(t *testing.T) {
	fields := map[string]cty.Value{"a": cty.StringVal("a0")}
	s := NewStruct(fields)

	fields["b"] = cty.StringVal("b0")

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("b")
	assert.False(t, ok)
}

func TestStruct_Keys_Sorted(t *testing.T) {
	s := NewStruct(map[string]cty.Value{
		"c": cty.True,
		"a": cty.NumberIntVal(1),
		"b": cty.NullVal(cty.String),
	})
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
}

func TestStruct_Equal(t *testing.T) {
	nested := cty.ObjectVal(map[string]cty.Value{
		"list": cty.ListVal([]cty.Value{cty.StringVal("x"), cty.StringVal("y")}),
	})

	a := NewStruct(map[string]cty.Value{"n": nested, "k": cty.NumberFloatVal(1.5)})
	b := NewStruct(map[string]cty.Value{"n": nested, "k": cty.NumberFloatVal(1.5)})
	c := NewStruct(map[string]cty.Value{"n": nested, "k": cty.NumberFloatVal(2)})
	d := NewStruct(map[string]cty.Value{"n": nested})

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.True(t, EmptyStruct().Equal(NewStruct(nil)))
}

func TestStructFromValue(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		s, err := StructFromValue(cty.ObjectVal(map[string]cty.Value{"a": cty.StringVal("a0")}))
		require.NoError(t, err)
		v, ok := s.Get("a")
		require.True(t, ok)
		assert.True(t, v.RawEquals(cty.StringVal("a0")))
	})

	t.Run("map", func(t *testing.T) {
		s, err := StructFromValue(cty.MapVal(map[string]cty.Value{"a": cty.True}))
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("null is empty", func(t *testing.T) {
		s, err := StructFromValue(cty.NullVal(cty.DynamicPseudoType))
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("primitive is rejected", func(t *testing.T) {
		_, err := StructFromValue(cty.StringVal("nope"))
		assert.ErrorContains(t, err, "must be an object or map")
	})

	t.Run("unknown is rejected", func(t *testing.T) {
		_, err := StructFromValue(cty.UnknownVal(cty.EmptyObject))
		assert.ErrorContains(t, err, "fully known")
	})
}

func TestStruct_Value(t *testing.T) {
	assert.True(t, EmptyStruct().Value().RawEquals(cty.EmptyObjectVal))

	s := NewStruct(map[string]cty.Value{"a": cty.StringVal("a0")})
	back, err := StructFromValue(s.Value())
	require.NoError(t, err)
	assert.True(t, s.Equal(back))
}
