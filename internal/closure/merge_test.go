package closure

import (
	"testing"

	"github.com/specialistvlad/gridclosure/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"
)

func TestMerge(t *testing.T) {
	source := model.NewStruct(map[string]cty.Value{
		"a": cty.StringVal("a0"),
		"b": cty.StringVal("b0"),
	})
	target := model.NewStruct(map[string]cty.Value{
		"b": cty.StringVal("b1"),
		"c": cty.StringVal("c1"),
	})
	expected := model.NewStruct(map[string]cty.Value{
		"a": cty.StringVal("a0"),
		"b": cty.StringVal("b0"),
		"c": cty.StringVal("c1"),
	})

	merged := Merge(source, target)

	assert.Equal(t, 3, merged.Len())
	assert.True(t, expected.Equal(merged), "got %#v", merged)

	// Inputs are left untouched.
	b, _ := target.Get("b")
	assert.True(t, b.RawEquals(cty.StringVal("b1")))
	assert.Equal(t, 2, source.Len())
}

func TestMerge_Properties(t *testing.T) {
	a := model.NewStruct(map[string]cty.Value{
		"x":    cty.NumberIntVal(1),
		"flag": cty.True,
		"nested": cty.ObjectVal(map[string]cty.Value{
			"k": cty.ListVal([]cty.Value{cty.StringVal("v")}),
		}),
	})
	b := model.NewStruct(map[string]cty.Value{
		"x":     cty.NumberIntVal(2),
		"other": cty.NullVal(cty.String),
		"nested": cty.ObjectVal(map[string]cty.Value{
			"j": cty.StringVal("dropped"),
		}),
	})
	empty := model.EmptyStruct()

	t.Run("source keys keep source values", func(t *testing.T) {
		merged := Merge(a, b)
		for _, k := range a.Keys() {
			want, _ := a.Get(k)
			got, ok := merged.Get(k)
			assert.True(t, ok, k)
			assert.True(t, want.RawEquals(got), k)
		}
	})

	t.Run("target only keys keep target values", func(t *testing.T) {
		got, ok := Merge(a, b).Get("other")
		assert.True(t, ok)
		assert.True(t, got.RawEquals(cty.NullVal(cty.String)))
	})

	t.Run("key set is the union", func(t *testing.T) {
		assert.Equal(t, []string{"flag", "nested", "other", "x"}, Merge(a, b).Keys())
	})

	t.Run("nested structs are replaced, not merged", func(t *testing.T) {
		got, _ := Merge(a, b).Get("nested")
		want, _ := a.Get("nested")
		assert.True(t, want.RawEquals(got))
	})

	t.Run("empty is an identity on both sides", func(t *testing.T) {
		assert.True(t, a.Equal(Merge(a, empty)))
		assert.True(t, a.Equal(Merge(empty, a)))
		assert.Equal(t, 0, Merge(empty, empty).Len())
	})

	t.Run("merge with itself", func(t *testing.T) {
		assert.True(t, a.Equal(Merge(a, a)))
	})
}
