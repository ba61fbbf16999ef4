// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Struct, the free-form metadata document attached to
// workflows, tasks and launch plans.
//
// Why cty?
//
// A Struct holds typed values (string, number, bool, null, nested structs and
// lists). cty already models exactly that value space, gives us immutable
// values with structural equality, and is what the HCL loader produces when it
// evaluates an object expression. Wrapping cty keeps the loader and the wire
// codec working on the same representation with no intermediate conversion.
package model

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Struct is an immutable mapping from string key to a typed value.
type Struct struct {
	fields map[string]cty.Value
}

// EmptyStruct returns a Struct with no keys.
func EmptyStruct() Struct {
	return Struct{}
}

// NewStruct creates a Struct from the given fields. The map is copied, so the
// caller may keep mutating its own copy.
func NewStruct(fields map[string]cty.Value) Struct {
	if len(fields) == 0 {
		return Struct{}
	}
	copied := make(map[string]cty.Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Struct{fields: copied}
}

// StructFromValue converts an object or map value into a Struct. A null value
// yields an empty Struct.
func StructFromValue(v cty.Value) (Struct, error) {
	if v == cty.NilVal || v.IsNull() {
		return Struct{}, nil
	}
	if !v.IsWhollyKnown() {
		return Struct{}, fmt.Errorf("struct value must be fully known")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return Struct{}, fmt.Errorf("struct value must be an object or map, got %s", ty.FriendlyName())
	}
	return NewStruct(v.AsValueMap()), nil
}

// Len returns the number of keys.
func (s Struct) Len() int {
	return len(s.fields)
}

// Keys returns the keys in sorted order.
func (s Struct) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key.
func (s Struct) Get(key string) (cty.Value, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// Fields returns a copy of the underlying map.
func (s Struct) Fields() map[string]cty.Value {
	out := make(map[string]cty.Value, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// Value returns the Struct as a cty object value.
func (s Struct) Value() cty.Value {
	if len(s.fields) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(s.fields)
}

// Equal reports deep structural equality. Two Structs are equal when they
// hold the same key set and every value is equal in both type and content.
func (s Struct) Equal(other Struct) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for k, v := range s.fields {
		ov, ok := other.fields[k]
		if !ok || !v.RawEquals(ov) {
			return false
		}
	}
	return true
}

// GoString renders the Struct for test failure messages.
func (s Struct) GoString() string {
	return fmt.Sprintf("model.Struct%#v", s.Value())
}
