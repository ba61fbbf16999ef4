package closure

import "github.com/specialistvlad/gridclosure/internal/model"

// Merge returns a new Struct holding the union of both key sets. Keys present
// in both take the value from source, which acts as the override layer on top
// of target's defaults. Nested structs are not merged recursively: a nested
// value present in source replaces the one in target as a whole.
func Merge(source, target model.Struct) model.Struct {
	fields := target.Fields()
	for _, key := range source.Keys() {
		v, _ := source.Get(key)
		fields[key] = v
	}
	return model.NewStruct(fields)
}
