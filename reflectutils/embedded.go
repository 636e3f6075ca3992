package reflectutils

import "reflect"

// Embedded is one level of a struct embedding hierarchy.
type Embedded struct {
	// Type is the struct type of the level.
	Type reflect.Type
	// Index is the field index path from the root struct to this level, empty for the root.
	Index []int
}

// Encloses reports if e is a strict ancestor of other in the embedding tree,
// meaning other is reached through e.
func (e Embedded) Encloses(other Embedded) bool {
	if len(e.Index) >= len(other.Index) {
		return false
	}
	for i, idx := range e.Index {
		if other.Index[i] != idx {
			return false
		}
	}
	return true
}

// EmbeddedStructs lists the root struct of typ and every exported struct it embeds by value,
// recursively, depth-first and in declaration order. The root comes first.
//
// Pointer embeddings are not followed: they are nil on a freshly allocated struct.
func EmbeddedStructs(typ reflect.Type) []Embedded {
	typ = DerefType(typ)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}

	var levels []Embedded
	walkEmbedded(typ, []int{}, &levels)
	return levels
}

func walkEmbedded(typ reflect.Type, index []int, levels *[]Embedded) {
	*levels = append(*levels, Embedded{Type: typ, Index: index})

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.Anonymous || !field.IsExported() || field.Type.Kind() != reflect.Struct {
			continue
		}
		nested := make([]int, len(index), len(index)+1)
		copy(nested, index)
		walkEmbedded(field.Type, append(nested, i), levels)
	}
}
