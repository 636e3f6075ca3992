package reflectutils

import (
	"reflect"
)

// Visitor is called for every value met while walking a struct.
type Visitor func(val reflect.Value, typ reflect.Type, path []string)

// AllVisitors creates a visitor that will execute all the given visitors, in order.
func AllVisitors(visitors ...Visitor) Visitor {
	return func(val reflect.Value, typ reflect.Type, path []string) {
		for _, visitor := range visitors {
			visitor(val, typ, path)
		}
	}
}

// WalkStruct applies a visitor on all fields and nested fields of a given object.
func WalkStruct[T any](element T, visitor Visitor) {
	walkStructInternal(reflect.ValueOf(element), []string{}, visitor)
}

func walkStructInternal(val reflect.Value, path []string, visitor Visitor) {
	visitor(val, val.Type(), path)

	val = Deref(val)
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}
		nestedPath := make([]string, len(path), len(path)+1)
		copy(nestedPath, path)
		walkStructInternal(val.Field(i), append(nestedPath, structField.Name), visitor)
	}
}

// Deref dereferences recursively a reflect.Value until it reaches a non-pointer or non-interface value
func Deref(value reflect.Value) reflect.Value {
	if value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		return Deref(value.Elem())
	}
	return value
}

// DerefType strips pointer indirections from a type.
func DerefType(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ
}

// CreateNilStructs creates new struct instances for nil struct pointers
func CreateNilStructs(val reflect.Value, typ reflect.Type, _ []string) {
	if typ.Kind() == reflect.Pointer &&
		val.IsNil() &&
		val.CanSet() &&
		typ.Elem().Kind() == reflect.Struct {

		val.Set(reflect.New(typ.Elem()))
	}
}

// CreateEmptyArrays replaces nil slices by empty ones
func CreateEmptyArrays(val reflect.Value, typ reflect.Type, _ []string) {
	if typ.Kind() == reflect.Slice && val.IsNil() && val.CanSet() {
		val.Set(reflect.MakeSlice(typ, 0, 0))
	}
}
