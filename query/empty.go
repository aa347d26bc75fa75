package query

import "reflect"

type optional interface {
	IsDefined() bool
}

type nullable interface {
	IsNull() bool
}

// IsEmpty reports whether v carries no value: nil, an empty string, or an empty slice, array
// or map. Pointers are followed. Optional types that implement IsDefined() bool or
// IsNull() bool are empty when undefined or null. Zero numbers, false, and structs are not
// empty.
func IsEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	return isEmptyValue(reflect.ValueOf(v))
}

func isEmptyValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case optional:
			if isNilPointer(v) {
				return true
			}
			return !x.IsDefined()
		case nullable:
			if isNilPointer(v) {
				return true
			}
			return x.IsNull()
		}
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isEmptyValue(v.Elem())
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() == 0
	case reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

func isNilPointer(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}
