package query

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unsafe"
)

const defaultTagKey = "query"

// EmptyQuery is the sentinel for "no query parameters". Both Empty and &EmptyQuery{} flatten
// to an empty Params without any field traversal.
type EmptyQuery struct{}

// Empty is the EmptyQuery sentinel value.
var Empty = EmptyQuery{}

// Field is a single named query value, as reported by an Enumerable.
type Field struct {
	Name  string
	Value interface{}
}

// Enumerable is implemented by query types that describe their own fields instead of being
// walked by reflection. QueryFields should return the most-derived fields first.
type Enumerable interface {
	QueryFields() ([]Field, error)
}

// Valuer lets a field type control its query string rendering.
type Valuer interface {
	QueryValue() (string, error)
}

// Collision selects what happens when the same parameter name is produced more than once in
// one flattening pass, which can only happen when an embedded struct declares a field with
// the same name as an outer one.
type Collision int

const (
	// KeepLast replaces the earlier value but keeps the name's original position. Embedded
	// structs are visited after the outer fields, so the embedded value wins.
	KeepLast Collision = iota
	// KeepFirst keeps the first value seen, which is the same rule Go uses for promoted field
	// selectors.
	KeepFirst
	// Accumulate keeps every value under the one name.
	Accumulate
)

// Flattener converts query values into Params. The zero value is ready to use.
type Flattener struct {
	// TagKey is the struct tag consulted for parameter names; defaults to "query". The "json"
	// tag is used as a fallback, then the Go field name.
	TagKey    string
	Collision Collision
}

// DefaultFlattener is used by Flatten.
var DefaultFlattener = Flattener{}

// Flatten converts q into query parameters using DefaultFlattener.
func Flatten(q interface{}) (*Params, error) {
	return DefaultFlattener.Flatten(q)
}

// Flatten converts q into query parameters: one entry for every non-empty field of q,
// including unexported fields and the fields of embedded structs. See IsEmpty for which
// values are skipped.
//
// A nil q, a nil pointer, or the Empty sentinel produce an empty result. On error no
// parameters are returned.
func (f Flattener) Flatten(q interface{}) (*Params, error) {
	params := NewParams()
	switch q := q.(type) {
	case nil, EmptyQuery, *EmptyQuery:
		return params, nil
	case Enumerable:
		if isNilPointer(reflect.ValueOf(q)) {
			return params, nil
		}
		if err := f.flattenEnumerable(params, q); err != nil {
			return nil, err
		}
		return params, nil
	}

	seen := make(map[pointerVisit]bool)
	v := reflect.ValueOf(q)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return params, nil
		}
		if v.Kind() == reflect.Ptr {
			seen[pointerVisit{v.Type(), v.Pointer()}] = true
		}
		v = v.Elem()
	}

	var err error
	switch {
	case v.Kind() == reflect.Struct:
		if !v.CanAddr() {
			addressable := reflect.New(v.Type()).Elem()
			addressable.Set(v)
			v = addressable
		}
		err = f.walkStruct(params, v, seen)
	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		err = f.walkMap(params, v)
	default:
		err = &UnsupportedTypeError{Type: v.Type().String()}
	}
	if err != nil {
		return nil, err
	}
	return params, nil
}

func (f Flattener) flattenEnumerable(params *Params, q Enumerable) error {
	typeName := reflect.TypeOf(q).String()
	fields, err := q.QueryFields()
	if err != nil {
		return &FieldAccessError{Type: typeName, Err: err}
	}
	for _, field := range fields {
		fv := reflect.ValueOf(field.Value)
		if isEmptyValue(fv) {
			continue
		}
		s, err := formatValue(fv)
		if err != nil {
			return &FieldAccessError{Type: typeName, Field: field.Name, Err: err}
		}
		f.put(params, field.Name, s)
	}
	return nil
}

// pointerVisit identifies an embedded pointer that has already been walked.
type pointerVisit struct {
	typ reflect.Type
	ptr uintptr
}

// walkStruct visits the struct's own fields in declaration order, then each embedded struct
// in declaration order. v must be addressable. An embedded pointer that was already walked
// in this pass is skipped, which ends cycles.
func (f Flattener) walkStruct(params *Params, v reflect.Value, seen map[pointerVisit]bool) error {
	t := v.Type()
	var embedded []reflect.Value
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := readable(v.Field(i))
		name, skip := f.fieldName(sf)
		if skip {
			continue
		}
		if sf.Anonymous {
			if fv.Kind() == reflect.Ptr && !fv.IsNil() {
				visit := pointerVisit{fv.Type(), fv.Pointer()}
				if seen[visit] {
					continue
				}
				seen[visit] = true
			}
			if ev, ok := embeddedStruct(fv); ok {
				embedded = append(embedded, ev)
				continue
			}
			if isNilPointer(fv) {
				continue
			}
		}
		if isEmptyValue(fv) {
			continue
		}
		s, err := formatValue(fv)
		if err != nil {
			return &FieldAccessError{Type: t.String(), Field: sf.Name, Err: err}
		}
		f.put(params, name, s)
	}
	for _, ev := range embedded {
		if err := f.walkStruct(params, ev, seen); err != nil {
			return err
		}
	}
	return nil
}

func (f Flattener) walkMap(params *Params, v reflect.Value) error {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, k := range keys {
		mv := v.MapIndex(k)
		if isEmptyValue(mv) {
			continue
		}
		s, err := formatValue(mv)
		if err != nil {
			return &FieldAccessError{Type: v.Type().String(), Field: k.String(), Err: err}
		}
		f.put(params, k.String(), s)
	}
	return nil
}

func (f Flattener) put(params *Params, name, value string) {
	switch f.Collision {
	case KeepFirst:
		if !params.Has(name) {
			params.Add(name, value)
		}
	case Accumulate:
		params.Add(name, value)
	default:
		params.Set(name, value)
	}
}

func (f Flattener) fieldName(sf reflect.StructField) (string, bool) {
	if sf.Name == "_" {
		return "", true
	}
	tagKey := f.TagKey
	if tagKey == "" {
		tagKey = defaultTagKey
	}
	for _, key := range []string{tagKey, "json"} {
		tag, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		if tag == "-" {
			return "", true
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name, false
		}
	}
	return sf.Name, false
}

// readable gives an unexported field of an addressable struct the same access as an exported
// one, so that its methods are seen by the emptiness and rendering checks.
func readable(fv reflect.Value) reflect.Value {
	if fv.CanInterface() || !fv.CanAddr() {
		return fv
	}
	return reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
}

// embeddedStruct returns the struct value behind an embedded field, following a pointer.
func embeddedStruct(fv reflect.Value) (reflect.Value, bool) {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() || fv.Type().Elem().Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Struct || isTextual(fv) {
		return reflect.Value{}, false
	}
	return fv, true
}

// isTextual reports whether a struct renders itself, in which case an embedded instance is
// treated as a plain field rather than as an ancestor.
func isTextual(v reflect.Value) bool {
	if !v.CanInterface() {
		return false
	}
	switch v.Interface().(type) {
	case Valuer, encoding.TextMarshaler, time.Time:
		return true
	}
	return false
}

func formatValue(v reflect.Value) (string, error) {
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case Valuer:
			return x.QueryValue()
		case time.Time:
			return x.Format(time.RFC3339Nano), nil
		case encoding.TextMarshaler:
			b, err := x.MarshalText()
			if err != nil {
				return "", err
			}
			return string(b), nil
		case interface{ String() string }:
			return x.String(), nil
		}
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return formatValue(v.Elem())
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			s, err := formatValue(v.Index(i))
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	}
	return fmt.Sprint(v), nil
}
