package apitester

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/launchdarkly/mock-api-tester/jsoner"
)

// parseJSONPath splits an expression such as $.data.items[0]['first name'] into the key
// list used by jsonparser. Array indexes are kept in their bracketed form.
func parseJSONPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "$") {
		return nil, fmt.Errorf("JSON path %q must start with $", path)
	}
	var keys []string
	rest := path[1:]
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return nil, fmt.Errorf("JSON path %q has an empty key", path)
			}
			keys = append(keys, rest[:end])
			rest = rest[end:]
		case '[':
			if strings.HasPrefix(rest, "['") {
				end := strings.Index(rest, "']")
				if end < 0 {
					return nil, fmt.Errorf("JSON path %q has an unterminated key", path)
				}
				keys = append(keys, rest[2:end])
				rest = rest[end+2:]
				continue
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("JSON path %q has an unterminated index", path)
			}
			if _, err := strconv.Atoi(rest[1:end]); err != nil {
				return nil, fmt.Errorf("JSON path %q has an invalid index %q", path, rest[1:end])
			}
			keys = append(keys, rest[:end+1])
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("JSON path %q is malformed at %q", path, rest)
		}
	}
	return keys, nil
}

type jsonPathValue struct {
	raw      []byte
	dataType jsonparser.ValueType
}

func lookupJSONPath(data []byte, path string) (jsonPathValue, error) {
	keys, err := parseJSONPath(path)
	if err != nil {
		return jsonPathValue{}, err
	}
	raw, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		if err == jsonparser.KeyPathNotFoundError {
			return jsonPathValue{}, fmt.Errorf("no value at JSON path %q", path)
		}
		return jsonPathValue{}, fmt.Errorf("cannot evaluate JSON path %q: %w", path, err)
	}
	return jsonPathValue{raw: raw, dataType: dataType}, nil
}

// decode converts the value to the same representation jsoner uses: strings, bools,
// json.Number, nil, []interface{} and map[string]interface{}.
func (v jsonPathValue) decode() (interface{}, error) {
	switch v.dataType {
	case jsonparser.String:
		return jsonparser.ParseString(v.raw)
	case jsonparser.Number:
		return json.Number(string(v.raw)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(v.raw)
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Object, jsonparser.Array:
		var ret interface{}
		if err := jsoner.ParseBytes(v.raw, &ret); err != nil {
			return nil, err
		}
		return ret, nil
	}
	return nil, fmt.Errorf("unrecognized JSON value %q", string(v.raw))
}

func (v jsonPathValue) String() string {
	if v.dataType == jsonparser.String {
		return strconv.Quote(string(v.raw))
	}
	return string(v.raw)
}

// matches compares the value at a JSON path with an expected Go value. Strings compare as
// text, numbers numerically, and null only matches nil. Anything else is compared by its
// JSON form.
func (v jsonPathValue) matches(want interface{}) (bool, error) {
	if want == nil {
		return v.dataType == jsonparser.Null, nil
	}
	switch v.dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(v.raw)
		if err != nil {
			return false, err
		}
		w, ok := stringValue(want)
		return ok && s == w, nil
	case jsonparser.Number:
		if w, ok := stringValue(want); ok {
			return string(v.raw) == w, nil
		}
		w, ok := toFloat64(want)
		if !ok {
			return false, nil
		}
		f, err := jsonparser.ParseFloat(v.raw)
		if err != nil {
			return false, err
		}
		return f == w, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(v.raw)
		if err != nil {
			return false, err
		}
		w, ok := want.(bool)
		return ok && b == w, nil
	case jsonparser.Null:
		return false, nil
	}
	actual, err := v.decode()
	if err != nil {
		return false, err
	}
	data, err := jsoner.ToBytes(want)
	if err != nil {
		return false, err
	}
	var expected interface{}
	if err := jsoner.ParseBytes(data, &expected); err != nil {
		return false, err
	}
	return reflect.DeepEqual(normalizeNumbers(actual), normalizeNumbers(expected)), nil
}

func stringValue(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		if _, isNumber := v.(json.Number); !isNumber {
			return s.String(), true
		}
	}
	return "", false
}

func toFloat64(v interface{}) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// normalizeNumbers replaces json.Number values with float64, so that 1 and 1.0 are equal.
func normalizeNumbers(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x
	case []interface{}:
		ret := make([]interface{}, len(x))
		for i, e := range x {
			ret[i] = normalizeNumbers(e)
		}
		return ret
	case map[string]interface{}:
		ret := make(map[string]interface{}, len(x))
		for k, e := range x {
			ret[k] = normalizeNumbers(e)
		}
		return ret
	}
	return v
}
