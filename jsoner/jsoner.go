// Package jsoner holds the JSON configuration shared by the API tester and the demo service,
// with helpers that hide the underlying API value from callers.
package jsoner

import (
	"fmt"
	"io"
	"io/ioutil"
	"sync"

	json "github.com/json-iterator/go"
)

const prettyIndent = "  "

var (
	defaultAPI = newDefaultAPI()
	shared     json.API
	lock       sync.RWMutex
)

func newDefaultAPI() json.API {
	api := json.Config{
		EscapeHTML:             false,
		SortMapKeys:            true,
		UseNumber:              true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&timestampExtension{})
	return api
}

// API returns the injected shared API, or the default one if nothing was injected.
func API() json.API {
	lock.RLock()
	defer lock.RUnlock()
	if shared != nil {
		return shared
	}
	return defaultAPI
}

// InjectShared replaces the API used by every helper in this package. Passing nil restores
// the default configuration.
func InjectShared(api json.API) {
	lock.Lock()
	shared = api
	lock.Unlock()
}

// ToJSONString serializes v as indented JSON.
func ToJSONString(v interface{}) (string, error) {
	data, err := API().MarshalIndent(v, "", prettyIndent)
	if err != nil {
		return "", fmt.Errorf("jsoner: serialize %T: %w", v, err)
	}
	return string(data), nil
}

// MustToJSONString is like ToJSONString but panics on failure.
func MustToJSONString(v interface{}) string {
	s, err := ToJSONString(v)
	if err != nil {
		panic(err)
	}
	return s
}

// ToBytes serializes v as compact JSON.
func ToBytes(v interface{}) ([]byte, error) {
	data, err := API().Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsoner: serialize %T: %w", v, err)
	}
	return data, nil
}

// ToPrettyJSONString re-indents a JSON document.
func ToPrettyJSONString(s string) (string, error) {
	var doc interface{}
	if err := ParseObject(s, &doc); err != nil {
		return "", err
	}
	return ToJSONString(doc)
}

// ParseObject decodes the JSON document s into v, which must be a pointer.
func ParseObject(s string, v interface{}) error {
	if err := API().UnmarshalFromString(s, v); err != nil {
		return fmt.Errorf("jsoner: parse into %T: %w", v, err)
	}
	return nil
}

// MustParseObject is like ParseObject but panics on failure.
func MustParseObject(s string, v interface{}) {
	if err := ParseObject(s, v); err != nil {
		panic(err)
	}
}

func ParseBytes(data []byte, v interface{}) error {
	if err := API().Unmarshal(data, v); err != nil {
		return fmt.Errorf("jsoner: parse into %T: %w", v, err)
	}
	return nil
}

// ParseReader reads all of r and decodes it into v.
func ParseReader(r io.Reader, v interface{}) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return fmt.Errorf("jsoner: read: %w", err)
	}
	return ParseBytes(data, v)
}

// ParseArray decodes a JSON array. Numbers are returned as json.Number.
func ParseArray(s string) ([]interface{}, error) {
	var ret []interface{}
	if err := ParseObject(s, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ToList is an alias of ParseArray.
func ToList(s string) ([]interface{}, error) {
	return ParseArray(s)
}

// ToMap decodes a JSON object.
func ToMap(s string) (map[string]interface{}, error) {
	var ret map[string]interface{}
	if err := ParseObject(s, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// MapToObject converts a decoded JSON object into a typed value by re-encoding it.
func MapToObject(m map[string]interface{}, v interface{}) error {
	data, err := ToBytes(m)
	if err != nil {
		return err
	}
	return ParseBytes(data, v)
}

// ObjectToMap converts v into its JSON object form.
func ObjectToMap(v interface{}) (map[string]interface{}, error) {
	data, err := ToBytes(v)
	if err != nil {
		return nil, err
	}
	var ret map[string]interface{}
	if err := ParseBytes(data, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Valid reports whether data is a well-formed JSON document.
func Valid(data []byte) bool {
	return API().Valid(data)
}
