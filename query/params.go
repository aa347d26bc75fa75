package query

import (
	"net/url"
	"strings"
)

// Params is an ordered multi-map of query parameter names to values. Names keep the order in
// which they were first added, so the encoded query string is deterministic.
//
// The zero value is not usable; call NewParams.
type Params struct {
	keys   []string
	values map[string][]string
}

// NewParams creates an empty Params.
func NewParams() *Params {
	return &Params{values: make(map[string][]string)}
}

// Add appends a value to the list for the given name.
func (p *Params) Add(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = append(p.values[key], value)
}

// Set replaces all values for the given name. A name that was already present keeps its
// original position.
func (p *Params) Set(key string, values ...string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = append([]string(nil), values...)
}

// Get returns the first value for the name, or "" if there is none.
func (p *Params) Get(key string) string {
	if vs := p.values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values returns a copy of all values for the name.
func (p *Params) Values(key string) []string {
	vs, ok := p.values[key]
	if !ok {
		return nil
	}
	return append([]string(nil), vs...)
}

func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p *Params) Del(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Each calls fn for every name in insertion order.
func (p *Params) Each(fn func(key string, values []string)) {
	for _, k := range p.keys {
		fn(k, p.Values(k))
	}
}

// URLValues copies the parameters into a url.Values.
func (p *Params) URLValues() url.Values {
	ret := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		ret[k] = p.Values(k)
	}
	return ret
}

// Encode returns the parameters in URL-encoded form ("a=1&b=2"). Unlike url.Values.Encode,
// names are written in insertion order rather than sorted.
func (p *Params) Encode() string {
	var b strings.Builder
	for _, k := range p.keys {
		ek := url.QueryEscape(k)
		for _, v := range p.values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(ek)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// String describes the parameters as {name=[value1, value2], other=[value]}.
func (p *Params) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString("=[")
		b.WriteString(strings.Join(p.values[k], ", "))
		b.WriteByte(']')
	}
	b.WriteByte('}')
	return b.String()
}
