package param

import (
	"bytes"
	"encoding/json"

	"github.com/xh3b4sd/tracer"
)

// Param is a single canonical backend parameter. Val is either a number, a
// string or a boolean.
type Param struct {
	Key string
	Val interface{}
}

// Params is the ordered canonical parameter set handed to the backend.
type Params []Param

// Get returns the value emitted under the given key.
func (p Params) Get(key string) (interface{}, bool) {
	for _, x := range p {
		if x.Key == key {
			return x.Val, true
		}
	}

	return nil, false
}

// Has reports whether the given key was emitted.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Keys returns the emitted keys in order.
func (p Params) Keys() []string {
	var key []string
	for _, x := range p {
		key = append(key, x.Key)
	}

	return key
}

// Map returns the parameters as an unordered map.
func (p Params) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(p))
	for _, x := range p {
		m[x.Key] = x.Val
	}

	return m
}

// MarshalJSON renders the parameters as a JSON object preserving order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, x := range p {
		if i != 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(x.Key)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		val, err := json.Marshal(x.Val)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (p *Params) put(key string, val interface{}) {
	*p = append(*p, Param{Key: key, Val: val})
}
