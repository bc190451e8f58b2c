package jsonvet

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Node is a position in a document tree. Accepted shapes are nil (null), bool,
// string, numbers (json.Number and the Go numeric kinds), []any, *Object and
// map[string]any.
type Node = any

// Kind classifies a Node.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf reports the kind of n.
func KindOf(n Node) Kind {
	switch n.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case []any:
		return KindArray
	case *Object, map[string]any:
		return KindObject
	default:
		return KindInvalid
	}
}

// Object is an insertion-ordered JSON object.
type Object struct {
	keys   []string
	values map[string]Node
}

// NewObject returns an empty Object.
func NewObject() *Object { return &Object{values: map[string]Node{}} }

// ObjectOf builds an Object from alternating key/value pairs.
func ObjectOf(kv ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		o.Set(k, kv[i+1])
	}
	return o
}

// Set stores v under k. Re-setting a key replaces its value and keeps its
// original position.
func (o *Object) Set(k string, v Node) {
	if o.values == nil {
		o.values = map[string]Node{}
	}
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

// Get returns the value stored under exactly k.
func (o *Object) Get(k string) (Node, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[k]
	return v, ok
}

// Lookup finds k, optionally under Unicode case folding. With folding, the
// first matching key in document order wins.
func (o *Object) Lookup(k string, ignoreCase bool) (Node, bool) {
	if v, ok := o.Get(k); ok || !ignoreCase {
		return v, ok
	}
	for _, key := range o.Keys() {
		if strings.EqualFold(key, k) {
			return o.values[key], true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of properties.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for each property in order until fn returns false.
func (o *Object) Range(fn func(k string, v Node) bool) {
	for _, k := range o.Keys() {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// MarshalJSON emits the properties in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := gojson.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ObjectKeys lists the keys of an object node in iteration order. Plain maps
// iterate in sorted key order.
func ObjectKeys(n Node) ([]string, bool) {
	switch t := n.(type) {
	case *Object:
		return t.Keys(), true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, true
	default:
		return nil, false
	}
}

// ObjectGet looks up key in an object node. It reports false for non-objects
// and absent keys.
func ObjectGet(n Node, key string, ignoreCase bool) (Node, bool) {
	_, v, ok := ObjectFind(n, key, ignoreCase)
	return v, ok
}

// ObjectFind is ObjectGet that also returns the key as spelled in the
// document. Under case folding an exact match wins, then the first folded
// match in iteration order.
func ObjectFind(n Node, key string, ignoreCase bool) (string, Node, bool) {
	if v, ok := exactGet(n, key); ok || !ignoreCase {
		return key, v, ok
	}
	keys, _ := ObjectKeys(n)
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			v, _ := exactGet(n, k)
			return k, v, true
		}
	}
	return "", nil, false
}

func exactGet(n Node, key string) (Node, bool) {
	switch t := n.(type) {
	case *Object:
		return t.Get(key)
	case map[string]any:
		v, ok := t[key]
		return v, ok
	default:
		return nil, false
	}
}

// ArrayElems returns the elements of an array node.
func ArrayElems(n Node) ([]any, bool) {
	a, ok := n.([]any)
	return a, ok
}

// Stringify coerces a scalar to its primitive string form. Null, arrays and
// objects are not stringifiable.
func Stringify(n Node) (string, bool) {
	switch t := n.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case int:
		return strconv.FormatInt(int64(t), 10), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return "", false
	}
}

// Plain converts a document into plain Go values: *Object becomes
// map[string]any and json.Number becomes float64 when it parses.
func Plain(n Node) any {
	switch t := n.(type) {
	case *Object:
		m := make(map[string]any, t.Len())
		t.Range(func(k string, v Node) bool {
			m[k] = Plain(v)
			return true
		})
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[k] = Plain(v)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Plain(t[i])
		}
		return out
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return n
	}
}
