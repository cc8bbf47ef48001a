// Package modelconfig reads model configuration documents handed to a backend by
// the serving process.
//
// A parsed document is an immutable tree of Values. Every accessor is fallible:
// a missing required key or a value of the wrong type is reported as a
// *SchemaError carrying the dotted path of the offending key, e.g.
// "input[1].allow_ragged_batch".
package modelconfig

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/replicate/tensorbackend/pkg/util/slicesext"
)

// Value is a node of a parsed configuration document.
type Value struct {
	path string
	raw  any
}

func newValue(path string, raw any) *Value {
	return &Value{path: path, raw: raw}
}

// Path returns the location of this value in the document. The root has an empty path.
func (v *Value) Path() string {
	return v.path
}

func (v *Value) child(key string) string {
	if v.path == "" {
		return key
	}
	return v.path + "." + key
}

func (v *Value) displayPath() string {
	if v.path == "" {
		return "<root>"
	}
	return v.path
}

// IsObject reports whether the value is a JSON object.
func (v *Value) IsObject() bool {
	_, ok := v.raw.(map[string]any)
	return ok
}

// IsArray reports whether the value is a JSON array.
func (v *Value) IsArray() bool {
	_, ok := v.raw.([]any)
	return ok
}

// Keys returns the sorted member names of an object, or nil for any other value.
func (v *Value) Keys() []string {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return nil
	}
	return slicesext.SortedKeys(obj)
}

// Lookup returns the member named key. Members set to null are treated as absent.
func (v *Value) Lookup(key string) (*Value, bool) {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return nil, false
	}
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, false
	}
	return newValue(v.child(key), raw), true
}

func (v *Value) member(key string) (*Value, error) {
	if !v.IsObject() {
		return nil, wrongType(v.displayPath(), "mapping", v.raw)
	}
	m, ok := v.Lookup(key)
	if !ok {
		return nil, missingKey(v.child(key))
	}
	return m, nil
}

// GetString returns the required string member named key.
func (v *Value) GetString(key string) (string, error) {
	m, err := v.member(key)
	if err != nil {
		return "", err
	}
	return m.AsString()
}

// GetInt returns the required integer member named key.
func (v *Value) GetInt(key string) (int64, error) {
	m, err := v.member(key)
	if err != nil {
		return 0, err
	}
	return m.AsInt()
}

// GetBool returns the required boolean member named key.
func (v *Value) GetBool(key string) (bool, error) {
	m, err := v.member(key)
	if err != nil {
		return false, err
	}
	return m.AsBool()
}

// GetArray returns the required array member named key.
func (v *Value) GetArray(key string) (*Value, error) {
	m, err := v.member(key)
	if err != nil {
		return nil, err
	}
	if !m.IsArray() {
		return nil, wrongType(m.path, "list", m.raw)
	}
	return m, nil
}

// GetObject returns the required object member named key.
func (v *Value) GetObject(key string) (*Value, error) {
	m, err := v.member(key)
	if err != nil {
		return nil, err
	}
	if !m.IsObject() {
		return nil, wrongType(m.path, "mapping", m.raw)
	}
	return m, nil
}

// IntOr returns the integer member named key, or def when the key is absent.
func (v *Value) IntOr(key string, def int64) (int64, error) {
	m, ok := v.Lookup(key)
	if !ok {
		return def, nil
	}
	return m.AsInt()
}

// BoolOr returns the boolean member named key, or def when the key is absent.
func (v *Value) BoolOr(key string, def bool) (bool, error) {
	m, ok := v.Lookup(key)
	if !ok {
		return def, nil
	}
	return m.AsBool()
}

// StringsOr returns the string array member named key, or nil when the key is absent.
func (v *Value) StringsOr(key string) ([]string, error) {
	m, ok := v.Lookup(key)
	if !ok {
		return nil, nil
	}
	if !m.IsArray() {
		return nil, wrongType(m.path, "list", m.raw)
	}
	out := make([]string, 0, m.Len())
	for _, item := range m.Items() {
		s, err := item.AsString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// AsString returns the value as a string.
func (v *Value) AsString() (string, error) {
	s, ok := v.raw.(string)
	if !ok {
		return "", wrongType(v.displayPath(), "string", v.raw)
	}
	return s, nil
}

// AsBool returns the value as a boolean.
func (v *Value) AsBool() (bool, error) {
	b, ok := v.raw.(bool)
	if !ok {
		return false, wrongType(v.displayPath(), "boolean", v.raw)
	}
	return b, nil
}

// AsInt returns the value as an integer. Numbers without a fractional part and
// decimal strings are accepted; protobuf JSON encodes 64-bit integers as strings.
func (v *Value) AsInt() (int64, error) {
	switch n := v.raw.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, wrongType(v.displayPath(), "integer", v.raw)
		}
		return int64(f), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, wrongType(v.displayPath(), "integer", v.raw)
		}
		return i, nil
	default:
		return 0, wrongType(v.displayPath(), "integer", v.raw)
	}
}

// Len returns the number of elements of an array, or 0 for any other value.
func (v *Value) Len() int {
	arr, ok := v.raw.([]any)
	if !ok {
		return 0
	}
	return len(arr)
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	arr, ok := v.raw.([]any)
	if !ok {
		return nil, wrongType(v.displayPath(), "list", v.raw)
	}
	if i < 0 || i >= len(arr) {
		return nil, &SchemaError{
			Field:   v.displayPath(),
			Message: "index " + strconv.Itoa(i) + " out of range",
		}
	}
	return newValue(v.path+"["+strconv.Itoa(i)+"]", arr[i]), nil
}

// IndexAsObject returns the i-th element of an array, which must be an object.
func (v *Value) IndexAsObject(i int) (*Value, error) {
	item, err := v.Index(i)
	if err != nil {
		return nil, err
	}
	if !item.IsObject() {
		return nil, wrongType(item.path, "mapping", item.raw)
	}
	return item, nil
}

// Items returns the elements of an array, or nil for any other value.
func (v *Value) Items() []*Value {
	arr, ok := v.raw.([]any)
	if !ok {
		return nil
	}
	items := make([]*Value, len(arr))
	for i, raw := range arr {
		items[i] = newValue(v.path+"["+strconv.Itoa(i)+"]", raw)
	}
	return items
}

// MarshalJSON encodes the subtree rooted at v.
func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func typeName(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return "unknown"
	}
}
