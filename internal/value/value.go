// Package value provides the decoded value model shared by the document parser,
// the merge engine and the format handlers.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/yamlforge/internal/format"
)

// Value is a decoded document value. The set of implementations is closed:
// String, Number, Bool, Null, Sequence and *Mapping.
type Value interface {
	isValue()
}

// String is a scalar string.
type String string

// Number is a scalar number. Integers and floats share one representation.
type Number float64

// Bool is a scalar boolean.
type Bool bool

// Null is an explicit or empty YAML null.
type Null struct{}

// Sequence is an ordered list of values.
type Sequence []Value

// Mapping is a string-keyed mapping that keeps insertion order.
type Mapping struct {
	om *orderedmap.OrderedMap
}

func (String) isValue()   {}
func (Number) isValue()   {}
func (Bool) isValue()     {}
func (Null) isValue()     {}
func (Sequence) isValue() {}
func (*Mapping) isValue() {}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{om: orderedmap.New()}
}

func (m *Mapping) ensure() {
	if m.om == nil {
		m.om = orderedmap.New()
	}
}

// Keys returns the member keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil || m.om == nil {
		return nil
	}
	return m.om.Keys()
}

// Len returns the number of members.
func (m *Mapping) Len() int {
	return len(m.Keys())
}

// Get returns the member stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil || m.om == nil {
		return nil, false
	}
	v, ok := m.om.Get(key)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

// Set stores v under key. Existing keys keep their position.
func (m *Mapping) Set(key string, v Value) {
	m.ensure()
	m.om.Set(key, v)
}

// Delete removes key if present.
func (m *Mapping) Delete(key string) {
	if m.om != nil {
		m.om.Delete(key)
	}
}

// IsInteger reports whether n has no fractional part and fits an int64.
func (n Number) IsInteger() bool {
	f := float64(n)
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1<<63
}

// String renders the number the way it would appear in a document.
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	case n.IsInteger():
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Equal reports whether a and b are structurally equal. Mapping member order
// is not significant.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && (av == bv || (math.IsNaN(float64(av)) && math.IsNaN(float64(bv))))
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case nil:
		return b == nil
	case Sequence:
		bv, ok := b.(Sequence)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			x, _ := av.Get(k)
			y, found := bv.Get(k)
			if !found || !Equal(x, y) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Sequence:
		out := make(Sequence, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case *Mapping:
		out := NewMapping()
		for _, k := range val.Keys() {
			member, _ := val.Get(k)
			out.Set(k, Clone(member))
		}
		return out
	default:
		// Scalars are immutable
		return val
	}
}

// ToPlain converts v into the plain tree used by the format handlers:
// *orderedmap.OrderedMap, []any, string, int64, float64, bool or nil.
func ToPlain(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Number:
		if val.IsInteger() {
			return int64(val)
		}
		return float64(val)
	case Bool:
		return bool(val)
	case Sequence:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToPlain(item)
		}
		return out
	case *Mapping:
		out := orderedmap.New()
		for _, k := range val.Keys() {
			member, _ := val.Get(k)
			out.Set(k, ToPlain(member))
		}
		return out
	default:
		return nil
	}
}

// FromPlain converts a plain tree produced by a decoder back into a Value.
// Go maps have no order, so their keys are sorted.
func FromPlain(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Number(val), nil
	case int32:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case time.Time:
		return String(val.Format(time.RFC3339Nano)), nil
	case []any:
		out := make(Sequence, len(val))
		for i, item := range val {
			x, err := FromPlain(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = x
		}
		return out, nil
	case []map[string]any:
		out := make(Sequence, len(val))
		for i, item := range val {
			x, err := FromPlain(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = x
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewMapping()
		for _, k := range keys {
			x, err := FromPlain(val[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out.Set(k, x)
		}
		return out, nil
	}

	if om := format.ToOrderedMapPtr(v); om != nil {
		out := NewMapping()
		for _, k := range om.Keys() {
			member, _ := om.Get(k)
			x, err := FromPlain(member)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out.Set(k, x)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported value of type %T", v)
}
