package format

import "github.com/iancoleman/orderedmap"

// ToOrderedMapPtr converts both value and pointer types of OrderedMap to a pointer.
// Returns nil if the value is not an OrderedMap.
func ToOrderedMapPtr(v any) *orderedmap.OrderedMap {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val
	case orderedmap.OrderedMap:
		return &val
	default:
		return nil
	}
}

// Normalize converts nested orderedmap.OrderedMap values into pointers so
// callers only need to handle one mapping representation.
func Normalize(v any) any {
	if om := ToOrderedMapPtr(v); om != nil {
		out := orderedmap.New()
		for _, k := range om.Keys() {
			member, _ := om.Get(k)
			out.Set(k, Normalize(member))
		}
		return out
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = Normalize(item)
		}
		return out
	}
	return v
}
