package value

// Kind is the edit-kind of an option. It decides which editor shape a value
// gets and is fixed once at parse time.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindArray    Kind = "array"
	KindWeighted Kind = "weighted"
	KindObject   Kind = "object"
)

// Classify returns the edit-kind of v.
//
// A mapping is weighted when every member is a number. An empty mapping is
// therefore weighted, which lets editors pick the weighted form before any
// entry exists.
func Classify(v Value) Kind {
	switch val := v.(type) {
	case Sequence:
		return KindArray
	case *Mapping:
		for _, k := range val.Keys() {
			member, _ := val.Get(k)
			if _, ok := member.(Number); !ok {
				return KindObject
			}
		}
		return KindWeighted
	case Bool:
		return KindBoolean
	case Number:
		return KindNumber
	default:
		return KindString
	}
}
