package value

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoMember is returned when a member path does not resolve.
var ErrNoMember = errors.New("no such member")

// GetIn returns the member of v addressed by keys. Sequence members are
// addressed by decimal index.
func GetIn(v Value, keys []string) (Value, error) {
	current := v
	for i, key := range keys {
		switch val := current.(type) {
		case *Mapping:
			next, ok := val.Get(key)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrNoMember, key)
			}
			current = next
		case Sequence:
			idx, err := sequenceIndex(val, key, false)
			if err != nil {
				return nil, err
			}
			current = val[idx]
		default:
			return nil, fmt.Errorf("%w: cannot index %s value with %q", ErrNoMember, Classify(current), keys[i])
		}
	}
	return current, nil
}

// SetIn returns a copy of v with the member addressed by keys replaced by x.
// Missing mapping members are created, intermediate ones as empty mappings.
// Appending to a sequence uses the index equal to its length.
func SetIn(v Value, keys []string, x Value) (Value, error) {
	if len(keys) == 0 {
		return x, nil
	}

	switch val := v.(type) {
	case *Mapping:
		out := Clone(val).(*Mapping)
		child, ok := val.Get(keys[0])
		if !ok {
			child = NewMapping()
		}
		updated, err := SetIn(child, keys[1:], x)
		if err != nil {
			return nil, err
		}
		out.Set(keys[0], updated)
		return out, nil
	case Sequence:
		idx, err := sequenceIndex(val, keys[0], true)
		if err != nil {
			return nil, err
		}
		out := Clone(val).(Sequence)
		if idx == len(out) {
			out = append(out, NewMapping())
		}
		updated, err := SetIn(out[idx], keys[1:], x)
		if err != nil {
			return nil, err
		}
		out[idx] = updated
		return out, nil
	}
	return nil, fmt.Errorf("%w: cannot set %q inside %s value", ErrNoMember, keys[0], Classify(v))
}

// DeleteIn returns a copy of v without the member addressed by keys.
func DeleteIn(v Value, keys []string) (Value, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty member path", ErrNoMember)
	}

	switch val := v.(type) {
	case *Mapping:
		child, ok := val.Get(keys[0])
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoMember, keys[0])
		}
		out := Clone(val).(*Mapping)
		if len(keys) == 1 {
			out.Delete(keys[0])
			return out, nil
		}
		updated, err := DeleteIn(child, keys[1:])
		if err != nil {
			return nil, err
		}
		out.Set(keys[0], updated)
		return out, nil
	case Sequence:
		idx, err := sequenceIndex(val, keys[0], false)
		if err != nil {
			return nil, err
		}
		out := Clone(val).(Sequence)
		if len(keys) == 1 {
			return append(out[:idx], out[idx+1:]...), nil
		}
		updated, err := DeleteIn(out[idx], keys[1:])
		if err != nil {
			return nil, err
		}
		out[idx] = updated
		return out, nil
	}
	return nil, fmt.Errorf("%w: cannot delete %q inside %s value", ErrNoMember, keys[0], Classify(v))
}

func sequenceIndex(seq Sequence, key string, allowAppend bool) (int, error) {
	idx, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a sequence index", ErrNoMember, key)
	}
	limit := len(seq)
	if allowAppend {
		limit++
	}
	if idx < 0 || idx >= limit {
		return 0, fmt.Errorf("%w: index %d out of range", ErrNoMember, idx)
	}
	return idx, nil
}
