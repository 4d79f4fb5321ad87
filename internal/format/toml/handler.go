// Package toml provides a TOML format handler for yamlforge.
package toml

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/yamlforge/internal/format"
)

// Handler implements format.Handler for TOML files.
type Handler struct{}

// New creates a new TOML handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads TOML bytes and returns an *orderedmap.OrderedMap.
// Key order from the original TOML document is preserved.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for TOML format")
	}

	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return orderWithMeta(raw, meta, nil), nil
}

// orderWithMeta recursively converts decoded TOML into ordered maps, using the
// metadata key list to recover document order.
func orderWithMeta(v any, meta toml.MetaData, prefix []string) any {
	switch val := v.(type) {
	case map[string]any:
		result := orderedmap.New()
		for _, k := range keysInOrder(meta, prefix, val) {
			childPrefix := append(slices.Clone(prefix), k)
			result.Set(k, orderWithMeta(val[k], meta, childPrefix))
		}
		return result
	case []map[string]any:
		// Array of tables: members share the table's key prefix
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = orderWithMeta(item, meta, prefix)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = orderWithMeta(item, meta, prefix)
		}
		return result
	default:
		return val
	}
}

// keysInOrder returns the keys of m in document order.
func keysInOrder(meta toml.MetaData, prefix []string, m map[string]any) []string {
	ordered := make([]string, 0, len(m))
	for _, key := range meta.Keys() {
		if len(key) != len(prefix)+1 || !slices.Equal(key[:len(prefix)], prefix) {
			continue
		}
		k := key[len(prefix)]
		if _, ok := m[k]; ok && !slices.Contains(ordered, k) {
			ordered = append(ordered, k)
		}
	}

	// Keys missing from metadata (inline tables inside arrays) keep a stable order
	var rest []string
	for k := range m {
		if !slices.Contains(ordered, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(ordered, rest...)
}

// Serialize writes the tree to TOML bytes.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	regular, ok := toRegular(tree).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("TOML documents must be tables, got %T", tree)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if opts.Indent != "" {
		encoder.Indent = opts.Indent
	}
	if err := encoder.Encode(regular); err != nil {
		return nil, fmt.Errorf("failed to serialize TOML: %w", err)
	}

	return buf.Bytes(), nil
}

// toRegular converts ordered maps to map[string]any for the encoder.
// TOML has no null, so nil members are left out.
// Note: BurntSushi/toml sorts keys alphabetically on output.
func toRegular(v any) any {
	if om := format.ToOrderedMapPtr(v); om != nil {
		result := make(map[string]any, len(om.Keys()))
		for _, k := range om.Keys() {
			member, _ := om.Get(k)
			if member == nil {
				continue
			}
			result[k] = toRegular(member)
		}
		return result
	}
	if list, ok := v.([]any); ok {
		result := make([]any, 0, len(list))
		for _, item := range list {
			if item == nil {
				continue
			}
			result = append(result, toRegular(item))
		}
		return result
	}
	return v
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
