// Package ini provides an INI format handler for yamlforge.
//
// Top-level scalars live in the default (unnamed) section and every top-level
// mapping becomes a named section. INI only stores strings, so members that
// are mappings or sequences are written as compact JSON and read back the same
// way; booleans and numbers are recognized on parse. Strings that would read
// back as another type, such as "true" or "50", are written as JSON strings.
// Quoted values always parse as strings.
package ini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/yamlforge/internal/format"
	"gopkg.in/ini.v1"
)

// Handler implements format.Handler for INI files.
type Handler struct{}

// New creates a new INI handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads INI bytes and returns an *orderedmap.OrderedMap.
// Structure: {"global": value, "section": {"key": value}}
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for INI format")
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{PreserveSurroundedQuote: true}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI: %w", err)
	}

	result := orderedmap.New()

	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				result.Set(key.Name(), decodeValue(key.Value()))
			}
			continue
		}

		sectionMap := orderedmap.New()
		for _, key := range section.Keys() {
			sectionMap.Set(key.Name(), decodeValue(key.Value()))
		}
		result.Set(section.Name(), sectionMap)
	}

	return result, nil
}

// decodeValue recovers typed values from INI strings.
func decodeValue(s string) any {
	trimmed := strings.TrimSpace(s)
	switch {
	case quotedWith(trimmed, '"'):
		var str string
		if err := json.Unmarshal([]byte(trimmed), &str); err == nil {
			return str
		}
		return trimmed[1 : len(trimmed)-1]
	case quotedWith(trimmed, '\''):
		return trimmed[1 : len(trimmed)-1]
	case strings.HasPrefix(trimmed, "{"):
		om := orderedmap.New()
		if err := json.Unmarshal([]byte(trimmed), om); err == nil {
			return format.Normalize(om)
		}
	case strings.HasPrefix(trimmed, "["):
		var list []any
		if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
			return format.Normalize(list)
		}
	case trimmed == "true" || trimmed == "false":
		return trimmed == "true"
	default:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return s
}

func quotedWith(s string, quote byte) bool {
	return len(s) >= 2 && s[0] == quote && s[len(s)-1] == quote
}

// Serialize writes the tree to formatted INI bytes.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return nil, fmt.Errorf("tree is not an ordered map")
	}

	cfg := ini.Empty()

	// Globals first so they stay above the first section header
	global := cfg.Section(ini.DefaultSection)
	for _, name := range om.Keys() {
		val, _ := om.Get(name)
		if format.ToOrderedMapPtr(val) != nil {
			continue
		}
		strVal, err := toString(val)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		if _, err := global.NewKey(name, strVal); err != nil {
			return nil, fmt.Errorf("failed to create key %q: %w", name, err)
		}
	}

	for _, sectionName := range om.Keys() {
		sectionVal, _ := om.Get(sectionName)
		sectionMap := format.ToOrderedMapPtr(sectionVal)
		if sectionMap == nil {
			continue
		}

		section, err := cfg.NewSection(sectionName)
		if err != nil {
			return nil, fmt.Errorf("failed to create section %q: %w", sectionName, err)
		}

		for _, keyName := range sectionMap.Keys() {
			keyVal, _ := sectionMap.Get(keyName)
			strVal, err := toString(keyVal)
			if err != nil {
				return nil, fmt.Errorf("key %q in section %q: %w", keyName, sectionName, err)
			}
			if _, err := section.NewKey(keyName, strVal); err != nil {
				return nil, fmt.Errorf("failed to create key %q: %w", keyName, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize INI: %w", err)
	}

	return buf.Bytes(), nil
}

// toString converts a member to its INI representation.
func toString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if decoded, ok := decodeValue(val).(string); ok && decoded == val {
			return val, nil
		}
		data, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("failed to encode value: %w", err)
		}
		return string(data), nil
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", val), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	return string(data), nil
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
