// Package format provides interfaces and implementations for converting option
// documents to and from other configuration file formats.
//
// Handlers work on plain ordered trees: *orderedmap.OrderedMap for mappings,
// []any for sequences and Go scalars for everything else.
package format

import "fmt"

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	StripComments bool // Strip comments (for JSON/JSONC)
}

// SerializeOptions configures serialization behavior.
type SerializeOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// Handler defines the interface for configuration file format handlers.
type Handler interface {
	// Parse reads raw bytes and returns a plain ordered tree.
	Parse(data []byte, opts ParseOptions) (any, error)

	// Serialize writes the tree back to bytes.
	Serialize(tree any, opts SerializeOptions) ([]byte, error)
}

// Names lists the formats with a registered handler, in display order.
var Names = []string{"json", "toml", "ini"}

// UnsupportedError is returned for a format name without a handler.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: json, toml, ini)", e.Name)
}
