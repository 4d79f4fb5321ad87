// Package path addresses options and the members inside their values.
//
// The first segment names a root option (["name"]) or a section
// (["Game A", "accessibility"]). Later segments step into the option's value:
// mapping keys by name and sequence items by decimal index, as in
// ["Game A", "start_inventory", "0"].
package path

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Path is anything that can be resolved against an option document.
type Path interface {
	// Segments lists the keys from the top of the document down.
	Segments() []string

	// String renders the path the way users type it.
	String() string
}

// ArrayPath is a Path written as a JSON array of strings.
type ArrayPath struct {
	segments []string
}

// NewArrayPath returns an ArrayPath over a copy of segments.
func NewArrayPath(segments []string) *ArrayPath {
	return &ArrayPath{segments: append([]string(nil), segments...)}
}

// ParseArrayPath reads a path typed as a JSON array, for instance
// `["A Link to the Past", "accessibility", "full"]`. Empty arrays are rejected.
func ParseArrayPath(s string) (*ArrayPath, error) {
	var segments []string
	if err := json.Unmarshal([]byte(s), &segments); err != nil {
		return nil, fmt.Errorf("invalid path array: %w", err)
	}
	if len(segments) == 0 {
		return nil, errors.New("invalid path array: no segments")
	}
	return &ArrayPath{segments: segments}, nil
}

// Segments returns the keys of the path.
func (p *ArrayPath) Segments() []string {
	return p.segments
}

// String returns the compact JSON array form accepted by ParseArrayPath.
func (p *ArrayPath) String() string {
	data, _ := json.Marshal(p.segments)
	return string(data)
}
