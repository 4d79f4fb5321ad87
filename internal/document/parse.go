// Package document turns option documents into a flat, editable option model
// and keeps the original tree for structure-preserving writes.
//
// A document is a top-level YAML mapping. The keys description, name, game and
// requires are root options; every other key holding a mapping is a section
// (conventionally a game name) whose members become that section's options.
package document

import (
	"fmt"
	"slices"

	"github.com/thirteen37/yamlforge/internal/logging"
	"github.com/thirteen37/yamlforge/internal/value"
	"gopkg.in/yaml.v3"
)

// RootKeys are the top-level keys treated as root options, in canonical order.
var RootKeys = []string{"description", "name", "game", "requires"}

// IsRootKey reports whether key is one of RootKeys.
func IsRootKey(key string) bool {
	return slices.Contains(RootKeys, key)
}

// Option is one editable entry of a document.
//
// Only Value changes after parsing. Kind, Comment and FlowStyle describe the
// option as it was loaded and OriginalValue keeps the loaded value.
type Option struct {
	Key           string
	Value         value.Value
	Kind          value.Kind
	OriginalValue value.Value
	Comment       string // comment written above the key, "" if none
	FlowStyle     bool   // mapping or sequence written inline
}

// Modified reports whether the option's value differs from the loaded one.
func (o *Option) Modified() bool {
	return !value.Equal(o.Value, o.OriginalValue)
}

// Section is a top-level key whose mapping was flattened into options.
type Section struct {
	Name    string
	Options []Option
}

// Option returns the option with the given key, or nil.
func (s *Section) Option(key string) *Option {
	for i := range s.Options {
		if s.Options[i].Key == key {
			return &s.Options[i]
		}
	}
	return nil
}

// Tree is the retained original document. It is never modified; merges
// re-parse Source to get an independent copy.
type Tree struct {
	source string
	doc    *yaml.Node
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() string {
	return t.source
}

// IsMapping reports whether the document's top level is a mapping.
func (t *Tree) IsMapping() bool {
	return t != nil && RootMapping(t.doc) != nil
}

// Clone parses Source again and returns the new document node.
func (t *Tree) Clone() (*yaml.Node, error) {
	docs, _, err := parseStream(t.source)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, fmt.Errorf("retained source holds %d documents, want 1", len(docs))
	}
	return docs[0], nil
}

// ParsedTemplate is the option model of one loaded document.
type ParsedTemplate struct {
	RootOptions []Option
	Sections    []Section
	Tree        *Tree // nil when the model was not parsed from text
}

// RootOption returns the root option with the given key, or nil.
func (p *ParsedTemplate) RootOption(key string) *Option {
	for i := range p.RootOptions {
		if p.RootOptions[i].Key == key {
			return &p.RootOptions[i]
		}
	}
	return nil
}

// Section returns the section with the given name, or nil.
func (p *ParsedTemplate) Section(name string) *Section {
	for i := range p.Sections {
		if p.Sections[i].Name == name {
			return &p.Sections[i]
		}
	}
	return nil
}

// Parse parses document text into its option model.
//
// Malformed text returns a *SyntaxError. Empty or comment-only text gives an
// empty model. A top-level sequence or scalar returns ErrNotMapping.
func Parse(text string) (*ParsedTemplate, error) {
	docs, values, err := parseStream(text)
	if err != nil {
		return nil, err
	}
	if len(docs) > 1 {
		return nil, fmt.Errorf("%w: found %d", ErrMultipleDocuments, len(docs))
	}

	tree := &Tree{source: text}
	if len(docs) == 0 {
		return &ParsedTemplate{Tree: tree}, nil
	}
	tree.doc = docs[0]

	switch root := values[0].(type) {
	case *value.Mapping:
		pt := extract(root, RootMapping(tree.doc))
		pt.Tree = tree
		return pt, nil
	case value.Null:
		return &ParsedTemplate{Tree: tree}, nil
	default:
		return nil, fmt.Errorf("%w: top level is %s", ErrNotMapping, value.Classify(root))
	}
}

// FromValue builds an option model from an already decoded document. The
// result has no tree, so merging it regenerates the document.
func FromValue(v value.Value) (*ParsedTemplate, error) {
	root, ok := v.(*value.Mapping)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %s", ErrNotMapping, value.Classify(v))
	}
	return extract(root, nil), nil
}

// extract flattens a decoded top-level mapping. rootNode may be nil, in which
// case options carry no comments or style information.
func extract(root *value.Mapping, rootNode *yaml.Node) *ParsedTemplate {
	pt := &ParsedTemplate{}

	for _, key := range root.Keys() {
		v, _ := root.Get(key)
		keyNode, valNode := pairNodes(rootNode, key)

		if IsRootKey(key) {
			pt.RootOptions = append(pt.RootOptions, newOption(key, v, keyNode, valNode))
			continue
		}

		members, ok := v.(*value.Mapping)
		if !ok {
			logging.Debug("Parse", "skipping top-level key %q: %s value is not a section", key, value.Classify(v))
			continue
		}

		sectionNode := resolveAlias(valNode)
		section := Section{Name: key}
		for _, member := range members.Keys() {
			mv, _ := members.Get(member)
			mk, mvn := pairNodes(sectionNode, member)
			section.Options = append(section.Options, newOption(member, mv, mk, mvn))
		}
		pt.Sections = append(pt.Sections, section)
	}

	return pt
}

// pairNodes finds the key and value nodes for key. Lookups never fail: an
// unexpected shape yields nil nodes.
func pairNodes(m *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	i := FindPair(m, key)
	if i < 0 {
		return nil, nil
	}
	return m.Content[i], m.Content[i+1]
}

func newOption(key string, v value.Value, keyNode, valNode *yaml.Node) Option {
	return Option{
		Key:           key,
		Value:         v,
		Kind:          value.Classify(v),
		OriginalValue: value.Clone(v),
		Comment:       commentBefore(keyNode),
		FlowStyle:     IsFlow(valNode),
	}
}
