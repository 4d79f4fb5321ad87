package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/thirteen37/yamlforge/internal/value"
	"gopkg.in/yaml.v3"
)

// DefaultIndent is the indentation used when serializing documents.
const DefaultIndent = 2

// maxDepth bounds nesting while decoding, which also stops alias cycles.
const maxDepth = 256

// parseStream parses every document in text and decodes each one.
func parseStream(text string) ([]*yaml.Node, []value.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var (
		docs   []*yaml.Node
		values []value.Value
	)
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, newSyntaxError(err)
		}
		v, err := DecodeNode(&doc)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, &doc)
		values = append(values, v)
	}
	return docs, values, nil
}

// DecodeNode converts a node tree into a decoded value. Aliases are expanded.
// Duplicate mapping keys, runaway nesting and excessive alias expansion are
// reported as syntax errors.
func DecodeNode(n *yaml.Node) (value.Value, error) {
	d := &decoder{}
	return d.decode(n, 0)
}

// decoder tracks how many nodes were produced and how many of them came from
// expanding aliases.
type decoder struct {
	decodeCount int
	aliasCount  int
	aliasDepth  int
}

// allowedAliasRatio returns the share of decoded nodes that may come from
// alias expansion. Small documents may alias freely; large ones may not.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= 400000:
		return 0.99
	case decodeCount >= 4000000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-400000)/3600000)
	}
}

func (d *decoder) decode(n *yaml.Node, depth int) (value.Value, error) {
	if n == nil {
		return value.Null{}, nil
	}
	if depth > maxDepth {
		return nil, &SyntaxError{Line: n.Line, Msg: "document nested too deeply (recursive alias?)"}
	}

	d.decodeCount++
	if d.aliasDepth > 0 {
		d.aliasCount++
	}
	if d.aliasCount > 100 && d.decodeCount > 1000 && float64(d.aliasCount)/float64(d.decodeCount) > allowedAliasRatio(d.decodeCount) {
		return nil, &SyntaxError{Line: n.Line, Msg: "document contains excessive aliasing"}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return d.decode(n.Content[0], depth+1)
	case yaml.AliasNode:
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()
		return d.decode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		seq := make(value.Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.decode(item, depth+1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		m := value.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := resolveAlias(n.Content[i]).Value
			if _, exists := m.Get(key); exists {
				return nil, &SyntaxError{Line: n.Content[i].Line, Msg: fmt.Sprintf("mapping key %q already defined", key)}
			}
			v, err := d.decode(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		return m, nil
	}
	return value.Null{}, nil
}

func decodeScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, &SyntaxError{Line: n.Line, Msg: err.Error()}
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, &SyntaxError{Line: n.Line, Msg: err.Error()}
		}
		return value.Number(f), nil
	default:
		// Strings, timestamps and custom tags keep their source text
		return value.String(n.Value), nil
	}
}

// BuildNode creates a fresh node tree for v. When flow is set the outermost
// mapping or sequence is written in inline style.
func BuildNode(v value.Value, flow bool) *yaml.Node {
	var n *yaml.Node
	switch val := v.(type) {
	case value.String:
		n = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(val)}
	case value.Number:
		tag := "!!float"
		if val.IsInteger() {
			tag = "!!int"
		}
		n = &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case value.Bool:
		n = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", bool(val))}
	case value.Sequence:
		n = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			n.Content = append(n.Content, BuildNode(item, false))
		}
	case *value.Mapping:
		n = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range val.Keys() {
			member, _ := val.Get(k)
			n.Content = append(n.Content, keyNode(k), BuildNode(member, false))
		}
	default:
		n = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	if flow && (n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode) {
		n.Style = yaml.FlowStyle
	}
	return n
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

// AppendPair adds key: v at the end of mapping node m.
func AppendPair(m *yaml.Node, key string, v value.Value) {
	m.Content = append(m.Content, keyNode(key), BuildNode(v, false))
}

// NewDocument wraps a root node in a document node.
func NewDocument(root *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

// Encode serializes a document node. An indent of zero selects DefaultIndent.
func Encode(doc *yaml.Node, indent int) (string, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.String(), nil
}

// FindPair returns the index of key's key node within mapping node m, or -1.
// The value node is at the returned index plus one. Keys compare by value.
func FindPair(m *yaml.Node, key string) int {
	if m == nil || m.Kind != yaml.MappingNode {
		return -1
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if k := resolveAlias(m.Content[i]); k != nil && k.Value == key {
			return i
		}
	}
	return -1
}

// RootMapping returns the top-level mapping of a document node, or nil.
func RootMapping(doc *yaml.Node) *yaml.Node {
	if doc == nil || doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	if root := doc.Content[0]; root.Kind == yaml.MappingNode {
		return root
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxDepth; i++ {
		n = n.Alias
	}
	return n
}

// commentBefore returns the comment written directly above a key, without
// comment markers. Missing nodes yield "".
func commentBefore(key *yaml.Node) string {
	if key == nil || key.HeadComment == "" {
		return ""
	}
	lines := strings.Split(key.HeadComment, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "#")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// IsFlow reports whether a mapping or sequence node was written inline.
func IsFlow(n *yaml.Node) bool {
	n = resolveAlias(n)
	if n == nil || (n.Kind != yaml.MappingNode && n.Kind != yaml.SequenceNode) {
		return false
	}
	return n.Style&yaml.FlowStyle != 0
}
