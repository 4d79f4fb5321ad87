// Package merge writes an edited option model back to document text.
//
// The retained tree is re-parsed and only the values of modified options are
// replaced, so comments, key order and inline/block style of everything else
// survive. When that is not possible the document is regenerated from the
// option model alone, which loses comments and style but never the edits.
package merge

import (
	"errors"
	"fmt"

	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/logging"
	"github.com/thirteen37/yamlforge/internal/value"
	"gopkg.in/yaml.v3"
)

// Options configures serialization.
type Options struct {
	Indent int // spaces per level, 0 selects document.DefaultIndent
}

// errAnchored is returned when an edit would rewrite a node other keys alias.
var errAnchored = errors.New("value is shared through an anchor")

// Merge renders root options and sections as document text. It never fails:
// when the surgical merge against tree cannot be done, the document is
// regenerated from the options.
func Merge(root []document.Option, sections []document.Section, tree *document.Tree, opts Options) string {
	if tree != nil && tree.IsMapping() {
		out, err := surgical(root, sections, tree, opts)
		if err == nil {
			return out
		}
		logging.WarnErr("Merge", err, "surgical merge failed, regenerating document without comments")
		logging.Debug("Merge", "original document:\n%s", tree.Source())
	}
	return regenerate(root, sections, opts)
}

// surgical replaces modified option values inside a fresh copy of tree.
//
// Algorithm:
//  1. Re-parse the retained source so the caller's tree is never touched
//  2. For each modified root option, replace the value of its top-level pair
//  3. For each section, replace the values of its modified options
//  4. Serialize and check the result still parses
//
// Options whose key is not in the document are dropped.
func surgical(root []document.Option, sections []document.Section, tree *document.Tree, opts Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surgical merge panicked: %v", r)
		}
	}()

	doc, err := tree.Clone()
	if err != nil {
		return "", fmt.Errorf("failed to re-parse retained document: %w", err)
	}
	top := document.RootMapping(doc)
	if top == nil {
		return "", fmt.Errorf("retained document is not a mapping")
	}

	for i := range root {
		if err := updatePair(top, &root[i]); err != nil {
			return "", fmt.Errorf("root option %q: %w", root[i].Key, err)
		}
	}

	for _, section := range sections {
		if !anyModified(section.Options) {
			continue
		}

		idx := document.FindPair(top, section.Name)
		if idx < 0 {
			logging.Debug("Merge", "dropping section %q: not in document", section.Name)
			continue
		}
		sectionNode := top.Content[idx+1]
		if sectionNode.Kind == yaml.AliasNode || sectionNode.Anchor != "" {
			return "", fmt.Errorf("section %q: %w", section.Name, errAnchored)
		}
		if sectionNode.Kind != yaml.MappingNode {
			logging.Debug("Merge", "dropping section %q: value is not a mapping", section.Name)
			continue
		}

		for i := range section.Options {
			if err := updatePair(sectionNode, &section.Options[i]); err != nil {
				return "", fmt.Errorf("option %q in section %q: %w", section.Options[i].Key, section.Name, err)
			}
		}
	}

	out, err = document.Encode(doc, opts.Indent)
	if err != nil {
		return "", err
	}
	if res := document.Validate(out); !res.Valid {
		return "", fmt.Errorf("merged document does not parse: %s", res.Error)
	}
	return out, nil
}

func anyModified(options []document.Option) bool {
	for i := range options {
		if options[i].Modified() {
			return true
		}
	}
	return false
}

// updatePair writes opt's value into its pair in mapping node m. The key node,
// and any comment attached to it, is left alone.
func updatePair(m *yaml.Node, opt *document.Option) error {
	if !opt.Modified() {
		return nil
	}

	idx := document.FindPair(m, opt.Key)
	if idx < 0 {
		logging.Debug("Merge", "dropping option %q: not in document", opt.Key)
		return nil
	}

	old := m.Content[idx+1]
	if old.Anchor != "" {
		return errAnchored
	}

	if newMap, ok := opt.Value.(*value.Mapping); ok && old.Kind == yaml.MappingNode {
		return reconcile(old, newMap)
	}

	// Scalars, sequences, nulls and shape changes replace the whole value
	m.Content[idx+1] = document.BuildNode(opt.Value, opt.FlowStyle)
	return nil
}

// reconcile updates mapping node old in place so it holds exactly the members
// of want. Existing members keep their position and comments, new members are
// appended and members missing from want are removed.
func reconcile(old *yaml.Node, want *value.Mapping) error {
	for _, k := range want.Keys() {
		nv, _ := want.Get(k)

		idx := document.FindPair(old, k)
		if idx < 0 {
			document.AppendPair(old, k, nv)
			continue
		}

		member := old.Content[idx+1]
		current, err := document.DecodeNode(member)
		if err != nil {
			return fmt.Errorf("member %q: %w", k, err)
		}
		if value.Equal(current, nv) {
			continue
		}
		if member.Anchor != "" {
			return fmt.Errorf("member %q: %w", k, errAnchored)
		}
		old.Content[idx+1] = document.BuildNode(nv, document.IsFlow(member))
	}

	kept := make([]*yaml.Node, 0, len(old.Content))
	for i := 0; i+1 < len(old.Content); i += 2 {
		if _, ok := want.Get(keyOf(old.Content[i])); ok {
			kept = append(kept, old.Content[i], old.Content[i+1])
		}
	}
	old.Content = kept
	return nil
}

func keyOf(n *yaml.Node) string {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias.Value
	}
	return n.Value
}

// regenerate builds a new document from the options alone. Comments and
// inline style cannot be recovered this way.
func regenerate(root []document.Option, sections []document.Section, opts Options) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Merge", fmt.Errorf("%v", r), "failed to regenerate document")
			out = ""
		}
	}()

	top := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, opt := range root {
		document.AppendPair(top, opt.Key, opt.Value)
	}
	for _, section := range sections {
		members := value.NewMapping()
		for _, opt := range section.Options {
			members.Set(opt.Key, opt.Value)
		}
		document.AppendPair(top, section.Name, members)
	}

	out, err := document.Encode(document.NewDocument(top), opts.Indent)
	if err != nil {
		logging.Error("Merge", err, "failed to regenerate document")
		return ""
	}
	return out
}

// MergeTemplate merges a parsed template using its own retained tree.
func MergeTemplate(pt *document.ParsedTemplate, opts Options) string {
	return Merge(pt.RootOptions, pt.Sections, pt.Tree, opts)
}
