package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thirteen37/yamlforge/internal/value"
	"gopkg.in/yaml.v3"
)

// ParseValue reads a single YAML literal such as `full`, `50`, `[a, b]` or
// `{random: 1, disabled: 0}`. Blank text is null.
func ParseValue(text string) (value.Value, error) {
	docs, values, err := parseStream(text)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return value.Null{}, nil
	case 1:
		return values[0], nil
	}
	return nil, fmt.Errorf("%w: value holds %d documents", ErrMultipleDocuments, len(docs))
}

var foldRegex = regexp.MustCompile(`\n\s*`)

// FormatValue renders v as a one-line YAML flow literal that ParseValue reads back.
func FormatValue(v value.Value) string {
	n := BuildNode(v, true)
	quoteMultiline(n)
	out, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Sprintf("%v", value.ToPlain(v))
	}
	// The emitter folds long flow collections; folded breaks read back as spaces
	return foldRegex.ReplaceAllString(strings.TrimSpace(string(out)), " ")
}

// quoteMultiline switches strings holding line breaks to double-quoted style,
// where breaks are escaped instead of written as block scalars.
func quoteMultiline(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.DoubleQuotedStyle
	}
	for _, child := range n.Content {
		quoteMultiline(child)
	}
}
