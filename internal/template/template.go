// Package template provides the document used to start an empty editing session.
package template

import _ "embed"

//go:embed default.yaml
var defaultTemplate string

// Default returns the default options document. It is valid YAML with every
// root option and one game section.
func Default() string {
	return defaultTemplate
}
