package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thirteen37/yamlforge/internal/format"
	"github.com/thirteen37/yamlforge/internal/format/ini"
	"github.com/thirteen37/yamlforge/internal/format/json"
	"github.com/thirteen37/yamlforge/internal/format/toml"
)

// handlerFor returns the handler registered under name.
func handlerFor(name string) (format.Handler, error) {
	switch strings.ToLower(name) {
	case "json":
		return json.New(), nil
	case "toml":
		return toml.New(), nil
	case "ini":
		return ini.New(), nil
	}
	return nil, &format.UnsupportedError{Name: name}
}

// detectFormat guesses the format name from a file extension.
func detectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonc":
		return "json", nil
	case ".toml":
		return "toml", nil
	case ".ini", ".cfg":
		return "ini", nil
	}
	return "", fmt.Errorf("cannot detect format of %s, use --format", filename)
}
