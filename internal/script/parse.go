// Package script parses and applies yamlforge edit scripts.
//
// A script is a list of line directives and may start with a shebang so it
// can be run directly:
//
//	#!/usr/bin/env yamlforge
//	version 1
//	set ["Game A", "accessibility"] minimal
//	unset ["Game A", "progression_balancing", "disabled"]
package script

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/path"
	"github.com/thirteen37/yamlforge/internal/value"
)

// CurrentVersion is the latest supported script format version.
const CurrentVersion = 1

// Op is an edit operation.
type Op string

const (
	OpSet   Op = "set"
	OpUnset Op = "unset"
)

// Edit is one set or unset directive.
type Edit struct {
	Op    Op
	Path  path.Path
	Value value.Value // nil for OpUnset
	Line  int
}

// Script represents a parsed edit script.
type Script struct {
	Version int
	Edits   []Edit
}

// Parse parses an edit script from its content.
func Parse(content string) (*Script, error) {
	script := &Script{}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNum := 0
	versionSeen := false

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip shebang
		if lineNum == 1 && strings.HasPrefix(line, "#!") {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		directive, rest, _ := strings.Cut(trimmed, " ")
		rest = strings.TrimSpace(rest)

		switch directive {
		case "version":
			if versionSeen {
				return nil, fmt.Errorf("line %d: duplicate version directive", lineNum)
			}
			var v int
			if _, err := fmt.Sscanf(rest, "%d", &v); err != nil {
				return nil, fmt.Errorf("line %d: invalid version %q", lineNum, rest)
			}
			if v > CurrentVersion {
				return nil, fmt.Errorf("line %d: unsupported version %d (max supported: %d), please upgrade yamlforge", lineNum, v, CurrentVersion)
			}
			if v < 1 {
				return nil, fmt.Errorf("line %d: invalid version %d", lineNum, v)
			}
			script.Version = v
			versionSeen = true

		case string(OpSet):
			if !versionSeen {
				return nil, fmt.Errorf("line %d: version directive must come first", lineNum)
			}
			p, literal, err := splitPath(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			if literal == "" {
				return nil, fmt.Errorf("line %d: set %s: missing value", lineNum, p)
			}
			v, err := document.ParseValue(literal)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", lineNum, literal, err)
			}
			script.Edits = append(script.Edits, Edit{Op: OpSet, Path: p, Value: v, Line: lineNum})

		case string(OpUnset):
			if !versionSeen {
				return nil, fmt.Errorf("line %d: version directive must come first", lineNum)
			}
			p, extra, err := splitPath(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			if extra != "" {
				return nil, fmt.Errorf("line %d: unexpected text after path: %q", lineNum, extra)
			}
			script.Edits = append(script.Edits, Edit{Op: OpUnset, Path: p, Line: lineNum})

		default:
			return nil, fmt.Errorf("line %d: unknown directive %q", lineNum, directive)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script: %w", err)
	}

	if !versionSeen {
		return nil, fmt.Errorf("missing required version directive")
	}

	return script, nil
}

// splitPath reads the JSON array path at the start of s and returns it with
// the remaining text.
func splitPath(s string) (path.Path, string, error) {
	if !strings.HasPrefix(s, "[") {
		return nil, "", fmt.Errorf("expected a path array, got %q", s)
	}

	dec := json.NewDecoder(strings.NewReader(s))
	var segments []string
	if err := dec.Decode(&segments); err != nil {
		return nil, "", fmt.Errorf("invalid path array: %w", err)
	}
	if len(segments) == 0 {
		return nil, "", fmt.Errorf("invalid path array: no segments")
	}

	return path.NewArrayPath(segments), strings.TrimSpace(s[dec.InputOffset():]), nil
}

// Apply runs the script's edits against pt in order. It stops at the first
// edit that fails.
func (s *Script) Apply(pt *document.ParsedTemplate) error {
	for _, e := range s.Edits {
		var err error
		switch e.Op {
		case OpSet:
			err = pt.Set(e.Path, e.Value)
		case OpUnset:
			err = pt.Unset(e.Path)
		default:
			err = fmt.Errorf("unknown operation %q", e.Op)
		}
		if err != nil {
			return fmt.Errorf("line %d: %s %s: %w", e.Line, e.Op, e.Path, err)
		}
	}
	return nil
}
