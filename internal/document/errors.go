package document

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrSyntax matches every *SyntaxError.
	ErrSyntax = errors.New("syntax error")

	// ErrNotMapping is returned when a document's top level is a sequence or scalar.
	ErrNotMapping = errors.New("document root is not a mapping")

	// ErrMultipleDocuments is returned for streams holding more than one document.
	ErrMultipleDocuments = errors.New("multiple documents in one file are not supported")

	// ErrUnknownOption is returned when a path names an option the document does not have.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidPath is returned for paths that cannot address an option.
	ErrInvalidPath = errors.New("invalid option path")
)

// SyntaxError reports malformed document text.
type SyntaxError struct {
	Line int // 1-based, 0 when unknown
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Msg)
	}
	return "syntax error: " + e.Msg
}

// Is makes errors.Is(err, ErrSyntax) hold for every SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

var yamlLineRegex = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// newSyntaxError converts a yaml.v3 error into a SyntaxError.
func newSyntaxError(err error) *SyntaxError {
	msg := err.Error()
	if m := yamlLineRegex.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &SyntaxError{Line: line, Msg: m[2]}
	}
	return &SyntaxError{Msg: strings.TrimPrefix(msg, "yaml: ")}
}
