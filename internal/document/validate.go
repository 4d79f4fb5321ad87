package document

import "fmt"

// Result is the outcome of Validate.
type Result struct {
	Valid bool
	Error string // set when Valid is false
}

// Validate checks that text is well-formed. It accepts any document shape and
// every document of a multi-document stream is checked. It never panics.
func Validate(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Error: fmt.Sprintf("parser failure: %v", r)}
		}
	}()

	if _, _, err := parseStream(text); err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Valid: true}
}
