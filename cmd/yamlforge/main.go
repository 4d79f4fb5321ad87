// yamlforge edits YAML player option documents without losing comments.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/thirteen37/yamlforge/internal/cmd"
	"github.com/thirteen37/yamlforge/internal/config"
	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/logging"
	"github.com/thirteen37/yamlforge/internal/merge"
	"github.com/thirteen37/yamlforge/internal/script"
	"github.com/thirteen37/yamlforge/internal/template"
)

func main() {
	// Interpreter mode: argv[0] = interpreter, argv[1] = script path
	if len(os.Args) == 2 && isScript(os.Args[1]) {
		if err := runAsInterpreter(os.Args[1], os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "yamlforge: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cmd.Execute()
}

// isScript reports whether name is a regular file starting with a shebang.
func isScript(name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	head := make([]byte, 2)
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, []byte("#!"))
}

// runAsInterpreter applies the script at scriptPath to the document read from
// stdin and writes the result to stdout. An empty stdin starts from the
// default template.
func runAsInterpreter(scriptPath string, stdin io.Reader, stdout io.Writer) error {
	settings, err := config.LoadDefault()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, os.Stderr)

	// Read script content
	scriptContent, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	scr, err := script.Parse(string(scriptContent))
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	current, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(bytes.TrimSpace(current)) == 0 {
		logging.Debug("CLI", "empty input, starting from the default template")
		current = []byte(template.Default())
	}

	pt, err := document.Parse(string(current))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if err := scr.Apply(pt); err != nil {
		return err
	}

	_, err = io.WriteString(stdout, merge.MergeTemplate(pt, merge.Options{Indent: settings.Indent}))
	return err
}
