package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/format"
	"github.com/thirteen37/yamlforge/internal/logging"
	"github.com/thirteen37/yamlforge/internal/merge"
	"github.com/thirteen37/yamlforge/internal/value"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var formatName string
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a document to JSON, TOML or INI",
		Long: `Convert an option document to another format. Comments are not carried
over. The format defaults to the export_format setting.

Example:
  yamlforge export Player1.yaml --format toml -o Player1.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatName == "" {
				formatName = root.settings.ExportFormat
			}
			handler, err := handlerFor(formatName)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if _, err := document.Parse(string(data)); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			v, err := document.ParseValue(string(data))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			if _, ok := v.(value.Null); ok {
				v = value.NewMapping()
			}

			output, err := handler.Serialize(value.ToPlain(v), format.SerializeOptions{
				Indent: strings.Repeat(" ", root.settings.Indent),
			})
			if err != nil {
				return fmt.Errorf("failed to serialize %s: %w", formatName, err)
			}

			target := out.output
			if target == "" {
				target = stdio
			}
			return writeTarget(cmd, target, output, out.backup || root.settings.Backup)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: json, toml, ini")
	out.register(cmd, `Write the result to this file (default: stdout)`)
	return cmd
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		formatName    string
		stripComments bool
	)
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a JSON, TOML or INI file to an option document",
		Long: `Convert a JSON, TOML or INI file into a YAML option document. The format
is detected from the file extension unless --format is given. Top-level keys
that are neither root options nor sections are dropped.

INI values are typed on import: true and false become booleans, numbers become
numbers and JSON objects or arrays become mappings or sequences. Quote a value
("50" or '50') to keep it a string. Export quotes such strings for you.

Example:
  yamlforge import Player1.json -o Player1.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatName == "" {
				detected, err := detectFormat(args[0])
				if err != nil {
					return err
				}
				formatName = detected
			}
			handler, err := handlerFor(formatName)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			tree, err := handler.Parse(data, format.ParseOptions{StripComments: stripComments})
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			v, err := value.FromPlain(tree)
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", args[0], err)
			}
			pt, err := document.FromValue(v)
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", args[0], err)
			}
			logging.Debug("CLI", "imported %d root options and %d sections", len(pt.RootOptions), len(pt.Sections))

			result := merge.MergeTemplate(pt, merge.Options{Indent: root.settings.Indent})

			target := out.output
			if target == "" {
				target = stdio
			}
			return writeTarget(cmd, target, []byte(result), out.backup || root.settings.Backup)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Input format: json, toml, ini (default: from extension)")
	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "Strip // comments from JSON input")
	out.register(cmd, `Write the document to this file (default: stdout)`)
	return cmd
}
