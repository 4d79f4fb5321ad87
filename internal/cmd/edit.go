package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/merge"
	"github.com/thirteen37/yamlforge/internal/path"
	"github.com/thirteen37/yamlforge/internal/script"
)

const editOutputHelp = `Write the result here instead of in place ("-" for stdout)`

func newSetCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Set an option value",
		Long: `Set the value of an option, or of a member inside an option's value.

Arguments:
  file   Option document ("-" for stdin)
  path   JSON path array (e.g., '["A Link to the Past","accessibility"]')
  value  YAML literal (e.g., minimal, 50, '[sword]', '{random: 1, full: 0}')

Example:
  yamlforge set Player1.yaml '["A Link to the Past","death_link"]' true`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.ParseArrayPath(args[1])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[1], err)
			}
			v, err := document.ParseValue(args[2])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[2], err)
			}
			return editDocument(cmd, root, out, args[0], func(pt *document.ParsedTemplate) error {
				return pt.Set(p, v)
			})
		},
	}
	out.register(cmd, editOutputHelp)
	return cmd
}

func newUnsetCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "unset <file> <path>",
		Short: "Remove a member from an option value",
		Long: `Remove a member from an option's mapping or sequence value. Options
themselves cannot be removed.

Example:
  yamlforge unset Player1.yaml '["A Link to the Past","accessibility","minimal"]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.ParseArrayPath(args[1])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[1], err)
			}
			return editDocument(cmd, root, out, args[0], func(pt *document.ParsedTemplate) error {
				return pt.Unset(p)
			})
		},
	}
	out.register(cmd, editOutputHelp)
	return cmd
}

func newApplyCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "apply <script> <file>",
		Short: "Apply an edit script to a document",
		Long: `Apply every set and unset directive of an edit script to a document.

Example script:
  version 1
  set ["A Link to the Past","progression_balancing"] 25
  unset ["A Link to the Past","accessibility","minimal"]`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			scr, err := script.Parse(string(content))
			if err != nil {
				return fmt.Errorf("failed to parse script: %w", err)
			}
			return editDocument(cmd, root, out, args[1], scr.Apply)
		},
	}
	out.register(cmd, editOutputHelp)
	return cmd
}

// editDocument loads filename, runs edit and writes the merged result.
func editDocument(cmd *cobra.Command, root *rootOptions, out *outputOptions, filename string, edit func(*document.ParsedTemplate) error) error {
	data, err := readInput(cmd, filename)
	if err != nil {
		return err
	}
	pt, err := document.Parse(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if err := edit(pt); err != nil {
		return err
	}

	result := merge.MergeTemplate(pt, merge.Options{Indent: root.settings.Indent})

	target := out.output
	if target == "" {
		target = filename
	}
	return writeTarget(cmd, target, []byte(result), out.backup || root.settings.Backup)
}
