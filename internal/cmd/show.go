package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/document"
)

const maxValueWidth = 60

func newShowCmd(_ *rootOptions) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "List the options of a document",
		Long: `List every root option and section option of a document with its edit
kind, current value and comment.

Example:
  yamlforge show Player1.yaml --section "A Link to the Past"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			pt, err := document.Parse(string(data))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.Style().Color.Header = text.Colors{text.FgHiCyan}
			t.AppendHeader(table.Row{"Section", "Option", "Kind", "Value", "Comment"})

			rows := 0
			if section == "" {
				for _, opt := range pt.RootOptions {
					t.AppendRow(optionRow("", opt))
					rows++
				}
			}
			for _, s := range pt.Sections {
				if section != "" && s.Name != section {
					continue
				}
				for _, opt := range s.Options {
					t.AppendRow(optionRow(s.Name, opt))
					rows++
				}
			}

			if section != "" && pt.Section(section) == nil {
				return fmt.Errorf("%w: no section %q", document.ErrUnknownOption, section)
			}
			if rows == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", text.FgYellow.Sprint("No options found"))
				return nil
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Only list the options of this section")
	return cmd
}

func optionRow(section string, opt document.Option) table.Row {
	valueStr := document.FormatValue(opt.Value)
	if text.Trim(valueStr, maxValueWidth) != valueStr {
		valueStr = text.Trim(valueStr, maxValueWidth-3) + "..."
	}
	comment, _, _ := strings.Cut(opt.Comment, "\n")
	return table.Row{section, opt.Key, string(opt.Kind), valueStr, comment}
}
