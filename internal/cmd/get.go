package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/document"
	"github.com/thirteen37/yamlforge/internal/path"
)

func newGetCmd(_ *rootOptions) *cobra.Command {
	var kind bool

	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print an option value",
		Long: `Print the value of an option, or of a member inside an option's value,
as a one-line YAML literal that set accepts back.

Arguments:
  file  Option document ("-" for stdin)
  path  JSON path array (e.g., '["A Link to the Past","accessibility"]')

Example:
  yamlforge get Player1.yaml '["A Link to the Past","accessibility","full"]'
  yamlforge get Player1.yaml '["name"]' --kind`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.ParseArrayPath(args[1])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[1], err)
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			pt, err := document.Parse(string(data))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			if kind {
				opt, err := pt.Option(p)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), opt.Kind)
				return nil
			}

			v, err := pt.Get(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), document.FormatValue(v))
			return nil
		},
	}

	cmd.Flags().BoolVar(&kind, "kind", false, "Print the option's edit kind instead of its value")
	return cmd
}
