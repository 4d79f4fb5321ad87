package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/document"
)

func newValidateCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that documents are well-formed YAML",
		Long: `Check that each document parses. Any YAML shape is accepted; use "show"
to see how a document is split into options.

Use "-" to read a document from stdin.

Example:
  yamlforge validate Player1.yaml Player2.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, filename := range args {
				data, err := readInput(cmd, filename)
				if err != nil {
					return err
				}
				res := document.Validate(string(data))
				if res.Valid {
					fmt.Fprintf(out, "%s %s\n", text.FgGreen.Sprint("✓"), filename)
					continue
				}
				failed++
				fmt.Fprintf(out, "%s %s: %s\n", text.FgRed.Sprint("✗"), filename, res.Error)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents are invalid", failed, len(args))
			}
			return nil
		},
	}
}
