package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/template"
)

func newNewCmd(root *rootOptions) *cobra.Command {
	var force, backup bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a document from the default template",
		Long: `Write the default option document to file, or to stdout when no file is
given. Existing files are only replaced with --force.

Example:
  yamlforge new Player1.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := stdio
			if len(args) == 1 {
				target = args[0]
			}
			if target != stdio && !force {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", target)
				}
			}
			return writeTarget(cmd, target, []byte(template.Default()), backup || root.settings.Backup)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep the overwritten file as <file>.bak")
	return cmd
}
