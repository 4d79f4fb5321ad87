package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
		Long: `Manage the yamlforge settings file (config.toml).

Settings:
  indent         Spaces per nesting level in written documents
  export_format  Format used by export when --format is not given
  backup         Keep <file>.bak before a document is overwritten
  log_level      debug, info, warn or error`,
	}
	cmd.AddCommand(newConfigInitCmd(root), newConfigShowCmd(root))
	return cmd
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file holding the defaults",
		Long: `Write the built-in settings to the settings file given by --config, or to
the default location. An existing file is only replaced with --force.

Example:
  yamlforge config init --config ./yamlforge.toml`,
		Args: cobra.NoArgs,
		// The settings file may not exist yet, so it is not loaded.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.initLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := root.settingsPath()
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", target)
				}
			}
			if err := config.Default().Save(target); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote settings to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing settings file")
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.settings.Encode(cmd.OutOrStdout())
		},
	}
}
