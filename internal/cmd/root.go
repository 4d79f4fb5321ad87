// Package cmd provides the CLI commands for yamlforge.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/config"
	"github.com/thirteen37/yamlforge/internal/logging"
)

// rootOptions holds the persistent flags and the settings they resolve to.
type rootOptions struct {
	configFile string
	logLevel   string
	settings   *config.Settings
}

// NewRootCmd builds the yamlforge command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{settings: config.Default()}

	cmd := &cobra.Command{
		Use:   "yamlforge",
		Short: "Edit player option documents without losing comments",
		Long: `yamlforge edits YAML player option documents in place.

Only the values you change are rewritten: comments, key order and inline
style of everything else are kept. Documents can also be validated, listed,
created from a default template and converted to and from JSON, TOML and INI.

Run as a script interpreter, yamlforge reads a document from stdin, applies
the script's edits and writes the result to stdout:

  #!/usr/bin/env yamlforge
  version 1
  set ["A Link to the Past", "accessibility"] minimal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Settings file (default: <user config dir>/yamlforge/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newValidateCmd(opts),
		newShowCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newUnsetCmd(opts),
		newApplyCmd(opts),
		newNewCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yamlforge: %v\n", err)
		os.Exit(1)
	}
}

// load reads the settings file and initializes logging.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var err error
	if o.configFile != "" {
		o.settings, err = config.Load(o.configFile)
	} else {
		o.settings, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	return o.initLogging(cmd)
}

// initLogging sets up logging from the current settings. --log-level wins
// over the file's log_level.
func (o *rootOptions) initLogging(cmd *cobra.Command) error {
	name := o.settings.LogLevel
	if o.logLevel != "" {
		name = o.logLevel
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())
	return nil
}

// settingsPath returns --config, or the default settings location.
func (o *rootOptions) settingsPath() (string, error) {
	if o.configFile != "" {
		return o.configFile, nil
	}
	return config.DefaultPath()
}
