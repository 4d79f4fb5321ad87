package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thirteen37/yamlforge/internal/logging"
)

// stdio is the file name that selects stdin or stdout.
const stdio = "-"

// outputOptions are the flags shared by commands that write a document.
type outputOptions struct {
	output string
	backup bool
}

func (o *outputOptions) register(cmd *cobra.Command, outputHelp string) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", outputHelp)
	cmd.Flags().BoolVar(&o.backup, "backup", false, "Keep the overwritten file as <file>.bak")
}

// readInput reads filename, or stdin when filename is "-".
func readInput(cmd *cobra.Command, filename string) ([]byte, error) {
	if filename == stdio {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// writeTarget writes data to target, or stdout when target is "-".
func writeTarget(cmd *cobra.Command, target string, data []byte, backup bool) error {
	if target == stdio {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if backup {
		if err := backupFile(target); err != nil {
			return err
		}
	}
	if err := writeFileAtomic(target, data); err != nil {
		return err
	}
	logging.Info("CLI", "wrote %s", target)
	return nil
}

// backupFile copies filename to filename.bak. A missing file needs no backup.
func backupFile(filename string) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", filename, err)
	}
	if err := os.WriteFile(filename+".bak", data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	logging.Debug("CLI", "backed up %s", filename)
	return nil
}

// writeFileAtomic replaces filename through a temporary file in the same
// directory. An existing file keeps its permissions.
func writeFileAtomic(filename string, data []byte) (err error) {
	perm := fs.FileMode(0o644)
	if info, statErr := os.Stat(filename); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", filename, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
