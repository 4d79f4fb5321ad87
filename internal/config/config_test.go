package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Settings
		wantErr string
	}{
		{
			name:    "all settings",
			content: "indent = 4\nexport_format = \"toml\"\nbackup = true\nlog_level = \"debug\"\n",
			want:    &Settings{Indent: 4, ExportFormat: "toml", Backup: true, LogLevel: "debug"},
		},
		{
			name:    "partial settings keep defaults",
			content: "backup = true\n",
			want:    &Settings{Indent: 2, ExportFormat: "json", Backup: true, LogLevel: "warn"},
		},
		{
			name:    "empty file",
			content: "",
			want:    Default(),
		},
		{
			name:    "unknown keys are ignored",
			content: "colour = \"blue\"\n",
			want:    Default(),
		},
		{
			name:    "malformed toml",
			content: "indent = \n",
			wantErr: "failed to parse config file",
		},
		{
			name:    "bad indent",
			content: "indent = 0\n",
			wantErr: "indent must be between 1 and 9",
		},
		{
			name:    "bad export format",
			content: "export_format = \"xml\"\n",
			wantErr: "unsupported format \"xml\"",
		},
		{
			name:    "bad log level",
			content: "log_level = \"loud\"\n",
			wantErr: "unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(filename, []byte(tt.content), 0o644))

			got, err := Load(filename)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefault_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)

	got, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestSave_RoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := &Settings{Indent: 3, ExportFormat: "ini", Backup: true, LogLevel: "error"}

	require.NoError(t, want.Save(filename))

	got, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
