package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/msgfeed/internal/core/config"
)

func TestValidate_valid_config(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := validate(&cfg, "")
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_collects_field_errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.TUI.Theme = "neon"

	result := validate(&cfg, "")
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "tui.theme", result.Errors[0].Field)
}

func TestValidate_data_dir_is_file(t *testing.T) {
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = file

	result := validate(&cfg, "")
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "data_dir", result.Errors[0].Field)
}

func TestValidate_warnings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.History.Enabled = false

	result := validate(&cfg, "")
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "retention", result.Warnings[0].Item)
}
