// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docmerge/pkg/types"
)

// clearEnv blanks every variable the loader reads so host settings do not
// leak into a test. Viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"INPUT_FOLDER", "OUTPUT_FOLDER",
		"DOCMERGE_INPUT_FOLDER", "DOCMERGE_OUTPUT_FOLDER", "DOCMERGE_HISTORY_DB",
		"DOCMERGE_RENDER_BACKEND", "DOCMERGE_RENDER_BINARY", "DOCMERGE_RENDER_IMAGE",
		"DOCMERGE_RENDER_TIMEOUT", "DOCMERGE_TEXT_FONT_SIZE", "DOCMERGE_TEXT_LINE_HEIGHT",
		"DOCMERGE_LOG_LEVEL", "DOCMERGE_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func load(t *testing.T, cfgFile string, paths ...string) types.Config {
	t.Helper()
	v := viper.New()
	setup(v, cfgFile, paths)
	_, err := Read(v)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := load(t, "", t.TempDir())

	assert.Empty(t, cfg.InputFolder)
	assert.Empty(t, cfg.HistoryDB)
	assert.Equal(t, types.BackendLocal, cfg.Render.Backend)
	assert.Equal(t, "soffice", cfg.Render.Binary)
	assert.Equal(t, "libreoffice:latest", cfg.Render.Image)
	assert.Zero(t, cfg.Render.Timeout)
	assert.Equal(t, 10.0, cfg.Text.FontSize)
	assert.Equal(t, 5.0, cfg.Text.LineHeight)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_BareEnvNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FOLDER", "/data/in")
	t.Setenv("OUTPUT_FOLDER", "/data/out")

	cfg := load(t, "", t.TempDir())
	assert.Equal(t, "/data/in", cfg.InputFolder)
	assert.Equal(t, "/data/out", cfg.OutputFolder)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FOLDER", "/bare")
	t.Setenv("DOCMERGE_INPUT_FOLDER", "/prefixed")
	t.Setenv("DOCMERGE_RENDER_BACKEND", "container")
	t.Setenv("DOCMERGE_RENDER_TIMEOUT", "90s")
	t.Setenv("DOCMERGE_LOG_FORMAT", "json")

	cfg := load(t, "", t.TempDir())
	assert.Equal(t, "/prefixed", cfg.InputFolder)
	assert.Equal(t, types.BackendContainer, cfg.Render.Backend)
	assert.Equal(t, 90*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := `input_folder: /cfg/in
output_folder: /cfg/out
history_db: /var/lib/docmerge/history.db
render:
  backend: container
  image: example/soffice:7
  timeout: 2m
text:
  font_size: 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docmerge.yaml"), []byte(yaml), 0o644))

	t.Run("search path", func(t *testing.T) {
		cfg := load(t, "", dir)
		assert.Equal(t, "/cfg/in", cfg.InputFolder)
		assert.Equal(t, "/var/lib/docmerge/history.db", cfg.HistoryDB)
		assert.Equal(t, "example/soffice:7", cfg.Render.Image)
		assert.Equal(t, 2*time.Minute, cfg.Render.Timeout)
		assert.Equal(t, 9.0, cfg.Text.FontSize)
		assert.Equal(t, 5.0, cfg.Text.LineHeight, "unset keys keep defaults")
	})

	t.Run("explicit file", func(t *testing.T) {
		cfg := load(t, filepath.Join(dir, "docmerge.yaml"))
		assert.Equal(t, "/cfg/out", cfg.OutputFolder)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("OUTPUT_FOLDER", "/env/out")
		cfg := load(t, "", dir)
		assert.Equal(t, "/env/out", cfg.OutputFolder)
	})
}

func TestRead_ExplicitFileMissing(t *testing.T) {
	clearEnv(t)
	v := viper.New()
	setup(v, filepath.Join(t.TempDir(), "nope.yaml"), nil)
	_, err := Read(v)
	assert.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("INPUT_FOLDER=/dot/in\nOUTPUT_FOLDER=/dot/out\n"), 0o644))
	t.Setenv("OUTPUT_FOLDER", "/already/set")
	// godotenv keeps variables that exist even when empty.
	require.NoError(t, os.Unsetenv("INPUT_FOLDER"))

	require.NoError(t, LoadDotenv(path))

	cfg := load(t, "", dir)
	assert.Equal(t, "/dot/in", cfg.InputFolder)
	assert.Equal(t, "/already/set", cfg.OutputFolder)

	assert.NoError(t, LoadDotenv(filepath.Join(dir, "missing.env")))
}

func TestValidate(t *testing.T) {
	valid := types.Config{
		InputFolder:  "/in",
		OutputFolder: "/out",
		Render:       types.RenderConfig{Backend: types.BackendLocal},
		Text:         types.TextConfig{FontSize: 10, LineHeight: 5},
	}

	tests := []struct {
		name    string
		mutate  func(*types.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*types.Config) {}},
		{name: "missing input", mutate: func(c *types.Config) { c.InputFolder = "" }, wantErr: "INPUT_FOLDER and OUTPUT_FOLDER must be set"},
		{name: "missing output", mutate: func(c *types.Config) { c.OutputFolder = "" }, wantErr: "INPUT_FOLDER and OUTPUT_FOLDER must be set"},
		{name: "bad backend", mutate: func(c *types.Config) { c.Render.Backend = "cloud" }, wantErr: "unknown render backend"},
		{name: "negative timeout", mutate: func(c *types.Config) { c.Render.Timeout = -time.Second }, wantErr: "must not be negative"},
		{name: "zero font", mutate: func(c *types.Config) { c.Text.FontSize = 0 }, wantErr: "must be positive"},
		{name: "history beside output", mutate: func(c *types.Config) { c.HistoryDB = "/state/history.db" }},
		{name: "history sibling prefix", mutate: func(c *types.Config) { c.HistoryDB = "/out-state/history.db" }},
		{name: "history inside output", mutate: func(c *types.Config) { c.HistoryDB = "/out/history.db" }, wantErr: "must not be inside output_folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.ErrorIs(t, Validate(types.Config{}), ErrMissingFolders)
}
