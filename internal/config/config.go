// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads docmerge settings from a .env file, an optional YAML
// config file, DOCMERGE_-prefixed environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/docmerge/internal/logging"
	"github.com/pdiddy/docmerge/internal/render"
	"github.com/pdiddy/docmerge/pkg/types"
)

const (
	// EnvPrefix is prepended to every key when reading the environment.
	EnvPrefix = "DOCMERGE"

	// FileName is the config file name searched for, without extension.
	FileName = "docmerge"
)

// ErrMissingFolders is returned by Validate when either folder is unset.
var ErrMissingFolders = errors.New("INPUT_FOLDER and OUTPUT_FOLDER must be set")

// Keys that also answer to their bare environment names.
var bareEnv = map[string]string{
	"input_folder":  "INPUT_FOLDER",
	"output_folder": "OUTPUT_FOLDER",
}

// LoadDotenv loads variables from path into the process environment.
// Variables already set win, and a missing file is not an error.
func LoadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Setup registers defaults, environment bindings and config file search
// paths on v. An explicit cfgFile replaces the search paths.
func Setup(v *viper.Viper, cfgFile string) {
	setup(v, cfgFile, searchPaths())
}

func setup(v *viper.Viper, cfgFile string, paths []string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	v.SetDefault("input_folder", "")
	v.SetDefault("output_folder", "")
	v.SetDefault("history_db", "")
	v.SetDefault("render.backend", string(types.BackendLocal))
	v.SetDefault("render.binary", render.DefaultBinary)
	v.SetDefault("render.image", render.DefaultImage)
	v.SetDefault("render.timeout", "0s")
	v.SetDefault("text.font_size", 10.0)
	v.SetDefault("text.line_height", 5.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, bare := range bareEnv {
		// Error only occurs for an empty key.
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), bare)
	}
}

func searchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", FileName))
	}
	return paths
}

// Read reads the config file, if any, and returns the path used. A config
// file that is not found is only an error when it was named explicitly.
func Read(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && v.ConfigFileUsed() == "" {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes the settings held by v into a Config.
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings a merge run needs.
func Validate(cfg types.Config) error {
	if cfg.InputFolder == "" || cfg.OutputFolder == "" {
		return ErrMissingFolders
	}
	switch cfg.Render.Backend {
	case types.BackendLocal, types.BackendContainer:
	default:
		return fmt.Errorf("unknown render backend %q", cfg.Render.Backend)
	}
	if cfg.Render.Timeout < 0 {
		return fmt.Errorf("render timeout must not be negative: %s", cfg.Render.Timeout)
	}
	if cfg.Text.FontSize <= 0 || cfg.Text.LineHeight <= 0 {
		return fmt.Errorf("text font_size and line_height must be positive")
	}
	if cfg.HistoryDB != "" && within(cfg.OutputFolder, cfg.HistoryDB) {
		return fmt.Errorf("history_db %s must not be inside output_folder %s", cfg.HistoryDB, cfg.OutputFolder)
	}
	return nil
}

// within reports whether path lies under dir.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
