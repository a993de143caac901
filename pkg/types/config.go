package types

import "time"

// RenderBackend selects where the office rendering engine runs.
type RenderBackend string

const (
	// BackendLocal runs the soffice binary found on PATH.
	BackendLocal RenderBackend = "local"
	// BackendContainer runs soffice inside a docker or podman container.
	BackendContainer RenderBackend = "container"
)

// RenderConfig holds settings for the presentation and word-document
// converters.
type RenderConfig struct {
	// Backend selects local or container execution (default local).
	Backend RenderBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Binary is the soffice executable name or path for the local backend.
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// Image is the container image providing soffice for the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Timeout bounds a single export. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// TextConfig holds paginator settings for plain-text and markdown files.
type TextConfig struct {
	// FontSize is the monospaced body font size in points (default 10).
	FontSize float64 `json:"font_size" yaml:"font_size" mapstructure:"font_size"`

	// LineHeight is the advance per rendered line in millimetres (default 5).
	LineHeight float64 `json:"line_height" yaml:"line_height" mapstructure:"line_height"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config is the full docmerge configuration.
type Config struct {
	// InputFolder is the directory whose files are converted and merged.
	InputFolder string `json:"input_folder" yaml:"input_folder" mapstructure:"input_folder"`

	// OutputFolder receives merged_all_files.pdf and the temp work area.
	OutputFolder string `json:"output_folder" yaml:"output_folder" mapstructure:"output_folder"`

	// HistoryDB is the SQLite run-history path. Empty disables history.
	HistoryDB string `json:"history_db" yaml:"history_db" mapstructure:"history_db"`

	Render RenderConfig `json:"render" yaml:"render" mapstructure:"render"`
	Text   TextConfig   `json:"text" yaml:"text" mapstructure:"text"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
