// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docmerge/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LogConfig
		wantErr string
	}{
		{name: "defaults", cfg: types.LogConfig{}},
		{name: "debug console", cfg: types.LogConfig{Level: "debug", Format: "console"}},
		{name: "json", cfg: types.LogConfig{Level: "warn", Format: "json"}},
		{name: "bad level", cfg: types.LogConfig{Level: "loud"}, wantErr: "parsing log level"},
		{name: "bad format", cfg: types.LogConfig{Format: "xml"}, wantErr: "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg, &bytes.Buffer{})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(types.LogConfig{}, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("stage finished")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "stage finished")
	// ISO8601 timestamps carry a T separator and a zone offset.
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	assert.Contains(t, fields[0], "T")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(types.LogConfig{Level: "debug", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	log.Debug("stage started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stage started", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Contains(t, entry, "ts")
}
