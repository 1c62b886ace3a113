// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recompose/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"", LevelInfo},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelInfo, FormatJSON).Info("segmented", "paragraph", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "segmented", rec["msg"])
	assert.Equal(t, float64(3), rec["paragraph"])
}

func TestSetupStderrDropsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := Setup(types.LogConfig{Level: "debug"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.Info("quiet")
	Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	_, closeFn, err := Setup(types.LogConfig{File: path, Level: "debug"}, os.Stderr)
	require.NoError(t, err)

	Debug("paragraph head", "head", "* ) Hockey")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "paragraph head")
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, _, err := Setup(types.LogConfig{Level: "chatty"}, os.Stderr)
	assert.Error(t, err)
}
