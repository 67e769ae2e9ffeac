package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogConfig{Level: "info", Format: "json"})
	log.Info("entry posted", "entry_id", "2025-01-001")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "entry posted", rec["msg"])
	assert.Equal(t, "2025-01-001", rec["entry_id"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogConfig{Level: "warn"})
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{"debug": "DEBUG", "": "INFO", "WARN": "WARN", "error": "ERROR", "bogus": "INFO"}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in).String(), in)
	}
}
