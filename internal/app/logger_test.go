package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json"})
	logger.Info("ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "ready", entry["msg"])
	require.Equal(t, "folio", entry["service"])
}

func TestNewLoggerProductionDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{AppEnv: "production"})
	logger.Info("ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "ready", entry["msg"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &Config{}).Info("ready")

	require.Contains(t, buf.String(), "msg=ready")
	require.Contains(t, buf.String(), "service=folio")
}
