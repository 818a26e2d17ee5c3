package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "JSON")

	logger.Info("hidden")
	logger.Warn("report failed", "kind", "schema")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "report failed", line["msg"])
	assert.Equal(t, "schema", line["kind"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", "")

	logger.Debug("hidden")
	logger.Info("report built", "rows", 2)

	assert.Contains(t, buf.String(), "msg=\"report built\" rows=2")
	assert.NotContains(t, buf.String(), "hidden")
}
