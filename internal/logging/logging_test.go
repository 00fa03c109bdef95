package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaidnet/tagihan/internal/logging"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer

	logger, err := logging.NewWithWriter(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "bill_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "abc", entry["bill_id"])
}

func TestNewWithWriter_Invalid(t *testing.T) {
	var buf bytes.Buffer

	_, err := logging.NewWithWriter(&buf, "loud", "text")
	require.Error(t, err)

	_, err = logging.NewWithWriter(&buf, "info", "xml")
	require.Error(t, err)
}
