package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, "prod", "")

	log.Debug("hidden")
	log.Info("order saved", "order_id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "order saved", rec["msg"])
	assert.Equal(t, "order-bot", rec["app"])
	assert.Equal(t, float64(7), rec["order_id"])
}

func TestTextInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, "dev", "text")

	log.Debug("session loaded", "user_id", 100)

	line := buf.String()
	assert.True(t, strings.Contains(line, "level=DEBUG"))
	assert.Contains(t, line, "user_id=100")
}
