package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", &buf)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("loud", &buf)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestRequestIDContext(t *testing.T) {
	id := NewRequestID()
	assert.True(t, strings.HasPrefix(id, "req_"))
	assert.NotEqual(t, id, NewRequestID())

	ctx := WithRequestID(context.Background(), id)
	assert.Equal(t, id, RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))

	var buf bytes.Buffer
	l := New("info", &buf)
	FromContext(ctx, l).Info("tagged")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, id, entry["request_id"])
}
