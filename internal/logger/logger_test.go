package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "custom json config",
			config: &Config{
				Level:  "debug",
				Format: "json",
			},
		},
		{
			name: "console config",
			config: &Config{
				Level:  "info",
				Format: "console",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.config)
			assert.NotNil(t, l)
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	l.Info("bucket probe ok")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "bucket probe ok", logEntry["message"])
	assert.NotEmpty(t, logEntry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	child := l.With().
		Str("bucket", "wedding-photos").
		Int("page", 2).
		Logger()

	child.Info("listing complete")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "wedding-photos", logEntry["bucket"])
	assert.Equal(t, float64(2), logEntry["page"])
	assert.Equal(t, "listing complete", logEntry["message"])
}

func TestLogger_WarnWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "warn",
		Format: "json",
		Output: buf,
	})

	testErr := errors.New("connection reset")
	l.WarnWith("listing degraded to empty", testErr, map[string]interface{}{
		"bucket": "wedding-photos",
		"prefix": "ceremony/",
	})

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "warn", logEntry["level"])
	assert.Equal(t, "listing degraded to empty", logEntry["message"])
	assert.Equal(t, "connection reset", logEntry["error"])
	assert.Equal(t, "ceremony/", logEntry["prefix"])
}

func TestLogger_Context(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	ctx := l.WithContext(context.Background())
	retrieved := FromContext(ctx)

	retrieved.Info("from context")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "from context", logEntry["message"])
}
