package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.With("component", "test").Info(context.Background(), "hello", "k", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.EqualValues(t, 1, entry["k"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "text")

	l.Info(context.Background(), "dropped")
	assert.Empty(t, buf.String())

	l.Error(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}
