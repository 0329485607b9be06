package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "calc", "debug")
	l.Debugw("filter applied", map[string]any{"stage": "consistency", "out": 3})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "calc", line["component"])
	assert.Equal(t, "consistency", line["stage"])
	assert.Equal(t, float64(3), line["out"])

	buf.Reset()
	quiet := NewZerologLoggerTo(&buf, "calc", "")
	quiet.Debugf("hidden")
	quiet.Warnf("shown")
	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestSetLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.Error(t, SetLevel("loud"))
	require.NoError(t, SetLevel("warn"))
	defer SetLevel("info")
	assert.Equal(t, "warn", currentLevel())

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, "debug", currentLevel())
}

func TestSetOutputRotatingFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "alwayson.log")
	w, err := RotatingFile(path, 1, 2, 0)
	require.NoError(t, err)
	SetOutput(w)
	defer SetOutput(nil)

	NewZerologLogger("rotate").Infof("to file")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"rotate"`)
	assert.Contains(t, string(data), "to file")
}
