package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentField(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)
	SetLevel("debug")

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "arbiter")
	l.Debugw("slot replaced", map[string]any{"source": "remote"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "arbiter", line["component"])
	assert.Equal(t, "remote", line["source"])
	assert.Equal(t, "debug", line["level"])
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)
	assert.Equal(t, zerolog.WarnLevel, SetLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, SetLevel("bogus"))
	assert.Equal(t, zerolog.InfoLevel, SetLevel(""))
}

func TestSetOutputMirrorsNewLoggers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	New("mirror").Errorf("link %s", "down")
	assert.Contains(t, buf.String(), `"component":"mirror"`)
	assert.Contains(t, buf.String(), "link down")
}

func TestNewRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "robocmd.log")
	w, err := NewRotatingFile(path, 1, 2, 3)
	require.NoError(t, err)
	_, err = w.Write([]byte("{}\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
