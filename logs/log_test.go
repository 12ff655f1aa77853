package logs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CodMac/go-treesitter-gii/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestInitWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init("gii-test", config.LogConfig{FileDir: dir, Level: "info"}))
	defer SetLevel("info")

	Debug("hidden")
	Info("scan finished", zap.Int("entities", 3))
	_ = Sync()

	data, err := os.ReadFile(filepath.Join(dir, "gii-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scan finished"`)
	assert.Contains(t, string(data), `"entities":3`)
	assert.NotContains(t, string(data), "hidden")

	SetLevel("debug")
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
}
