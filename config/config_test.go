package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: gii-test
http:
  addr: ":9999"
  read_timeout: 10s
projects:
  - name: demo
    path: /tmp/demo
  - path: /tmp/other
log:
  level: debug
processor:
  workers: 2
`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "configs", "conf.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestLoadExplicit(t *testing.T) {
	path := writeConfig(t, t.TempDir())

	l, err := Load(path)
	require.NoError(t, err)
	conf := l.Conf()

	assert.Equal(t, "gii-test", conf.App.Name)
	assert.Equal(t, ":9999", conf.HTTP.Addr)
	assert.Equal(t, 10*time.Second, conf.HTTP.ReadTimeout)
	assert.Equal(t, 5*time.Second, conf.HTTP.ShutdownTimeout, "默认值")
	require.Len(t, conf.Projects, 2)
	assert.Equal(t, "demo", conf.Projects[0].Name)
	assert.Equal(t, "/tmp/other", conf.Projects[1].Path)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, 2, conf.Processor.Workers)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestFindConfigUpward(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root)
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	got, err := findConfigUpward(deep)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir())
	t.Setenv("GII_HTTP_ADDR", ":7000")

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", l.Conf().HTTP.Addr)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, time.Second, Timeout(0, time.Second))
	assert.Equal(t, 3*time.Second, Timeout(3*time.Second, time.Second))
}
