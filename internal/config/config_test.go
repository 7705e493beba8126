package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_WorkdirFile(t *testing.T) {
	dir := t.TempDir()
	content := "tools:\n  compare: bcompare\n  cocos: /opt/cocos2d-x/tools/cocos2d-console/bin/cocos\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "bcompare", cfg.Tools.Compare)
	assert.Equal(t, "/opt/cocos2d-x/tools/cocos2d-console/bin/cocos", cfg.Tools.Cocos)
	assert.Equal(t, "android", cfg.Tools.Android, "unset keys keep their default")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("tools:\n  compare: bcompare\n"), 0o644))
	t.Setenv("COCOSKEL_TOOLS_COMPARE", "meld")

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "meld", cfg.Tools.Compare)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools: [unterminated\n"), 0o644))

	_, err := Load(path, t.TempDir())
	assert.Error(t, err)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, Default()))

	var decoded Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, Default(), decoded)
	assert.Contains(t, buf.String(), "compare: BCompare")
}
