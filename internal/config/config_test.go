package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gxo-labs/launcher/internal/config"
	launcherrors "github.com/gxo-labs/launcher/pkg/launcher/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iniConfig = `
# Launcher settings
[launcher]
main = com.example.Main
java = {bootstrap.resourcespath}/jdk/bin/java
jar = {bootstrap.resourcespath}/app.jar
vmargs = -Xmx512m,-Dfile.encoding=UTF-8
debug = 1

; platform specific
[platform]
linux = -Dfoo=1,-Dbar=2

[bootstrap]
resourcespath =
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_INI(t *testing.T) {
	path := writeFile(t, "config", iniConfig)

	cfg, err := config.NewFileLoader().Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "com.example.Main", cfg.GetString(config.KeyMain, config.DefaultMain))
	assert.Equal(t, "{bootstrap.resourcespath}/jdk/bin/java", cfg.GetString(config.KeyJava, ""))
	assert.Equal(t, "-Dfoo=1,-Dbar=2", cfg.GetString("platform.linux", ""))
	assert.Equal(t, 1, cfg.GetInt(config.KeyDebug, 0))

	v, ok := cfg.Lookup(config.KeyResourcesPath)
	assert.True(t, ok, "an empty value is still present")
	assert.Equal(t, "", v)
	assert.Equal(t, "", cfg.GetString(config.KeyResourcesPath, "/default"))
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := config.NewFileLoader().Load(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	var cfgErr *launcherrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParse_INIErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "unterminated section", input: "[launcher\nmain = x\n"},
		{name: "empty section", input: "[ ]\n"},
		{name: "line without equals", input: "[launcher]\njust text\n"},
		{name: "empty key", input: "[launcher]\n = value\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.input), "config", nil)
			var cfgErr *launcherrors.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestParse_Overrides(t *testing.T) {
	args := []string{
		"--config=launcher.main=Other",
		"--unrelated",
		"--config", "platform.linux=-Dx=1",
		"--config=launcher.vmargs=",
	}
	cfg, err := config.Parse([]byte(iniConfig), "config", args)
	require.NoError(t, err)

	assert.Equal(t, "Other", cfg.GetString(config.KeyMain, ""))
	assert.Equal(t, "-Dx=1", cfg.GetString("platform.linux", ""))
	assert.Equal(t, "", cfg.GetString(config.KeyVMArgs, "unset"))
}

func TestParseOverrides_Invalid(t *testing.T) {
	_, err := config.ParseOverrides([]string{"--config=novalue"})
	assert.Error(t, err)

	_, err = config.ParseOverrides([]string{"--config"})
	assert.Error(t, err)
}

func TestConfig_GetIntFallsBackOnGarbage(t *testing.T) {
	cfg := config.New("mem", map[string]string{"launcher.debug": "yes"})
	assert.Equal(t, 7, cfg.GetInt(config.KeyDebug, 7))
	assert.Equal(t, 3, cfg.GetInt("missing", 3))
}

func TestConfig_Release(t *testing.T) {
	cfg := config.New("mem", map[string]string{"launcher.main": "Main"})
	require.Equal(t, []string{"launcher.main"}, cfg.Keys())

	cfg.Release()

	_, ok := cfg.Lookup("launcher.main")
	assert.False(t, ok)
	assert.Equal(t, "def", cfg.GetString("launcher.main", "def"))
	assert.Empty(t, cfg.Keys())
}

func TestParse_YAML(t *testing.T) {
	doc := `
schemaVersion: v1.0.0
launcher:
  main: com.example.Main
  debug: 1
  vmargs:
    - -Xmx512m
    - -Dfile.encoding=UTF-8
  empty_args: keep
platform:
  linux: -Dfoo=1,-Dbar=2
bootstrap:
  supportpath: /var/lib/app
`
	cfg, err := config.Parse([]byte(doc), "launcher.yaml", []string{"--config=launcher.main=Override"})
	require.NoError(t, err)

	assert.Equal(t, "Override", cfg.GetString(config.KeyMain, ""))
	assert.Equal(t, 1, cfg.GetInt(config.KeyDebug, 0))
	assert.Equal(t, "-Xmx512m,-Dfile.encoding=UTF-8", cfg.GetString(config.KeyVMArgs, ""))
	assert.Equal(t, "keep", cfg.GetString(config.KeyEmptyArgs, ""))
	assert.Equal(t, "/var/lib/app", cfg.GetString(config.KeySupportPath, ""))
	_, hasVersion := cfg.Lookup("schemaVersion")
	assert.False(t, hasVersion)
}

func TestParse_YAMLValidation(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "missing schemaVersion", doc: "launcher:\n  main: Main\n"},
		{name: "wrong major", doc: "schemaVersion: v2.0.0\nlauncher:\n  main: Main\n"},
		{name: "invalid semver", doc: "schemaVersion: banana\n"},
		{name: "bad empty_args", doc: "schemaVersion: v1\nlauncher:\n  empty_args: sometimes\n"},
		{name: "scalar section", doc: "schemaVersion: v1\nlauncher: nope\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.doc), "launcher.yml", nil)
			require.Error(t, err)
			var cfgErr *launcherrors.ConfigError
			var valErr *launcherrors.ValidationError
			assert.True(t, errors.As(err, &cfgErr) || errors.As(err, &valErr), "unexpected error type: %v", err)
		})
	}
}
