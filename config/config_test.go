package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lintx509.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvFile, "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, ":8080", c.Server.Listen)
	assert.Equal(t, int64(1<<20), c.Server.MaxBodyBytes)
	assert.Equal(t, FormatTree, c.Output.Format)
	assert.False(t, c.ParseOptions().RejectUnknownCritical)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
policy:
  reject_unknown_critical: true
log:
  level: debug
  development: true
server:
  listen: 127.0.0.1:9000
output:
  format: json
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.ParseOptions().RejectUnknownCritical)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.Development)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Listen)
	assert.Equal(t, int64(1<<20), c.Server.MaxBodyBytes, "unset keys keep defaults")
	assert.Equal(t, FormatJSON, c.Output.Format)
}

func TestLoad_BlankedKeys(t *testing.T) {
	path := writeConfig(t, `
log:
  level: ""
server:
  listen: ""
  max_body_bytes: -1
output:
  format: ""
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvFile, writeConfig(t, "output:\n  format: table\n"))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, c.Output.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		path    func(t *testing.T) string
		wantErr string
	}{
		"Missing": {
			func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			"failed to read config file",
		},
		"Malformed": {
			func(t *testing.T) string { return writeConfig(t, "policy: [") },
			"failed to parse YAML config file",
		},
		"UnknownFormat": {
			func(t *testing.T) string { return writeConfig(t, "output:\n  format: html\n") },
			`unknown output format "html"`,
		},
		"UnknownLevel": {
			func(t *testing.T) string { return writeConfig(t, "log:\n  level: loud\n") },
			"invalid log level",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(tc.path(t))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	c := Default()
	c.Log.Level = "warn"

	logger, err := c.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	c.Log.Level = "debug"
	c.Log.Development = true
	logger, err = c.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
