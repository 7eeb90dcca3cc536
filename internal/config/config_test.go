package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "text", cfg.Report)
	assert.Equal(t, []string{"*.py"}, cfg.Include)
	assert.Equal(t, 4, cfg.Unparse.Indent)
	assert.Equal(t, "3.12", cfg.Unparse.Target)
	assert.Equal(t, []string{"python3", "-I"}, cfg.Exec.Interpreter)
	assert.Equal(t, 10*time.Second, cfg.Exec.Timeout)
	assert.False(t, cfg.Exec.Enabled)
	assert.False(t, cfg.Strict)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
strict: true
jobs: 4
report: json
exclude: ["vendor", "*_pb2.py"]
unparse:
  indent: 2
  target: "3.8"
exec:
  enabled: true
  interpreter: [python3.11]
  timeout: 30s
watch:
  debounce: 1s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "json", cfg.Report)
	assert.Equal(t, []string{"vendor", "*_pb2.py"}, cfg.Exclude)
	assert.Equal(t, []string{"*.py"}, cfg.Include)
	assert.Equal(t, 2, cfg.Unparse.Indent)
	assert.Equal(t, []string{"python3.11"}, cfg.Exec.Interpreter)
	assert.Equal(t, 30*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)

	opts, err := cfg.UnparseOptions()
	require.NoError(t, err)
	assert.Equal(t, 2, opts.IndentUnit)
	assert.Equal(t, "3.8.0", opts.Target.String())
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "jbos: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean 'jobs'?")

	_, err = Load(writeConfig(t, "exec:\n  timout: 3s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean 'timeout'?")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		want   string
	}{
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, "jobs", "must not be negative"},
		{"report typo", func(c *Config) { c.Report = "jsno" }, "report", "did you mean 'json'?"},
		{"bad pattern", func(c *Config) { c.Exclude = []string{"[x"} }, "exclude", "bad pattern"},
		{"indent", func(c *Config) { c.Unparse.Indent = 9 }, "unparse.indent", "between 1 and 8"},
		{"target garbage", func(c *Config) { c.Unparse.Target = "latest" }, "unparse.target", "not a version"},
		{"python 2", func(c *Config) { c.Unparse.Target = "2.7" }, "unparse.target", "only 3.x"},
		{"no interpreter", func(c *Config) { c.Exec.Interpreter = nil }, "exec.interpreter", "must not be empty"},
		{"timeout", func(c *Config) { c.Exec.Timeout = -time.Second }, "exec.timeout", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
			assert.Contains(t, verr.Errors[0].Message, tt.want)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Jobs = -2
	cfg.Report = "xml"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "jobs: 2\nreport: json\n")
	t.Setenv("ROUNDTRIP_JOBS", "8")
	t.Setenv("ROUNDTRIP_STRICT", "true")
	t.Setenv("ROUNDTRIP_TARGET", "3.10")
	t.Setenv("ROUNDTRIP_INTERPRETER", "pypy3 -X dev")
	t.Setenv("ROUNDTRIP_TIMEOUT", "2.5")

	cfg, err := LoadWithEnvOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Jobs)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "json", cfg.Report)
	assert.Equal(t, "3.10", cfg.Unparse.Target)
	assert.Equal(t, []string{"pypy3", "-X", "dev"}, cfg.Exec.Interpreter)
	assert.Equal(t, 2500*time.Millisecond, cfg.Exec.Timeout)
}

func TestEnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("ROUNDTRIP_REPORT", "json")

	cfg, err := LoadWithEnvOverrides("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Report)
}

func TestEnvOverridesInvalid(t *testing.T) {
	t.Setenv("ROUNDTRIP_JOBS", "many")
	t.Setenv("ROUNDTRIP_EXEC", "perhaps")

	_, err := LoadWithEnvOverrides("")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)

	t.Setenv("ROUNDTRIP_JOBS", "")
	t.Setenv("ROUNDTRIP_EXEC", "")
	t.Setenv("ROUNDTRIP_REPORT", "html")
	_, err = LoadWithEnvOverrides("")
	assert.ErrorContains(t, err, "after environment overrides")
}

func TestParseTimeout(t *testing.T) {
	d, err := ParseTimeout("10")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	d, err = ParseTimeout("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = ParseTimeout("soon")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, DefaultFile), Find(dir))
}
