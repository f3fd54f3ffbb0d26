package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotsort"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slotcheck.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (stdout, logs string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"slotcheck"}, args...))
	return out.String(), errOut.String(), err
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
records = [10, 20]
startByte = 1
endByte = 3
signed = true
distribution = "zipf"
workers = 2

[fixture]
dir = "fx"
compression = "lz4"

[log]
level = "debug"
json = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []int{10, 20}, cfg.Records)
	assert.Equal(t, 1, cfg.StartByte)
	assert.Equal(t, 3, cfg.EndByte)
	assert.True(t, cfg.Signed)
	assert.False(t, cfg.Descending)
	assert.Equal(t, DistZipf, cfg.Distribution)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, int64(1), cfg.Seed) // default kept
	assert.Equal(t, "fx", cfg.Fixture.Dir)
	assert.Equal(t, "lz4", cfg.Fixture.Compression)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `records = [`))
	assert.ErrorContains(t, err, "parse")

	_, err = LoadConfig(writeConfig(t, `recordz = [1]`))
	assert.ErrorContains(t, err, "recordz")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no records", func(c *Config) { c.Records = nil }},
		{"negative records", func(c *Config) { c.Records = []int{-1} }},
		{"reversed range", func(c *Config) { c.StartByte, c.EndByte = 4, 2 }},
		{"end byte", func(c *Config) { c.EndByte = 8 }},
		{"distribution", func(c *Config) { c.Distribution = "normal" }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"compression", func(c *Config) { c.Fixture.Compression = "gzip" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"minio", func(c *Config) { c.Fixture.Minio = &MinioConfig{Endpoint: "localhost:9000"} }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRunReplayList(t *testing.T) {
	dir := t.TempDir()

	out, logs, err := run(t, "run",
		"--records", "0,1,500",
		"--distribution", "duplicates",
		"--heap",
		"--fixture-dir", dir,
		"--compression", "zstd",
	)
	require.NoError(t, err, logs)
	assert.Contains(t, logs, "case verified")

	saved := strings.Fields(out)
	require.Len(t, saved, 3)

	out, logs, err = run(t, "replay", "--fixture-dir", dir, "--heap", "--descending")
	require.NoError(t, err, logs)
	assert.Equal(t, 3, strings.Count(logs, "case verified"))

	_, _, err = run(t, "replay", "--fixture-dir", dir, "--name", saved[2], "--signed", "--start-byte", "1", "--end-byte", "2")
	require.NoError(t, err)

	out, _, err = run(t, "list", "--fixture-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, "500 records")
}

func TestRun_Variants(t *testing.T) {
	for _, args := range [][]string{
		{"--distribution", "signed", "--signed"},
		{"--distribution", "signed", "--signed", "--descending"},
		{"--distribution", "zipf", "--start-byte", "0", "--end-byte", "0"},
		{"--distribution", "uniform", "--start-byte", "3", "--end-byte", "6", "--workers", "3"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, logs, err := run(t, append([]string{"run", "--records", "1,777,5000", "--heap"}, args...)...)
			require.NoError(t, err, logs)
			assert.Equal(t, 3, strings.Count(logs, "case verified"))
		})
	}
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, `
records = [10]
distribution = "duplicates"
heap = true

[log]
json = true
`)
	_, logs, err := run(t, "run", "--config", path, "--records", "20")
	require.NoError(t, err)
	assert.Contains(t, logs, `"case":"duplicates-20"`)
	assert.NotContains(t, logs, "duplicates-10")
}

func TestRun_Errors(t *testing.T) {
	_, _, err := run(t, "run", "--records", "1000", "--memory-limit", "100")
	assert.ErrorIs(t, err, slotsort.ErrOutOfMemory)

	_, _, err = run(t, "run", "--start-byte", "5", "--end-byte", "2")
	assert.ErrorContains(t, err, "byte range")

	_, _, err = run(t, "replay")
	assert.ErrorContains(t, err, "fixture-dir")

	_, _, err = run(t, "replay", "--fixture-dir", t.TempDir(), "--name", "missing.slot")
	assert.Error(t, err)
}
