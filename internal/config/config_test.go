package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	p := writeFile(t, "hashbench.yaml", `
data_dir: corpus
workers: 4
functions: [MD5, XXH3]
generator:
  seed: 7
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "corpus", cfg.DataDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"MD5", "XXH3"}, cfg.Functions)
	assert.Equal(t, uint64(7), cfg.Generator.Seed)
	assert.Equal(t, "results", cfg.OutputDir)
	assert.Equal(t, 0.05, cfg.Alpha)
	assert.Equal(t, []int{100, 1000, 5000}, cfg.Generator.TextSizes)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "bad.yaml", "workers: [1, 2"))
	assert.ErrorContains(t, err, "unmarshal")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/data")
	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvNativeSeed, "0x10")
	t.Setenv(EnvFunctions, " MD5 , ,SHA-1")
	t.Setenv(EnvOutputDir, "")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "results", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, uint64(16), cfg.NativeSeed)
	assert.Equal(t, []string{"MD5", "SHA-1"}, cfg.Functions)
}

func TestApplyEnvFile(t *testing.T) {
	t.Setenv(EnvOutputDir, "")
	p := writeFile(t, "test.env", EnvOutputDir+"=out\n")
	// godotenv never overrides a variable that is already set, so clear it
	// for the duration of the test.
	require.NoError(t, os.Unsetenv(EnvOutputDir))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(p))
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestApplyEnvBadNumber(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	err := Default().ApplyEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorContains(t, err, EnvWorkers)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Config)
	}{
		{"no data dir", func(c *Config) { c.DataDir = "" }},
		{"no output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"alpha zero", func(c *Config) { c.Alpha = 0 }},
		{"alpha one", func(c *Config) { c.Alpha = 1 }},
		{"modulus", func(c *Config) { c.Modulus = 1 }},
		{"modulus too large", func(c *Config) { c.Modulus = 1<<32 + 1 }},
		{"negative size", func(c *Config) { c.Generator.TextSizes = []int{-1} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateModulusBounds(t *testing.T) {
	cfg := Default()
	cfg.Modulus = 2
	assert.NoError(t, cfg.Validate())
	cfg.Modulus = 1 << 32
	assert.NoError(t, cfg.Validate())
}
