// Package config holds the settings of a benchmark run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/TomTonic/hashbench"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDataDir    = "HASHBENCH_DATA_DIR"
	EnvOutputDir  = "HASHBENCH_OUTPUT_DIR"
	EnvWorkers    = "HASHBENCH_WORKERS"
	EnvNativeSeed = "HASHBENCH_NATIVE_SEED"
	EnvFunctions  = "HASHBENCH_FUNCTIONS"
)

type GeneratorConfig struct {
	Seed        uint64 `yaml:"seed"`
	NumberSizes []int  `yaml:"number_sizes"`
	TextSizes   []int  `yaml:"text_sizes"`
}

type Config struct {
	DataDir         string   `yaml:"data_dir"`
	OutputDir       string   `yaml:"output_dir"`
	CSVHeaderPrefix string   `yaml:"csv_header_prefix"`
	Workers         int      `yaml:"workers"`
	Functions       []string `yaml:"functions"`
	NativeSeed      uint64   `yaml:"native_seed"`
	SplitMixSeed    uint64   `yaml:"splitmix_seed"`
	Modulus         uint64   `yaml:"modulus"`
	Alpha           float64  `yaml:"alpha"`
	XLSX            bool     `yaml:"xlsx"`

	Generator GeneratorConfig `yaml:"generator"`
}

// Default returns the settings used when no file is given. They reproduce the
// layout of the classic test_data/results directories.
func Default() *Config {
	return &Config{
		DataDir:         "test_data",
		OutputDir:       "results",
		CSVHeaderPrefix: "csv_data",
		Workers:         1,
		Modulus:         1_000_000,
		Alpha:           0.05,
		XLSX:            true,
		Generator: GeneratorConfig{
			Seed:        1,
			NumberSizes: []int{100, 1000, 10000, 100000},
			TextSizes:   []int{100, 1000, 5000},
		},
	}
}

// LoadConfig reads a YAML file on top of Default. Keys missing from the file
// keep their default values.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv loads the given .env files (a missing file is not an error) and
// overrides the settings from HASHBENCH_* variables. With no arguments it
// looks for .env in the working directory.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvNativeSeed); v != "" {
		seed, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNativeSeed, err)
		}
		c.NativeSeed = seed
	}
	if v := os.Getenv(EnvFunctions); v != "" {
		c.Functions = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return errors.New("data_dir must not be empty")
	case c.OutputDir == "":
		return errors.New("output_dir must not be empty")
	case c.Workers < 1:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.Alpha <= 0 || c.Alpha >= 1:
		return fmt.Errorf("alpha must be in (0,1), got %v", c.Alpha)
	case c.Modulus < 2:
		return fmt.Errorf("modulus must be at least 2, got %d", c.Modulus)
	case c.Modulus > hashbench.MaxModulus:
		return fmt.Errorf("modulus must be at most %d, got %d", uint64(hashbench.MaxModulus), c.Modulus)
	}
	for _, sizes := range [][]int{c.Generator.NumberSizes, c.Generator.TextSizes} {
		for _, n := range sizes {
			if n < 0 {
				return fmt.Errorf("generator sizes must not be negative, got %d", n)
			}
		}
	}
	return nil
}
