package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	defaultChunkSize = 1 << 20
	defaultWorkers   = 4
	defaultVocabSize = 50000
	defaultMinLength = 1
	defaultMaxLength = 80
)

// ToolkitConfig names the external normalization scripts. Every script
// is expected to exit 0 on success.
type ToolkitConfig struct {
	SGMConverter string `yaml:"sgm_converter"`
	Tokenizer    string `yaml:"tokenizer"`
	Cleaner      string `yaml:"cleaner"`
}

// LengthBounds configures the sentence-length filter for train
// corpora. Cleaning runs only when enabled.
type LengthBounds struct {
	Enabled   bool `yaml:"enabled"`
	MinLength int  `yaml:"min_length"`
	MaxLength int  `yaml:"max_length"`
}

type PipelineConfig struct {
	RootDir       string       `yaml:"root_dir"`
	ChunkSize     int          `yaml:"chunk_size"`
	Workers       int          `yaml:"workers"`
	Tokenize      bool         `yaml:"tokenize"`
	OnToolFailure string       `yaml:"on_tool_failure"`
	VocabSize     int          `yaml:"vocab_size"`
	VocabMinCount int          `yaml:"vocab_min_count"`
	LengthBounds  LengthBounds `yaml:"length_bounds"`
}

type Config struct {
	LogLevel       string         `yaml:"log_level"`
	PipelineConfig PipelineConfig `yaml:"pipeline"`
	ToolkitConfig  ToolkitConfig  `yaml:"toolkit"`
}

func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	if c.PipelineConfig.RootDir == "" {
		c.PipelineConfig.RootDir = "data"
	}
	if c.PipelineConfig.ChunkSize <= 0 {
		c.PipelineConfig.ChunkSize = defaultChunkSize
	}
	if c.PipelineConfig.Workers <= 0 {
		c.PipelineConfig.Workers = defaultWorkers
	}
	if c.PipelineConfig.VocabSize <= 0 {
		c.PipelineConfig.VocabSize = defaultVocabSize
	}
	if c.PipelineConfig.LengthBounds.MinLength <= 0 {
		c.PipelineConfig.LengthBounds.MinLength = defaultMinLength
	}
	if c.PipelineConfig.LengthBounds.MaxLength <= 0 {
		c.PipelineConfig.LengthBounds.MaxLength = defaultMaxLength
	}
}

// Load reads the YAML config at path. A .env file, if present, is
// loaded first so the config file may reference the environment of the
// deployment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}

	cfg.SetDefaults()

	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}
