package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the wmf configuration file (~/.config/wmfkit/config.yaml).
// Numeric fields are pointers so we can distinguish "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Writing
	OutputOrder string `yaml:"output_order"`
	Jobs        *int64 `yaml:"jobs"`
	ChunkSize   *int64 `yaml:"chunk_size"`
	DPI         *int64 `yaml:"dpi"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wmfkit", "config.yaml")
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyConvertConfig applies config file defaults to convert and extract
// variables when the corresponding CLI flag was not explicitly set. Either
// pointer may be nil.
func applyConvertConfig(c *cli.Command, cfg Config, order *string, jobs *int64) {
	if order != nil && cfg.OutputOrder != "" && !c.IsSet("order") {
		*order = cfg.OutputOrder
	}
	if jobs != nil && cfg.Jobs != nil && *cfg.Jobs > 0 && !c.IsSet("jobs") {
		*jobs = *cfg.Jobs
	}
}

func applyBuildConfig(c *cli.Command, cfg Config, order *string, chunk, dpi *int64) {
	applyConvertConfig(c, cfg, order, nil)
	if cfg.ChunkSize != nil && !c.IsSet("chunk-size") {
		*chunk = *cfg.ChunkSize
	}
	if cfg.DPI != nil && !c.IsSet("dpi") {
		*dpi = *cfg.DPI
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
