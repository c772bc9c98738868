package cmd

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional on-disk config loaded via --config.
// LogLevel has the --log-level flag equivalent, which wins when both are
// set. BytecodeCache is parsed but no subcommand reads it.
type fileConfig struct {
	LogLevel      string `yaml:"log_level"`
	BytecodeCache string `yaml:"bytecode_cache"`
}

func loadConfig(path string) (*fileConfig, error) {
	if path == "" {
		return &fileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
