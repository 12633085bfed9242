package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .modgraph/config.yaml.
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Resolver defaults applied when a command does not override them.
	Conditions []string `yaml:"conditions"`
	Extensions []string `yaml:"extensions"`
	PreferCJS  bool     `yaml:"prefer_cjs"`

	// LogLevel is debug/info/warn/error; LogFormat is json/text.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// ToolLogPath enables JSONL tool-call logging when serving.
	ToolLogPath string `yaml:"tool_log_path"`
}

// loadProjectConfig reads .modgraph/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".modgraph/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
