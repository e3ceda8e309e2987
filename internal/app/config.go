package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the validated application configuration.
type Config struct {
	// WorkloadPath points at a workload .hcl file or a directory of them.
	WorkloadPath string
	// TemplatesPath points at the template catalog directory.
	TemplatesPath string
	// BundlePath points at the JSON parameter-value bundle; empty means the
	// workload must resolve entirely from defaults.
	BundlePath string
	// OutputPath is where the plan is written; empty means stdout.
	OutputPath string
	LogFormat  string
	LogLevel   string
}

// NewConfig validates a raw config and applies defaults.
func NewConfig(c Config) (*Config, error) {
	if c.WorkloadPath == "" {
		return nil, fmt.Errorf("workload path must not be empty")
	}
	if c.TemplatesPath == "" {
		c.TemplatesPath = "templates"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}

	return &c, nil
}

// FileConfig is the optional YAML configuration file. Values here act as
// defaults; command-line flags override them.
type FileConfig struct {
	WorkloadPath  string `yaml:"workload"`
	TemplatesPath string `yaml:"templates_path"`
	BundlePath    string `yaml:"params"`
	OutputPath    string `yaml:"out"`
	LogFormat     string `yaml:"log_format"`
	LogLevel      string `yaml:"log_level"`
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}
