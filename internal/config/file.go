package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFromFile merges a YAML or TOML config file into c. Keys missing from
// the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "config", Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return &ConfigError{Field: "config", Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return &ConfigError{Field: "config", Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
	default:
		return &ConfigError{Field: "config", Message: "unsupported config file extension " + filepath.Ext(path)}
	}
	return nil
}
