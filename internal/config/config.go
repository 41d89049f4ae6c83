// Package config loads an optional per-root .xray.yml that supplements
// the walker's built-in exclusion defaults and records per-language
// overrides for future front-end tuning.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file xray looks for at the root of an indexed
// tree.
const FileName = ".xray.yml"

// Config is the decoded shape of .xray.yml. Every field is optional; a
// missing file is equivalent to a zero Config.
type Config struct {
	// Exclude supplements walker.DefaultExclusions with directory-name or
	// relative-path glob patterns.
	Exclude []string `yaml:"exclude"`
	// Languages maps a language name (as in internal/lang) to per-language
	// overrides. Currently the only override is Disabled, which drops that
	// language's files from a build without removing its front-end.
	Languages map[string]LanguageConfig `yaml:"languages"`
}

// LanguageConfig is a per-language override block under the top-level
// languages map.
type LanguageConfig struct {
	Disabled bool `yaml:"disabled"`
}

// Load reads <root>/.xray.yml if it exists and returns its decoded
// contents. A missing file is not an error; Load returns a zero Config.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DisabledLanguages returns the set of language names whose Disabled
// override is set.
func (c *Config) DisabledLanguages() map[string]bool {
	out := make(map[string]bool)
	if c == nil {
		return out
	}
	for name, lc := range c.Languages {
		if lc.Disabled {
			out[name] = true
		}
	}
	return out
}
