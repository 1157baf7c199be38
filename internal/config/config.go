package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Input formats
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatGoYAML = "goyaml"
)

// Output formats
const (
	OutputCanonical = "canonical"
	OutputJSON      = "json"
	OutputYAML      = "yaml"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	inputFormats  = []string{FormatAuto, FormatJSON, FormatYAML, FormatGoYAML}
	outputFormats = []string{OutputCanonical, OutputJSON, OutputYAML}
	colorModes    = []string{ColorAuto, ColorAlways, ColorNever}
)

// Config represents the complete configuration for jsontrait
type Config struct {
	Input   InputConfig       `yaml:"input"`
	Output  OutputConfig      `yaml:"output"`
	Aliases map[string]string `yaml:"aliases"`
	Dev     DevConfig         `yaml:"dev"`
}

// InputConfig controls how documents are decoded
type InputConfig struct {
	Format string `yaml:"format"`
}

// OutputConfig controls how values are rendered
type OutputConfig struct {
	Format string `yaml:"format"`
	Indent int    `yaml:"indent"`
	Color  string `yaml:"color"`
	// ASCII escapes non-ASCII characters in rendered strings
	ASCII bool `yaml:"ascii"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Input: InputConfig{
			Format: FormatAuto,
		},
		Output: OutputConfig{
			Format: OutputCanonical,
			Indent: 2,
			Color:  ColorAuto,
		},
		Aliases: make(map[string]string),
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.normalizeAliases()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontrait.yml", ".jsontrait.yaml", "jsontrait.yml", "jsontrait.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enum values and alias pointers
func (c *Config) Validate() error {
	if !slices.Contains(inputFormats, c.Input.Format) {
		return fmt.Errorf("unknown input format %q, want one of %s", c.Input.Format, strings.Join(inputFormats, ", "))
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("unknown output format %q, want one of %s", c.Output.Format, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(colorModes, c.Output.Color) {
		return fmt.Errorf("unknown color mode %q, want one of %s", c.Output.Color, strings.Join(colorModes, ", "))
	}
	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		return fmt.Errorf("indent %d out of range 0..16", c.Output.Indent)
	}
	for name, ptr := range c.Aliases {
		if ptr != "" && !strings.HasPrefix(ptr, "/") {
			return fmt.Errorf("alias %q: pointer %q must be empty or start with /", name, ptr)
		}
	}
	return nil
}

// normalizeAliases keys aliases by their snake_case form, so userId and
// user_id name the same alias.
func (c *Config) normalizeAliases() {
	if len(c.Aliases) == 0 {
		c.Aliases = make(map[string]string)
		return
	}
	normalized := make(map[string]string, len(c.Aliases))
	for name, ptr := range c.Aliases {
		normalized[strcase.ToSnake(name)] = ptr
	}
	c.Aliases = normalized
}

// ExpandPointer returns the pointer an argument stands for. Arguments
// written @name are looked up in the aliases; anything else is returned
// unchanged.
func (c *Config) ExpandPointer(arg string) (string, error) {
	name, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	ptr, exists := c.Aliases[strcase.ToSnake(name)]
	if !exists {
		return "", fmt.Errorf("unknown alias %q", name)
	}
	return ptr, nil
}

// MergeConfigs merges CLI overrides into a base config
// Non-empty values from override take precedence over base values
func MergeConfigs(base, override *Config) *Config {
	merged := *base
	merged.Aliases = make(map[string]string, len(base.Aliases)+len(override.Aliases))
	for name, ptr := range base.Aliases {
		merged.Aliases[name] = ptr
	}
	for name, ptr := range override.Aliases {
		merged.Aliases[strcase.ToSnake(name)] = ptr
	}

	if override.Input.Format != "" {
		merged.Input.Format = override.Input.Format
	}
	if override.Output.Format != "" {
		merged.Output.Format = override.Output.Format
	}
	if override.Output.Color != "" {
		merged.Output.Color = override.Output.Color
	}
	if override.Output.Indent != 0 {
		merged.Output.Indent = override.Output.Indent
	}
	merged.Dev.Debug = base.Dev.Debug || override.Dev.Debug

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence. Empty CLI
// values leave the file (or default) value in place.
func LoadConfigWithCLI(configPath, cliFormat, cliOutput, cliColor string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg = MergeConfigs(cfg, &Config{
		Input:  InputConfig{Format: cliFormat},
		Output: OutputConfig{Format: cliOutput, Color: cliColor},
		Dev:    DevConfig{Debug: cliDebug},
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
