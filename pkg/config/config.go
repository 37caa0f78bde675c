// Package config holds the runtime settings of the formatter: the
// user-defined name formatters, extra file types, the file directories used
// to resolve and discover attachments, and logging.
//
// A document can be JSON, YAML or TOML:
//
//	transforms:
//	  names: [short]
//	  formats: ["1@*@{ll}@@2@1@{ll} & @2@{ll}@@*@1@{ll} et al.@2..-1@"]
//	fileTypes:
//	  - {name: Notes, extension: note}
//	files:
//	  directories: [~/papers]
//	  patterns: ["**/[bibtexkey].*"]
//	logging:
//	  level: debug
//	  format: json
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-bibfmt/pkg/expand"
	"github.com/goliatone/go-bibfmt/pkg/filetype"
	"github.com/goliatone/go-bibfmt/pkg/linkedfile"
	"github.com/goliatone/go-bibfmt/pkg/names"
	"github.com/goliatone/go-bibfmt/pkg/transform"
)

// Config is the decoded configuration document.
type Config struct {
	Transforms Transforms      `json:"transforms" yaml:"transforms" toml:"transforms"`
	FileTypes  []filetype.Type `json:"fileTypes,omitempty" yaml:"fileTypes,omitempty" toml:"fileTypes,omitempty"`
	Files      Files           `json:"files" yaml:"files" toml:"files"`
	Logging    Logging         `json:"logging" yaml:"logging" toml:"logging"`
}

// Transforms pairs user name formatters with their formats by index.
type Transforms struct {
	Names   []string `json:"names,omitempty" yaml:"names,omitempty" toml:"names,omitempty"`
	Formats []string `json:"formats,omitempty" yaml:"formats,omitempty" toml:"formats,omitempty"`
}

// Files configures attachment lookup.
type Files struct {
	Directories      []string `json:"directories,omitempty" yaml:"directories,omitempty" toml:"directories,omitempty"`
	WorkingDirectory string   `json:"workingDirectory,omitempty" yaml:"workingDirectory,omitempty" toml:"workingDirectory,omitempty"`
	Patterns         []string `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty"`
}

// Logging selects the log level and handler format.
type Logging struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// Default returns the configuration used when no document is supplied.
func Default() *Config {
	return &Config{
		Files:   Files{Patterns: []string{linkedfile.DefaultPattern}},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Parse decodes doc, choosing the format from its location extension.
// Extension-less documents are sniffed as JSON, then YAML.
func Parse(doc Document) (*Config, error) {
	return Decode(doc.Raw(), doc.Location())
}

// Decode decodes raw on top of Default and validates the result.
func Decode(raw []byte, location string) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("config: document %s is empty", location)
	}

	var err error
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		err = json.Unmarshal(raw, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".toml":
		err = toml.Unmarshal(raw, cfg)
	default:
		if jsonErr := json.Unmarshal(raw, cfg); jsonErr != nil {
			cfg = Default()
			if yamlErr := yaml.Unmarshal(raw, cfg); yamlErr != nil {
				err = fmt.Errorf("not JSON (%v) or YAML (%v)", jsonErr, yamlErr)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", location, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	// Formats without a name are dropped; missing formats mean the default.
	if len(c.Transforms.Formats) > len(c.Transforms.Names) {
		c.Transforms.Formats = c.Transforms.Formats[:len(c.Transforms.Names)]
	}
	c.Files.WorkingDirectory = strings.TrimSpace(c.Files.WorkingDirectory)
	c.Files.Directories = compact(c.Files.Directories)
	c.Files.Patterns = compact(c.Files.Patterns)
	if len(c.Files.Patterns) == 0 {
		c.Files.Patterns = []string{linkedfile.DefaultPattern}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q is not one of text, json", c.Logging.Format)
	}
	for idx, format := range c.Transforms.Formats {
		if strings.TrimSpace(format) == "" {
			continue
		}
		if _, err := names.ParseFormat(format); err != nil {
			return fmt.Errorf("config: transforms.formats[%d]: %w", idx, err)
		}
	}
	for idx, pattern := range c.Files.Patterns {
		if !expand.Compile(pattern).HasFields() {
			return fmt.Errorf("config: files.patterns[%d] %q references no field", idx, pattern)
		}
	}
	return nil
}

// Registry builds the transform registry: built-ins plus the configured
// name formatters.
func (c *Config) Registry() (*transform.Registry, error) {
	return transform.NewRegistry(transform.WithNameFormats(c.Transforms.Names, c.Transforms.Formats))
}

// FileTypeRegistry builds the standard file types plus the configured ones.
func (c *Config) FileTypeRegistry() (*filetype.Registry, error) {
	reg := filetype.NewDefault()
	for _, t := range c.FileTypes {
		if err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return reg, nil
}

// Finder builds the attachment finder for the configured directories and
// patterns.
func (c *Config) Finder(registry *transform.Registry, types *filetype.Registry) *linkedfile.Finder {
	return linkedfile.NewFinder(c.Files.Directories,
		linkedfile.WithPatterns(c.Files.Patterns...),
		linkedfile.WithTransforms(registry),
		linkedfile.WithFileTypes(types),
	)
}

func compact(values []string) []string {
	out := values[:0]
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
