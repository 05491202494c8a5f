// Package config reads spanwrap configuration files.
//
// The configuration is a small YAML document, usually .spanwrap.yaml in the
// module root:
//
//	runtime:
//	  path: github.com/sirkon/spanwrap/minitrace
//	  name: minitrace
//	line-directives: true
//	format: false
//	output: .spanwrap
//	tests: false
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = ".spanwrap.yaml"

// DefaultRuntimePath is the import path of the runtime package emitted code calls.
const DefaultRuntimePath = "github.com/sirkon/spanwrap/minitrace"

// Config drives a rewrite.
type Config struct {
	Runtime Runtime `yaml:"runtime"`

	// LineDirectives enables /*line*/ comments mapping emitted code back to the
	// original source positions.
	LineDirectives bool `yaml:"line-directives"`

	// Format normalises emitted files with goimports. Line directives keep
	// positions right even then.
	Format bool `yaml:"format"`

	// Output is the directory rewritten files are written to.
	Output string `yaml:"output"`

	// Tests includes _test.go files of loaded packages.
	Tests bool `yaml:"tests"`
}

// Runtime describes the package emitted code imports.
type Runtime struct {
	Path string `yaml:"path"`

	// Name is the preferred local name of the import.
	Name string `yaml:"name"`
}

// Default returns the configuration used when there is no config file.
func Default() Config {
	return Config{
		Runtime: Runtime{
			Path: DefaultRuntimePath,
			Name: "minitrace",
		},
		LineDirectives: true,
		Output:         ".spanwrap",
	}
}

// Load reads configuration from the file at path. A missing file yields the
// default configuration when path is the default file name.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultFileName {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a YAML configuration on top of the defaults. Unknown keys are errors.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Runtime.Path) == "" {
		return errors.New("runtime path must not be empty")
	}
	if strings.ContainsAny(c.Runtime.Path, " \t\"`") {
		return fmt.Errorf("invalid runtime path %q", c.Runtime.Path)
	}

	if c.Runtime.Name == "" {
		c.Runtime.Name = c.Runtime.Path[strings.LastIndex(c.Runtime.Path, "/")+1:]
	}
	if !token.IsIdentifier(c.Runtime.Name) || c.Runtime.Name == "_" {
		return fmt.Errorf("invalid runtime import name %q", c.Runtime.Name)
	}

	return nil
}
