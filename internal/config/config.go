// Package config loads the optional .cppdev.yml file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/cppdev/internal/validator"
)

// ConfigFile is looked up in the working directory when no explicit path is given.
const ConfigFile = ".cppdev.yml"

// ConfigEnvVar names an explicit configuration file.
const ConfigEnvVar = "CPPDEV_CONFIG"

// SchemaID identifies the embedded configuration schema.
const SchemaID = "https://github.com/andyballingall/cppdev/config.schema.json"

const (
	DefaultFormatterCommand = "clang-format"
	DefaultStyleFile        = ".clang-format"
	DefaultBuildCommand     = "xmake"
	DefaultBuildMode        = "debug"
)

const DefaultConfigContent = `# cppdev configuration. Every key is optional.

formatter:
  # Formatting program, invoked as: <command> -style=file:<styleFile> -i <file>
  command: clang-format
  # Style file, resolved by the formatter relative to the working directory.
  styleFile: .clang-format

build:
  # Build configuration program, invoked as: <command> f -v --toolchain=<toolchain> [-m <mode>]
  command: xmake
  # Set to false for build tools that do not take a -m mode argument.
  modeFlag: true
  # Mode used when none is given on the command line.
  defaultMode: debug
`

//go:embed config.schema.json
var schemaJSON []byte

type FormatterConfig struct {
	Command   string `yaml:"command"`
	StyleFile string `yaml:"styleFile"`
}

type BuildConfig struct {
	Command     string `yaml:"command"`
	ModeFlag    *bool  `yaml:"modeFlag"`
	DefaultMode string `yaml:"defaultMode"`
}

// SupportsMode reports whether the build tool accepts a mode argument.
// Unset means true.
func (b BuildConfig) SupportsMode() bool {
	return b.ModeFlag == nil || *b.ModeFlag
}

type Config struct {
	Formatter FormatterConfig `yaml:"formatter"`
	Build     BuildConfig     `yaml:"build"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Formatter.Command == "" {
		c.Formatter.Command = DefaultFormatterCommand
	}
	if c.Formatter.StyleFile == "" {
		c.Formatter.StyleFile = DefaultStyleFile
	}
	if c.Build.Command == "" {
		c.Build.Command = DefaultBuildCommand
	}
	if c.Build.DefaultMode == "" {
		c.Build.DefaultMode = DefaultBuildMode
	}
}

// Load reads the configuration. When explicitPath is empty, ConfigFile in
// workDir is used if it exists and defaults are returned otherwise. An
// explicit path that does not exist is an error.
func Load(workDir, explicitPath string, compiler validator.Compiler) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = filepath.Join(workDir, ConfigFile)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicitPath != "" {
			return nil, &MissingConfigError{Path: path}
		}
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if vErr := validate(raw, compiler); vErr != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: vErr}
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	cfg.applyDefaults()
	cfg.Path = path

	return &cfg, nil
}

func validate(raw interface{}, compiler validator.Compiler) error {
	schemaDoc, err := validator.ParseSchema(schemaJSON)
	if err != nil {
		return fmt.Errorf("embedded schema: %w", err)
	}
	if err = compiler.AddSchema(SchemaID, schemaDoc); err != nil {
		return fmt.Errorf("embedded schema: %w", err)
	}
	v, err := compiler.Compile(SchemaID)
	if err != nil {
		return fmt.Errorf("embedded schema: %w", err)
	}

	doc, err := validator.Normalize(raw)
	if err != nil {
		return err
	}
	return v.Validate(doc)
}
