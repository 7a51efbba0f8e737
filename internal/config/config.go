// Package config holds settings of the metagen utility.
//
// Settings are read from an optional YAML file, missing values get defaults from `default` struct tags,
// command line flags override both.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ava12/meta"
)

// Error codes used by config:
const (
	InvalidConfigError = meta.ConfigErrors + iota
	ReadConfigError
)

// Output formats of the parse command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTree = "tree"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Color  string       `yaml:"color" default:"auto"`
	Parse  ParseConfig  `yaml:"parse"`
	Server ServerConfig `yaml:"server"`
}

type LogConfig struct {
	// Level is one of logrus level names: panic, fatal, error, warn, info, debug, trace.
	Level string `yaml:"level" default:"info"`
	// Format is either "text" or "json".
	Format string `yaml:"format" default:"text"`
}

type ParseConfig struct {
	Format      string `yaml:"format" default:"text"`
	Concurrency int    `yaml:"concurrency" default:"4"`
	MaxDepth    int    `yaml:"max_depth" default:"10000"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr" default:"127.0.0.1:8080"`
	GrammarDir  string        `yaml:"grammar_dir" default:"grammars"`
	CacheSize   int           `yaml:"cache_size" default:"64"`
	MaxBodySize int64         `yaml:"max_body_size" default:"1048576"`
	ReadTimeout time.Duration `yaml:"read_timeout" default:"30s"`
	// NoWatch disables reloading of changed grammar files.
	NoWatch     bool          `yaml:"no_watch"`
}

// Default returns configuration with all fields set to their defaults.
func Default() *Config {
	cfg := &Config{}
	if e := defaults.Set(cfg); e != nil {
		panic(e)
	}
	return cfg
}

// Load reads configuration from YAML file, empty path means defaults only.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, e := os.ReadFile(path)
	if e != nil {
		return nil, errors.Wrapf(e, "failed to read configuration file %q", path)
	}

	return Parse(path, data)
}

// Parse decodes YAML configuration, applies defaults, and validates the result.
func Parse(name string, data []byte) (*Config, error) {
	cfg := &Config{}
	if e := yaml.Unmarshal(data, cfg); e != nil {
		return nil, meta.FormatError(ReadConfigError, "cannot parse configuration %s: %s", name, e)
	}

	if e := defaults.Set(cfg); e != nil {
		return nil, errors.Wrap(e, "failed to apply default configuration values")
	}

	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	return cfg, nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Validate returns *meta.Error listing all invalid fields or nil.
func (c *Config) Validate() error {
	var problems []string
	add := func(field, msg string, params ...any) {
		problems = append(problems, field+": "+fmt.Sprintf(msg, params...))
	}

	if _, e := logrus.ParseLevel(c.Log.Level); e != nil {
		add("log.level", "unknown level %q", c.Log.Level)
	}
	if !oneOf(c.Log.Format, FormatText, FormatJSON) {
		add("log.format", "must be text or json, got %q", c.Log.Format)
	}
	if !oneOf(c.Color, ColorAuto, ColorAlways, ColorNever) {
		add("color", "must be auto, always, or never, got %q", c.Color)
	}
	if !oneOf(c.Parse.Format, FormatText, FormatJSON, FormatYAML, FormatTree) {
		add("parse.format", "unknown output format %q", c.Parse.Format)
	}
	if c.Parse.Concurrency < 1 {
		add("parse.concurrency", "must be positive")
	}
	if c.Parse.MaxDepth < 1 {
		add("parse.max_depth", "must be positive")
	}
	if c.Server.Addr == "" {
		add("server.addr", "must not be empty")
	}
	if c.Server.CacheSize < 1 {
		add("server.cache_size", "must be positive")
	}
	if c.Server.MaxBodySize < 1 {
		add("server.max_body_size", "must be positive")
	}

	if len(problems) == 0 {
		return nil
	}

	return meta.FormatError(InvalidConfigError, "invalid configuration: %s", strings.Join(problems, "; "))
}

// UseColor reports whether diagnostics should be colored.
func (c *Config) UseColor() bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return !color.NoColor
	}
}

// NewLogger creates logger writing to out according to log settings.
func (c *Config) NewLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if level, e := logrus.ParseLevel(c.Log.Level); e == nil {
		log.SetLevel(level)
	}
	if c.Log.Format == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: !c.UseColor(),
			FullTimestamp: true,
		})
	}
	return log
}
