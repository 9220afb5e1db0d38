package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/generator"
)

// ConfigName is the base name of the project configuration file
const ConfigName = ".spyable"

// Config holds the configuration for the CLI generator
type Config struct {
	// Output is the directory generated files are written to. When empty,
	// each spy is written to a Spies directory next to its source file.
	Output string `mapstructure:"output"`

	// PreprocessorFlag wraps every spy in #if FLAG unless the attribute names its own
	PreprocessorFlag string `mapstructure:"preprocessor_flag"`

	// ThreadSafe guards recorded state with a lock
	ThreadSafe bool `mapstructure:"thread_safe"`

	// Imports are extra import statements added to every generated file
	Imports []string `mapstructure:"imports"`

	// Exclude lists glob patterns of source files to skip
	Exclude []string `mapstructure:"exclude"`

	// Concurrency bounds the number of files processed in parallel
	Concurrency int `mapstructure:"concurrency"`

	// LogFormat is text or json
	LogFormat string `mapstructure:"log_format"`

	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "")
	v.SetDefault("preprocessor_flag", "")
	v.SetDefault("thread_safe", true)
	v.SetDefault("imports", []string{})
	v.SetDefault("exclude", []string{})
	v.SetDefault("concurrency", 4)
	v.SetDefault("log_format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
}

// NewViper creates a viper instance with defaults and SPYABLE_ environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SPYABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadConfig reads configFile, or the first .spyable.yaml / .spyable.toml
// found in dir, into v and decodes the result. A missing project file is
// not an error.
func LoadConfig(v *viper.Viper, dir, configFile string) (*Config, error) {
	path := configFile
	if path == "" {
		path = findProjectConfig(dir)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, spyerrors.WrapConfigurationError(path, spyerrors.WrapPlain(err, "read config"))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, spyerrors.WrapConfigurationError("settings", spyerrors.WrapPlain(err, "decode settings"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findProjectConfig returns the first config file present in dir
func findProjectConfig(dir string) string {
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		path := filepath.Join(dir, ConfigName+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks option values that cannot be corrected silently
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return spyerrors.Newf(spyerrors.ConfigurationErrorCode, "log_format must be text or json, got '%s'", c.LogFormat)
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Verbose && c.Quiet {
		return spyerrors.New(spyerrors.ConfigurationErrorCode, "verbose and quiet cannot both be set")
	}
	return nil
}

// GeneratorOptions returns the generation defaults the configuration implies
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		PreprocessorFlag: c.PreprocessorFlag,
		ThreadSafe:       c.ThreadSafe,
		Imports:          c.Imports,
	}
}
