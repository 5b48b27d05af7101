package imgcache

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/format"
	"github.com/jmgilman/go/imgcache/source"
)

// Config holds configuration for an image cache and its byte sources.
type Config struct {
	Log     LogSettings     `yaml:"log"`
	Formats FormatSettings  `yaml:"formats"`
	MIME    MIMESettings    `yaml:"mime"`
	Sources SourcesSettings `yaml:"sources"`
	Budget  BudgetSettings  `yaml:"budget"`
}

// LogSettings configures logging.
type LogSettings struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
}

// FormatSettings configures which formats are readable.
type FormatSettings struct {
	// Disabled lists format names whose read support is turned off.
	Disabled []string `yaml:"disabled"`
}

// MIMESettings configures MIME admission.
type MIMESettings struct {
	// Defer lists extra media types that are admitted without a format lookup.
	Defer []string `yaml:"defer"`
}

// SourcesSettings configures the byte sources.
type SourcesSettings struct {
	// MaxInFlight bounds concurrent background fetches per source.
	MaxInFlight int `yaml:"max_in_flight"`
	// FileRoot is the directory file:// paths are resolved against.
	FileRoot string       `yaml:"file_root"`
	HTTP     HTTPSettings `yaml:"http"`
	// S3 enables the s3:// source when set.
	S3 *S3Settings `yaml:"s3"`
	// Git enables the git:// source when set.
	Git *GitSettings `yaml:"git"`
}

// HTTPSettings configures the http(s):// source.
type HTTPSettings struct {
	RetryMax int           `yaml:"retry_max"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// S3Settings configures the s3:// source.
type S3Settings struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// GitSettings configures the git:// source.
type GitSettings struct {
	// Path is the repository's working tree, or the repository itself if bare.
	Path string `yaml:"path"`
}

// BudgetSettings configures the optional memory budget.
type BudgetSettings struct {
	// MaxBytes is the cache budget in bytes. Zero disables trimming.
	MaxBytes int64 `yaml:"max_bytes"`
}

// DefaultConfig returns a configuration with defaults applied.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults applies default values to unset fields in the configuration.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Sources.MaxInFlight == 0 {
		c.Sources.MaxInFlight = source.DefaultMaxInFlight
	}
	if c.Sources.FileRoot == "" {
		c.Sources.FileRoot = "/"
	}
	if c.Sources.HTTP.RetryMax == 0 {
		c.Sources.HTTP.RetryMax = 2
	}
	if c.Sources.HTTP.Timeout == 0 {
		c.Sources.HTTP.Timeout = 30 * time.Second
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	for _, name := range c.Formats.Disabled {
		known := false
		for _, f := range format.Known {
			if strings.EqualFold(f.Name, name) {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown format %q", name)
		}
	}
	if c.Sources.MaxInFlight < 0 {
		return fmt.Errorf("max in flight cannot be negative")
	}
	if c.Sources.HTTP.RetryMax < 0 {
		return fmt.Errorf("http retry max cannot be negative")
	}
	if c.Sources.HTTP.MaxBytes < 0 {
		return fmt.Errorf("http max bytes cannot be negative")
	}
	if c.Budget.MaxBytes < 0 {
		return fmt.Errorf("budget max bytes cannot be negative")
	}
	if s3 := c.Sources.S3; s3 != nil && s3.Endpoint == "" {
		return fmt.Errorf("s3 endpoint is required")
	}
	if git := c.Sources.Git; git != nil && git.Path == "" {
		return fmt.Errorf("git repository path is required")
	}
	return nil
}

// LoadConfig decodes a YAML configuration from r, applies defaults and
// validates the result. Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config")
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, errors.Wrap(err, errors.CodeInvalidConfig, "invalid config")
	}
	return c, nil
}

// Logger builds the logger described by the configuration.
func (c *Config) Logger(out io.Writer) *Logger {
	level, err := ParseLogLevel(c.Log.Level)
	if err != nil {
		level = LogLevelInfo
	}
	return NewLogger(LogConfig{Level: level, Output: out})
}

// Gate builds the format gate described by the configuration.
func (c *Config) Gate() *format.Gate {
	return format.NewGate(
		format.WithDisabled(c.Formats.Disabled...),
		format.WithDeferredMIMETypes(c.MIME.Defer...),
	)
}
