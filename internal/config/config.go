package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdroles/internal/fileutil"
	"github.com/alnah/go-mdroles/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-mdroles"

// Field length limits.
const (
	MaxPathLength = 4096
	MaxURLLength  = 2048
	MaxToolLength = 1024
)

// Timeout bounds for minifier invocations.
const (
	MinTimeout = time.Second
	MaxTimeout = 10 * time.Minute
)

// Config holds all configuration for a build.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Assets   AssetsConfig   `yaml:"assets"`
	Minify   MinifyConfig   `yaml:"minify"`
	Wiki     WikiConfig     `yaml:"wiki"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Log      LogConfig      `yaml:"log"`
}

// OutputConfig defines where HTML and assets are written.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Standalone bool   `yaml:"standalone"` // wrap fragments in a full HTML document
}

// AssetsConfig defines content-addressed asset options.
type AssetsConfig struct {
	Hash string `yaml:"hash"` // "sha256" or "blake3"
}

// MinifyConfig names the external minifiers.
type MinifyConfig struct {
	Terser  string `yaml:"terser"`
	CSSO    string `yaml:"csso"`
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// WikiConfig configures the wp role.
type WikiConfig struct {
	BaseURL string `yaml:"baseURL"`
}

// MarkdownConfig selects goldmark features.
type MarkdownConfig struct {
	HardWraps bool `yaml:"hardWraps"`
	Unsafe    bool `yaml:"unsafe"`
	Highlight bool `yaml:"highlight"`
}

// LogConfig defines console logging.
type LogConfig struct {
	Level string `yaml:"level"` // none, debug, info, warn
}

// Validate checks field lengths and enumerations. Called by LoadConfig, but
// available for configs built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("minify.terser", c.Minify.Terser, MaxToolLength); err != nil {
		return err
	}
	if err := validateFieldLength("minify.csso", c.Minify.CSSO, MaxToolLength); err != nil {
		return err
	}
	if err := validateFieldLength("wiki.baseURL", c.Wiki.BaseURL, MaxURLLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Assets.Hash) {
	case "", "sha256", "blake3":
	default:
		return fmt.Errorf("%w: assets.hash %q (must be sha256 or blake3)", ErrInvalidValue, c.Assets.Hash)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "none", "debug", "info", "warn":
	default:
		return fmt.Errorf("%w: log.level %q (must be none, debug, info, or warn)", ErrInvalidValue, c.Log.Level)
	}

	if c.Wiki.BaseURL != "" && !strings.HasSuffix(c.Wiki.BaseURL, "/") {
		return fmt.Errorf("%w: wiki.baseURL %q must end with /", ErrInvalidValue, c.Wiki.BaseURL)
	}

	if _, err := c.Minify.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses minify.timeout. An empty value yields 0, meaning
// the caller's default.
func (m MinifyConfig) TimeoutDuration() (time.Duration, error) {
	if m.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: minify.timeout %q: %v", ErrInvalidValue, m.Timeout, err)
	}
	if d < MinTimeout || d > MaxTimeout {
		return 0, fmt.Errorf("%w: minify.timeout %s (must be between %s and %s)", ErrInvalidValue, d, MinTimeout, MaxTimeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputConfig{Dir: "public"},
		Assets:   AssetsConfig{Hash: "sha256"},
		Minify:   MinifyConfig{Terser: "terser", CSSO: "csso", Timeout: "30s"},
		Wiki:     WikiConfig{BaseURL: "https://en.wikipedia.org/wiki/"},
		Markdown: MarkdownConfig{Highlight: true},
		Log:      LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files resolveConfigPath tries for name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches the current directory, then the user config
// directory, for name with a .yaml or .yml extension.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
