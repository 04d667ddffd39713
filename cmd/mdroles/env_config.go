package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdroles/internal/config"
)

// envPrefix is the prefix of recognized environment variables.
const envPrefix = "MDROLES_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MDROLES_CONFIG: config file name or path
	OutputDir  string // MDROLES_OUTPUT_DIR: output directory
	Timeout    string // MDROLES_TIMEOUT: minifier timeout
	Workers    int    // MDROLES_WORKERS: parallel workers
	WikiBase   string // MDROLES_WIKI_BASE: wp role base URL
	Hash       string // MDROLES_HASH: asset hash algorithm
	LogLevel   string // MDROLES_LOG_LEVEL: console log level
	Terser     string // MDROLES_TERSER: terser executable
	CSSO       string // MDROLES_CSSO: csso executable
}

// knownEnvVars lists valid MDROLES_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDROLES_CONFIG":     true,
	"MDROLES_OUTPUT_DIR": true,
	"MDROLES_TIMEOUT":    true,
	"MDROLES_WORKERS":    true,
	"MDROLES_WIKI_BASE":  true,
	"MDROLES_HASH":       true,
	"MDROLES_LOG_LEVEL":  true,
	"MDROLES_TERSER":     true,
	"MDROLES_CSSO":       true,
	"MDROLES_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDROLES_CONFIG"),
		OutputDir:  os.Getenv("MDROLES_OUTPUT_DIR"),
		Timeout:    os.Getenv("MDROLES_TIMEOUT"),
		WikiBase:   os.Getenv("MDROLES_WIKI_BASE"),
		Hash:       os.Getenv("MDROLES_HASH"),
		LogLevel:   os.Getenv("MDROLES_LOG_LEVEL"),
		Terser:     os.Getenv("MDROLES_TERSER"),
		CSSO:       os.Getenv("MDROLES_CSSO"),
	}

	// Parse int for workers; invalid values are ignored
	if workers := os.Getenv("MDROLES_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDROLES_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setIf(&cfg.Output.Dir, env.OutputDir)
	setIf(&cfg.Minify.Timeout, env.Timeout)
	setIf(&cfg.Wiki.BaseURL, env.WikiBase)
	setIf(&cfg.Assets.Hash, env.Hash)
	setIf(&cfg.Log.Level, env.LogLevel)
	setIf(&cfg.Minify.Terser, env.Terser)
	setIf(&cfg.Minify.CSSO, env.CSSO)
}

// setIf assigns value to dst when value is non-empty.
func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
