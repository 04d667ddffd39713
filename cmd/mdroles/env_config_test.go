package main

// Notes:
// - Tests use t.Setenv and therefore do not run in parallel.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdroles/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MDROLES_CONFIG", "site")
	t.Setenv("MDROLES_OUTPUT_DIR", "dist")
	t.Setenv("MDROLES_TIMEOUT", "1m")
	t.Setenv("MDROLES_WORKERS", "3")
	t.Setenv("MDROLES_WIKI_BASE", "https://fr.wikipedia.org/wiki/")
	t.Setenv("MDROLES_HASH", "blake3")
	t.Setenv("MDROLES_LOG_LEVEL", "debug")
	t.Setenv("MDROLES_TERSER", "/opt/terser")
	t.Setenv("MDROLES_CSSO", "/opt/csso")

	got := loadEnvConfig()
	want := envConfig{
		ConfigPath: "site",
		OutputDir:  "dist",
		Timeout:    "1m",
		Workers:    3,
		WikiBase:   "https://fr.wikipedia.org/wiki/",
		Hash:       "blake3",
		LogLevel:   "debug",
		Terser:     "/opt/terser",
		CSSO:       "/opt/csso",
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfig_InvalidWorkersIgnored(t *testing.T) {
	for _, v := range []string{"abc", "0", "-2"} {
		t.Setenv("MDROLES_WORKERS", v)
		if got := loadEnvConfig().Workers; got != 0 {
			t.Errorf("MDROLES_WORKERS=%q: Workers = %d, want 0", v, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	applyEnvConfig(&envConfig{OutputDir: "dist", Hash: "blake3"}, cfg)

	if cfg.Output.Dir != "dist" {
		t.Errorf("Output.Dir = %q, want dist", cfg.Output.Dir)
	}
	if cfg.Assets.Hash != "blake3" {
		t.Errorf("Assets.Hash = %q, want blake3", cfg.Assets.Hash)
	}
	if cfg.Minify.Terser != "terser" {
		t.Errorf("unset env var changed Minify.Terser to %q", cfg.Minify.Terser)
	}
}

func TestMergeFlags_OverridesEnv(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	applyEnvConfig(&envConfig{OutputDir: "dist", LogLevel: "debug"}, cfg)
	mergeFlags(&convertFlags{
		output:     "site",
		standalone: true,
		markdown:   markdownFlags{noHighlight: true, hardWraps: true},
	}, cfg)

	if cfg.Output.Dir != "site" {
		t.Errorf("Output.Dir = %q, want flag value", cfg.Output.Dir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want env value kept", cfg.Log.Level)
	}
	if !cfg.Output.Standalone || !cfg.Markdown.HardWraps || cfg.Markdown.Highlight {
		t.Errorf("markdown/output toggles not applied: %+v %+v", cfg.Output, cfg.Markdown)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDROLES_OUTPUT_DIRR", "x")
	t.Setenv("MDROLES_HASH", "sha256")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	if !strings.Contains(buf.String(), "MDROLES_OUTPUT_DIRR") {
		t.Errorf("output = %q, want warning for typo", buf.String())
	}
	if strings.Contains(buf.String(), "MDROLES_HASH") {
		t.Errorf("output = %q, known variable must not warn", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_EnvOutputDir - Environment reaches the conversion
// ---------------------------------------------------------------------------

func TestRunMain_EnvOutputDir(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.md")
	writeFile(t, in, "# Page\n")
	t.Setenv("MDROLES_OUTPUT_DIR", filepath.Join(dir, "site"))

	env, _, stderr := testEnv()
	if code := runMain([]string{"mdroles", "convert", in}, env); code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "site", "page.html")); err != nil {
		t.Errorf("output not written to env dir: %v", err)
	}
}

func TestLoadConfig_NotFoundHint(t *testing.T) {
	t.Parallel()

	_, err := loadConfig("no-such-config-xyz", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error = %q, want a hint", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exitCodeFor() = %d, want %d", exitCodeFor(err), ExitUsage)
	}
}
