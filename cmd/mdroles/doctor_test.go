package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdroles/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunDoctor
// ---------------------------------------------------------------------------

func TestRunDoctor_MissingMinifiers(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Minify.Terser = "no-such-terser-xyz"
	cfg.Minify.CSSO = "no-such-csso-xyz"
	cfg.Output.Dir = filepath.Join(t.TempDir(), "public")

	r := runDoctor(cfg)
	if r.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", r.Status)
	}
	if len(r.Tools) != 2 || r.Tools[0].Found || r.Tools[1].Found {
		t.Errorf("Tools = %+v, want two missing tools", r.Tools)
	}
	if len(r.Warnings) != 2 || !strings.Contains(r.Warnings[0], "hint:") {
		t.Errorf("Warnings = %v, want hints", r.Warnings)
	}
	if !r.Output.Writable {
		t.Error("temp output dir should be writable")
	}

	entries, err := os.ReadDir(cfg.Output.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("doctor left %d files behind", len(entries))
	}
}

func TestRunDoctor_OutputNotWritable(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Minify.Terser = "no-such-terser-xyz"
	cfg.Minify.CSSO = "no-such-csso-xyz"
	cfg.Output.Dir = filepath.Join(blocker, "public")

	r := runDoctor(cfg)
	if r.Status != "errors" {
		t.Errorf("Status = %q, want errors", r.Status)
	}
	if r.Output.Writable {
		t.Error("Writable = true, want false")
	}

	env, stdout, _ := testEnv()
	printDoctorResult(env.Stdout, r)
	if !strings.Contains(stdout.String(), "Status: Not ready") {
		t.Errorf("output = %q", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSON
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Setenv("MDROLES_OUTPUT_DIR", t.TempDir())
	t.Setenv("MDROLES_TERSER", "no-such-terser-xyz")
	t.Setenv("MDROLES_CSSO", "no-such-csso-xyz")

	env, stdout, _ := testEnv()
	if code := runDoctorCmd([]string{"--json"}, env); code != ExitSuccess {
		t.Fatalf("runDoctorCmd() = %d, want %d", code, ExitSuccess)
	}

	var r doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &r); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if r.Status != "warnings" || len(r.Tools) != 2 || r.Tools[0].Name != "no-such-terser-xyz" {
		t.Errorf("result = %+v", r)
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := runDoctorCmd([]string{"--nope"}, env); code != ExitUsage {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer
// ---------------------------------------------------------------------------

func TestIsContainer_EnvOverride(t *testing.T) {
	t.Setenv("MDROLES_CONTAINER", "1")

	ok, hint := isContainer()
	if !ok || hint != "MDROLES_CONTAINER=1" {
		t.Errorf("isContainer() = (%v, %q)", ok, hint)
	}
}
