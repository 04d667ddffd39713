package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdroles/internal/config"
	"github.com/alnah/go-mdroles/internal/hints"
)

// versionTimeout bounds "<tool> --version" probes.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo `json:"tools"`
	Env      envInfo    `json:"environment"`
	Output   outputInfo `json:"output"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds minifier detection results.
type toolInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// outputInfo holds output directory checks.
type outputInfo struct {
	Dir      string `json:"dir"`
	Writable bool   `json:"writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	cfg, err := loadConfig(*configName, os.Getenv("MDROLES_CONFIG"))
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	applyEnvConfig(loadEnvConfig(), cfg)

	result := runDoctor(cfg)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkTool(result, cfg.Minify.Terser)
	checkTool(result, cfg.Minify.CSSO)
	checkEnvironment(result)
	checkOutput(result, cfg.Output.Dir)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTool detects a minifier. A missing minifier is a warning: documents
// without script or style directives still convert.
func checkTool(result *doctorResult, name string) {
	info := toolInfo{Name: name}
	defer func() { result.Tools = append(result.Tools, info) }()

	path, err := hints.LookPath(name)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not found on PATH%s", name, hints.ForMinifierNotFound(filepath.Base(name))))
		return
	}
	info.Found = true
	info.Path = path

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- tool from config
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get %s version: %v", name, err))
		return
	}
	info.Version = strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MDROLES_CONTAINER") == "1" {
		return true, "MDROLES_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkOutput verifies the output directory can be created and written.
func checkOutput(result *doctorResult, dir string) {
	result.Output.Dir = dir

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory %s cannot be created: %v%s", dir, err, hints.ForOutputDirectory()))
		return
	}
	f, err := os.CreateTemp(dir, ".mdroles-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s%s", dir, hints.ForOutputDirectory()))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.Output.Writable = true
}

// statusLines maps doctorResult.Status to its closing line.
var statusLines = map[string]string{
	"ready":    "Ready to convert",
	"warnings": "Ready with warnings",
	"errors":   "Not ready (see errors above)",
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	section := func(title string, lines ...string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintln(w, title)
		for _, l := range lines {
			fmt.Fprintf(w, "  %s\n", l)
		}
		fmt.Fprintln(w)
	}
	tagged := func(tag string, msgs []string) []string {
		out := make([]string, len(msgs))
		for i, m := range msgs {
			out[i] = "[" + tag + "] " + m
		}
		return out
	}

	fmt.Fprintf(w, "mdroles doctor\n\n")

	var tools []string
	for _, t := range r.Tools {
		switch {
		case !t.Found:
			tools = append(tools, fmt.Sprintf("[WARN] %s: not found", t.Name))
		case t.Version != "":
			tools = append(tools, fmt.Sprintf("[OK] %s: %s (%s)", t.Name, t.Path, t.Version))
		default:
			tools = append(tools, fmt.Sprintf("[OK] %s: %s", t.Name, t.Path))
		}
	}
	section("Minifiers", tools...)

	env := []string{fmt.Sprintf("[OK] Platform: %s/%s", r.Env.OS, r.Env.Arch)}
	if r.Env.Container {
		env = append(env, fmt.Sprintf("[OK] Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		env = append(env, "[OK] CI: detected")
	}
	section("Environment", env...)

	if r.Output.Writable {
		section("Output", fmt.Sprintf("[OK] %s: writable", r.Output.Dir))
	} else {
		section("Output", fmt.Sprintf("[ERROR] %s: not writable", r.Output.Dir))
	}

	section("Warnings:", tagged("WARN", r.Warnings)...)
	section("Errors:", tagged("ERROR", r.Errors)...)

	fmt.Fprintf(w, "Status: %s\n", statusLines[r.Status])
}
