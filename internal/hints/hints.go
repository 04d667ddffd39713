// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os/exec"
	"strings"

	"github.com/alnah/go-mdroles/internal/config"
	"github.com/alnah/go-mdroles/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// LookPath is exec.LookPath, replaceable in tests.
var LookPath = exec.LookPath

// npmPackages maps minifier executables to the npm package providing them.
var npmPackages = map[string]string{
	"terser": "terser",
	"csso":   "csso-cli",
}

// ForMinifierNotFound returns hints for a minifier missing from PATH.
func ForMinifierNotFound(tool string) string {
	var hints []string

	if pkg, ok := npmPackages[tool]; ok {
		if _, err := LookPath("npm"); err != nil {
			hints = append(hints, "install Node.js, then run: npm install -g "+pkg)
		} else {
			hints = append(hints, "run: npm install -g "+pkg)
		}
	} else {
		hints = append(hints, "check minify.terser and minify.csso in your config")
	}

	if IsInContainer() {
		hints = append(hints, "add Node.js to the container image")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large scripts, raise minify.timeout or use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, config.AppDir) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnclosedTags returns hints for tags left open at the end of a document.
func ForUnclosedTags() string {
	return format("close every {push} with {pop} before the end of the document")
}

// ForInconsistentAbbreviation returns hints for conflicting abbreviation titles.
func ForInconsistentAbbreviation() string {
	return format("an abbreviation keeps the title it was first given in a document; omit the title on later uses")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
