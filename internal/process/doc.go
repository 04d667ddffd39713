// Package process manages the lifetime of external tool subprocesses.
package process
