package asset

// Notes:
// - Tests that swap writeAtomic do not run in parallel.

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"
)

var urlPattern = regexp.MustCompile(`^/hello_/[0-9a-f]{20}\.min\.js$`)

func TestHash_Sum(t *testing.T) {
	t.Parallel()

	data := []byte("console.log(1)")
	full := sha256.Sum256(data)
	want := hex.EncodeToString(full[:])[:HashLen]

	if got := SHA256.Sum(data); got != want {
		t.Errorf("SHA256.Sum() = %q, want %q", got, want)
	}

	b3 := BLAKE3.Sum(data)
	if len(b3) != HashLen {
		t.Errorf("BLAKE3.Sum() length = %d, want %d", len(b3), HashLen)
	}
	if b3 == want {
		t.Error("BLAKE3 and SHA256 digests should differ")
	}
}

func TestParseHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Hash
		wantErr bool
	}{
		{"", SHA256, false},
		{"sha256", SHA256, false},
		{"BLAKE3", BLAKE3, false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHash(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownHash) {
				t.Errorf("ParseHash(%q) error = %v, want ErrUnknownHash", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseHash(%q) = (%q, %v), want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestStore_Externalize(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, WithLogger(zaptest.NewLogger(t)))

	var writes atomic.Int32
	orig := writeAtomic
	writeAtomic = func(dir, name string, data []byte, perm os.FileMode) error {
		writes.Add(1)
		return orig(dir, name, data, perm)
	}
	t.Cleanup(func() { writeAtomic = orig })

	payload := []byte("!function(){}();")
	url1, err := s.Externalize(payload, ".min.js", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !urlPattern.MatchString(url1) {
		t.Errorf("url = %q, want /hello_/<hash>.min.js", url1)
	}

	url2, err := s.Externalize(payload, ".min.js", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url1 != url2 {
		t.Errorf("urls differ: %q vs %q", url1, url2)
	}
	if n := writes.Load(); n != 1 {
		t.Errorf("physical writes = %d, want 1", n)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(url1)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(payload) {
		t.Errorf("content = %q, want %q", data, payload)
	}
}

func TestStore_ExternalizeDifferentContent(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	a, err := s.Externalize([]byte("a"), ".min.js", "hello")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Externalize([]byte("b"), ".min.js", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("different payloads must yield different urls")
	}
}

func TestStore_ExternalizeConcurrent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s := NewStore(root, WithHash(BLAKE3))
	payload := []byte("var x=1;")

	const n = 16
	urls := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := s.Externalize(payload, ".min.js", "page")
			if err != nil {
				t.Error(err)
				return
			}
			urls[i] = u
		}(i)
	}
	wg.Wait()

	for _, u := range urls[1:] {
		if u != urls[0] {
			t.Fatalf("urls differ: %q vs %q", u, urls[0])
		}
	}

	entries, err := os.ReadDir(filepath.Join(root, "page_"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("asset dir has %d entries, want 1 (no leftover temp files)", len(entries))
	}
}

func TestStore_ExternalizeWriteFailure(t *testing.T) {
	s := NewStore(t.TempDir())

	orig := writeAtomic
	writeAtomic = func(string, string, []byte, os.FileMode) error { return errors.New("disk full") }
	t.Cleanup(func() { writeAtomic = orig })

	_, err := s.Externalize([]byte("x"), ".min.js", "hello")
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("error = %v, want ErrWriteFailed", err)
	}
}

func TestStore_ExternalizeRootIsFile(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(root, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(root).Externalize([]byte("x"), ".min.js", "hello")
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("error = %v, want ErrWriteFailed", err)
	}
}

func TestStore_Describe_Validation(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())

	tests := []struct {
		name    string
		suffix  string
		stem    string
		wantErr error
	}{
		{name: "valid", suffix: ".min.js", stem: "hello", wantErr: nil},
		{name: "suffix without dot", suffix: "js", stem: "hello", wantErr: ErrInvalidSuffix},
		{name: "suffix with slash", suffix: "./x.js", stem: "hello", wantErr: ErrInvalidSuffix},
		{name: "empty stem", suffix: ".js", stem: "", wantErr: ErrInvalidStem},
		{name: "stem traversal", suffix: ".js", stem: "../etc", wantErr: ErrInvalidStem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.Describe([]byte("x"), tt.suffix, tt.stem)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Describe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescriptor_URL(t *testing.T) {
	t.Parallel()

	d := Descriptor{Hash: "0123456789abcdef0123", Suffix: ".min.js", Stem: "post"}
	if got := d.URL(); got != "/post_/0123456789abcdef0123.min.js" {
		t.Errorf("URL() = %q", got)
	}
}
