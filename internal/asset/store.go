// Package asset writes generated files under names derived from a hash of
// their own content.
//
// An asset produced from document "posts/hello.md" with suffix ".min.js"
// lives at:
//
//	{root}/hello_/{hash}.min.js
//
// and is referenced from HTML as "/hello_/{hash}.min.js". Identical content
// always maps to the same name, so writing it again is a no-op.
package asset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/alnah/go-mdroles/internal/fileutil"
)

// HashLen is the number of hex characters kept from the digest.
const HashLen = 20

// File permission constants.
const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Sentinel errors for asset operations.
var (
	ErrWriteFailed   = errors.New("asset write failed")
	ErrInvalidSuffix = errors.New("invalid asset suffix")
	ErrInvalidStem   = errors.New("invalid asset stem")
	ErrUnknownHash   = errors.New("unknown hash algorithm")
)

// writeAtomic is a variable to allow counting and failing writes in tests.
var writeAtomic = fileutil.WriteAtomic

// Hash names a digest algorithm.
type Hash string

const (
	SHA256 Hash = "sha256"
	BLAKE3 Hash = "blake3"
)

// ParseHash validates a hash name. Empty selects SHA256.
func ParseHash(s string) (Hash, error) {
	switch Hash(strings.ToLower(s)) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("%w: %q (must be sha256 or blake3)", ErrUnknownHash, s)
	}
}

// Sum returns the first HashLen hex characters of the digest of data.
func (h Hash) Sum(data []byte) string {
	var sum []byte
	switch h {
	case BLAKE3:
		b := blake3.Sum256(data)
		sum = b[:]
	default:
		s := sha256.Sum256(data)
		sum = s[:]
	}
	return hex.EncodeToString(sum)[:HashLen]
}

// Descriptor identifies one content-addressed asset.
type Descriptor struct {
	Hash   string
	Suffix string
	Stem   string
}

// Dir returns the directory name holding assets for the stem.
func (d Descriptor) Dir() string {
	return d.Stem + "_"
}

// Name returns the file name of the asset.
func (d Descriptor) Name() string {
	return d.Hash + d.Suffix
}

// URL returns the site-absolute URL of the asset.
func (d Descriptor) URL() string {
	return path.Join("/", d.Dir(), d.Name())
}

// Store externalizes payloads under a root directory.
type Store struct {
	root string
	hash Hash
	log  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHash selects the digest algorithm.
func WithHash(h Hash) Option {
	return func(s *Store) {
		s.hash = h
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore returns a Store rooted at root. The root is created lazily.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{root: root, hash: SHA256, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("assets")
	return s
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// Describe computes the descriptor for payload without writing anything.
func (s *Store) Describe(payload []byte, suffix, stem string) (Descriptor, error) {
	if err := validateSuffix(suffix); err != nil {
		return Descriptor{}, err
	}
	if err := fileutil.ValidateName(stem); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidStem, err)
	}
	return Descriptor{Hash: s.hash.Sum(payload), Suffix: suffix, Stem: stem}, nil
}

// Path returns the on-disk location of d.
func (s *Store) Path(d Descriptor) string {
	return filepath.Join(s.root, d.Dir(), d.Name())
}

// Externalize writes payload unless an asset with the same name already
// exists, and returns its URL.
func (s *Store) Externalize(payload []byte, suffix, stem string) (string, error) {
	d, err := s.Describe(payload, suffix, stem)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, d.Dir())
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrWriteFailed, dir, err)
	}

	dest := s.Path(d)
	if fileutil.FileExists(dest) {
		s.log.Debug("asset exists", zap.String("url", d.URL()))
		return d.URL(), nil
	}

	if err := writeAtomic(dir, d.Name(), payload, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailed, dest, err)
	}
	s.log.Debug("asset written", zap.String("url", d.URL()), zap.Int("bytes", len(payload)))
	return d.URL(), nil
}

func validateSuffix(suffix string) error {
	if err := fileutil.ValidateName(suffix); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSuffix, err)
	}
	if !strings.HasPrefix(suffix, ".") {
		return fmt.Errorf("%w: %q must start with '.'", ErrInvalidSuffix, suffix)
	}
	return nil
}
