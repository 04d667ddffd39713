package mdroles

import (
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent builds, each of which may run minifiers.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for minifier child processes.
	cpuDivisor = 2
)

// BuildPool hands out Builds for parallel conversion. Each Build keeps its
// own session, so documents converted by different workers do not share
// abbreviation or tag state. Builds are created lazily on first acquire.
type BuildPool struct {
	conv   *Converter
	size   int
	builds []*Build
	sem    chan *Build
	mu     sync.Mutex
	closed bool
}

// NewBuildPool creates a pool with capacity for n Builds.
func NewBuildPool(conv *Converter, n int) *BuildPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	return &BuildPool{
		conv:   conv,
		size:   n,
		builds: make([]*Build, 0, n),
		sem:    make(chan *Build, n),
	}
}

// Acquire gets a build from the pool, creating one if needed.
// Blocks if all builds are in use. Returns nil once the pool is closed;
// converting with a nil Build fails with ErrBuildClosed.
func (p *BuildPool) Acquire() *Build {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	// Try to get an existing build (non-blocking)
	select {
	case b := <-p.sem:
		p.mu.Unlock()
		return b
	default:
	}

	if len(p.builds) < p.size {
		b := p.conv.NewBuild()
		p.builds = append(p.builds, b)
		p.mu.Unlock()
		return b
	}
	p.mu.Unlock()

	// All builds created, wait for one to be released. A receive on the
	// closed channel may still yield a buffered build, so recheck.
	b, ok := <-p.sem
	if !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	return b
}

// Release returns a build to the pool.
func (p *BuildPool) Release(b *Build) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- b
	}
}

// Close closes every build created by the pool.
// Returns the combined error of all builds that failed to close.
func (p *BuildPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	builds := p.builds
	p.mu.Unlock()

	var err error
	for _, b := range builds {
		err = multierr.Append(err, b.Close())
	}
	return err
}

// Size returns the pool capacity.
func (p *BuildPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
