package folio

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing bounds.
const (
	MinPoolSize = 1

	// MaxPoolSize caps the number of headless Chrome instances, each of
	// which costs a couple hundred megabytes.
	MaxPoolSize = 8

	// cpuDivisor keeps CPUs free for Chrome's renderer processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool closed")

// ConverterPool hands out up to Size converters, each owning its own browser,
// so that many CVs can be printed in parallel. Converters are built on demand.
type ConverterPool struct {
	size int
	opts []Option

	idle  chan *Converter // released, ready for reuse
	slots chan struct{}   // one token per converter not yet built
	done  chan struct{}

	mu     sync.Mutex
	all    []*Converter
	closed bool

	newConverter func(...Option) (*Converter, error)
}

// NewConverterPool returns a pool of at most n converters built with opts.
// n below one is raised to one.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	n = max(n, MinPoolSize)
	p := &ConverterPool{
		size:         n,
		opts:         opts,
		idle:         make(chan *Converter, n),
		slots:        make(chan struct{}, n),
		done:         make(chan struct{}),
		newConverter: NewConverter,
	}
	for range n {
		p.slots <- struct{}{}
	}
	return p
}

// Acquire returns an idle converter, builds a new one while the pool is under
// capacity, or waits for a Release until ctx is done.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	case c := <-p.idle:
		return c, nil
	default:
	}

	select {
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-p.idle:
		return c, nil
	case <-p.slots:
		return p.build()
	}
}

// build spends a slot token on a new converter; the token is returned on
// failure so a later Acquire can retry.
func (p *ConverterPool) build() (*Converter, error) {
	c, err := p.newConverter(p.opts...)
	if err != nil {
		p.slots <- struct{}{}
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = c.Close()
		return nil, ErrPoolClosed
	}
	p.all = append(p.all, c)
	return c, nil
}

// Release makes c available to the next Acquire. Releasing nil, or releasing
// after Close, does nothing.
func (p *ConverterPool) Release(c *Converter) {
	if c == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.idle <- c // capacity equals size, never blocks
	}
}

// Convert runs input through a pooled converter.
func (p *ConverterPool) Convert(ctx context.Context, input Input) (*ConvertResult, error) {
	c, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(c)
	return c.Convert(ctx, input)
}

// Close shuts down every converter built so far, including ones still held
// by callers, and joins their errors. Later calls return nil.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	built := p.all
	p.all = nil
	p.mu.Unlock()

	errs := make([]error, 0, len(built))
	for _, c := range built {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers when positive, otherwise half of
// GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize]. GOMAXPROCS already
// reflects container CPU quotas once automaxprocs has run.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}
