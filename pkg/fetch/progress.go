package fetch

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Progress tracks completions for one fetch run and serializes the
// occasional stderr progress line behind a dedicated mutex, so the worker
// hot path never contends with anything else for stdout/stderr.
type Progress struct {
	total     uint64
	completed atomic.Uint64
	stderrMu  sync.Mutex
}

// NewProgress creates a progress tracker for a run of the given total size.
func NewProgress(total uint64) *Progress {
	return &Progress{total: total}
}

// Increment records one more completed fetch and prints a progress line
// when completed is a multiple of max(1, total/400), or equals total.
func (p *Progress) Increment() {
	n := p.completed.Add(1)

	interval := p.total / 400
	if interval < 1 {
		interval = 1
	}
	if n%interval != 0 && n != p.total {
		return
	}

	p.stderrMu.Lock()
	fmt.Fprintf(os.Stderr, "fetch progress: %d/%d\n", n, p.total)
	p.stderrMu.Unlock()
}

// Completed returns the current completion count.
func (p *Progress) Completed() uint64 {
	return p.completed.Load()
}
