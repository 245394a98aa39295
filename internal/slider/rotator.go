package slider

import (
	"context"
	"sync"
	"time"
)

// Rotator advances a shared carousel on a fixed interval. The slide count can
// change underneath it with SetLen.
type Rotator struct {
	mu       sync.RWMutex
	state    State
	interval time.Duration
}

func NewRotator(n int, interval time.Duration) *Rotator {
	return &Rotator{state: New(0, n), interval: interval}
}

func (r *Rotator) Current() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Rotator) SetLen(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = New(r.state.Index, n)
}

func (r *Rotator) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.state.Next()
}

// Run advances the carousel every interval until ctx is cancelled.
func (r *Rotator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.advance()
		case <-ctx.Done():
			return
		}
	}
}
