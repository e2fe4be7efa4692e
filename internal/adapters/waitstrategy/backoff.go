package waitstrategy

import (
	"math/rand"
	"sync"
	"time"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// ExponentialBackoff is the default transfer.WaitStrategy: constant base
// delay on productive ticks, exponential growth with jitter on
// unproductive ones, capped at max.
type ExponentialBackoff struct {
	mu sync.Mutex

	base    time.Duration
	max     time.Duration
	attempt int
}

// NewExponentialBackoff creates a backoff strategy starting at base and
// never exceeding max.
func NewExponentialBackoff(base, max time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{base: base, max: max}
}

var _ transfer.WaitStrategy = (*ExponentialBackoff)(nil)

// WaitForMillis returns the next delay, in milliseconds, doubling the
// previous unproductive-tick delay and adding up to 20% jitter.
func (b *ExponentialBackoff) WaitForMillis() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.base << uint(b.attempt)
	if delay <= 0 || delay > b.max {
		delay = b.max
	}
	b.attempt++

	jitter := time.Duration(rand.Int63n(int64(delay)/5 + 1))
	return (delay + jitter).Milliseconds()
}

// Success resets backoff to its base delay; called only on ticks that
// advanced at least one process.
func (b *ExponentialBackoff) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempt = 0
}
