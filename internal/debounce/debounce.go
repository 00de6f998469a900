package debounce

import (
	"sync"
	"time"
)

const DefaultDelay = 400 * time.Millisecond

// State of a Controller.
type State int

const (
	Settled State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "settled"
}

// SettledValue carries a value that stopped changing, tagged with its generation.
type SettledValue[T any] struct {
	Value T
	Seq   uint64
}

type options struct {
	delay time.Duration
	clock Clock
}

type Option func(*options)

func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// Controller delays propagation of input until it has been quiet for the
// configured delay, then fires once per distinct settled value.
type Controller[T comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	clock   Clock
	fire    func(SettledValue[T])
	timer   Timer
	armedAt uint64
	pending T
	armed   bool
	last    T
	forget  bool
	seq     Sequence
	stopped bool
}

// New starts in the Settled state holding initial; fire is not called for it.
func New[T comparable](initial T, fire func(SettledValue[T]), opts ...Option) *Controller[T] {
	o := options{delay: DefaultDelay, clock: RealClock}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		delay: o.delay,
		clock: o.clock,
		fire:  fire,
		last:  initial,
	}
}

// Input records a new raw value and restarts the delay.
func (c *Controller[T]) Input(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = v
	c.armed = true

	c.armedAt++
	gen := c.armedAt
	c.timer = c.clock.AfterFunc(c.delay, func() { c.expire(gen) })
}

func (c *Controller[T]) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.armedAt || !c.armed {
		c.mu.Unlock()
		return
	}
	settled, ok := c.settleLocked()
	c.mu.Unlock()

	if ok {
		c.fire(settled)
	}
}

func (c *Controller[T]) settleLocked() (SettledValue[T], bool) {
	c.armed = false
	c.timer = nil
	if c.pending == c.last && !c.forget {
		return SettledValue[T]{}, false
	}
	c.forget = false
	c.last = c.pending
	return SettledValue[T]{Value: c.pending, Seq: c.seq.Next()}, true
}

// Flush settles a pending value immediately. It reports whether fire ran.
func (c *Controller[T]) Flush() bool {
	c.mu.Lock()
	if !c.armed || c.stopped {
		c.mu.Unlock()
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	settled, ok := c.settleLocked()
	c.mu.Unlock()

	if ok {
		c.fire(settled)
	}
	return ok
}

// Forget makes the next settle fire even when it repeats the last settled
// value. Owners call it when the work triggered by that value failed.
func (c *Controller[T]) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forget = true
}

// Stop disarms the timer; later input is ignored.
func (c *Controller[T]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.armed = false
	c.stopped = true
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed {
		return Pending
	}
	return Settled
}

// Value returns the pending value when armed, otherwise the last settled one.
func (c *Controller[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.armed {
		return c.pending
	}
	return c.last
}

// Last returns the last settled value.
func (c *Controller[T]) Last() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
