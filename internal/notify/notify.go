package notify

import (
	"sync"
	"time"

	"cpaas-portal/internal/observ"

	"go.uber.org/zap"
)

// AutoClose is how long a notice stays visible.
const AutoClose = 2 * time.Second

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

type Notice struct {
	Level   Level
	Message string
	Expires time.Time
}

// Notifier surfaces transient messages to the operator.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// Center keeps the currently visible notices and drops them after AutoClose.
type Center struct {
	mu       sync.Mutex
	notices  []Notice
	now      func() time.Time
	ttl      time.Duration
	logger   *zap.Logger
	onNotify func(Notice)
}

type Option func(*Center)

func WithNow(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func WithTTL(d time.Duration) Option {
	return func(c *Center) { c.ttl = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Center) { c.logger = observ.OrNop(l) }
}

// OnNotify registers a hook called for every new notice.
func OnNotify(fn func(Notice)) Option {
	return func(c *Center) { c.onNotify = fn }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		now:    time.Now,
		ttl:    AutoClose,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) Info(msg string)    { c.push(LevelInfo, msg) }
func (c *Center) Success(msg string) { c.push(LevelSuccess, msg) }
func (c *Center) Error(msg string)   { c.push(LevelError, msg) }

func (c *Center) push(level Level, msg string) {
	n := Notice{Level: level, Message: msg, Expires: c.now().Add(c.ttl)}

	c.mu.Lock()
	c.pruneLocked()
	c.notices = append(c.notices, n)
	hook := c.onNotify
	c.mu.Unlock()

	if level == LevelError {
		c.logger.Warn("notice", zap.String("level", level.String()), zap.String("message", msg))
	} else {
		c.logger.Debug("notice", zap.String("level", level.String()), zap.String("message", msg))
	}
	if hook != nil {
		hook(n)
	}
}

// Active returns notices that have not expired yet.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked()
	return append([]Notice(nil), c.notices...)
}

// Last returns the most recent notice still visible.
func (c *Center) Last() (Notice, bool) {
	active := c.Active()
	if len(active) == 0 {
		return Notice{}, false
	}
	return active[len(active)-1], true
}

// Dismiss removes every visible notice.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = nil
}

func (c *Center) pruneLocked() {
	now := c.now()
	kept := c.notices[:0]
	for _, n := range c.notices {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	c.notices = kept
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Info(string)    {}
func (Discard) Success(string) {}
func (Discard) Error(string)   {}

// OrDiscard returns n, or Discard when n is nil.
func OrDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard{}
	}
	return n
}
