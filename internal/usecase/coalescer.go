package usecase

import (
	"context"
	"sync"
	"time"

	"medconnect/pkg/logger"
)

type ToggleKind string

const (
	TogglePostLike        ToggleKind = "post-like"
	TogglePostBookmark    ToggleKind = "post-bookmark"
	TogglePostCommentLike ToggleKind = "post-comment-like"
	TogglePostReplyLike   ToggleKind = "post-reply-like"
	ToggleCaseLike        ToggleKind = "case-like"
	ToggleCaseBookmark    ToggleKind = "case-bookmark"
	ToggleCaseCommentLike ToggleKind = "case-comment-like"
	ToggleCaseReplyLike   ToggleKind = "case-reply-like"
)

// ToggleKey identifies one user's toggle on one target. Each key has its own
// timer and baseline.
type ToggleKey struct {
	UserID    string
	Kind      ToggleKind
	ContentID string
	CommentID string
	ReplyID   string
}

// ToggleWriter commits the net value of a toggle burst.
type ToggleWriter func(ctx context.Context, key ToggleKey, value bool) error

// ToggleBroadcast publishes optimistic state. rollback is set when a failed
// write restores the baseline.
type ToggleBroadcast func(key ToggleKey, value, rollback bool)

type stopper interface {
	Stop() bool
}

type scheduleFunc func(d time.Duration, f func()) stopper

type pendingToggle struct {
	baseline bool
	value    bool
	timer    stopper
	gen      uint64
}

// Coalescer debounces like/bookmark toggles. Every toggle is broadcast at
// once; the backend sees at most one write per burst, carrying the net value,
// and none when the burst ends where it started.
type Coalescer struct {
	delay        time.Duration
	writeTimeout time.Duration
	broadcast    ToggleBroadcast
	writers      map[ToggleKind]ToggleWriter
	schedule     scheduleFunc
	onFailure    func(key ToggleKey, err error)

	mu      sync.Mutex
	pending map[ToggleKey]*pendingToggle
}

func NewCoalescer(delay time.Duration, broadcast ToggleBroadcast) *Coalescer {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Coalescer{
		delay:        delay,
		writeTimeout: 15 * time.Second,
		broadcast:    broadcast,
		writers:      make(map[ToggleKind]ToggleWriter),
		schedule: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		pending: make(map[ToggleKey]*pendingToggle),
	}
}

// Register sets the writer for a kind. Must be called before Toggle.
func (c *Coalescer) Register(kind ToggleKind, writer ToggleWriter) {
	c.writers[kind] = writer
}

// OnFailure installs a hook called after a write fails and was rolled back.
func (c *Coalescer) OnFailure(fn func(key ToggleKey, err error)) {
	c.onFailure = fn
}

func (c *Coalescer) Toggle(key ToggleKey, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// under the lock so broadcasts for one key keep toggle order
	c.broadcast(key, value, false)

	p, ok := c.pending[key]
	if !ok {
		p = &pendingToggle{baseline: !value}
		c.pending[key] = p
	} else if p.timer != nil {
		p.timer.Stop()
	}

	p.value = value
	p.gen++
	gen := p.gen
	p.timer = c.schedule(c.delay, func() {
		c.fire(key, gen)
	})
}

func (c *Coalescer) fire(key ToggleKey, gen uint64) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if !ok || p.gen != gen {
		// superseded by a later toggle
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	c.mu.Unlock()

	c.commit(key, p.value, p.baseline)
}

func (c *Coalescer) commit(key ToggleKey, value, baseline bool) {
	if value == baseline {
		return
	}

	write, ok := c.writers[key.Kind]
	if !ok {
		logger.Error("No writer registered for toggle kind %s", key.Kind)
		c.broadcast(key, baseline, true)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()

	if err := write(ctx, key, value); err != nil {
		logger.LogWriteError(string(key.Kind), key.ContentID, err)
		c.broadcast(key, baseline, true)
		if c.onFailure != nil {
			c.onFailure(key, err)
		}
	}
}

// Flush commits every pending toggle now. Used on shutdown.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[ToggleKey]*pendingToggle)
	for _, p := range pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	c.mu.Unlock()

	for key, p := range pending {
		c.commit(key, p.value, p.baseline)
	}
}

// Pending is the number of keys with a scheduled write.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
