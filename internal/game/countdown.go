package game

import (
	"sync"
	"time"
)

// DefaultTickInterval is the countdown polling resolution. Remaining
// time is always recomputed from the wall clock, so a coarse interval
// cannot drift; it only bounds how late expiry is observed.
const DefaultTickInterval = 200 * time.Millisecond

// Countdown is an interval-driven clock for timed modes. It is
// anchored to the wall clock rather than accumulating ticks.
type Countdown struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	running   bool
	interval  time.Duration
	now       func() time.Time
	done      chan struct{}
	stop      chan struct{}
}

func NewCountdown(duration time.Duration) *Countdown {
	return &Countdown{
		duration:  duration,
		remaining: duration,
		interval:  DefaultTickInterval,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Done is closed exactly once, when the countdown reaches zero. It is
// the sole trigger for a session's TIME_UP transition.
func (c *Countdown) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Remaining recomputes from the wall clock, clamped at zero.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

func (c *Countdown) remainingLocked() time.Duration {
	if !c.running {
		return c.remaining
	}
	elapsed := c.now().Sub(c.startedAt)
	rem := c.duration - elapsed
	if rem < 0 {
		rem = 0
	}
	return rem
}

func (c *Countdown) RemainingSeconds() int {
	return int(c.Remaining() / time.Second)
}

// Progress is the elapsed fraction in [0,1].
func (c *Countdown) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.duration <= 0 {
		return 1
	}
	return 1 - float64(c.remainingLocked())/float64(c.duration)
}

// Start begins or resumes the countdown. Resuming recomputes the
// start anchor so time spent paused does not count as elapsed.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.running || c.remaining <= 0 {
		c.mu.Unlock()
		return
	}
	c.startedAt = c.now().Add(c.remaining - c.duration)
	c.running = true
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	go c.poll(stop)
}

func (c *Countdown) poll(stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			rem := c.remainingLocked()
			if rem > 0 {
				c.mu.Unlock()
				continue
			}
			c.remaining = 0
			c.running = false
			done := c.done
			c.mu.Unlock()

			select {
			case <-done:
			default:
				close(done)
			}
			return
		}
	}
}

// Pause freezes the remaining time.
func (c *Countdown) Pause() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.remaining = c.remainingLocked()
	c.running = false
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}

// Reset restores the full duration and re-arms the Done signal.
func (c *Countdown) Reset() {
	c.Pause()

	c.mu.Lock()
	c.remaining = c.duration
	select {
	case <-c.done:
		c.done = make(chan struct{})
	default:
	}
	c.mu.Unlock()
}
