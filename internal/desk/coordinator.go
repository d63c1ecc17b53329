// Package desk coordinates user-visible height transitions. A transition
// pairs the physical move command (dispatched asynchronously through the
// process supervisor) with a synthetic animation that walks the displayed
// height toward the target, and re-enables input only once the physical
// dispatch has fully joined.
package desk

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
)

// ErrTransitionInFlight is returned by Begin while a transition is
// already running. Overlapping transitions are rejected outright rather
// than queued or cancelled.
var ErrTransitionInFlight = errors.New("height transition already in flight")

// Mover dispatches the physical move command. Implemented by
// proc.Supervisor; it must swallow its own failures.
type Mover interface {
	MoveTo(target int)
}

// Listener receives UI-facing updates from the coordinator. All methods
// are invoked from coordinator goroutines; implementations must marshal
// onto their own event loop and never block.
type Listener interface {
	// HeightChanged publishes an intermediate or final displayed height.
	// updateSlider is set when the position indicator should follow.
	HeightChanged(height int, updateSlider bool)
	// ControlsEnabled gates interactive input for the transition's whole
	// duration.
	ControlsEnabled(enabled bool)
}

// NopListener is the default listener; it discards all updates.
type NopListener struct{}

func (NopListener) HeightChanged(int, bool) {}
func (NopListener) ControlsEnabled(bool)    {}

// Coordinator drives one desk-height transition at a time.
type Coordinator struct {
	mover    Mover
	listener Listener

	settleDelay  time.Duration
	stepInterval time.Duration

	busy atomic.Bool

	mu      sync.Mutex
	current int
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithListener sets the UI listener. A nil listener keeps the no-op
// default.
func WithListener(l Listener) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.listener = l
		}
	}
}

// WithTimings overrides the settle delay and animation step interval.
// Zero values keep the defaults.
func WithTimings(settle, step time.Duration) Option {
	return func(c *Coordinator) {
		if settle > 0 {
			c.settleDelay = settle
		}
		if step > 0 {
			c.stepInterval = step
		}
	}
}

// NewCoordinator creates a coordinator starting at the given height.
func NewCoordinator(mover Mover, startHeight int, opts ...Option) *Coordinator {
	c := &Coordinator{
		mover:        mover,
		listener:     NopListener{},
		settleDelay:  config.DefaultSettleDelay,
		stepInterval: config.DefaultStepInterval,
		current:      startHeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Height returns the last committed desk height.
func (c *Coordinator) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Busy reports whether a transition is in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// Begin starts a transition to target. It disables controls synchronously
// before returning, then runs the move dispatch and animation on worker
// goroutines. The committed height is updated, and controls re-enabled,
// only after the dispatch goroutine has joined - not merely when the
// animation finishes.
func (c *Coordinator) Begin(target int, animateSlider bool) error {
	if !c.busy.CompareAndSwap(false, true) {
		debug.Log("TRANSITION_REJECTED target=%d", target)
		return ErrTransitionInFlight
	}

	// Input must be gated before anything else happens, on the caller's
	// (UI-owning) goroutine.
	c.listener.ControlsEnabled(false)
	debug.Log("TRANSITION_BEGIN target=%d from=%d animate_slider=%v", target, c.Height(), animateSlider)

	go c.run(target, animateSlider)
	return nil
}

func (c *Coordinator) run(target int, animateSlider bool) {
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		c.mover.MoveTo(target)
	}()

	// Let the controller initialize and the desk start moving before any
	// visual feedback.
	time.Sleep(c.settleDelay)

	c.animate(target, animateSlider)

	// The dispatch must have fully joined before the height commits and
	// input comes back, even when the animation finished first.
	<-dispatched

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()

	c.listener.ControlsEnabled(true)
	c.busy.Store(false)
	debug.Log("TRANSITION_DONE target=%d", target)
}

// animate walks the displayed height one unit per step toward target,
// publishing every intermediate value. Zero steps when already there.
func (c *Coordinator) animate(target int, animateSlider bool) {
	h := c.Height()
	step := 1
	if target < h {
		step = -1
	}
	for h != target {
		time.Sleep(c.stepInterval)
		h += step
		c.listener.HeightChanged(h, animateSlider)
	}
}
