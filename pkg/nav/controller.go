// Package nav implements the slide navigation state machine.
//
// The controller is an explicit two-state machine (Idle/Transitioning) with
// a single controlled entry point, Request. While a transition is in flight
// every navigation request is dropped silently; rapid repeated input during
// a transition is lost input, not queued input. The transition sequence has
// two named phases whose durations are configuration:
//
//	Request -> [commit-visual-state after Timing.CommitDelay] -> CommitVisual
//	        -> [settle after Timing.SettleDelay]              -> Settle -> Idle
//
// The controller owns no timers. The caller (the UI event loop, or a test
// advancing a virtual clock) schedules the phase boundaries and invokes
// CommitVisual and Settle; this keeps the sequence independently testable.
package nav

import "time"

// State is the controller's animation-lock state.
type State int

const (
	// StateIdle accepts navigation requests.
	StateIdle State = iota
	// StateTransitioning rejects all navigation requests until Settle.
	StateTransitioning
)

func (s State) String() string {
	if s == StateTransitioning {
		return "transitioning"
	}
	return "idle"
}

// Timing configures the two transition phases.
type Timing struct {
	// CommitDelay is the gap between entering Transitioning and committing
	// the new slide's visual state. It stands in for the two rendering-frame
	// boundaries a compositor needs to register consecutive state changes.
	CommitDelay time.Duration
	// SettleDelay is the gap between the visual commit and the return to
	// Idle; it matches the visual transition duration.
	SettleDelay time.Duration
}

// DefaultTiming returns the standard transition timing.
func DefaultTiming() Timing {
	return Timing{
		CommitDelay: 33 * time.Millisecond,
		SettleDelay: 600 * time.Millisecond,
	}
}

// Transition describes one committed navigation request.
type Transition struct {
	From int
	To   int
}

// Controller owns the current slide index and mediates all transitions.
// It is constructed explicitly and owned by whoever wires up the input
// adapters; there is no package-level singleton. Not safe for concurrent
// use: all calls must come from one event loop.
type Controller struct {
	total  int
	index  int
	state  State
	timing Timing
}

// NewController creates a controller over total slides, starting at initial.
// An out-of-range initial index falls back to 0.
func NewController(total int, initial int, timing Timing) *Controller {
	c := &Controller{total: total, timing: timing}
	c.ShowImmediate(initial)
	return c
}

// Request is the single entry point for animated transitions. It accepts
// target iff the controller is Idle and target is in [0, total). A target
// equal to the current index is accepted; out-of-range or re-entrant
// requests are dropped silently. On success the controller enters
// Transitioning and records the new index.
func (c *Controller) Request(target int) (Transition, bool) {
	if c.state != StateIdle {
		return Transition{}, false
	}
	if target < 0 || target >= c.total {
		return Transition{}, false
	}
	tr := Transition{From: c.index, To: target}
	c.index = target
	c.state = StateTransitioning
	return tr, true
}

// Next requests a transition to the following slide; a no-op at the last.
func (c *Controller) Next() (Transition, bool) {
	if c.index >= c.total-1 {
		return Transition{}, false
	}
	return c.Request(c.index + 1)
}

// Previous requests a transition to the preceding slide; a no-op at 0.
func (c *Controller) Previous() (Transition, bool) {
	if c.index <= 0 {
		return Transition{}, false
	}
	return c.Request(c.index - 1)
}

// GoTo requests a transition to an arbitrary index. Out-of-range values are
// rejected without error.
func (c *Controller) GoTo(target int) (Transition, bool) {
	return c.Request(target)
}

// ShowImmediate sets the slide index synchronously without engaging the
// animation lock. Used once at startup to restore a persisted position; an
// invalid index falls back to 0.
func (c *Controller) ShowImmediate(index int) {
	if index < 0 || index >= c.total {
		index = 0
	}
	c.index = index
	c.state = StateIdle
}

// CommitVisual marks the commit-visual-state phase boundary. The caller
// invokes it after CommitDelay has elapsed; the controller stays
// Transitioning until Settle.
func (c *Controller) CommitVisual() {
	// State is unchanged on purpose: the lock spans the whole sequence.
}

// Settle returns the controller to Idle, re-enabling navigation. Calling it
// while already Idle is harmless.
func (c *Controller) Settle() {
	c.state = StateIdle
}

// Index returns the current slide index.
func (c *Controller) Index() int { return c.index }

// Total returns the slide count, fixed at construction.
func (c *Controller) Total() int { return c.total }

// State returns the current animation-lock state.
func (c *Controller) State() State { return c.state }

// Timing returns the configured phase durations.
func (c *Controller) Timing() Timing { return c.timing }

// AtFirst reports whether the previous control should be disabled.
func (c *Controller) AtFirst() bool { return c.index == 0 }

// AtLast reports whether the next control should be disabled.
func (c *Controller) AtLast() bool { return c.index == c.total-1 }

// ProgressPercent returns the progress-bar fill, (index+1)/total*100.
func (c *Controller) ProgressPercent() float64 {
	if c.total == 0 {
		return 0
	}
	return float64(c.index+1) / float64(c.total) * 100
}
