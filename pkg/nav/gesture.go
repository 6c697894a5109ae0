package nav

import "time"

// SwipeDirection is the outcome of a recognized horizontal drag.
type SwipeDirection int

const (
	// SwipeNone means the gesture did not qualify as a swipe.
	SwipeNone SwipeDirection = iota
	// SwipeRight is a positive horizontal displacement (navigate back).
	SwipeRight
	// SwipeLeft is a negative horizontal displacement (navigate forward).
	SwipeLeft
)

// GestureRecognizer classifies press/release pairs as horizontal swipes.
// A swipe is recognized when horizontal displacement dominates vertical
// displacement, exceeds MinDistance, and the whole gesture finishes within
// MaxDuration. It tracks one gesture at a time.
type GestureRecognizer struct {
	// MinDistance is the |dx| in cells a swipe must exceed.
	MinDistance int
	// MaxDuration is the time budget for the whole gesture.
	MaxDuration time.Duration

	active bool
	x, y   int
	start  time.Time
}

// NewGestureRecognizer returns a recognizer tuned for terminal cell
// geometry: 5 cells of horizontal travel within 500ms.
func NewGestureRecognizer() *GestureRecognizer {
	return &GestureRecognizer{MinDistance: 5, MaxDuration: 500 * time.Millisecond}
}

// Begin records the press position and time.
func (g *GestureRecognizer) Begin(x, y int, at time.Time) {
	g.active = true
	g.x, g.y = x, y
	g.start = at
}

// End classifies the release. It returns SwipeNone when no press was
// recorded, when the gesture overran MaxDuration, when vertical movement
// dominates, or when the horizontal travel does not exceed MinDistance.
func (g *GestureRecognizer) End(x, y int, at time.Time) SwipeDirection {
	if !g.active {
		return SwipeNone
	}
	g.active = false

	if at.Sub(g.start) >= g.MaxDuration {
		return SwipeNone
	}

	dx := x - g.x
	dy := y - g.y
	if abs(dx) <= abs(dy) || abs(dx) <= g.MinDistance {
		return SwipeNone
	}
	if dx > 0 {
		return SwipeRight
	}
	return SwipeLeft
}

// Cancel discards any in-flight gesture.
func (g *GestureRecognizer) Cancel() {
	g.active = false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
