// Package motion sequences the page transitions.
//
// The animation engine itself is opaque: a Tweener moves a target's
// properties over a duration and reports completion. The types here build
// short-lived state machines on top of it. Every channel has overwrite
// semantics, so a new request cancels whatever the channel had in flight
// instead of queueing behind it.
package motion

import "time"

// Props maps animated properties (opacity, scale, ...) to end values.
type Props map[string]float64

// Handle cancels a scheduled tween or delay. Cancelling something that
// already finished has no effect.
type Handle interface {
	Cancel()
}

// Tweener is the animation capability.
type Tweener interface {
	// Tween animates target to the given values and calls done when the
	// tween completes. A cancelled tween never calls done.
	Tween(target string, to Props, d time.Duration, done func()) Handle
	// After calls fn once d has elapsed.
	After(d time.Duration, fn func()) Handle
	// Toggle adds or removes a class on target immediately.
	Toggle(target, class string, on bool)
	// Swap replaces target's content with source's content immediately.
	Swap(target, source string)
}

// Transition timings shared by the server and the client script.
const (
	CardExitDuration = 200 * time.Millisecond
	SettleDelay      = 200 * time.Millisecond
	CardExitScale    = 3.0

	FadeOutDuration = 200 * time.Millisecond
	FadeInDuration  = 200 * time.Millisecond

	CrossfadeDuration = 400 * time.Millisecond
	CrossfadeDelay    = 150 * time.Millisecond
)

// Targets and classes with a fixed meaning on every page.
const (
	ClickedTarget  = "@clicked"
	DoodleSelector = "#doodle-background .background-doodle"
	ExitingClass   = "exiting"
	ActiveClass    = "active"
)

// Channel runs at most one tween or delay at a time.
type Channel struct {
	tw  Tweener
	cur Handle
	seq int
}

// NewChannel returns an idle channel on tw.
func NewChannel(tw Tweener) *Channel {
	return &Channel{tw: tw}
}

// Busy reports whether something is in flight.
func (c *Channel) Busy() bool {
	return c.cur != nil
}

// Cancel stops whatever is in flight.
func (c *Channel) Cancel() {
	if c.cur != nil {
		c.cur.Cancel()
		c.cur = nil
	}
	c.seq++
}

// Tween supersedes the current work with a tween.
func (c *Channel) Tween(target string, to Props, d time.Duration, done func()) {
	c.Cancel()
	seq := c.seq
	finished := false
	h := c.tw.Tween(target, to, d, func() {
		finished = true
		if c.seq == seq {
			c.cur = nil
		}
		if done != nil {
			done()
		}
	})
	if !finished && c.seq == seq {
		c.cur = h
	}
}

// Delay supersedes the current work with a delayed call.
func (c *Channel) Delay(d time.Duration, fn func()) {
	c.Cancel()
	seq := c.seq
	finished := false
	h := c.tw.After(d, func() {
		finished = true
		if c.seq == seq {
			c.cur = nil
		}
		fn()
	})
	if !finished && c.seq == seq {
		c.cur = h
	}
}

// CardExit plays the exit transition for a clicked card: siblings and
// doodles are marked as exiting, the card scales up while fading out, and
// onComplete runs once the tween and the settle delay have both elapsed.
func CardExit(tw Tweener, clicked, siblings string, onComplete func()) {
	if siblings != "" {
		tw.Toggle(siblings, ExitingClass, true)
	}
	tw.Toggle(DoodleSelector, ExitingClass, true)
	tw.Tween(clicked, Props{"scale": CardExitScale, "opacity": 0}, CardExitDuration, func() {
		tw.After(SettleDelay, func() {
			if onComplete != nil {
				onComplete()
			}
		})
	})
}
