package motion

import "time"

// FadeState is the state of a Fader.
type FadeState int

const (
	Idle FadeState = iota
	FadingOut
	Swapped
	FadingIn
)

func (s FadeState) String() string {
	switch s {
	case FadingOut:
		return "fading-out"
	case Swapped:
		return "content-swapped"
	case FadingIn:
		return "fading-in"
	default:
		return "idle"
	}
}

// Fader swaps a target's content behind a fade-out/fade-in pair.
type Fader struct {
	ch     *Channel
	target string
	out    time.Duration
	in     time.Duration
	state  FadeState

	// OnChange, if set, observes every state change.
	OnChange func(FadeState)
}

// NewFader returns an idle fader for target using the default timings.
func NewFader(tw Tweener, target string) *Fader {
	return &Fader{ch: NewChannel(tw), target: target, out: FadeOutDuration, in: FadeInDuration}
}

// State returns the current state.
func (f *Fader) State() FadeState {
	return f.state
}

func (f *Fader) set(s FadeState) {
	f.state = s
	if f.OnChange != nil {
		f.OnChange(s)
	}
}

// Swap fades the target out, calls apply, and fades it back in. A swap
// requested while another is in flight supersedes it; the earlier apply
// never runs if its fade-out had not finished.
func (f *Fader) Swap(apply func()) {
	f.set(FadingOut)
	f.ch.Tween(f.target, Props{"opacity": 0}, f.out, func() {
		if apply != nil {
			apply()
		}
		f.set(Swapped)
		f.set(FadingIn)
		f.ch.Tween(f.target, Props{"opacity": 1}, f.in, func() {
			f.set(Idle)
		})
	})
}

// Crossfade alternates between two image slots. The incoming slot fades
// in immediately while the outgoing one fades out after a short delay,
// then their roles swap.
type Crossfade struct {
	slots [2]string
	ch    [2]*Channel
	front int
	fade  time.Duration
	delay time.Duration
}

// NewCrossfade returns a crossfade with slot a in front.
func NewCrossfade(tw Tweener, a, b string) *Crossfade {
	return &Crossfade{
		slots: [2]string{a, b},
		ch:    [2]*Channel{NewChannel(tw), NewChannel(tw)},
		fade:  CrossfadeDuration,
		delay: CrossfadeDelay,
	}
}

// Front returns the slot currently shown.
func (x *Crossfade) Front() string {
	return x.slots[x.front]
}

// SetFront puts slot in front. Unknown slots are ignored.
func (x *Crossfade) SetFront(slot string) {
	for i, s := range x.slots {
		if s == slot {
			x.front = i
		}
	}
}

// Back returns the slot that the next Show loads into.
func (x *Crossfade) Back() string {
	return x.slots[1-x.front]
}

// Show loads the back slot through load and brings it to the front.
func (x *Crossfade) Show(load func(slot string)) {
	in, out := 1-x.front, x.front
	if load != nil {
		load(x.slots[in])
	}
	x.ch[in].Tween(x.slots[in], Props{"opacity": 1}, x.fade, nil)
	outCh, outSlot := x.ch[out], x.slots[out]
	outCh.Delay(x.delay, func() {
		outCh.Tween(outSlot, Props{"opacity": 0}, x.fade, nil)
	})
	x.front = in
}
