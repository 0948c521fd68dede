package diamond

import (
	"fmt"

	"github.com/eringen/folio/motion"
)

// Direction is a carousel step.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection maps "next" and "prev" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Next, true
	case "prev":
		return Prev, true
	}
	return 0, false
}

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Carousel is a cyclic index over n phases.
type Carousel struct {
	n     int
	index int
}

// NewCarousel returns a carousel over n phases positioned at start,
// wrapped into range. n below one is treated as one.
func NewCarousel(n, start int) *Carousel {
	if n < 1 {
		n = 1
	}
	c := &Carousel{n: n}
	c.index = c.wrap(start)
	return c
}

func (c *Carousel) wrap(i int) int {
	return ((i % c.n) + c.n) % c.n
}

// Index returns the current phase index.
func (c *Carousel) Index() int { return c.index }

// Len returns the number of phases.
func (c *Carousel) Len() int { return c.n }

// Step moves one phase in dir and returns the new index.
func (c *Carousel) Step(dir Direction) int {
	c.index = c.wrap(c.index + int(dir))
	return c.index
}

// Next advances one phase.
func (c *Carousel) Next() int { return c.Step(Next) }

// Prev goes back one phase.
func (c *Carousel) Prev() int { return c.Step(Prev) }

// Page selectors used by the phase frame.
const (
	TextTarget = "#phase-text"
	ImageSlotA = "#phase-img-a"
	ImageSlotB = "#phase-img-b"
)

// DotTarget selects the indicator dot for phase i.
func DotTarget(i int) string { return fmt.Sprintf("#phase-dot-%d", i) }

// TextSource selects the hidden text template for phase i.
func TextSource(i int) string { return fmt.Sprintf("#phase-src-text-%d", i) }

// ImageSource selects the hidden image template for phase i.
func ImageSource(i int) string { return fmt.Sprintf("#phase-src-img-%d", i) }

// Player runs phase transitions: the text panel fades through the swap,
// the indicator dots move and the illustration crossfades between slots.
type Player struct {
	tw    motion.Tweener
	c     *Carousel
	text  *motion.Fader
	image *motion.Crossfade
}

// NewPlayer returns a player for c on tw with slot a in front.
func NewPlayer(tw motion.Tweener, c *Carousel) *Player {
	return &Player{
		tw:    tw,
		c:     c,
		text:  motion.NewFader(tw, TextTarget),
		image: motion.NewCrossfade(tw, ImageSlotA, ImageSlotB),
	}
}

// SetFront tells the player which image slot is currently visible.
func (p *Player) SetFront(slot string) { p.image.SetFront(slot) }

// Front returns the visible image slot.
func (p *Player) Front() string { return p.image.Front() }

// TextState returns the text fader's state.
func (p *Player) TextState() motion.FadeState { return p.text.State() }

// Transition moves the carousel in dir and plays the transition. It
// returns the new index.
func (p *Player) Transition(dir Direction) int {
	from := p.c.Index()
	to := p.c.Step(dir)
	p.text.Swap(func() {
		p.tw.Swap(TextTarget, TextSource(to))
	})
	p.tw.Toggle(DotTarget(from), motion.ActiveClass, false)
	p.tw.Toggle(DotTarget(to), motion.ActiveClass, true)
	p.image.Show(func(slot string) {
		p.tw.Swap(slot, ImageSource(to))
	})
	return to
}
