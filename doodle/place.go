package doodle

import "fmt"

// Rand is the randomness Place draws from. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Range is an inclusive integer range.
type Range struct {
	Min, Max int
}

func (r Range) draw(rng Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// Config tunes the placement engine.
type Config struct {
	Rows, Cols int
	BaseSize   float64 // px, before scaling
	Padding    float64 // px kept clear on every side of a grid cell

	// RotationBuffer inflates grid-phase boxes to cover the rotated footprint.
	RotationBuffer float64
	// CollisionBuffer inflates random-phase boxes for the overlap test.
	CollisionBuffer float64
	// ViewportMargin is subtracted from the viewport on the right and
	// bottom when drawing random-phase positions.
	ViewportMargin float64

	RetryCap int
	// GridCap limits how many instances the grid phase places. Zero or
	// less means no cap beyond the cell count.
	GridCap int

	RepeatAll      Range // repeat counts when no category is active
	RepeatFiltered Range // repeat counts inside a category view

	MaxRotation float64 // degrees, rotation is drawn from ±MaxRotation
	MinScale    float64
	MaxScale    float64
	FlipChance  float64
}

// DefaultConfig returns the tuned defaults for a desktop viewport.
func DefaultConfig() Config {
	return Config{
		Rows:            9,
		Cols:            12,
		BaseSize:        70,
		Padding:         40,
		RotationBuffer:  1.2,
		CollisionBuffer: 1.2,
		ViewportMargin:  105,
		RetryCap:        15,
		GridCap:         24,
		RepeatAll:       Range{Min: 1, Max: 3},
		RepeatFiltered:  Range{Min: 2, Max: 5},
		MaxRotation:     30,
		MinScale:        0.6,
		MaxScale:        1.0,
		FlipChance:      0.5,
	}
}

// Validate checks that the grid and sizes are usable.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("grid must have positive rows and cols, got %dx%d", c.Rows, c.Cols)
	}
	if c.BaseSize <= 0 {
		return fmt.Errorf("base size must be > 0")
	}
	if c.RetryCap < 0 {
		return fmt.Errorf("retry cap must not be negative")
	}
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return fmt.Errorf("scale range [%g, %g] is invalid", c.MinScale, c.MaxScale)
	}
	if c.RepeatAll.Min < 0 || c.RepeatFiltered.Min < 0 {
		return fmt.Errorf("repeat ranges must not be negative")
	}
	return nil
}

// Viewport is the visible area in CSS pixels.
type Viewport struct {
	Width, Height float64
}

// Box is an axis-aligned bounding box.
type Box struct {
	Left, Top, Right, Bottom float64
}

// Intersects reports whether b and o overlap. Boxes that only touch do not.
func (b Box) Intersects(o Box) bool {
	return b.Left < o.Right && b.Right > o.Left && b.Top < o.Bottom && b.Bottom > o.Top
}

// Contains reports whether o lies inside b.
func (b Box) Contains(o Box) bool {
	return o.Left >= b.Left && o.Right <= b.Right && o.Top >= b.Top && o.Bottom <= b.Bottom
}

// Phase records which placement phase produced an instance.
type Phase int

const (
	PhaseGrid Phase = iota
	PhaseRandom
)

func (p Phase) String() string {
	if p == PhaseGrid {
		return "grid"
	}
	return "random"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Instance is one placed doodle.
type Instance struct {
	Image    string  `json:"image"`
	Top      float64 `json:"top"`
	Left     float64 `json:"left"`
	Rotation float64 `json:"rotation"` // degrees
	Scale    float64 `json:"scale"`
	Flipped  bool    `json:"flipped"`
	Box      Box     `json:"box"`
	Phase    Phase   `json:"phase"`
	Cell     int     `json:"cell"` // grid cell index, -1 for random-phase instances
}

// Place computes doodle positions for one render pass. It never returns
// overlapping random-phase instances. Instances that cannot be fitted
// within the retry cap are dropped.
func Place(rng Rand, catalog *Catalog, cfg Config, vp Viewport, category Category) []Instance {
	if catalog == nil || vp.Width <= 0 || vp.Height <= 0 || cfg.Validate() != nil {
		return nil
	}
	refs := catalog.Select(category)
	if len(refs) == 0 {
		return nil
	}

	repeat := cfg.RepeatAll
	if category != "" {
		repeat = cfg.RepeatFiltered
	}
	var pending []string
	for _, ref := range refs {
		for n := repeat.draw(rng); n > 0; n-- {
			pending = append(pending, ref)
		}
	}
	shuffle(rng, pending)

	p := placer{rng: rng, cfg: cfg, vp: vp}
	n := p.gridSlots(len(pending))
	p.grid(pending[:n])
	p.scatter(pending[n:])
	return p.placed
}

type placer struct {
	rng    Rand
	cfg    Config
	vp     Viewport
	placed []Instance
}

func (p *placer) gridSlots(instances int) int {
	n := min(instances, p.cfg.Rows*p.cfg.Cols)
	if p.cfg.GridCap > 0 {
		n = min(n, p.cfg.GridCap)
	}
	return n
}

// grid assigns one instance per shuffled cell.
func (p *placer) grid(refs []string) {
	cells := make([]int, p.cfg.Rows*p.cfg.Cols)
	for i := range cells {
		cells[i] = i
	}
	shuffle(p.rng, cells)

	cellW := p.vp.Width / float64(p.cfg.Cols)
	cellH := p.vp.Height / float64(p.cfg.Rows)
	pad := p.cfg.Padding

	for i, ref := range refs {
		cell := cells[i]
		row, col := cell/p.cfg.Cols, cell%p.cfg.Cols
		inst := p.styled(ref)
		size := p.cfg.BaseSize * inst.Scale * p.cfg.RotationBuffer

		spanH := max(0, cellH-size-2*pad)
		spanW := max(0, cellW-size-2*pad)
		inst.Top = float64(row)*cellH + pad + p.rng.Float64()*spanH
		inst.Left = float64(col)*cellW + pad + p.rng.Float64()*spanW
		inst.Box = Box{Left: inst.Left, Top: inst.Top, Right: inst.Left + size, Bottom: inst.Top + size}
		inst.Phase = PhaseGrid
		inst.Cell = cell
		p.placed = append(p.placed, inst)
	}
}

// scatter tries random positions for the overflow instances.
func (p *placer) scatter(refs []string) {
	spanH := max(0, p.vp.Height-p.cfg.ViewportMargin)
	spanW := max(0, p.vp.Width-p.cfg.ViewportMargin)

	for _, ref := range refs {
		inst := p.styled(ref)
		size := p.cfg.BaseSize * inst.Scale * p.cfg.CollisionBuffer
		for try := 0; try < p.cfg.RetryCap; try++ {
			top := p.rng.Float64() * spanH
			left := p.rng.Float64() * spanW
			box := Box{Left: left, Top: top, Right: left + size, Bottom: top + size}
			if p.collides(box) {
				continue
			}
			inst.Top, inst.Left, inst.Box = top, left, box
			inst.Phase = PhaseRandom
			inst.Cell = -1
			p.placed = append(p.placed, inst)
			break
		}
	}
}

func (p *placer) collides(box Box) bool {
	for _, other := range p.placed {
		if box.Intersects(other.Box) {
			return true
		}
	}
	return false
}

// styled draws the purely visual attributes of an instance.
func (p *placer) styled(ref string) Instance {
	return Instance{
		Image:    ref,
		Rotation: (p.rng.Float64()*2 - 1) * p.cfg.MaxRotation,
		Scale:    p.cfg.MinScale + p.rng.Float64()*(p.cfg.MaxScale-p.cfg.MinScale),
		Flipped:  p.rng.Float64() < p.cfg.FlipChance,
	}
}

// CellBox returns the padded interior of a grid cell.
func CellBox(cfg Config, vp Viewport, cell int) Box {
	cellW := vp.Width / float64(cfg.Cols)
	cellH := vp.Height / float64(cfg.Rows)
	row, col := cell/cfg.Cols, cell%cfg.Cols
	return Box{
		Left:   float64(col)*cellW + cfg.Padding,
		Top:    float64(row)*cellH + cfg.Padding,
		Right:  float64(col+1)*cellW - cfg.Padding,
		Bottom: float64(row+1)*cellH - cfg.Padding,
	}
}

// shuffle is a Fisher-Yates permutation.
func shuffle[T any](rng Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
