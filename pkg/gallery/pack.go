package gallery

import "math"

// Default packing parameters.
const (
	DefaultTargetRowHeight    = 320.0
	DefaultRowHeightTolerance = 0.35
	DefaultMaxItemsPerRow     = 5
)

// Packer places items into justified rows.
//
// Items are taken in order and accumulated into a pending row. After each
// addition the row's fitted height (the height at which the row exactly fills
// the container) is compared against the band
// [target*(1-tolerance), target*(1+tolerance)]:
//
//   - below the band with more than one item: the last item is rolled back,
//     the remainder is emitted and the rolled-back item starts a new row
//   - inside the band: the row is emitted
//   - above the band: the row is emitted only if it holds the maximum item
//     count or the item is the last one; otherwise accumulation continues
//
// The zero value is not usable; construct with [NewPacker].
type Packer struct {
	target    float64
	tolerance float64
	maxItems  int
}

// Option configures a Packer.
type Option func(*Packer)

// WithTargetRowHeight sets the preferred row height.
func WithTargetRowHeight(h float64) Option {
	return func(p *Packer) {
		if h > 0 {
			p.target = h
		}
	}
}

// WithTolerance sets the fractional band around the target height.
func WithTolerance(t float64) Option {
	return func(p *Packer) {
		if t >= 0 && t < 1 {
			p.tolerance = t
		}
	}
}

// WithMaxItemsPerRow sets the item count at which an over-tall row is
// emitted anyway.
func WithMaxItemsPerRow(n int) Option {
	return func(p *Packer) {
		if n > 0 {
			p.maxItems = n
		}
	}
}

// NewPacker returns a Packer with the default parameters, adjusted by opts.
func NewPacker(opts ...Option) *Packer {
	p := &Packer{
		target:    DefaultTargetRowHeight,
		tolerance: DefaultRowHeightTolerance,
		maxItems:  DefaultMaxItemsPerRow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPacker = NewPacker()

// Pack places items with the default parameters. See [Packer.Pack].
func Pack(items []ItemDimensions, containerWidth, gap float64) []PackedItem {
	return defaultPacker.Pack(items, containerWidth, gap)
}

// MinRowHeight is the lower edge of the acceptance band.
func (p *Packer) MinRowHeight() float64 { return p.target * (1 - p.tolerance) }

// MaxRowHeight is the upper edge of the acceptance band.
func (p *Packer) MaxRowHeight() float64 { return p.target * (1 + p.tolerance) }

// prepared is an item with its width/height ratio precomputed.
type prepared struct {
	id     string
	aspect float64
}

func prepare(items []ItemDimensions) []prepared {
	out := make([]prepared, len(items))
	for i, it := range items {
		out[i] = prepared{id: it.ID, aspect: it.Width / math.Max(it.Height, 1)}
	}
	return out
}

// usableWidth reports whether w can be packed into. NaN and +Inf are not.
func usableWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}

// widthBudget is the horizontal space left for n items after gaps, floored at 1.
func widthBudget(containerWidth float64, n int, gap float64) float64 {
	totalGap := gap * float64(max(0, n-1))
	return math.Max(containerWidth-totalGap, 1)
}

// pendingRow is the row under construction. An empty pendingRow is the idle
// state. Methods return new values and never modify the receiver.
type pendingRow struct {
	items     []prepared
	aspectSum float64
}

func (r pendingRow) with(it prepared) pendingRow {
	items := make([]prepared, len(r.items), len(r.items)+1)
	copy(items, r.items)
	return pendingRow{items: append(items, it), aspectSum: r.aspectSum + it.aspect}
}

// withoutLast drops the most recently added item.
func (r pendingRow) withoutLast() (pendingRow, prepared) {
	n := len(r.items)
	last := r.items[n-1]
	return pendingRow{items: r.items[:n-1:n-1], aspectSum: r.aspectSum - last.aspect}, last
}

func (r pendingRow) len() int { return len(r.items) }

// height is the fitted height at which the row fills containerWidth.
func (r pendingRow) height(containerWidth, gap float64) float64 {
	if r.aspectSum == 0 {
		return 0
	}
	return widthBudget(containerWidth, len(r.items), gap) / r.aspectSum
}

type action int

const (
	actionContinue action = iota
	actionRollback
	actionAccept
	actionForce
)

func (a action) String() string {
	switch a {
	case actionRollback:
		return "rollback"
	case actionAccept:
		return "accept"
	case actionForce:
		return "force"
	default:
		return "continue"
	}
}

// decide picks the transition for a row that has just grown to n items with
// fitted height h.
func (p *Packer) decide(n int, h float64, isLast bool) action {
	switch {
	case h < p.MinRowHeight() && n > 1:
		return actionRollback
	case h >= p.MinRowHeight() && h <= p.MaxRowHeight():
		return actionAccept
	case n >= p.maxItems || isLast:
		return actionForce
	default:
		return actionContinue
	}
}

// rowEmitter appends finalized rows to the output and tracks the vertical
// cursor.
type rowEmitter struct {
	containerWidth float64
	gap            float64
	y              float64
	out            []PackedItem
}

func (e *rowEmitter) emit(r pendingRow, lastRow bool) {
	if r.len() == 0 || r.aspectSum == 0 {
		return
	}
	h := r.height(e.containerWidth, e.gap)
	x := 0.0
	for i, it := range r.items {
		w := it.aspect * h
		e.out = append(e.out, PackedItem{ID: it.id, X: x, Y: e.y, Width: w, Height: h})
		x += w
		if i < r.len()-1 {
			x += e.gap
		}
	}
	e.y += h
	if !lastRow {
		e.y += e.gap
	}
}

// Pack places items, in order, into rows that fill containerWidth exactly.
// It returns nil when items is empty or containerWidth is not a finite
// positive number.
func (p *Packer) Pack(items []ItemDimensions, containerWidth, gap float64) []PackedItem {
	if len(items) == 0 || !usableWidth(containerWidth) {
		return nil
	}

	prep := prepare(items)
	e := &rowEmitter{containerWidth: containerWidth, gap: gap, out: make([]PackedItem, 0, len(items))}
	row := pendingRow{}

	for i, it := range prep {
		isLast := i == len(prep)-1
		row = row.with(it)

		switch p.decide(row.len(), row.height(containerWidth, gap), isLast) {
		case actionRollback:
			rest, overflow := row.withoutLast()
			e.emit(rest, false)
			row = pendingRow{}.with(overflow)
		case actionAccept, actionForce:
			e.emit(row, isLast)
			row = pendingRow{}
		}
	}

	// A rollback on the last item leaves it pending.
	if row.len() > 0 {
		e.emit(row, true)
	}

	return e.out
}
