package gallery

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Controller keeps a gallery layout in step with the width of one surface.
//
// Every width notification triggers a full layout pass; notifications with a
// non-positive width are ignored and leave the previous layout published.
// A Controller is safe for concurrent use. Listeners registered with
// [Controller.OnLayout] are called outside the internal lock, in the
// goroutine that delivered the width.
type Controller struct {
	mu        sync.Mutex
	items     []Item
	gap       float64
	packer    *Packer
	logger    *log.Logger
	width     float64
	layout    Layout
	stop      func()
	nextID    int
	listeners []listener
}

type listener struct {
	id int
	fn func(Layout)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithGap sets the spacing between items. The default is [DefaultGap].
func WithGap(gap float64) ControllerOption {
	return func(c *Controller) {
		if gap >= 0 {
			c.gap = gap
		}
	}
}

// WithPacker replaces the default packing parameters.
func WithPacker(p *Packer) ControllerOption {
	return func(c *Controller) {
		if p != nil {
			c.packer = p
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController returns a Controller for items. Nothing is laid out until the
// first positive width arrives.
func NewController(items []Item, opts ...ControllerOption) *Controller {
	c := &Controller{
		items:  items,
		gap:    DefaultGap,
		packer: defaultPacker,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach binds the controller to s. Any previously attached surface is
// detached first. The controller subscribes to width changes and then takes
// an initial measurement.
func (c *Controller) Attach(s Surface) {
	c.Detach()
	if s == nil {
		return
	}
	stop := s.Observe(c.OnWidthChange)
	c.mu.Lock()
	c.stop = stop
	c.mu.Unlock()

	c.OnWidthChange(s.Width())
}

// Detach releases the current surface subscription, if any.
func (c *Controller) Detach() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Attached reports whether a surface is currently bound.
func (c *Controller) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// OnWidthChange records the new container width and recomputes the layout.
func (c *Controller) OnWidthChange(width float64) {
	c.mu.Lock()
	c.width = width
	if !usableWidth(width) {
		c.mu.Unlock()
		c.logger.Debug("ignoring unusable width", "width", width)
		return
	}
	c.recomputeLocked()
}

// SetItems replaces the items and recomputes at the last known width.
func (c *Controller) SetItems(items []Item) {
	c.mu.Lock()
	c.items = items
	if !usableWidth(c.width) {
		c.mu.Unlock()
		return
	}
	c.recomputeLocked()
}

// recomputeLocked runs a layout pass, publishes it and releases c.mu before
// notifying listeners.
func (c *Controller) recomputeLocked() {
	l := Compute(c.items, c.width, c.gap, c.packer)
	c.layout = l
	fns := make([]func(Layout), len(c.listeners))
	for i, ls := range c.listeners {
		fns[i] = ls.fn
	}
	c.mu.Unlock()

	c.logger.Debug("gallery layout", "width", l.Width, "items", len(l.Items), "height", l.Height)
	for _, fn := range fns {
		fn(l)
	}
}

// Layout returns the most recently published layout.
func (c *Controller) Layout() Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// PackedItems returns the positions of the current layout.
func (c *Controller) PackedItems() []PackedItem {
	return c.Layout().Items
}

// ContainerHeight returns the height of the current layout.
func (c *Controller) ContainerHeight() float64 {
	return c.Layout().Height
}

// OnLayout registers fn to run after each recompute and returns a function
// that removes it.
func (c *Controller) OnLayout(fn func(Layout)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, ls := range c.listeners {
			if ls.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}
