package gallery

import (
	"math"
	"sync"
	"testing"
)

func squares(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: string(rune('a' + i)), AspectRatio: Square, ScaleFactor: 1}
	}
	return items
}

func TestControllerBeforeFirstWidth(t *testing.T) {
	c := NewController(squares(2))
	if l := c.Layout(); len(l.Items) != 0 || l.Height != 0 {
		t.Errorf("Layout() = %+v, want empty", l)
	}
}

func TestControllerAttachMeasuresAndObserves(t *testing.T) {
	sig := NewSignal(616)
	c := NewController(squares(2))

	c.Attach(sig)
	if sig.Observers() != 1 {
		t.Fatalf("Observers() = %d, want 1", sig.Observers())
	}
	if h := c.ContainerHeight(); h != 300 {
		t.Errorf("ContainerHeight() = %v, want 300", h)
	}
	if n := len(c.PackedItems()); n != 2 {
		t.Errorf("len(PackedItems()) = %d, want 2", n)
	}

	sig.Set(2000)
	if w := c.Layout().Width; w != 2000 {
		t.Errorf("Layout().Width = %v, want 2000", w)
	}
	want := Compute(squares(2), 2000, DefaultGap, nil)
	if got := c.Layout(); got.Height != want.Height {
		t.Errorf("Height = %v, want %v", got.Height, want.Height)
	}
}

func TestControllerIgnoresUnusableWidth(t *testing.T) {
	c := NewController(squares(2))
	c.OnWidthChange(616)
	before := c.Layout()

	c.OnWidthChange(0)
	c.OnWidthChange(-50)
	c.OnWidthChange(math.NaN())
	c.OnWidthChange(math.Inf(1))

	after := c.Layout()
	if after.Width != before.Width || after.Height != before.Height || len(after.Items) != len(before.Items) {
		t.Errorf("layout changed on unusable width: %+v -> %+v", before, after)
	}
}

func TestControllerSetItemsAfterNaNWidth(t *testing.T) {
	c := NewController(squares(2))
	c.OnWidthChange(616)
	before := c.Layout()

	c.OnWidthChange(math.NaN())
	c.SetItems(squares(3))
	if got := c.Layout(); got.Width != before.Width || len(got.Items) != len(before.Items) {
		t.Errorf("SetItems recomputed at NaN width: %+v", got)
	}
}

func TestControllerDetach(t *testing.T) {
	sig := NewSignal(616)
	c := NewController(squares(2))
	c.Attach(sig)

	c.Detach()
	if sig.Observers() != 0 {
		t.Errorf("Observers() = %d after Detach, want 0", sig.Observers())
	}
	if c.Attached() {
		t.Error("Attached() = true after Detach")
	}

	sig.Set(1200)
	if w := c.Layout().Width; w != 616 {
		t.Errorf("Layout().Width = %v after detached change, want 616", w)
	}

	// Detaching twice is harmless.
	c.Detach()
}

func TestControllerReattachReleasesPrevious(t *testing.T) {
	first := NewSignal(616)
	second := NewSignal(900)
	c := NewController(squares(3))

	c.Attach(first)
	c.Attach(second)

	if first.Observers() != 0 {
		t.Errorf("first.Observers() = %d, want 0", first.Observers())
	}
	if second.Observers() != 1 {
		t.Errorf("second.Observers() = %d, want 1", second.Observers())
	}
	if w := c.Layout().Width; w != 900 {
		t.Errorf("Layout().Width = %v, want 900", w)
	}

	first.Set(300)
	if w := c.Layout().Width; w != 900 {
		t.Errorf("old surface still drives layout: width = %v", w)
	}
}

func TestControllerOnLayout(t *testing.T) {
	c := NewController(squares(2), WithGap(0))
	var got []float64
	stop := c.OnLayout(func(l Layout) { got = append(got, l.Width) })

	c.OnWidthChange(600)
	c.OnWidthChange(0)
	c.OnWidthChange(800)
	stop()
	c.OnWidthChange(1000)

	want := []float64{600, 800}
	if len(got) != len(want) {
		t.Fatalf("listener calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d width = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestControllerSetItems(t *testing.T) {
	c := NewController(nil)
	c.SetItems(squares(2))
	if len(c.PackedItems()) != 0 {
		t.Error("SetItems laid out before any width")
	}

	c.OnWidthChange(616)
	c.SetItems(squares(3))
	if n := len(c.PackedItems()); n != 3 {
		t.Errorf("len(PackedItems()) = %d, want 3", n)
	}
}

func TestControllerListenerMayReadLayout(t *testing.T) {
	c := NewController(squares(2))
	var seen float64
	c.OnLayout(func(Layout) { seen = c.ContainerHeight() })
	c.OnWidthChange(616)
	if seen != 300 {
		t.Errorf("height seen from listener = %v, want 300", seen)
	}
}

func TestControllerConcurrentWidths(t *testing.T) {
	c := NewController(squares(12))
	var wg sync.WaitGroup
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func(w float64) {
			defer wg.Done()
			c.OnWidthChange(w)
			_ = c.Layout()
		}(float64(400 + i*20))
	}
	wg.Wait()

	l := c.Layout()
	want := Compute(squares(12), l.Width, DefaultGap, nil)
	if l.Height != want.Height || len(l.Items) != 12 {
		t.Errorf("final layout inconsistent with its width %v", l.Width)
	}
}

func TestSignalSetSameValueDoesNotNotify(t *testing.T) {
	sig := NewSignal(100)
	calls := 0
	stop := sig.Observe(func(float64) { calls++ })
	defer stop()

	sig.Set(100)
	sig.Set(120)
	sig.Set(120)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSignalStopIsIdempotent(t *testing.T) {
	sig := NewSignal(100)
	stopA := sig.Observe(func(float64) {})
	sig.Observe(func(float64) {})
	stopA()
	stopA()
	if sig.Observers() != 1 {
		t.Errorf("Observers() = %d, want 1", sig.Observers())
	}
}
