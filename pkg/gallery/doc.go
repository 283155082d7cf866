// Package gallery implements the justified-row layout engine behind the
// portfolio gallery.
//
// # Overview
//
// A gallery is an ordered list of [Item] values, each with a declared
// [AspectRatio] and scale factor. Given a container width and a gap, the
// engine places every item in horizontal rows so that each row exactly fills
// the container width and all items in a row share one height. Row heights
// are kept near a target of 320 units.
//
// The computation runs in three stages:
//
//  1. Dimensions ([Dimensions], [Resolve]): turn an aspect ratio and scale
//     into a nominal width and height on a 300-unit base.
//  2. Packing ([Pack], [Packer]): greedily accumulate items into rows,
//     accepting a row once its fitted height falls in the tolerance band.
//  3. Height ([TotalHeight]): the container height is the lowest bottom edge.
//
// [Compute] runs all three and returns a [Layout].
//
// # Reacting to width changes
//
// A [Controller] owns the current layout for one surface. The host calls
// [Controller.OnWidthChange] whenever the measured width changes, or attaches
// a [Surface] (such as a [Signal]) which the controller measures and observes:
//
//	sig := gallery.NewSignal(1200)
//	c := gallery.NewController(items)
//	c.Attach(sig)
//	defer c.Detach()
//
//	sig.Set(800) // synchronously recomputes
//	l := c.Layout()
//
// All stages are pure and deterministic: identical inputs always produce
// identical layouts.
package gallery
