// Package sketch implements the execution engine of an interactive,
// continuously rendering program: the run state machine, the per-frame tick,
// the configuration guard and the public API user programs call.
//
// A Sketch is driven by two kinds of goroutine. The surface's tick
// goroutine calls Tick at the frame rate; input producers call Enqueue. Ticks
// never overlap. Input is handed to the program only while the queue is
// drained, which happens after Draw inside a tick, or directly on the
// producer's goroutine while the sketch is not looping.
//
// Basic usage:
//
//	type demo struct{ sketch.Base }
//
//	func (d *demo) Settings(s *sketch.Sketch) { s.Size(80, 24) }
//	func (d *demo) Draw(s *sketch.Sketch)     { s.Canvas().Text(0, 0, "hi", surface.Hue(200)) }
//
//	s := sketch.New(&demo{}, surface.NewHeadless(60, nil))
//	err := s.Run(ctx)
package sketch
