// Package input defines the canonical pointer and keyboard events consumed by
// a sketch and the Normalizer that folds raw platform events into canonical
// input state.
//
// Events are produced on any goroutine (the producer context) and applied to
// a Normalizer only while the event queue is draining. The Normalizer keeps
// two independent previous-position pairs:
//
//   - the frame pair (FrameX/FrameY, FramePrevX/FramePrevY), advanced once per
//     tick and meant for code running inside Draw;
//   - the event pair (X/Y, PrevX/PrevY), advanced once per press, drag or move
//     and meant for code running inside pointer callbacks.
//
// Collapsing them into one pair makes "previous" mean different things in
// the two call sites, so both are kept.
//
// Control-click handling: when ControlClickAsRight is enabled, a primary
// press with the control modifier is reported as a right press, and every
// following event of the gesture keeps reporting right until the release,
// even if control is let go mid-drag.
package input
