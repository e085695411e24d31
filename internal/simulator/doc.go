// Package simulator produces a plausible, time-varying progress signal for
// one upload task without performing any I/O.
//
// Each call to [Transfer.Start] launches an independent run on its own
// goroutine. The run divides the transfer into a fixed number of steps and
// emits one progress callback per tick, strictly increasing, ending at
// exactly 1.0. With a configured probability the run is destined to fail; it
// then reports OnError once, on a step strictly after MinFailStep, and stops.
// Exactly one of OnError or the final OnProgress(1.0) happens per run unless
// the run is cancelled.
//
// # Cancellation
//
// Start returns a [Handle]. Cancel stops future ticks without waiting. A
// callback that was already being delivered may still finish; once Wait
// returns after Cancel, no callback will ever be invoked again. Callers that
// cannot wait (for example because they hold a lock the callback needs)
// should tag runs and discard stale callbacks themselves.
//
// # Testing
//
// [Scripted] is a Simulator whose runs are driven by hand, for deterministic
// tests of code that consumes simulator callbacks.
package simulator
