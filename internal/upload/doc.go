// Package upload defines the value types shared by the transfer simulator,
// the task registry, and everything that renders their output.
//
// A [Task] is an immutable snapshot of one file's simulated transfer. The
// registry never mutates a Task in place; every state change produces a new
// value with the same ID. A [Snapshot] is the full ordered task sequence at
// one point in time, as published to observers.
//
// Derived views such as [GroupByStatus] and [Summarize] are pure read-side
// projections and never alter the canonical ordering held by the registry.
//
// # Status Lifecycle
//
//	waiting -> uploading -> completed
//	                     \-> error -> (retry) -> waiting
//
// Completed and error are terminal: no further automatic transition occurs
// without an explicit retry.
package upload
