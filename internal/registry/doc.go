// Package registry owns the ordered collection of upload tasks and bridges
// simulator callbacks into collection updates.
//
// Every mutation goes through a single mutex-protected update path that
// replaces the affected task value and publishes a new [upload.Snapshot] on
// the event bus before the lock is released, so subscribers observe exactly
// one snapshot per mutation in version order. [Registry.Snapshot] reads the
// latest published snapshot without taking the lock.
//
// Each simulation run is tagged with a generation number. Retrying a task
// cancels its previous run and bumps the generation; callbacks carrying an
// old generation, or naming a task the registry does not hold, are dropped.
//
// Subscribers run on the goroutine that caused the mutation while the update
// lock is held. They may read [Registry.Snapshot] but must not call
// AddFiles, RetryUpload, RetryFailed or Close synchronously.
package registry
