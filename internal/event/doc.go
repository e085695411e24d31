// Package event provides a pub-sub event bus that decouples the task
// registry from the components observing it.
//
// The registry publishes on the bus from inside its serialized update path,
// so handlers see events in exactly the order mutations happened. Handlers
// run synchronously on the publishing goroutine and are protected against
// panics.
//
// # Event Types
//
//   - [TasksUpdatedEvent] ("tasks.updated"): the full snapshot after every mutation
//   - [TaskAddedEvent] ("task.added"): a task was created by AddFiles
//   - [StatusChangedEvent] ("task.status_changed"): a task changed status
//   - [TaskRetriedEvent] ("task.retried"): a retry reset a task to waiting
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypeStatusChanged, func(e event.Event) {
//	    changed := e.(event.StatusChangedEvent)
//	    fmt.Println(changed.Task.File.Name, changed.From, "->", changed.Task.Status)
//	})
package event
