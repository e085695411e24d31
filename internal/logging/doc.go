// Package logging provides structured logging for uploadsim.
//
// This package wraps Go's log/slog to provide JSON-formatted logs. The
// registry, simulator and drop-folder watcher each log through a child
// logger tagged with their component name, and task-scoped entries carry a
// task_id attribute so a single transfer can be followed across retries.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/state", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	reg := logger.WithComponent("registry")
//	reg.WithTask(id).Info("task completed", "attempt", 2)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task completed","component":"registry","task_id":"...","attempt":2}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a buffer to
// assert on emitted entries.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  dir: ""        # empty logs to stderr
package logging
