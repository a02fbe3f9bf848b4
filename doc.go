// Package jsonlog is a structured logging facade that emits exactly one
// single-line JSON object per call, with a fixed leading key order of
// timestamp, message, level.
//
// Key features
//   - Two field lifetimes: shared fields visible to every caller of a
//     Service, and isolated fields owned by a single Scope (one per
//     goroutine or task), merged into every event until removed
//   - Exception reporting with normalized exception/message/stack fields
//     that are cleared again after a single emission, on every exit path
//   - A detached mode (nil sink) that suppresses all output
//   - Encoder failures never escape: an unrepresentable value turns the
//     event into a synthetic {"message": ...} line instead
//   - Rolling-file and console sinks via lumberjack, configured from TOML
//
// Typical usage
//
//	svc := jsonlog.New(os.Stdout)
//	svc.AddFields(map[string]any{"app": "billing"})
//	svc.Info("started")
//
//	sc := svc.Scope()
//	defer sc.End()
//	sc.AddFields(map[string]any{"request_id": rid})
//	sc.Exception(err, jsonlog.WithMessage("charge failed"))
package jsonlog
