// Package logger wraps Uber's Zap logger behind a small structured-logging
// surface shared by every component of the materials service.
//
// The wrapper exists so that infrastructure packages (inference, blob,
// pipeline, ...) can depend on a five-method Logger interface they each
// declare locally, while the application wires a single concrete *Logger
// through Fx.
//
// Output is JSON on stderr with ISO8601 timestamps and the service name and
// pid attached to every entry.
//
// Usage:
//
//	log := logger.NewLoggerClient(logger.NewConfig())
//	log.Info("material processed", nil, map[string]interface{}{
//	    "material_id": id,
//	    "status":      "completed",
//	})
package logger
