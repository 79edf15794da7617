// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for development (console, debug)
// and production (json) use, plus helpers that attach correlation fields.
//
// # Context Awareness
//
// WithRayID extracts the RayID from a Fiber context so that every log line
// of a request can be correlated. WithLibrary scopes a logger to one library,
// which is how sync jobs started from HTTP and from the CLI are tagged.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
