// Package logging provides a minimal logging interface and adapters for
// dialogform.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the artifact state machine and repair agents use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - FormLogger with contextual helpers (artifact, session, component) and
//     domain specific helpers for field commits, repair and model calls
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	art := artifact.New(desc, agent, func(o *artifact.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
