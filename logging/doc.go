// Package logging provides a minimal logging interface and adapters
// for the runtime.
//
// The Logger interface defines the standard logging methods (Debug,
// Info, Warn, Error) that the scheduler, collector and runtime use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RuntimeLogger with contextual component/fiber helpers
//
// The design intentionally keeps the interface minimal so embedders
// can plug any structured logger while the runtime stays silent by
// default.
package logging
