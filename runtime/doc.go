// Package runtime composes the scheduler, the garbage collector and
// the global variable table into one explicitly constructed context
// object.
//
// The original design exposed a lazily created process-wide singleton;
// here New returns an ordinary value that the embedder owns and passes
// into every component and spawned task. "One runtime per process"
// remains a caller-enforced convention, not a hidden global.
//
// Runtime exposes the only API a language front-end calls: channel
// creation, fiber spawning, sleeping, globals, and scheduler/GC
// introspection.
package runtime
