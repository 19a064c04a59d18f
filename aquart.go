// Package aquart provides a high-level façade over the runtime core
// (values, channels, fibers, scheduler and garbage collector) enabling
// quick embedding of the Aqua concurrency runtime. Most applications
// interact with this package by:
//  1. Creating an Aquart via New() (optionally overriding workers,
//     GC threshold or logger)
//  2. Spawning fibers (Spawn) and creating channels (MakeChannel)
//  3. Waiting for quiescence (WaitAll / RunAndWait) and shutting down
//     (Stop)
//
// The façade delegates to runtime.Runtime while keeping setup and
// usage ergonomics concise. All defaults are safe for local
// development and testing; embedders typically supply a structured
// logger in production.
package aquart

import (
	"time"

	"github.com/aqualang/aquart/channel"
	"github.com/aqualang/aquart/fiber"
	"github.com/aqualang/aquart/logging"
	"github.com/aqualang/aquart/runtime"
	"github.com/aqualang/aquart/value"
)

// Options configures the Aquart instance.
type Options struct {
	// Workers sets the scheduler's worker pool size. Zero selects the
	// available hardware parallelism.
	Workers int

	// GCThreshold is the byte total above which a registration
	// triggers an automatic collection.
	GCThreshold uint64

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Aquart is the high-level façade aggregating the underlying runtime.
type Aquart struct {
	opts Options
	rt   *runtime.Runtime
}

// New creates a new Aquart instance with optional overrides and starts
// its worker pool. Callers are expected to Stop it when done.
func New(optFns ...func(o *Options)) *Aquart {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	rt := runtime.New(func(o *runtime.Options) {
		o.Workers = opts.Workers
		if opts.GCThreshold > 0 {
			o.GCThreshold = opts.GCThreshold
		}
		o.Logger = opts.Logger
	})
	rt.Start()

	return &Aquart{opts: opts, rt: rt}
}

// Runtime exposes the underlying runtime context object.
func (a *Aquart) Runtime() *runtime.Runtime { return a.rt }

// Stop shuts down the worker pool. Idempotent; the instance can be
// restarted with Start.
func (a *Aquart) Stop() { a.rt.Stop() }

// Start restarts the worker pool after a Stop. Idempotent.
func (a *Aquart) Start() { a.rt.Start() }

// MakeChannel creates a GC-tracked channel (capacity 0 = unbounded).
func (a *Aquart) MakeChannel(capacity int) *channel.Channel {
	return a.rt.MakeChannel(capacity)
}

// Spawn submits body as a new fiber and returns its handle.
func (a *Aquart) Spawn(body func()) *fiber.Fiber {
	return a.rt.SpawnFiber(body)
}

// Sleep suspends the calling thread (and, inside a fiber body, the
// fiber's worker) for d.
func (a *Aquart) Sleep(d time.Duration) { a.rt.Sleep(d) }

// SetGlobal stores a value in the table shared across all fibers.
func (a *Aquart) SetGlobal(name string, v value.Value) { a.rt.SetGlobal(name, v) }

// Global returns the value stored under name, reporting ok=false for
// absent keys.
func (a *Aquart) Global(name string) (value.Value, bool) { return a.rt.Global(name) }

// WaitAll blocks until no fiber is queued, running or waiting.
func (a *Aquart) WaitAll() { a.rt.WaitAll() }

// RunAndWait is a synchronous helper that spawns every body and blocks
// until the scheduler is quiescent again.
func (a *Aquart) RunAndWait(bodies ...func()) {
	for _, body := range bodies {
		a.rt.SpawnFiber(body)
	}
	a.rt.WaitAll()
}
