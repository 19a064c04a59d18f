package runtime

import (
	"sync"
	"time"

	"github.com/aqualang/aquart/channel"
	"github.com/aqualang/aquart/fiber"
	"github.com/aqualang/aquart/gc"
	"github.com/aqualang/aquart/logging"
	"github.com/aqualang/aquart/scheduler"
	"github.com/aqualang/aquart/value"
)

// Estimated footprint of a channel in the collector's registry. The
// collector tracks logical sizes, not Go heap bytes, so these only
// need to be proportional.
const (
	channelBaseCost uint64 = 96
	channelSlotCost uint64 = 48
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Workers sets the scheduler's worker pool size. Zero selects the
	// available hardware parallelism.
	Workers int

	// GCThreshold is the byte total above which registration triggers
	// an automatic collection.
	GCThreshold uint64

	// Logger is shared by the runtime, scheduler and collector.
	Logger logging.Logger
}

// Runtime owns exactly one Scheduler, one Collector and the global
// variable table. All methods are safe for concurrent use.
type Runtime struct {
	sched     *scheduler.Scheduler
	collector *gc.Collector
	logger    logging.Logger

	mu      sync.RWMutex
	globals map[string]value.Value
}

// New constructs a Runtime with optional overrides. The worker pool is
// not started until Start is called.
func New(optFns ...func(o *Options)) *Runtime {
	opts := Options{
		GCThreshold: gc.DefaultThreshold,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	sched := scheduler.New(func(o *scheduler.Options) {
		if opts.Workers > 0 {
			o.Workers = opts.Workers
		}
		o.Logger = opts.Logger
	})

	collector := gc.New(func(o *gc.Options) {
		o.Threshold = opts.GCThreshold
		o.Logger = opts.Logger
	})

	rt := &Runtime{
		sched:     sched,
		collector: collector,
		logger:    opts.Logger,
		globals:   make(map[string]value.Value),
	}

	// Reachability starts from the global table and live fiber locals.
	collector.AddRoots(rt)
	collector.AddRoots(sched)

	return rt
}

// Start launches the scheduler's workers. Idempotent.
func (rt *Runtime) Start() {
	rt.sched.Start()
}

// Stop stops the scheduler's workers. Idempotent; the runtime stays
// usable and can be started again.
func (rt *Runtime) Stop() {
	rt.sched.Stop()
}

// MakeChannel constructs a channel with the given capacity (0 =
// unbounded) and registers it with the collector. The channel is
// reclaimed from the registry once no global, fiber local or buffered
// value reaches it.
func (rt *Runtime) MakeChannel(capacity int) *channel.Channel {
	ch := channel.New(capacity)
	rt.collector.Register(ch.ID(), channelBaseCost+channelSlotCost*uint64(ch.Cap()))
	rt.logger.Debug("channel created", "channel_id", ch.ID(), "capacity", ch.Cap())
	return ch
}

// SpawnFiber submits body to the scheduler as a new fiber and returns
// its handle.
func (rt *Runtime) SpawnFiber(body func()) *fiber.Fiber {
	return rt.sched.Spawn(body)
}

// Sleep suspends the calling thread for d. Because fibers run to
// completion on their worker, a sleeping fiber occupies that worker
// for the duration; this is not a fiber-level suspension. Sleep is
// uninterruptible.
func (rt *Runtime) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// SetGlobal stores a value in the table shared across all fibers.
func (rt *Runtime) SetGlobal(name string, v value.Value) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.globals[name] = v
}

// Global returns the value stored under name. An absent key reports
// ok=false, never an error.
func (rt *Runtime) Global(name string) (value.Value, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	v, ok := rt.globals[name]
	return v, ok
}

// DeleteGlobal removes a global binding. Removing an absent name is a
// no-op.
func (rt *Runtime) DeleteGlobal(name string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	delete(rt.globals, name)
}

// Roots returns a snapshot of every global value, making the global
// table part of the collector's root set.
func (rt *Runtime) Roots() []value.Value {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if len(rt.globals) == 0 {
		return nil
	}
	roots := make([]value.Value, 0, len(rt.globals))
	for _, v := range rt.globals {
		roots = append(roots, v)
	}
	return roots
}

// Scheduler exposes the composed scheduler for advanced use.
func (rt *Runtime) Scheduler() *scheduler.Scheduler { return rt.sched }

// GC exposes the composed collector for advanced use.
func (rt *Runtime) GC() *gc.Collector { return rt.collector }

// WaitAll blocks until no fiber is queued, running or waiting.
func (rt *Runtime) WaitAll() {
	rt.sched.WaitAll()
}

// ActiveFibers reports the current size of the running set.
func (rt *Runtime) ActiveFibers() int { return rt.sched.Active() }

// TotalFibers reports the number of tracked fibers across all sets.
func (rt *Runtime) TotalFibers() int { return rt.sched.Total() }

// AllocatedObjects reports the number of tracked allocations.
func (rt *Runtime) AllocatedObjects() int { return rt.collector.AllocatedObjects() }

// TotalMemory reports the tracked byte total.
func (rt *Runtime) TotalMemory() uint64 { return rt.collector.TotalMemory() }

// Collect triggers a full mark-and-sweep cycle.
func (rt *Runtime) Collect() { rt.collector.Collect() }

// SetGCThreshold configures the collector's auto-collect threshold.
func (rt *Runtime) SetGCThreshold(bytes uint64) { rt.collector.SetThreshold(bytes) }
