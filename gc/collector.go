package gc

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aqualang/aquart/logging"
	"github.com/aqualang/aquart/value"
)

// DefaultThreshold is the byte total above which a registration
// triggers an automatic collection.
const DefaultThreshold = 1 << 20 // 1 MiB

// RootSource supplies values that are always considered reachable.
// The runtime registers its global table and the scheduler registers
// live fiber locals.
type RootSource interface {
	Roots() []value.Value
}

type entry struct {
	size   uint64
	marked bool
}

// Options holds configuration overrides passed to New().
type Options struct {
	// Threshold is the auto-collect byte threshold.
	Threshold uint64

	// Logger receives collection statistics at debug level.
	Logger logging.Logger
}

// Collector is the allocation registry. Invariant: TotalMemory equals
// the sum of sizes of all registered entries. All methods are safe for
// concurrent use; a collection runs under the single registry lock.
type Collector struct {
	mu        sync.Mutex
	objects   map[uuid.UUID]*entry
	total     uint64
	threshold uint64
	sources   []RootSource
	logger    logging.Logger
}

// New constructs a Collector with optional overrides.
func New(optFns ...func(o *Options)) *Collector {
	opts := Options{
		Threshold: DefaultThreshold,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Collector{
		objects:   make(map[uuid.UUID]*entry),
		threshold: opts.Threshold,
		logger:    opts.Logger,
	}
}

// AddRoots registers a root source consulted by every collection.
func (c *Collector) AddRoots(src RootSource) {
	if src == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, src)
}

// Register adds an allocation to the registry. Registering an id that
// is already present replaces its size. When the running byte total
// exceeds the threshold, a collection is triggered before Register
// returns.
func (c *Collector) Register(id uuid.UUID, size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.objects[id]; ok {
		c.total -= old.size
	}
	c.objects[id] = &entry{size: size}
	c.total += size

	if c.total > c.threshold {
		c.collectLocked()
	}
}

// Unregister removes an allocation and subtracts its size. Removing an
// absent handle is a no-op.
func (c *Collector) Unregister(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.objects[id]
	if !ok {
		return
	}
	c.total -= e.size
	delete(c.objects, id)
}

// Collect runs a full mark-and-sweep cycle: clear every mark bit, mark
// everything reachable from the root sources, sweep the rest.
func (c *Collector) Collect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collectLocked()
}

func (c *Collector) collectLocked() {
	for _, e := range c.objects {
		e.marked = false
	}

	c.markReachable()

	swept := 0
	var reclaimed uint64
	for id, e := range c.objects {
		if e.marked {
			continue
		}
		c.total -= e.size
		reclaimed += e.size
		delete(c.objects, id)
		swept++
	}

	if swept > 0 {
		c.logger.Debug("collection complete", "swept", swept, "reclaimed_bytes", reclaimed, "live", len(c.objects))
	}
}

// markReachable walks actual live references: every value supplied by
// a root source, transitively through channel handles held inside
// Values. A reached channel marks its registry entry and contributes
// its buffered snapshot to the walk. Handles that resolve to no
// registry entry are traversed but mark nothing.
func (c *Collector) markReachable() {
	var stack []value.Value
	for _, src := range c.sources {
		stack = append(stack, src.Roots()...)
	}

	visited := make(map[uuid.UUID]bool)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ch, err := v.AsChannel()
		if err != nil {
			continue // scalar alternatives reference nothing
		}

		id := ch.ID()
		if visited[id] {
			continue
		}
		visited[id] = true

		if e, ok := c.objects[id]; ok {
			e.marked = true
		}
		stack = append(stack, ch.Buffered()...)
	}
}

// SetThreshold configures the auto-collect byte threshold.
func (c *Collector) SetThreshold(threshold uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threshold = threshold
}

// Threshold returns the configured auto-collect byte threshold.
func (c *Collector) Threshold() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threshold
}

// AllocatedObjects returns the number of registered entries.
func (c *Collector) AllocatedObjects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.objects)
}

// TotalMemory returns the running total of tracked bytes.
func (c *Collector) TotalMemory() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
