package gc

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqualang/aquart/channel"
	"github.com/aqualang/aquart/value"
)

// staticRoots is a mutable root source for tests.
type staticRoots struct {
	mu   sync.Mutex
	vals []value.Value
}

func (s *staticRoots) Roots() []value.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]value.Value, len(s.vals))
	copy(out, s.vals)
	return out
}

func (s *staticRoots) set(vals ...value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals = vals
}

func TestRegisterUnregisterAccounting(t *testing.T) {
	c := New()

	a, b := uuid.New(), uuid.New()
	c.Register(a, 100)
	c.Register(b, 200)

	assert.Equal(t, 2, c.AllocatedObjects())
	assert.Equal(t, uint64(300), c.TotalMemory())

	c.Unregister(a)
	assert.Equal(t, 1, c.AllocatedObjects())
	assert.Equal(t, uint64(200), c.TotalMemory())

	// Removing an absent handle is a no-op.
	c.Unregister(uuid.New())
	c.Unregister(a)
	assert.Equal(t, 1, c.AllocatedObjects())
	assert.Equal(t, uint64(200), c.TotalMemory())
}

func TestReRegisterReplacesSize(t *testing.T) {
	c := New()
	id := uuid.New()

	c.Register(id, 100)
	c.Register(id, 250)

	assert.Equal(t, 1, c.AllocatedObjects())
	assert.Equal(t, uint64(250), c.TotalMemory())
}

func TestThresholdTriggersCollection(t *testing.T) {
	c := New(func(o *Options) { o.Threshold = 250 })

	c.Register(uuid.New(), 100)
	assert.Equal(t, 1, c.AllocatedObjects(), "below threshold, no collection")

	// Crossing the threshold collects immediately; with no roots,
	// everything is unreachable and swept.
	c.Register(uuid.New(), 200)
	assert.Equal(t, 0, c.AllocatedObjects())
	assert.Equal(t, uint64(0), c.TotalMemory())
}

func TestThresholdConfiguration(t *testing.T) {
	c := New()
	assert.Equal(t, uint64(DefaultThreshold), c.Threshold())

	c.SetThreshold(4096)
	assert.Equal(t, uint64(4096), c.Threshold())
}

func TestCollectSweepsUnreachableKeepsReachable(t *testing.T) {
	c := New()
	roots := &staticRoots{}
	c.AddRoots(roots)

	reachable := channel.New(1)
	orphan := channel.New(1)
	c.Register(reachable.ID(), 64)
	c.Register(orphan.ID(), 64)

	roots.set(value.Chan(reachable))
	c.Collect()

	assert.Equal(t, 1, c.AllocatedObjects(), "only the rooted channel survives")
	assert.Equal(t, uint64(64), c.TotalMemory())

	// Dropping the last reference makes it collectable too.
	roots.set()
	c.Collect()
	assert.Equal(t, 0, c.AllocatedObjects())
}

func TestCollectFollowsChannelHandlesTransitively(t *testing.T) {
	c := New()
	roots := &staticRoots{}
	c.AddRoots(roots)

	inner := channel.New(0)
	outer := channel.New(0)
	require.NoError(t, outer.Send(value.Chan(inner)))

	c.Register(inner.ID(), 32)
	c.Register(outer.ID(), 32)

	roots.set(value.Chan(outer))
	c.Collect()

	assert.Equal(t, 2, c.AllocatedObjects(),
		"a channel buffered inside a reachable channel is reachable")

	roots.set()
	c.Collect()
	assert.Equal(t, 0, c.AllocatedObjects(),
		"the whole subgraph dies with its last external reference")
}

func TestCollectHandlesChannelCycles(t *testing.T) {
	c := New()
	roots := &staticRoots{}
	c.AddRoots(roots)

	a := channel.New(0)
	b := channel.New(0)
	require.NoError(t, a.Send(value.Chan(b)))
	require.NoError(t, b.Send(value.Chan(a)))

	c.Register(a.ID(), 16)
	c.Register(b.ID(), 16)

	roots.set(value.Chan(a))
	c.Collect()
	assert.Equal(t, 2, c.AllocatedObjects(), "cycle reachable from a root survives")

	roots.set()
	c.Collect()
	assert.Equal(t, 0, c.AllocatedObjects(), "unreachable cycle is swept")
}

func TestScalarRootsMarkNothing(t *testing.T) {
	c := New()
	roots := &staticRoots{}
	c.AddRoots(roots)

	orphan := channel.New(0)
	c.Register(orphan.ID(), 8)

	roots.set(value.Int(1), value.Text("x"), value.Null())
	c.Collect()

	assert.Equal(t, 0, c.AllocatedObjects())
}
