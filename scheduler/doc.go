// Package scheduler dispatches fibers from a FIFO ready queue onto a
// fixed pool of worker goroutines.
//
// The execution model is thread-pool-backed tasks: a worker runs a
// fiber's body to completion, so a body that blocks on a channel
// occupies its worker for the duration. There is no event loop and no
// preemption. Fibers are dequeued in spawn order; completion order
// across workers is unconstrained.
//
// The scheduler tracks every live fiber in exactly one of three sets
// (ready queue, running set, waiting set) and removes it from all of
// them the moment it reaches a terminal state. WaitAll, Active and
// Total are correctness-load-bearing on that invariant.
package scheduler
