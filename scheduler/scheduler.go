package scheduler

import (
	"runtime"
	"sync"
	"time"

	"github.com/aqualang/aquart/fiber"
	"github.com/aqualang/aquart/logging"
	"github.com/aqualang/aquart/value"
)

const (
	// idleWait bounds how long an idle worker sleeps between queue
	// checks when no wake signal arrives.
	idleWait = 10 * time.Millisecond

	// waitAllPoll is the interval WaitAll uses to re-check quiescence.
	waitAllPoll = time.Millisecond
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Workers sets the size of the worker pool. Defaults to the
	// available hardware parallelism.
	Workers int

	// Logger receives scheduler lifecycle and fiber failure events.
	Logger logging.Logger
}

// Scheduler owns the ready queue, the running and waiting sets, and
// the worker pool. Public methods are safe for concurrent use.
type Scheduler struct {
	workers int
	logger  logging.Logger

	mu      sync.Mutex
	ready   []*fiber.Fiber
	running map[uint64]*fiber.Fiber
	waiting map[uint64]*fiber.Fiber

	lifecycleMu sync.Mutex
	started     bool
	stopCh      chan struct{}
	wakeCh      chan struct{}
	wg          sync.WaitGroup
}

// New constructs a Scheduler with optional overrides. Workers are not
// started until Start is called; fibers spawned before that simply
// queue up.
func New(optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Workers: runtime.NumCPU(),
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Scheduler{
		workers: opts.Workers,
		logger:  opts.Logger,
		running: make(map[uint64]*fiber.Fiber),
		waiting: make(map[uint64]*fiber.Fiber),
		wakeCh:  make(chan struct{}, 1),
	}
}

// Start launches the worker pool. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.workerLoop(s.stopCh)
	}

	s.logger.Debug("scheduler started", "workers", s.workers)
}

// Stop signals all workers and joins them. Safe to call when already
// stopped. Queued fibers stay queued and run if Start is called again.
func (s *Scheduler) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
	s.wg.Wait()

	s.logger.Debug("scheduler stopped")
}

// Running reports whether the worker pool is active.
func (s *Scheduler) Running() bool {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	return s.started
}

// Spawn wraps body in a new fiber, pushes it onto the ready queue and
// wakes one idle worker. The fiber handle is returned for
// introspection; the scheduler retains no reference once the fiber
// reaches a terminal state.
func (s *Scheduler) Spawn(body func()) *fiber.Fiber {
	f := fiber.New(body)

	s.mu.Lock()
	s.ready = append(s.ready, f)
	s.mu.Unlock()

	select {
	case s.wakeCh <- struct{}{}:
	default:
	}

	s.logger.Debug("fiber spawned", "fiber_id", f.ID())
	return f
}

// workerLoop pops ready fibers and executes them to completion. With
// an empty queue the worker parks on the wake channel with a short
// timeout rather than spinning.
func (s *Scheduler) workerLoop(stopCh <-chan struct{}) {
	defer s.wg.Done()

	for {
		if f := s.next(); f != nil {
			s.execute(f)
			continue
		}

		select {
		case <-stopCh:
			return
		case <-s.wakeCh:
		case <-time.After(idleWait):
		}
	}
}

// next dequeues the oldest ready fiber and moves it into the running
// set, or returns nil when the queue is empty.
func (s *Scheduler) next() *fiber.Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ready) == 0 {
		return nil
	}

	f := s.ready[0]
	s.ready[0] = nil
	s.ready = s.ready[1:]
	s.running[f.ID()] = f
	return f
}

// execute runs a fiber synchronously and drops it from every tracked
// set once it is terminal. A fiber must never be left in the running
// set after finishing, or Active and WaitAll report phantom work.
func (s *Scheduler) execute(f *fiber.Fiber) {
	err := f.Start()

	s.mu.Lock()
	delete(s.running, f.ID())
	delete(s.waiting, f.ID())
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("fiber not startable", "fiber_id", f.ID(), "error", err)
		return
	}
	if f.State() == fiber.StateError {
		s.logger.Error("fiber failed", "fiber_id", f.ID(), "error", f.Err())
	}
}

// Block marks a running fiber as waiting for the duration of op, which
// is expected to be a blocking operation such as a channel send or
// receive. The worker goroutine stays occupied; Block only keeps the
// tracked sets truthful about why. It is the hook a front-end's
// blocking builtins wrap around channel operations.
func (s *Scheduler) Block(f *fiber.Fiber, op func()) error {
	if err := f.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.running[f.ID()]; ok {
		delete(s.running, f.ID())
		s.waiting[f.ID()] = f
	}
	s.mu.Unlock()

	op()

	err := f.Resume()

	s.mu.Lock()
	if _, ok := s.waiting[f.ID()]; ok {
		delete(s.waiting, f.ID())
		s.running[f.ID()] = f
	}
	s.mu.Unlock()

	return err
}

// WaitAll blocks the caller until the ready queue, running set and
// waiting set are simultaneously empty. It polls on a short interval;
// this is an intentionally coarse join primitive, not an event-driven
// one.
func (s *Scheduler) WaitAll() {
	for {
		s.mu.Lock()
		idle := len(s.ready) == 0 && len(s.running) == 0 && len(s.waiting) == 0
		s.mu.Unlock()

		if idle {
			return
		}
		time.Sleep(waitAllPoll)
	}
}

// Active returns the point-in-time size of the running set.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// Total returns the point-in-time number of tracked fibers across the
// ready queue, running set and waiting set.
func (s *Scheduler) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ready) + len(s.running) + len(s.waiting)
}

// Roots returns the local values of every tracked fiber. Live fiber
// locals are part of the collector's root set.
func (s *Scheduler) Roots() []value.Value {
	s.mu.Lock()
	fibers := make([]*fiber.Fiber, 0, len(s.ready)+len(s.running)+len(s.waiting))
	fibers = append(fibers, s.ready...)
	for _, f := range s.running {
		fibers = append(fibers, f)
	}
	for _, f := range s.waiting {
		fibers = append(fibers, f)
	}
	s.mu.Unlock()

	var roots []value.Value
	for _, f := range fibers {
		roots = append(roots, f.LocalValues()...)
	}
	return roots
}
