package fiber

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aqualang/aquart/value"
)

// State is a fiber's position in its lifecycle state machine.
type State int32

const (
	// StateReady means the fiber is queued and has not started.
	StateReady State = iota
	// StateRunning means the body is executing on a worker.
	StateRunning
	// StateWaiting means the fiber is parked on a blocking operation.
	StateWaiting
	// StateFinished means the body returned normally. Terminal.
	StateFinished
	// StateError means the body panicked or was failed. Terminal.
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// TransitionError reports an invalid state transition, such as resuming
// a fiber that is not waiting. Transitions are validated and reported
// rather than silently ignored; the error is non-fatal to the process.
type TransitionError struct {
	ID   uint64
	From State
	To   State
}

// Error implements the error interface for TransitionError.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("fiber %d: invalid transition %s -> %s", e.ID, e.From, e.To)
}

var nextID atomic.Uint64

// Fiber is a single unit of work with private local storage. All
// methods are safe for concurrent use.
type Fiber struct {
	id   uint64
	body func()

	mu     sync.RWMutex
	state  State
	err    error
	locals map[string]value.Value
}

// New creates a Ready fiber wrapping body, assigning the next id in
// the process-wide monotonic sequence. A nil body finishes immediately
// when started.
func New(body func()) *Fiber {
	if body == nil {
		body = func() {}
	}
	return &Fiber{
		id:    nextID.Add(1),
		body:  body,
		state: StateReady,
	}
}

// ID returns the fiber's identifier.
func (f *Fiber) ID() uint64 { return f.id }

// State returns the current lifecycle state.
func (f *Fiber) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Finished reports whether the fiber reached a terminal state.
func (f *Fiber) Finished() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state == StateFinished || f.state == StateError
}

// Err returns the failure recorded when the fiber entered StateError,
// or nil.
func (f *Fiber) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// transition moves from -> to, returning a *TransitionError when the
// fiber is not in the expected source state.
func (f *Fiber) transition(from, to State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != from {
		return &TransitionError{ID: f.id, From: f.state, To: to}
	}
	f.state = to
	return nil
}

// Start transitions Ready -> Running and executes the body to
// completion on the calling goroutine. A normal return transitions to
// Finished; a panicking body is recovered, recorded, and transitions
// to Error so a misbehaving fiber never takes its worker down. Start
// is only valid from Ready.
func (f *Fiber) Start() error {
	if err := f.transition(StateReady, StateRunning); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			f.Fail(fmt.Errorf("fiber %d: body panic: %v", f.id, r))
			return
		}
		f.mu.Lock()
		f.state = StateFinished
		f.mu.Unlock()
	}()

	f.body()
	return nil
}

// Yield transitions Running -> Ready, recording that the fiber gave up
// its worker voluntarily.
func (f *Fiber) Yield() error {
	return f.transition(StateRunning, StateReady)
}

// Wait transitions Running -> Waiting, parking the fiber on a blocking
// operation.
func (f *Fiber) Wait() error {
	return f.transition(StateRunning, StateWaiting)
}

// Resume transitions Waiting -> Running after the blocking operation
// completed.
func (f *Fiber) Resume() error {
	return f.transition(StateWaiting, StateRunning)
}

// Finish forces the fiber into the terminal Finished state from any
// state.
func (f *Fiber) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFinished
}

// Fail moves the fiber into the terminal Error state from any state,
// recording err.
func (f *Fiber) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateError
	f.err = err
}

// SetLocal stores a value in the fiber's private local storage.
func (f *Fiber) SetLocal(key string, v value.Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locals == nil {
		f.locals = make(map[string]value.Value)
	}
	f.locals[key] = v
}

// Local returns the value stored under key. An absent key reports
// ok=false, never an error.
func (f *Fiber) Local(key string) (value.Value, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.locals[key]
	return v, ok
}

// LocalValues returns a snapshot of every stored local value. The
// collector treats a live fiber's locals as GC roots.
func (f *Fiber) LocalValues() []value.Value {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.locals) == 0 {
		return nil
	}
	out := make([]value.Value, 0, len(f.locals))
	for _, v := range f.locals {
		out = append(out, v)
	}
	return out
}
