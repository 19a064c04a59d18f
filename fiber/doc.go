// Package fiber defines the unit of cooperative work scheduled by the
// worker pool.
//
// A Fiber owns a monotonically increasing identifier, an explicit
// state machine (Ready, Running, Waiting, Finished, Error), the work
// body, and private string-keyed local storage. Fibers are executed as
// thread-pool-backed tasks: Start runs the body to completion on the
// calling goroutine, and a body that blocks on a channel occupies its
// worker for the duration. Wait and Resume are the validated state
// surface used by scheduler.Block around such blocking operations.
package fiber
