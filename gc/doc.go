// Package gc implements a tracked-allocation registry with
// mark-and-sweep reclamation.
//
// The collector does not manage Go memory; it tracks the runtime's own
// notion of allocations (channels, and anything an embedder registers)
// by opaque UUID handle and byte size. A collection clears every mark
// bit, walks the real root set (the global table and every live
// fiber's locals, supplied by RootSource implementations), follows
// channel handles embedded in Values transitively through buffered
// contents, and sweeps every entry left unmarked. Registration beyond
// the configured byte threshold triggers a collection immediately.
package gc
