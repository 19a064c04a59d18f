// Package value defines the closed set of runtime-representable values
// exchanged between fibers, channels and the global table.
//
// A Value is an immutable tagged union over null, bool, int, float,
// string and channel-handle alternatives. Exactly one alternative is
// active at a time; projecting to the wrong alternative is a reported
// *TypeError, never undefined behavior.
package value
