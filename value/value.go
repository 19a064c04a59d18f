package value

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Kind identifies the active alternative of a Value.
type Kind int

const (
	// KindNull is the absent/null alternative and the zero Value.
	KindNull Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindInt holds a 64-bit signed integer.
	KindInt
	// KindFloat holds a 64-bit float.
	KindFloat
	// KindText holds UTF-8 text.
	KindText
	// KindChannel holds a shared channel handle.
	KindChannel
)

// String returns the canonical type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "string"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// ChannelHandle is the view of a channel that a Value carries. It is an
// interface rather than a concrete type so that the channel package can
// depend on value and not the other way around; it also gives the
// collector the surface it needs to trace channels embedded in Values.
type ChannelHandle interface {
	// ID returns the stable identity of the channel. Handles to the
	// same channel share an ID; equality of handles is identity.
	ID() uuid.UUID

	// Buffered returns a point-in-time copy of the queued values.
	Buffered() []Value

	// Closed reports whether the channel has been closed.
	Closed() bool
}

// TypeError reports a projection of a Value to an inactive alternative.
type TypeError struct {
	Want Kind // Alternative requested by the caller
	Got  Kind // Alternative actually held
}

// Error implements the error interface for TypeError.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch: value holds %s, not %s", e.Got, e.Want)
}

// Value is an immutable snapshot of a runtime value. The zero Value is
// null. Copies never mutate the source.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	ch   ChannelHandle
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int constructs an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float constructs a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text constructs a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Chan constructs a Value holding a channel handle. A nil handle
// yields the null Value.
func Chan(ch ChannelHandle) Value {
	if ch == nil {
		return Value{}
	}
	return Value{kind: KindChannel, ch: ch}
}

// Kind returns the active alternative.
func (v Value) Kind() Kind { return v.kind }

// TypeName returns the canonical name of the active alternative.
func (v Value) TypeName() string { return v.kind.String() }

// IsNull reports whether the null alternative is active.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBool reports whether the bool alternative is active.
func (v Value) IsBool() bool { return v.kind == KindBool }

// IsInt reports whether the int alternative is active.
func (v Value) IsInt() bool { return v.kind == KindInt }

// IsFloat reports whether the float alternative is active.
func (v Value) IsFloat() bool { return v.kind == KindFloat }

// IsText reports whether the text alternative is active.
func (v Value) IsText() bool { return v.kind == KindText }

// IsChannel reports whether the channel alternative is active.
func (v Value) IsChannel() bool { return v.kind == KindChannel }

// AsBool projects the bool alternative. A wrong-alternative projection
// returns a *TypeError, never panics.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, &TypeError{Want: KindBool, Got: v.kind}
	}
	return v.b, nil
}

// AsInt projects the int alternative.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, &TypeError{Want: KindInt, Got: v.kind}
	}
	return v.i, nil
}

// AsFloat projects the float alternative.
func (v Value) AsFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, &TypeError{Want: KindFloat, Got: v.kind}
	}
	return v.f, nil
}

// AsText projects the text alternative.
func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", &TypeError{Want: KindText, Got: v.kind}
	}
	return v.s, nil
}

// AsChannel projects the channel alternative.
func (v Value) AsChannel() (ChannelHandle, error) {
	if v.kind != KindChannel {
		return nil, &TypeError{Want: KindChannel, Got: v.kind}
	}
	return v.ch, nil
}

// String renders the value as text. Booleans render as "true"/"false",
// numbers via standard decimal formatting, and channel handles as the
// fixed placeholder "channel" rather than their contents.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Equal reports structural equality. Values of different alternatives
// are never equal (no numeric coercion between int and float); channel
// alternatives compare by handle identity, not by queue contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindText:
		return v.s == o.s
	case KindChannel:
		return v.ch == o.ch
	default:
		return false
	}
}
