// SPDX-License-Identifier: MPL-2.0

package args

import (
	"math"
	"strconv"
)

const (
	// KindString is a value kept verbatim as text.
	KindString Kind = iota
	// KindNumber is a value that parsed as a finite number.
	KindNumber
	// KindBool is either an explicit "true"/"false" or an implicit switch.
	KindBool
)

type (
	// Kind identifies which scalar a Value holds.
	Kind int

	// Value is a normalized flag value: a number, a boolean or a string.
	// The zero value is the empty string.
	Value struct {
		kind Kind
		num  float64
		b    bool
		str  string
	}
)

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ParseScalar converts a raw token into a Value. A token that parses as a
// finite number becomes a number, the literals "true" and "false" become
// booleans and anything else is kept as a string.
func ParseScalar(token string) Value {
	if f, err := strconv.ParseFloat(token, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}

	switch token {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	return String(token)
}

// Kind returns the scalar kind held by v.
func (v Value) Kind() Kind { return v.kind }

// AsNumber returns the numeric payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// Truthy reports whether v enables a switch: boolean true, a non-zero
// number, or a non-empty string other than "false".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	default:
		return v.str != "" && v.str != "false"
	}
}

// String renders v the way it would have been written on the command line.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.str
	}
}
