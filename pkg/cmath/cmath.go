// Package cmath provides overflow-trapping arithmetic for monetary
// values. Every custody balance is manipulated through these helpers;
// an operation whose result does not fit its type aborts the executing
// instruction instead of wrapping silently.
package cmath

import "errors"

// ErrOverflow is the root cause carried by every arithmetic fault.
var ErrOverflow = errors.New("arithmetic overflow")

// Fault is the panic value raised by a trapped operation. Entrypoints
// recover it at the dispatch boundary; nothing else should.
type Fault struct {
	Op string
}

func (f Fault) Error() string { return "cmath: " + f.Op + ": overflow" }

func (f Fault) Unwrap() error { return ErrOverflow }

func trap(op string) {
	panic(Fault{Op: op})
}

// Add returns a+b, trapping on overflow.
func Add(a, b uint64) uint64 {
	s := a + b
	if s < a {
		trap("add")
	}
	return s
}

// Sub returns a-b, trapping on underflow.
func Sub(a, b uint64) uint64 {
	if b > a {
		trap("sub")
	}
	return a - b
}

// Mul returns a*b, trapping on overflow.
func Mul(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	p := a * b
	if p/a != b {
		trap("mul")
	}
	return p
}

// Div returns a/b, trapping on division by zero.
func Div(a, b uint64) uint64 {
	if b == 0 {
		trap("div")
	}
	return a / b
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// AddI returns a+b for signed timestamps and durations, trapping on
// overflow in either direction.
func AddI(a, b int64) int64 {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		trap("addi")
	}
	return s
}
