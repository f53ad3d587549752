package engine

import "errors"

// Errors produced while evaluating expressions and running a plan. These
// correspond to spec.md §7's "TypeError", "DivisionByZero", and the
// checked-overflow option it leaves as an open question (§9, resolved here
// in favor of a surfaced error over silent wrap-around).
var (
	ErrTypeError       = errors.New("engine: type error")
	ErrDivisionByZero  = errors.New("engine: division by zero")
	ErrIntegerOverflow = errors.New("engine: integer overflow")
)
