// Copyright © 2024 The jvs/peg Authors.

// Package driver implements the trampolined, packrat-memoized parse loop
// (§4.4): a single control thread drives expr.Step suspensions to
// completion using an explicit heap-allocated stack rather than the host
// call stack, so parse depth is bounded by input size and grammar size,
// not by Go goroutine stack growth.
//
// Every expr.Expression.Eval call either finishes immediately (a Done
// Step) or suspends on a CALL to some other rule at some other position
// (a CallKind Step carrying a Resume continuation). Run repeatedly
// resumes the top-of-stack frame with whatever result its pending call
// produced, pushing a new frame whenever that call itself suspends, and
// popping a frame (and recording its outcome in the memo table) whenever
// it finishes. This is the same shape as the original's generator/stack
// trampoline, with expr.Step's Resume closure standing in for the
// generator object a language with native coroutines would use (see
// expr/doc.go).
package driver

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("peg.driver")
}
