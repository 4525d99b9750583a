// Copyright © 2024 The jvs/peg Authors.

package driver

import "fmt"

// ParseError reports that no alternative consumed the input at Pos, the
// farthest point any expression failed (§6.3, §7). Message is produced by
// whichever terminal contributed that farthest failure.
type ParseError struct {
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at byte %d)", e.Message, e.Pos)
}

// InternalError reports an evaluator invariant violation that should
// never occur in a correctly-compiled grammar — a memo collision on two
// distinct results for the same key (§7) — or a parse aborted because its
// context was cancelled or its deadline passed.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return "internal parser error: " + e.Reason
}
