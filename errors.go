// Copyright © 2024 The jvs/peg Authors.

package peg

import (
	"github.com/jvs/peg/compile"
	"github.com/jvs/peg/driver"
)

// GrammarError, ParseError, and InternalError are aliased here so callers
// of this package's facade never need to import compile or driver
// directly just to type-assert an error CompileGrammar or Grammar.Parse
// returned.
type (
	// GrammarError reports a compile-time defect in grammar source (§7):
	// an undefined reference, a duplicate rule name, a malformed `start`,
	// or a `recover` targeting an unknown rule.
	GrammarError = compile.GrammarError

	// ParseError reports that no alternative consumed the input, at the
	// farthest point any expression failed (§6.3, §7).
	ParseError = driver.ParseError

	// InternalError reports an evaluator invariant violation that should
	// never occur against a correctly-compiled grammar, or a parse
	// aborted by a context deadline (§5).
	InternalError = driver.InternalError
)
