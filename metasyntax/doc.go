// Copyright © 2024 The jvs/peg Authors.

// Package metasyntax is the hand-built, bootstrapped parser for grammar
// source text (§4.5): a fixed lexmachine-based lexer plus a
// recursive-descent/precedence-climbing parser that turns grammar source
// into a list of definitions (ast.go). It is hand-built rather than
// generated because it is what makes the engine's own grammar-compiling
// machinery possible in the first place — it cannot be expressed as a
// grammar compiled by the very engine it bootstraps.
//
// This is a deliberately different dependency choice than expr's runtime
// terminal matchers (leaf.go's RegexLit, which re-anchors a stdlib regexp
// at a dynamic byte offset on every packrat attempt): the
// meta-grammar's lexer tokenizes the whole input exactly once, up front,
// which is precisely the access pattern lexmachine's compiled DFA is
// built for.
package metasyntax

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("peg.metasyntax")
}
