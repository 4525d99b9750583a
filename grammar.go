// Copyright © 2024 The jvs/peg Authors.

package peg

import (
	"context"

	"github.com/jvs/peg/compile"
	"github.com/jvs/peg/driver"
)

// Grammar is a compiled grammar, ready to parse input text.
type Grammar struct {
	env *compile.Env
}

// CompileGrammar compiles grammar source text into a Grammar (§4.6).
// Pass compile.WithUTF8Positions (or other compile.Option values) to
// change how the resulting Grammar reports positions; it never changes
// what the grammar matches.
func CompileGrammar(source string, opts ...compile.Option) (*Grammar, error) {
	env, err := compile.Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return &Grammar{env: env}, nil
}

// Parse runs the grammar's `start` rule against text from position 0,
// following every reference through to completion. The context, if it
// carries a deadline, aborts the trampoline loop partway through with an
// *InternalError (§5).
func (g *Grammar) Parse(ctx context.Context, text string) (interface{}, error) {
	return g.ParseRule(ctx, "start", text)
}

// ParseRule runs a named top-level rule against text from position 0,
// letting a caller exercise a sub-rule directly rather than the whole
// grammar's `start` — useful for grammars that describe several
// independent top-level productions.
func (g *Grammar) ParseRule(ctx context.Context, name string, text string) (interface{}, error) {
	rule, ok := g.env.Rule(name)
	if !ok {
		return nil, &compile.GrammarError{Message: "no such rule: " + name}
	}
	return driver.Run(ctx, text, rule, 0)
}

// RunePosition translates a byte offset, such as a *driver.ParseError's
// Pos field, into a rune count, when the grammar was compiled with
// compile.WithUTF8Positions; it returns bytePos unchanged otherwise.
func (g *Grammar) RunePosition(text string, bytePos int) int {
	return g.env.RunePosition(text, bytePos)
}

// Names returns every top-level rule, class, and token name declared in
// the grammar, in declaration order.
func (g *Grammar) Names() []string {
	return g.env.Names()
}
