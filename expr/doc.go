/*
Package expr implements the expression algebra: a closed set of combinator
nodes (sequence, choice, repetition, lookahead, operator-precedence
climbing, references, terminal matchers) that forms the intermediate
representation every compiled grammar lowers to.

Evaluation is CPS-shaped rather than recursive: every Expression's Eval
method returns a Step, which is either a final outcome or a suspended
continuation requesting that a named rule be parsed at a given position.
The driver package trampolines through suspended Steps; everything else
(Seq, Choice, List, ...) chains sub-evaluations together with the Then
helper and ordinary Go recursion.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The jvs/peg Authors.

*/
package expr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'peg.expr'.
func tracer() tracing.Trace {
	return tracing.Select("peg.expr")
}
