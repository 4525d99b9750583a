/*
Package tree implements the parse-tree value types a compiled grammar's
expressions build on a successful match: named-field Records (one per
`class` rule), the generic Infix/Prefix/Postfix operator nodes produced by
operator-precedence climbing, and flat Lists.

Node equality is structural over field values (§3.2), computed with
structhash rather than a hand-written comparator per record shape.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The jvs/peg Authors.

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'peg.tree'.
func tracer() tracing.Trace {
	return tracing.Select("peg.tree")
}
