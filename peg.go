/*
Package peg is a packrat parsing-expression-grammar engine.

It compiles a small meta-grammar language (see package metasyntax and
compile) into an executable expression tree (see package expr), and drives
that tree against input text with a non-recursive, memoizing trampoline
(see package driver). Package structure is as follows:

■ expr: Package expr implements the expression algebra — the closed set
of combinators a compiled grammar is built from.

■ metasyntax: Package metasyntax lexes and parses the grammar meta-language
itself.

■ compile: Package compile lowers a parsed grammar into a bound expr.Expression
tree, resolving references, expanding templates, and threading ignored tokens.

■ driver: Package driver runs a compiled grammar's start rule against input
text.

■ tree: Package tree provides the node types grammar actions build
(Record, Infix, Prefix, Postfix); field-less sequences and repetitions
build plain []interface{} lists.

This top-level package ties those together into a single entry point,
CompileGrammar, and a Grammar facade for running a compiled grammar
repeatedly against different input.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The jvs/peg Authors.
*/
package peg
