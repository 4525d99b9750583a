/*
Package main provides pegrepl, an interactive command line tool for
trying out a grammar written in the peg meta-language. It compiles a
grammar file once, then repeatedly parses whatever line a user types
against that grammar, printing the resulting tree or the farthest parse
error. pegrepl is a thin sandbox, not a conformance harness — see
SPEC_FULL.md's Non-goals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The jvs/peg Authors.
*/
package main

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("peg.pegrepl")
}
