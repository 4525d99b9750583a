// Copyright © 2024 The jvs/peg Authors.

// Package compile lowers a metasyntax definition AST into bound
// expression-algebra values (§4.6): resolving references, synthesizing
// the `_ignored` skip sink, threading skip_ignored into every terminal,
// deciding which rules need a Checkpoint barrier, and expanding template
// invocations. Its output is an Env, the ordered `name -> Expression`
// mapping §3.3 describes, ready for driver.Run.
package compile

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("peg.compile")
}
