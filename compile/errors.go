// Copyright © 2024 The jvs/peg Authors.

package compile

import "fmt"

// GrammarError reports a compile-time defect in grammar source: an
// undefined reference, a duplicate rule name, a malformed `start`, or a
// `recover` targeting an unknown rule (§7).
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string { return e.Message }

func errorf(format string, args ...interface{}) *GrammarError {
	return &GrammarError{Message: fmt.Sprintf(format, args...)}
}
