// Copyright © 2024 The jvs/peg Authors.

package compile

import "github.com/jvs/peg/expr"

// children returns e's immediate structural operands, stopping at rule-call
// boundaries: *expr.Ref has no case here (falls through to the default nil),
// so a walk built on top of children never wanders from one rule's body into
// another's. containsCommit and threadSkipIgnored both rely on that to stay
// scoped to a single rule/token/class body.
func children(e expr.Expression) []expr.Expression {
	switch v := e.(type) {
	case *expr.Rule:
		return []expr.Expression{v.Body}
	case *expr.Class:
		return []expr.Expression{v.Body}
	case *expr.TokenClass:
		return []expr.Expression{v.Inner}
	case *expr.Recover:
		return v.Branches()
	case *expr.Left:
		return []expr.Expression{v.A, v.B}
	case *expr.Right:
		return []expr.Expression{v.A, v.B}
	case *expr.Apply:
		return []expr.Expression{v.A, v.B}
	case *expr.Expect:
		return []expr.Expression{v.Inner}
	case *expr.ExpectNot:
		return []expr.Expression{v.Inner}
	case *expr.Where:
		return []expr.Expression{v.Inner}
	case *expr.Commit:
		return []expr.Expression{v.Inner}
	case *expr.Checkpoint:
		return []expr.Expression{v.Inner}
	case *expr.LetExpr:
		return []expr.Expression{v.Value, v.Body}
	case *expr.List:
		return []expr.Expression{v.Inner}
	case *expr.Alt:
		return []expr.Expression{v.Item, v.Sep}
	case *expr.Opt:
		return []expr.Expression{v.Inner}
	case *expr.Skip:
		return append([]expr.Expression(nil), v.Items...)
	case *expr.Seq:
		return append([]expr.Expression(nil), v.Items...)
	case *expr.Choice:
		return append([]expr.Expression(nil), v.Alts...)
	case *expr.OpPrec:
		out := make([]expr.Expression, 0, len(v.Levels)+1)
		out = append(out, v.Atom)
		for _, lvl := range v.Levels {
			out = append(out, lvl.Operand())
		}
		return out
	default:
		return nil
	}
}

// containsCommit reports whether e transitively contains a Commit node
// without crossing a rule-call (*expr.Ref) boundary — the structural test
// the compiler runs over every rule/class/token body to decide whether it
// needs Checkpoint wrapping (§4.2's "past this point ... failure should not
// cause outer backtracking" only applies within the rule a `!` appears in).
func containsCommit(e expr.Expression) bool {
	switch e.(type) {
	case *expr.Commit:
		return true
	case *expr.Ref:
		return false
	}
	for _, child := range children(e) {
		if containsCommit(child) {
			return true
		}
	}
	return false
}

// threadSkipIgnored marks every StrLit/RegexLit leaf reachable within e
// (again without crossing a Ref boundary — the referenced rule threads its
// own leaves independently, and `ignored` rules are never threaded at all)
// so each literal match greedily consumes `ignored` afterward (§4.1).
func threadSkipIgnored(e expr.Expression, ignored expr.Expression) {
	switch v := e.(type) {
	case *expr.StrLit:
		v.SkipIgnored = true
		v.Ignored = ignored
		return
	case *expr.RegexLit:
		v.SkipIgnored = true
		v.Ignored = ignored
		return
	case *expr.Ref:
		return
	}
	for _, child := range children(e) {
		threadSkipIgnored(child, ignored)
	}
}

// AssignProgramIDs renumbers every expression reachable from env's
// top-level names in a deterministic pre-order (§4.7: "ids assigned in a
// deterministic order so two compiles of the same source produce identical
// self-descriptions"), following Ref.Resolved across rule-call boundaries
// this time (unlike children's callers above) since every rule in the
// grammar needs a stable id, not just the ones reachable while staying
// inside one rule body. A visited set breaks the cycles mutual recursion
// between rules would otherwise cause.
func AssignProgramIDs(env *Env) {
	next := 0
	visited := make(map[expr.Expression]bool)
	var walk func(e expr.Expression)
	walk = func(e expr.Expression) {
		if e == nil || visited[e] {
			return
		}
		visited[e] = true
		expr.SetProgramID(e, next)
		next++
		if ref, ok := e.(*expr.Ref); ok {
			walk(ref.Resolved)
			return
		}
		for _, child := range children(e) {
			walk(child)
		}
	}
	for _, name := range env.Names() {
		if obj, ok := env.Rule(name); ok {
			walk(obj)
		}
	}
}
