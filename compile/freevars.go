// Copyright © 2024 The jvs/peg Authors.

package compile

import "github.com/jvs/peg/expr"

// freeVars returns the names of every local (`let`-bound) reference
// reachable in e that is not bound by an enclosing *expr.LetExpr within e
// itself, stopping at rule-call boundaries like children does. An already
// fully-evaluated expression tree (as produced by evaluate) only ever
// contains *expr.Ref with IsLocal true for names still lexically in scope
// at the point the tree was built — freeVars reports which of those names
// e still depends on once removed from that context, e.g. once spliced
// into a template body elsewhere.
func freeVars(e expr.Expression) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(e expr.Expression, bound map[string]bool)
	walk = func(e expr.Expression, bound map[string]bool) {
		switch v := e.(type) {
		case *expr.Ref:
			if v.IsLocal && !bound[v.Name] && !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
			return
		case *expr.LetExpr:
			walk(v.Value, bound)
			inner := make(map[string]bool, len(bound)+1)
			for k := range bound {
				inner[k] = true
			}
			inner[v.Name] = true
			walk(v.Body, inner)
			return
		}
		for _, child := range children(e) {
			walk(child, bound)
		}
	}
	walk(e, nil)
	return out
}
