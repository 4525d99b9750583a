// Copyright © 2024 The jvs/peg Authors.

package compile

import "github.com/jvs/peg/expr"

// scope is the compile-time lexical environment threaded through
// evaluate: a chain of binding frames for template parameters, adapted
// from runtime/symtable.go's Scope/ScopeTree (a parent-linked chain
// searched outward on miss). Unlike that package's mutable tag tables,
// a scope here is an immutable snapshot extended by pushing a new frame
// — evaluating a template invocation or a nested template body never
// needs to mutate an enclosing frame.
//
// let-bound names are deliberately NOT tracked here: `let NAME = EXPR in
// BODY` compiles to a runtime expr.LetExpr/expr.Ref pair (§4.2), so a
// name bound by `let` resolves dynamically via Context.Lookup at parse
// time, not by substitution here at compile time. Only template
// parameters are resolved at this layer, because template invocation
// really is a compile-time substitution (§4.6): "the template body is
// re-evaluated in the extended environment, yielding a fresh expression
// tree."
type scope struct {
	parent   *scope
	bindings map[string]expr.Expression
}

// lookup searches this frame and its ancestors for name, returning the
// bound compile-time expression (a template argument) if found.
func (s *scope) lookup(name string) (expr.Expression, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// push extends the scope with a new frame of template-parameter bindings.
func (s *scope) push(bindings map[string]expr.Expression) *scope {
	return &scope{parent: s, bindings: bindings}
}

// letScope additionally tracks which names are *lexically* bound by an
// enclosing `let` at the point a NameNode is evaluated, purely so
// evaluate can tell a `let`-local reference (-> expr.NewLocalRef) apart
// from a top-level rule reference (-> expr.NewRuleRef, patched later).
// It shares the same parent-chain shape as scope but is kept as a
// separate, simpler set rather than folded into scope's bindings map,
// since a let-binding carries no compile-time value to substitute — only
// the fact that the name resolves dynamically via the parse-time Context.
type letScope struct {
	parent *letScope
	name   string
}

func (s *letScope) has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.name == name {
			return true
		}
	}
	return false
}

func (s *letScope) push(name string) *letScope {
	return &letScope{parent: s, name: name}
}
