package expr

import "fmt"

// Rule is a named top-level parse entry. It is the thing a non-local Ref's
// Resolved field points to, and the thing memoized by (Rule, pos) in the
// driver — its pointer identity is the memo key.
//
// Template parameterization (spec.md §3.1: "when params present, acts as
// a template parameterized by sub-expressions") is resolved entirely at
// grammar-compile time in this implementation: a `template` definition is
// a compile-time Go closure over candidate argument expressions (see
// compile/template.go), never a runtime Rule value with unresolved
// parameters. This follows original_source/sourcer/metasyntax.py, where
// `Template.evaluate` produces a plain Python function, not a Struct/Expr
// instance — templates are fully expanded by the time compilation
// finishes, so Rule itself never carries params.
type Rule struct {
	base
	Name      string
	Body      Expression
	IsIgnored bool
}

// NewRule registers a named rule.
func NewRule(name string, body Expression, isIgnored bool) *Rule {
	return &Rule{base: newBase(), Name: name, Body: body, IsIgnored: isIgnored}
}

func (r *Rule) AlwaysSucceeds() bool { return r.Body.AlwaysSucceeds() }
func (r *Rule) String() string       { return r.Name }
func (r *Rule) Eval(ctx *Context, pos int) Step {
	return r.Body.Eval(ctx, pos)
}

// Class is a record-producing rule: like Rule, its Body is ordinarily a
// Seq carrying field names (so a successful parse builds a tree.Record
// rather than a flat list), but the compiler may wrap that Seq in a
// Checkpoint when the class body transitively contains a Commit — hence
// Body's type is the general Expression interface rather than *Seq.
type Class struct {
	base
	Name      string
	Body      Expression
	IsIgnored bool
}

// NewClass registers a `class` rule.
func NewClass(name string, body *Seq, isIgnored bool) *Class {
	return &Class{base: newBase(), Name: name, Body: body, IsIgnored: isIgnored}
}

func (c *Class) AlwaysSucceeds() bool { return c.Body.AlwaysSucceeds() }
func (c *Class) String() string       { return c.Name }
func (c *Class) Eval(ctx *Context, pos int) Step {
	return c.Body.Eval(ctx, pos)
}

// TokenClass marks a rule whose successful result should be recorded as a
// token contributing to the `_ignored` sink when IsIgnored is set (§3.1,
// §4.6 step 5).
type TokenClass struct {
	base
	Inner     Expression
	IsIgnored bool
}

// NewTokenClass wraps inner as a token definition.
func NewTokenClass(inner Expression, isIgnored bool) *TokenClass {
	return &TokenClass{base: newBase(), Inner: inner, IsIgnored: isIgnored}
}

func (t *TokenClass) AlwaysSucceeds() bool { return t.Inner.AlwaysSucceeds() }
func (t *TokenClass) String() string       { return t.Inner.String() }
func (t *TokenClass) Eval(ctx *Context, pos int) Step {
	return t.Inner.Eval(ctx, pos)
}

// Recover wraps a rule's original body together with alternative branches
// registered by `recover` definitions; each alternative is tried, in
// registration order, only if the original body fails (§4.6 step 4).
// Internally this is an ordered Choice so farthest-failure tracking is
// shared with Choice's own semantics — including the Commit/Checkpoint
// dead-end rule: if the original body fails past a `!` inside it, the
// recovery alternatives are not tried either. Nothing in spec.md carves
// out an exception for `recover`, and a `!` inside a recovered rule reads
// most naturally as still meaning "no point trying anything else here."
type Recover struct {
	base
	choice *Choice
}

// NewRecover wraps primary with zero or more recovery alternatives.
func NewRecover(primary Expression, alternatives ...Expression) *Recover {
	return &Recover{base: newBase(), choice: NewChoice(append([]Expression{primary}, alternatives...)...)}
}

// AddRecovery appends another alternative branch, tried after all
// previously registered ones.
func (r *Recover) AddRecovery(alt Expression) {
	r.choice.Alts = append(r.choice.Alts, alt)
}

func (r *Recover) AlwaysSucceeds() bool { return r.choice.AlwaysSucceeds() }
func (r *Recover) String() string       { return fmt.Sprintf("recover(%s)", r.choice) }
func (r *Recover) Eval(ctx *Context, pos int) Step {
	return r.choice.Eval(ctx, pos)
}

// Branches exposes the primary body and recovery alternatives in
// registration order, for the compiler's structural Commit-detection
// walk (compile.containsCommit).
func (r *Recover) Branches() []Expression { return r.choice.Alts }
