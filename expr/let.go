package expr

import "fmt"

// Ref is a reference to a name: either a local binding introduced by a
// `let` at parse time (IsLocal == true), or a top-level rule resolved at
// grammar-compile time (IsLocal == false, Resolved set).
//
// Template-parameter references are *not* represented by a runtime Ref at
// all: template invocation is a pure compile-time substitution (see
// compile/template.go) that replaces every reference to a parameter name
// with the caller's argument expression before the grammar ever runs.
type Ref struct {
	base
	Name     string
	IsLocal  bool
	Resolved Expression // set by the compiler once the referenced rule is known
}

// NewLocalRef builds a reference to a `let`-bound name.
func NewLocalRef(name string) *Ref {
	return &Ref{base: newBase(), Name: name, IsLocal: true}
}

// NewRuleRef builds an (initially unresolved) reference to a top-level
// rule name; the compiler fills in Resolved during reference resolution.
func NewRuleRef(name string) *Ref {
	return &Ref{base: newBase(), Name: name, IsLocal: false}
}

func (r *Ref) AlwaysSucceeds() bool {
	if r.IsLocal {
		return true
	}
	if r.Resolved != nil {
		return r.Resolved.AlwaysSucceeds()
	}
	return false
}

func (r *Ref) String() string { return r.Name }

func (r *Ref) Eval(ctx *Context, pos int) Step {
	if r.IsLocal {
		val, ok := ctx.Lookup(r.Name)
		if !ok {
			return FailStep(func(text string, p int) string {
				return fmt.Sprintf("Undefined local binding %q.", r.Name)
			}, pos)
		}
		return Succeed(val, pos)
	}
	if r.Resolved == nil {
		return FailStep(func(text string, p int) string {
			return fmt.Sprintf("Undefined rule %q.", r.Name)
		}, pos)
	}
	return Step{Kind: CallKind, Target: r.Resolved, At: pos, Resume: func(s Step) Step { return s }}
}

// LetExpr binds Name to the successful result of Value, then evaluates
// Body with that binding visible via local Refs (§3.1, §4.2).
type LetExpr struct {
	base
	Name  string
	Value Expression
	Body  Expression
}

// NewLetExpr builds a `let`-binding expression.
func NewLetExpr(name string, value, body Expression) *LetExpr {
	return &LetExpr{base: newBase(), Name: name, Value: value, Body: body}
}

func (l *LetExpr) AlwaysSucceeds() bool { return false }
func (l *LetExpr) String() string {
	return fmt.Sprintf("let %s = %s in %s", l.Name, l.Value, l.Body)
}

func (l *LetExpr) Eval(ctx *Context, pos int) Step {
	return Then(l.Value.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return r
		}
		extended := ctx.WithLocal(l.Name, r.Result)
		return l.Body.Eval(extended, r.Pos)
	})
}
