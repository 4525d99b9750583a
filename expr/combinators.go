package expr

import "fmt"

// Left parses A then B, keeping A's result and discarding B's (`a << b`).
type Left struct {
	base
	A, B Expression
}

// NewLeft builds `a << b`.
func NewLeft(a, b Expression) *Left { return &Left{base: newBase(), A: a, B: b} }

func (l *Left) AlwaysSucceeds() bool { return l.A.AlwaysSucceeds() && l.B.AlwaysSucceeds() }
func (l *Left) String() string       { return fmt.Sprintf("%s << %s", l.A, l.B) }

func (l *Left) Eval(ctx *Context, pos int) Step {
	return Then(l.A.Eval(ctx, pos), func(ra Step) Step {
		if !ra.Status {
			return ra
		}
		kept := ra.Result
		return Then(l.B.Eval(ctx, ra.Pos), func(rb Step) Step {
			if !rb.Status {
				return rb
			}
			return Succeed(kept, rb.Pos)
		})
	})
}

// Right parses A then B, discarding A's result and keeping B's (`a >> b`).
type Right struct {
	base
	A, B Expression
}

// NewRight builds `a >> b`.
func NewRight(a, b Expression) *Right { return &Right{base: newBase(), A: a, B: b} }

func (r *Right) AlwaysSucceeds() bool { return r.A.AlwaysSucceeds() && r.B.AlwaysSucceeds() }
func (r *Right) String() string       { return fmt.Sprintf("%s >> %s", r.A, r.B) }

func (r *Right) Eval(ctx *Context, pos int) Step {
	return Then(r.A.Eval(ctx, pos), func(ra Step) Step {
		if !ra.Status {
			return ra
		}
		return r.B.Eval(ctx, ra.Pos)
	})
}

// Apply evaluates both operands; ApplyLeft=false ("|>") passes A's result
// to B's result as a function; ApplyLeft=true ("<|") passes B's result to
// A's result as a function. Per §9, callables are restricted to the small
// enumerated Constructor set (see seq.go) — a Transform wraps one.
type Apply struct {
	base
	A, B      Expression
	ApplyLeft bool
}

// NewApply builds `a |> b` (applyLeft=false) or `a <| b` (applyLeft=true).
func NewApply(a, b Expression, applyLeft bool) *Apply {
	return &Apply{base: newBase(), A: a, B: b, ApplyLeft: applyLeft}
}

func (a *Apply) AlwaysSucceeds() bool { return false }
func (a *Apply) String() string {
	op := "|>"
	if a.ApplyLeft {
		op = "<|"
	}
	return fmt.Sprintf("%s %s %s", a.A, op, a.B)
}

// Transform is a callable value produced by evaluating one side of an
// Apply; it is one of the small enumerated operations named in §9, never
// an arbitrary host closure supplied from outside the grammar.
type Transform func(arg interface{}) (interface{}, error)

func (a *Apply) Eval(ctx *Context, pos int) Step {
	return Then(a.A.Eval(ctx, pos), func(ra Step) Step {
		if !ra.Status {
			return ra
		}
		return Then(a.B.Eval(ctx, ra.Pos), func(rb Step) Step {
			if !rb.Status {
				return rb
			}
			var fn Transform
			var arg interface{}
			if a.ApplyLeft {
				fn, arg = asTransform(ra.Result), rb.Result
			} else {
				fn, arg = asTransform(rb.Result), ra.Result
			}
			if fn == nil {
				return FailStep(GenericError("callable operand of Apply is not a Transform"), rb.Pos)
			}
			result, err := fn(arg)
			if err != nil {
				return FailStep(func(text string, p int) string { return err.Error() }, rb.Pos)
			}
			return Succeed(result, rb.Pos)
		})
	})
}

func asTransform(v interface{}) Transform {
	if t, ok := v.(Transform); ok {
		return t
	}
	return nil
}

// Expect parses Inner then rewinds to pos regardless of outcome, keeping
// Inner's status (positive lookahead, `&e`).
type Expect struct {
	base
	Inner Expression
}

// NewExpect builds `&e`.
func NewExpect(inner Expression) *Expect { return &Expect{base: newBase(), Inner: inner} }

func (e *Expect) AlwaysSucceeds() bool { return e.Inner.AlwaysSucceeds() }
func (e *Expect) String() string       { return fmt.Sprintf("Expect(%s)", e.Inner) }

func (e *Expect) Eval(ctx *Context, pos int) Step {
	return Then(e.Inner.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return FailStep(asErrorFunc(r.Result), pos)
		}
		return Succeed(r.Result, pos)
	})
}

// ExpectNot parses Inner, always rewinds, and inverts the status
// (negative lookahead, `!e`-style in classic PEG notation; this module
// spells it ExpectNot to avoid colliding with the Commit `!` postfix).
type ExpectNot struct {
	base
	Inner Expression
}

// NewExpectNot builds negative lookahead over inner.
func NewExpectNot(inner Expression) *ExpectNot { return &ExpectNot{base: newBase(), Inner: inner} }

func (e *ExpectNot) AlwaysSucceeds() bool { return false }
func (e *ExpectNot) String() string       { return fmt.Sprintf("ExpectNot(%s)", e.Inner) }

func (e *ExpectNot) Eval(ctx *Context, pos int) Step {
	return Then(e.Inner.Eval(ctx, pos), func(r Step) Step {
		if r.Status {
			return FailStep(func(text string, p int) string {
				return fmt.Sprintf("Unexpected match for %s.", e.Inner.String())
			}, pos)
		}
		return Succeed(nil, pos)
	})
}

func asErrorFunc(v interface{}) ErrorFunc {
	if f, ok := v.(ErrorFunc); ok {
		return f
	}
	return nil
}

// Predicate is the callable a Where expression invokes on Inner's result;
// like Transform, it is a built-in operation rather than an arbitrary
// host closure.
type Predicate func(interface{}) bool

// Where parses Inner, then keeps the result only if Pred accepts it.
type Where struct {
	base
	Inner Expression
	Pred  Predicate
	Label string // for String()/diagnostics
}

// NewWhere builds a predicate-filtered expression.
func NewWhere(inner Expression, pred Predicate, label string) *Where {
	return &Where{base: newBase(), Inner: inner, Pred: pred, Label: label}
}

func (w *Where) AlwaysSucceeds() bool { return false }
func (w *Where) String() string       { return fmt.Sprintf("%s where %s", w.Inner, w.Label) }

func (w *Where) Eval(ctx *Context, pos int) Step {
	return Then(w.Inner.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return r
		}
		if !w.Pred(r.Result) {
			return FailStep(func(text string, p int) string {
				return fmt.Sprintf("Predicate %s rejected the match.", w.Label)
			}, pos)
		}
		return r
	})
}

// Commit marks a decision boundary (the `!` postfix in grammar source):
// once Inner matches, a later failure within the same attempt must not be
// silently absorbed by an enclosing Choice/Opt/List/Alt the way an
// ordinary failure would be — it has to propagate out as a dead end
// (§4.2, "past this point in a rule, failure should not cause outer
// backtracking"). Commit itself just flips whichever cut cell the
// nearest enclosing attempt installed via Context.WithFreshCut; it is the
// attempt-boundary combinators (below) and Checkpoint that act on it.
type Commit struct {
	base
	Inner Expression
}

// NewCommit builds `e!`.
func NewCommit(inner Expression) *Commit { return &Commit{base: newBase(), Inner: inner} }

func (c *Commit) AlwaysSucceeds() bool { return c.Inner.AlwaysSucceeds() }
func (c *Commit) String() string       { return c.Inner.String() + "!" }

func (c *Commit) Eval(ctx *Context, pos int) Step {
	return Then(c.Inner.Eval(ctx, pos), func(r Step) Step {
		if r.Status && ctx.cut != nil {
			*ctx.cut = true
		}
		return r
	})
}

// Checkpoint wraps a rule that transitively contains a Commit (detected
// structurally by the compiler, see compile.containsCommit). It opens a
// fresh cut scope for the rule body and, if the body fails after that
// scope's cut fired, re-tags the failure as a CommittedError so it
// survives crossing a Ref/Call boundary back into whatever rule invoked
// it — an outer Choice over a call to this rule must refuse to try its
// next alternative just as an inner one would (§4.2).
type Checkpoint struct {
	base
	Inner Expression
}

// NewCheckpoint wraps inner in a commit barrier.
func NewCheckpoint(inner Expression) *Checkpoint { return &Checkpoint{base: newBase(), Inner: inner} }

func (c *Checkpoint) AlwaysSucceeds() bool { return c.Inner.AlwaysSucceeds() }
func (c *Checkpoint) String() string       { return c.Inner.String() }

// CommittedError wraps an ErrorFunc to mark that it crossed a Checkpoint;
// Choice (seq.go), Opt, List, and Alt check for it (via committed, below)
// to tell a dead end apart from an ordinary recoverable failure once it
// has already crossed a rule boundary.
type CommittedError struct {
	Err ErrorFunc
}

func (c *Checkpoint) Eval(ctx *Context, pos int) Step {
	inner, cut := ctx.WithFreshCut()
	return Then(c.Inner.Eval(inner, pos), func(r Step) Step {
		if r.Status || !*cut {
			return r
		}
		if errFn, ok := r.Result.(ErrorFunc); ok {
			return FailStep(errFn, r.Pos).withCommitted(errFn)
		}
		return r
	})
}

func (s Step) withCommitted(err ErrorFunc) Step {
	s.Result = CommittedError{Err: err}
	return s
}

// committed reports whether a failing Step is a dead end: either it
// already crossed a Checkpoint (a CommittedError), or cut fired during
// the attempt that produced it. Choice, Opt, List, and Alt all check
// this before applying their normal "absorb the failure" behavior — a
// dead end must bubble out unconditionally rather than allow
// backtracking past it (§4.2, "Commit / Checkpoint").
func committed(r Step, cut *bool) (ErrorFunc, bool) {
	if c, ok := r.Result.(CommittedError); ok {
		return c.Err, true
	}
	if cut != nil && *cut {
		return asErrorFunc(r.Result), true
	}
	return nil, false
}
