package expr

import "fmt"

// List repeatedly parses Inner; on the first failure it rewinds to the
// checkpoint before that attempt. If AllowEmpty is false and zero items
// were matched, the whole List fails with the inner failure (§4.2).
type List struct {
	base
	Inner      Expression
	AllowEmpty bool
}

// NewList builds `e*` (allowEmpty=true) or `e+` (allowEmpty=false).
func NewList(inner Expression, allowEmpty bool) *List {
	return &List{base: newBase(), Inner: inner, AllowEmpty: allowEmpty}
}

func (l *List) AlwaysSucceeds() bool { return l.AllowEmpty }

func (l *List) String() string {
	if l.AllowEmpty {
		return l.Inner.String() + "*"
	}
	return l.Inner.String() + "+"
}

func (l *List) Eval(ctx *Context, pos int) Step {
	return l.loop(ctx, pos, nil)
}

func (l *List) loop(ctx *Context, pos int, acc []interface{}) Step {
	attempt, cut := ctx.WithFreshCut()
	return Then(l.Inner.Eval(attempt, pos), func(r Step) Step {
		if !r.Status {
			if err, ok := committed(r, cut); ok {
				return r.withCommitted(err)
			}
			if len(acc) == 0 && !l.AllowEmpty {
				return r
			}
			return Succeed(acc, pos)
		}
		next := append(append([]interface{}{}, acc...), r.Result)
		if r.Pos == pos {
			// Inner always-succeeds and consumed nothing: stop to avoid
			// looping forever, matching §3.5's strict-advance invariant.
			return Succeed(next, r.Pos)
		}
		return l.loop(ctx, r.Pos, next)
	})
}

// Alt parses Item, then Sep, then Item, ... (an interleaved repetition,
// e.g. a comma-separated list). AllowTrailer controls whether a trailing
// separator with no following Item is accepted; AllowEmpty controls
// whether zero Items is a valid (successful) parse. See §4.2.
type Alt struct {
	base
	Item         Expression
	Sep          Expression
	AllowTrailer bool
	AllowEmpty   bool
}

// NewAlt builds `item / sep` (allowTrailer=true) or `item // sep`
// (allowTrailer=false).
func NewAlt(item, sep Expression, allowTrailer, allowEmpty bool) *Alt {
	return &Alt{base: newBase(), Item: item, Sep: sep, AllowTrailer: allowTrailer, AllowEmpty: allowEmpty}
}

func (a *Alt) AlwaysSucceeds() bool { return a.AllowEmpty }

func (a *Alt) String() string {
	op := "//"
	if a.AllowTrailer {
		op = "/"
	}
	return fmt.Sprintf("%s %s %s", a.Item.String(), op, a.Sep.String())
}

func (a *Alt) Eval(ctx *Context, pos int) Step {
	return a.loop(ctx, pos, pos, nil)
}

// loop tracks the running position (pos), and checkpoint: the position to
// rewind to if the next step fails (the position just after the last
// fully-accepted item, or after a trailing separator when AllowTrailer).
func (a *Alt) loop(ctx *Context, pos, checkpoint int, acc []interface{}) Step {
	itemAttempt, itemCut := ctx.WithFreshCut()
	return Then(a.Item.Eval(itemAttempt, pos), func(r Step) Step {
		if !r.Status {
			if err, ok := committed(r, itemCut); ok {
				return r.withCommitted(err)
			}
			if len(acc) == 0 && !a.AllowEmpty {
				return r
			}
			return Succeed(acc, checkpoint)
		}
		next := append(append([]interface{}{}, acc...), r.Result)
		itemEnd := r.Pos
		sepAttempt, sepCut := ctx.WithFreshCut()
		return Then(a.Sep.Eval(sepAttempt, itemEnd), func(rs Step) Step {
			if !rs.Status {
				if err, ok := committed(rs, sepCut); ok {
					return rs.withCommitted(err)
				}
				return Succeed(next, itemEnd)
			}
			newCheckpoint := itemEnd
			if a.AllowTrailer {
				newCheckpoint = rs.Pos
			}
			return a.loop(ctx, rs.Pos, newCheckpoint, next)
		})
	})
}

// Opt always succeeds: on Inner's success it returns Inner's result and
// position; on failure it returns (true, nil, pos) unchanged (§4.2).
type Opt struct {
	base
	Inner Expression
}

// NewOpt builds `e?`.
func NewOpt(inner Expression) *Opt {
	return &Opt{base: newBase(), Inner: inner}
}

func (o *Opt) AlwaysSucceeds() bool { return true }
func (o *Opt) String() string       { return o.Inner.String() + "?" }

func (o *Opt) Eval(ctx *Context, pos int) Step {
	attempt, cut := ctx.WithFreshCut()
	return Then(o.Inner.Eval(attempt, pos), func(r Step) Step {
		if r.Status {
			return r
		}
		if err, ok := committed(r, cut); ok {
			return r.withCommitted(err)
		}
		return Succeed(nil, pos)
	})
}

// Skip greedily tries each of Items in turn; whenever one succeeds it
// restarts the sweep from the top. It exits (always successfully, with a
// nil result) once a full pass over Items produces no successes (§4.2).
// Skip implements the synthesized `_ignored` sink.
type Skip struct {
	base
	Items []Expression
}

// NewSkip builds the greedy-repeat-of-any-item combinator used for
// ignored-token interleaving.
func NewSkip(items ...Expression) *Skip {
	return &Skip{base: newBase(), Items: items}
}

func (s *Skip) AlwaysSucceeds() bool { return true }

func (s *Skip) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = it.String()
	}
	return fmt.Sprintf("Skip(%v)", parts)
}

func (s *Skip) Eval(ctx *Context, pos int) Step {
	return s.sweep(ctx, pos, 0)
}

func (s *Skip) sweep(ctx *Context, pos, i int) Step {
	if i == len(s.Items) {
		return Succeed(nil, pos)
	}
	if len(s.Items) == 0 {
		return Succeed(nil, pos)
	}
	return Then(s.Items[i].Eval(ctx, pos), func(r Step) Step {
		if r.Status && r.Pos > pos {
			return s.sweep(ctx, r.Pos, 0)
		}
		return s.sweep(ctx, pos, i+1)
	})
}
