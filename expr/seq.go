package expr

import "strings"

// Constructor is the small enumerated set of transform operations
// permitted on a successful Seq match (§9: "Apply with host-language
// callables... leaks when porting. Restrict transformations to a small
// enumerated set of built-in transforms"). A Seq with a non-nil Ctor
// builds whatever Ctor returns (the compiler's class constructor builds a
// tree.Record); with Ctor == nil it builds a flat []interface{}.
type Constructor func(values []interface{}, fieldNames []string) interface{}

// Seq matches every item in order, threading position forward. On full
// success it builds either a flat list (Ctor == nil) or, when FieldNames
// is non-empty, invokes Ctor to build a named-field node (a `class` rule).
type Seq struct {
	base
	Items      []Expression
	FieldNames []string // empty unless this Seq belongs to a `class` body
	Ctor       Constructor
}

// NewSeq builds an un-named-field sequence (a plain list literal, or the
// body of a non-class Rule written as `[a, b, c]`).
func NewSeq(items ...Expression) *Seq {
	return &Seq{base: newBase(), Items: items}
}

// NewClassSeq builds a sequence whose successful result is constructed by
// ctor using fieldNames, e.g. a `class` rule's field list.
func NewClassSeq(items []Expression, fieldNames []string, ctor Constructor) *Seq {
	return &Seq{base: newBase(), Items: items, FieldNames: fieldNames, Ctor: ctor}
}

func (s *Seq) AlwaysSucceeds() bool {
	for _, it := range s.Items {
		if !it.AlwaysSucceeds() {
			return false
		}
	}
	return true
}

func (s *Seq) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = it.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s *Seq) Eval(ctx *Context, pos int) Step {
	return s.evalFrom(ctx, pos, 0, make([]interface{}, 0, len(s.Items)))
}

func (s *Seq) evalFrom(ctx *Context, pos, i int, acc []interface{}) Step {
	if i == len(s.Items) {
		var result interface{}
		if s.Ctor != nil {
			result = s.Ctor(acc, s.FieldNames)
		} else {
			result = acc
		}
		return Succeed(result, pos)
	}
	child := s.Items[i]
	return Then(child.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return r
		}
		next := make([]interface{}, len(acc), len(acc)+1)
		copy(next, acc)
		next = append(next, r.Result)
		return s.evalFrom(ctx, r.Pos, i+1, next)
	})
}

// Choice tries every alternative left-to-right from pos, per §4.2: on
// failure the alternative whose failure position is farthest wins; ties
// keep the earlier alternative (checked with '>' below, never '>=').
type Choice struct {
	base
	Alts []Expression
}

// NewChoice builds an ordered-choice expression.
func NewChoice(alts ...Expression) *Choice {
	return &Choice{base: newBase(), Alts: alts}
}

func (c *Choice) AlwaysSucceeds() bool {
	for _, a := range c.Alts {
		if a.AlwaysSucceeds() {
			return true
		}
	}
	return false
}

func (c *Choice) String() string {
	parts := make([]string, len(c.Alts))
	for i, a := range c.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

func (c *Choice) Eval(ctx *Context, pos int) Step {
	return c.tryFrom(ctx, pos, 0, -1, nil)
}

func (c *Choice) tryFrom(ctx *Context, pos, i, farthestPos int, farthestErr ErrorFunc) Step {
	if i == len(c.Alts) {
		return FailStep(farthestErr, farthestPos)
	}
	alt := c.Alts[i]
	attempt, cut := ctx.WithFreshCut()
	return Then(alt.Eval(attempt, pos), func(r Step) Step {
		if r.Status {
			return r
		}
		if err, ok := committed(r, cut); ok {
			return FailStep(err, r.Pos).withCommitted(err)
		}
		fp, fe := farthestPos, farthestErr
		if r.Pos > fp {
			fp = r.Pos
			if errFn, ok := r.Result.(ErrorFunc); ok {
				fe = errFn
			} else {
				fe = nil
			}
		}
		return c.tryFrom(ctx, pos, i+1, fp, fe)
	})
}
