package expr

import (
	"fmt"
	"strings"

	"github.com/jvs/peg/tree"
)

// Level is one precedence level inside an OpPrec climber: Postfix,
// Prefix, LeftAssoc, NonAssoc, or RightAssoc (§4.3).
type Level interface {
	// apply runs this level over the operand expression that represents
	// everything bound tighter than it (either the atom, for the
	// innermost level, or the previous level's result).
	apply(ctx *Context, operand Expression, pos int) Step
	String() string

	// Operand returns the level's operator expression, for the
	// compiler's structural walks (skip-ignored threading, Commit
	// detection) that need to reach every leaf without being able to
	// name this package's unexported level types.
	Operand() Expression
}

// OpPrec composes Levels in source order over Atom, each level consuming
// the prior as its operand (§4.3).
type OpPrec struct {
	base
	Atom   Expression
	Levels []Level
}

// NewOpPrec builds an operator-precedence climber.
func NewOpPrec(atom Expression, levels ...Level) *OpPrec {
	return &OpPrec{base: newBase(), Atom: atom, Levels: levels}
}

func (o *OpPrec) AlwaysSucceeds() bool { return false }

func (o *OpPrec) String() string {
	parts := make([]string, len(o.Levels))
	for i, l := range o.Levels {
		parts[i] = l.String()
	}
	return fmt.Sprintf("OperatorPrecedence(%s, %s)", o.Atom, strings.Join(parts, ", "))
}

func (o *OpPrec) Eval(ctx *Context, pos int) Step {
	operand := o.Atom
	for _, level := range o.Levels {
		lvl := level
		inner := operand
		operand = &levelExpr{level: lvl, operand: inner}
	}
	return operand.Eval(ctx, pos)
}

// levelExpr adapts a Level plus its operand into an Expression, so that
// level N+1 can treat level N (applied to the atom) as an ordinary
// sub-expression.
type levelExpr struct {
	base
	level   Level
	operand Expression
}

func (l *levelExpr) AlwaysSucceeds() bool { return false }
func (l *levelExpr) String() string       { return l.level.String() }
func (l *levelExpr) Eval(ctx *Context, pos int) Step {
	return l.level.apply(ctx, l.operand, pos)
}

// PostfixLevel parses an operand, then loops parsing Op and wrapping the
// running result in a tree.Postfix node until Op fails (§4.3).
type PostfixLevel struct {
	Op Expression
}

// Postfix builds a postfix-operator precedence level.
func Postfix(op Expression) Level { return &PostfixLevel{Op: op} }

func (p *PostfixLevel) String() string { return fmt.Sprintf("Postfix(%s)", p.Op) }
func (p *PostfixLevel) Operand() Expression { return p.Op }

func (p *PostfixLevel) apply(ctx *Context, operand Expression, pos int) Step {
	return Then(operand.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return r
		}
		return p.loop(ctx, r.Result, r.Pos)
	})
}

func (p *PostfixLevel) loop(ctx *Context, staging interface{}, pos int) Step {
	return Then(p.Op.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return Succeed(staging, pos)
		}
		next := &tree.Postfix{Left: staging, Op: r.Result}
		return p.loop(ctx, next, r.Pos)
	})
}

// PrefixLevel collects a right-associative chain of prefix operators,
// then one operand, threading the operand into the innermost Prefix.Right
// (§4.3).
type PrefixLevel struct {
	Op Expression
}

// Prefix builds a prefix-operator precedence level.
func Prefix(op Expression) Level { return &PrefixLevel{Op: op} }

func (p *PrefixLevel) String() string { return fmt.Sprintf("Prefix(%s)", p.Op) }
func (p *PrefixLevel) Operand() Expression { return p.Op }

func (p *PrefixLevel) apply(ctx *Context, operand Expression, pos int) Step {
	return Then(p.Op.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return operand.Eval(ctx, pos)
		}
		op := r.Result
		return Then(p.apply(ctx, operand, r.Pos), func(rr Step) Step {
			if !rr.Status {
				return rr
			}
			return Succeed(&tree.Prefix{Op: op, Right: rr.Result}, rr.Pos)
		})
	})
}

// assoc is shared plumbing for LeftAssoc/RightAssoc/NonAssoc: parse
// operand, then repeatedly parse (Op, operand) per Mode's rules.
type assocMode int

const (
	modeLeft assocMode = iota
	modeRight
	modeNone
)

type assocLevel struct {
	Op   Expression
	mode assocMode
}

// LeftAssoc builds `operand (op operand)*` left-folded into Infix nodes.
func LeftAssoc(op Expression) Level { return &assocLevel{Op: op, mode: modeLeft} }

// RightAssoc builds `operand (op operand)*` right-folded into Infix nodes.
func RightAssoc(op Expression) Level { return &assocLevel{Op: op, mode: modeRight} }

// NonAssoc builds `operand (op operand)?` — at most one fold, no chaining.
func NonAssoc(op Expression) Level { return &assocLevel{Op: op, mode: modeNone} }

func (a *assocLevel) String() string {
	switch a.mode {
	case modeLeft:
		return fmt.Sprintf("LeftAssoc(%s)", a.Op)
	case modeRight:
		return fmt.Sprintf("RightAssoc(%s)", a.Op)
	default:
		return fmt.Sprintf("NonAssoc(%s)", a.Op)
	}
}

func (a *assocLevel) Operand() Expression { return a.Op }

func (a *assocLevel) apply(ctx *Context, operand Expression, pos int) Step {
	return Then(operand.Eval(ctx, pos), func(r Step) Step {
		if !r.Status {
			return r
		}
		switch a.mode {
		case modeLeft:
			return a.foldLeft(ctx, operand, r.Result, r.Pos)
		case modeNone:
			return a.foldOnce(ctx, operand, r.Result, r.Pos)
		default:
			return a.foldRight(ctx, operand, r.Result, r.Pos)
		}
	})
}

func (a *assocLevel) foldLeft(ctx *Context, operand Expression, left interface{}, pos int) Step {
	return Then(a.Op.Eval(ctx, pos), func(rOp Step) Step {
		if !rOp.Status {
			return Succeed(left, pos)
		}
		op := rOp.Result
		return Then(operand.Eval(ctx, rOp.Pos), func(rRight Step) Step {
			if !rRight.Status {
				return Succeed(left, pos)
			}
			node := &tree.Infix{Left: left, Op: op, Right: rRight.Result}
			return a.foldLeft(ctx, operand, node, rRight.Pos)
		})
	})
}

func (a *assocLevel) foldOnce(ctx *Context, operand Expression, left interface{}, pos int) Step {
	return Then(a.Op.Eval(ctx, pos), func(rOp Step) Step {
		if !rOp.Status {
			return Succeed(left, pos)
		}
		op := rOp.Result
		return Then(operand.Eval(ctx, rOp.Pos), func(rRight Step) Step {
			if !rRight.Status {
				return Succeed(left, pos)
			}
			node := &tree.Infix{Left: left, Op: op, Right: rRight.Result}
			return Succeed(node, rRight.Pos)
		})
	})
}

func (a *assocLevel) foldRight(ctx *Context, operand Expression, left interface{}, pos int) Step {
	return Then(a.Op.Eval(ctx, pos), func(rOp Step) Step {
		if !rOp.Status {
			return Succeed(left, pos)
		}
		op := rOp.Result
		return Then(operand.Eval(ctx, rOp.Pos), func(rRight Step) Step {
			if !rRight.Status {
				return Succeed(left, pos)
			}
			return Then(a.foldRight(ctx, operand, rRight.Result, rRight.Pos), func(rTail Step) Step {
				node := &tree.Infix{Left: left, Op: op, Right: rTail.Result}
				return Succeed(node, rTail.Pos)
			})
		})
	})
}
