// Copyright © 2024 The jvs/peg Authors.

package driver

import (
	"context"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/jvs/peg/expr"
)

// memoKey identifies one (rule, position) packrat entry. Expression
// pointer identity is stable for the lifetime of a compiled grammar, so
// it is safe to use directly as a map key component alongside pos.
type memoKey struct {
	target expr.Expression
	pos    int
}

// frame is one entry of the explicit call stack: key identifies the
// (target, pos) this frame is evaluating, and next is how to advance it
// — either the raw Eval call (a frame that has never been resumed) or a
// previously-suspended Step's Resume closure.
type frame struct {
	key  memoKey
	next func(expr.Step) expr.Step
}

// Run drives start to completion against text starting at pos, following
// §4.4's trampoline exactly: peek the top frame, advance it with the
// last result, and either pop-and-record (it finished) or push a new
// frame for whatever it called (unless that call is already memoized, in
// which case the result is reused without pushing at all).
//
// Each call gets its own memo table and stack (§5: "a compiled grammar
// may be reused across concurrent parse invocations... only if each
// invocation receives its own memo and stack") — Run never touches
// shared mutable state beyond the Context and Expression tree it's
// given, both of which are treated as read-only here.
func Run(ctx context.Context, text string, start expr.Expression, pos int) (interface{}, error) {
	memo := make(map[memoKey]expr.Step)
	stack := arraystack.New()

	key0 := memoKey{start, pos}
	stack.Push(frame{key: key0, next: func(expr.Step) expr.Step { return start.Eval(&expr.Context{Text: text}, pos) }})

	var result expr.Step
	for !stack.Empty() {
		select {
		case <-ctx.Done():
			return nil, &InternalError{Reason: "parse deadline exceeded: " + ctx.Err().Error()}
		default:
		}

		topVal, _ := stack.Peek()
		top := topVal.(frame)
		yielded := top.next(result)

		if yielded.Kind != expr.CallKind {
			stack.Pop()
			if prev, ok := memo[top.key]; ok && prev.Status != yielded.Status {
				return nil, &InternalError{Reason: "memo collision: distinct results for the same (rule, pos)"}
			}
			memo[top.key] = yielded
			result = yielded
			continue
		}

		// This frame is still running; replace its continuation with
		// Resume so the next time it's on top, we advance it further
		// rather than re-starting its Eval from scratch.
		stack.Pop()
		stack.Push(frame{key: top.key, next: yielded.Resume})

		subKey := memoKey{yielded.Target, yielded.At}
		if cached, ok := memo[subKey]; ok {
			result = cached
			continue
		}

		target, at := yielded.Target, yielded.At
		stack.Push(frame{key: subKey, next: func(expr.Step) expr.Step {
			return target.Eval(&expr.Context{Text: text}, at)
		}})
		result = expr.Step{}
	}

	if result.Status {
		return result.Result, nil
	}

	message := "parse error"
	switch errVal := result.Result.(type) {
	case expr.CommittedError:
		if errVal.Err != nil {
			message = errVal.Err(text, result.Pos)
		}
	case expr.ErrorFunc:
		message = errVal(text, result.Pos)
	case nil:
		message = expr.GenericError("no alternative matched")(text, result.Pos)
	}
	return nil, &ParseError{Message: message, Pos: result.Pos}
}
