package expr

import (
	"testing"

	"github.com/jvs/peg/tree"
)

// drive resolves a Step to completion by directly recursing into any
// suspended Call (no memoization, no heap stack) — good enough for
// exercising expr in isolation without pulling in package driver.
func drive(ctx *Context, step Step) Step {
	for step.Kind == CallKind {
		inner := step.Target.Eval(ctx, step.At)
		step = step.Resume(drive(ctx, inner))
	}
	return step
}

func newCtx(text string) *Context { return &Context{Text: text} }

func TestStrLitMatch(t *testing.T) {
	lit := NewStrLit("abc")
	ctx := newCtx("abcdef")
	step := drive(ctx, lit.Eval(ctx, 0))
	if !step.Status || step.Result != "abc" || step.Pos != 3 {
		t.Fatalf("got %+v", step)
	}
}

func TestStrLitFail(t *testing.T) {
	lit := NewStrLit("abc")
	ctx := newCtx("xyz")
	step := drive(ctx, lit.Eval(ctx, 0))
	if step.Status {
		t.Fatalf("expected failure")
	}
}

func TestRegexLitAnchored(t *testing.T) {
	re, err := NewRegexLit(`\d+`)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newCtx("123abc")
	step := drive(ctx, re.Eval(ctx, 0))
	if !step.Status || step.Result != "123" || step.Pos != 3 {
		t.Fatalf("got %+v", step)
	}
}

func TestSeqBuildsFlatList(t *testing.T) {
	s := NewSeq(NewStrLit("a"), NewStrLit("b"))
	ctx := newCtx("ab")
	step := drive(ctx, s.Eval(ctx, 0))
	if !step.Status {
		t.Fatalf("expected success, got %+v", step)
	}
	list, ok := step.Result.([]interface{})
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Fatalf("got %+v", step.Result)
	}
}

func TestSeqBuildsRecordWithFields(t *testing.T) {
	re, _ := NewRegexLit(`\d+`)
	seq := NewClassSeq(
		[]Expression{re, NewStrLit(","), re},
		[]string{"left", "sep", "right"},
		func(values []interface{}, fieldNames []string) interface{} {
			return tree.NewRecord("Pair", fieldNames, values)
		},
	)
	ctx := newCtx("10,20")
	step := drive(ctx, seq.Eval(ctx, 0))
	if !step.Status {
		t.Fatalf("expected success, got %+v", step)
	}
	rec := step.Result.(*tree.Record)
	if v, _ := rec.Get("left"); v != "10" {
		t.Fatalf("left = %v", v)
	}
	if v, _ := rec.Get("right"); v != "20" {
		t.Fatalf("right = %v", v)
	}
}

func TestChoiceFarthestError(t *testing.T) {
	c := NewChoice(NewStrLit("abc"), NewStrLit("abd"))
	ctx := newCtx("abe")
	step := drive(ctx, c.Eval(ctx, 0))
	if step.Status {
		t.Fatalf("expected failure")
	}
	if step.Pos != 2 {
		t.Fatalf("expected farthest pos 2, got %d", step.Pos)
	}
	errFn := step.Result.(ErrorFunc)
	if got := errFn(ctx.Text, step.Pos); got != `Expected "abc".` {
		t.Fatalf("expected tie-break to keep the earlier alternative, got %q", got)
	}
}

func TestListRequiresAtLeastOneUnlessAllowEmpty(t *testing.T) {
	some := NewList(NewStrLit("a"), false)
	ctx := newCtx("bbb")
	step := drive(ctx, some.Eval(ctx, 0))
	if step.Status {
		t.Fatalf("expected List(allowEmpty=false) to fail on zero matches")
	}

	star := NewList(NewStrLit("a"), true)
	step = drive(ctx, star.Eval(ctx, 0))
	if !step.Status || step.Pos != 0 {
		t.Fatalf("expected List(allowEmpty=true) to succeed with zero matches, got %+v", step)
	}
}

func TestAltSeparatedRepetition(t *testing.T) {
	re, _ := NewRegexLit(`\d+`)
	alt := NewAlt(re, NewStrLit(","), true, true)
	ctx := newCtx("1,2,3")
	step := drive(ctx, alt.Eval(ctx, 0))
	if !step.Status || step.Pos != 5 {
		t.Fatalf("got %+v", step)
	}
	items := step.Result.([]interface{})
	if len(items) != 3 || items[2] != "3" {
		t.Fatalf("got %+v", items)
	}
}

func TestAltDisallowTrailerRewinds(t *testing.T) {
	re, _ := NewRegexLit(`\d+`)
	alt := NewAlt(re, NewStrLit(","), false, true)
	ctx := newCtx("1,2,")
	step := drive(ctx, alt.Eval(ctx, 0))
	if !step.Status {
		t.Fatalf("expected success, got %+v", step)
	}
	if step.Pos != 3 {
		t.Fatalf("expected rewind before trailing separator, got pos %d", step.Pos)
	}
}

func TestOptAlwaysSucceeds(t *testing.T) {
	opt := NewOpt(NewStrLit("a"))
	ctx := newCtx("bbb")
	step := drive(ctx, opt.Eval(ctx, 0))
	if !step.Status || step.Result != nil || step.Pos != 0 {
		t.Fatalf("got %+v", step)
	}
}

func TestLeftAndRight(t *testing.T) {
	left := NewLeft(NewStrLit("a"), NewStrLit("b"))
	ctx := newCtx("ab")
	step := drive(ctx, left.Eval(ctx, 0))
	if !step.Status || step.Result != "a" || step.Pos != 2 {
		t.Fatalf("got %+v", step)
	}

	right := NewRight(NewStrLit("a"), NewStrLit("b"))
	step = drive(ctx, right.Eval(ctx, 0))
	if !step.Status || step.Result != "b" || step.Pos != 2 {
		t.Fatalf("got %+v", step)
	}
}

func TestExpectRewinds(t *testing.T) {
	e := NewExpect(NewStrLit("a"))
	ctx := newCtx("abc")
	step := drive(ctx, e.Eval(ctx, 0))
	if !step.Status || step.Pos != 0 {
		t.Fatalf("expected lookahead to rewind, got %+v", step)
	}
}

func TestExpectNotInverts(t *testing.T) {
	e := NewExpectNot(NewStrLit("a"))
	ctx := newCtx("bbb")
	step := drive(ctx, e.Eval(ctx, 0))
	if !step.Status || step.Pos != 0 {
		t.Fatalf("expected negative lookahead to succeed on non-match, got %+v", step)
	}
	ctx2 := newCtx("abc")
	step = drive(ctx2, e.Eval(ctx2, 0))
	if step.Status {
		t.Fatalf("expected negative lookahead to fail on match")
	}
}

func TestLetBinding(t *testing.T) {
	re, _ := NewRegexLit(`\d+`)
	let := NewLetExpr("n", re, NewSeq(NewLocalRef("n"), NewStrLit("-"), NewLocalRef("n")))
	ctx := newCtx("42-")
	step := drive(ctx, let.Eval(ctx, 0))
	if !step.Status {
		t.Fatalf("expected success, got %+v", step)
	}
	items := step.Result.([]interface{})
	if items[0] != "42" || items[2] != "42" {
		t.Fatalf("expected both local refs to read back the bound value, got %+v", items)
	}
}

func TestOpPrecLeftAssoc(t *testing.T) {
	num, _ := NewRegexLit(`\d+`)
	plus, _ := NewRegexLit(`\+`)
	op := NewOpPrec(num, LeftAssoc(plus))
	ctx := newCtx("1+2+3+4")
	step := drive(ctx, op.Eval(ctx, 0))
	if !step.Status || step.Pos != len(ctx.Text) {
		t.Fatalf("got %+v", step)
	}
	want := &tree.Infix{
		Left: &tree.Infix{
			Left:  &tree.Infix{Left: "1", Op: "+", Right: "2"},
			Op:    "+",
			Right: "3",
		},
		Op:    "+",
		Right: "4",
	}
	if !tree.Equal(step.Result, want) {
		t.Fatalf("got %v, want left-folded %v", step.Result, want)
	}
}

func TestOpPrecRightAssoc(t *testing.T) {
	num, _ := NewRegexLit(`\d+`)
	arrow, _ := NewRegexLit(`->`)
	op := NewOpPrec(num, RightAssoc(arrow))
	ctx := newCtx("1->2->3->4")
	step := drive(ctx, op.Eval(ctx, 0))
	if !step.Status || step.Pos != len(ctx.Text) {
		t.Fatalf("got %+v", step)
	}
	want := &tree.Infix{
		Left: "1", Op: "->",
		Right: &tree.Infix{
			Left: "2", Op: "->",
			Right: &tree.Infix{Left: "3", Op: "->", Right: "4"},
		},
	}
	if !tree.Equal(step.Result, want) {
		t.Fatalf("got %v, want right-folded %v", step.Result, want)
	}
}

func TestOpPrecNonAssocStopsAfterOneFold(t *testing.T) {
	num, _ := NewRegexLit(`\d+`)
	cmp, _ := NewRegexLit(`==`)
	op := NewOpPrec(num, NonAssoc(cmp))
	ctx := newCtx("1==2==3")
	step := drive(ctx, op.Eval(ctx, 0))
	if !step.Status {
		t.Fatalf("got %+v", step)
	}
	if step.Pos != 4 {
		t.Fatalf("expected NonAssoc to stop after the first fold (pos 4), got pos %d", step.Pos)
	}
}

func TestCommitDisablesBacktracking(t *testing.T) {
	word, _ := NewRegexLit(`[a-zA-Z]+`)
	num, _ := NewRegexLit(`\d+`)
	ws, _ := NewRegexLit(` `)
	letStmt := NewCheckpoint(NewSeq(
		NewCommit(NewRight(NewLeft(NewStrLit("let"), ws), word)),
		ws,
		NewStrLit("="),
		ws,
		num,
	))
	grammar := NewChoice(letStmt, word)
	ctx := newCtx("let x 1")
	step := drive(ctx, grammar.Eval(ctx, 0))
	if step.Status {
		t.Fatalf("expected commit to prevent falling back to the bare Word alternative")
	}
	if step.Pos != 6 {
		t.Fatalf("expected farthest failure at the missing '=' (pos 6), got %d", step.Pos)
	}
}
