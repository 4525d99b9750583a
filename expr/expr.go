package expr

import "sync/atomic"

// Expression is the common interface implemented by every node of the
// expression algebra (the intermediate representation a compiled grammar
// lowers to). Every variant carries a unique ProgramID, assigned
// post-construction by the grammar compiler (see compile.AssignProgramIDs),
// and an AlwaysSucceeds predicate reporting whether the expression can
// never fail. The driver does not consult AlwaysSucceeds.
type Expression interface {
	// Eval begins evaluating the expression at pos. It either returns a
	// final Step (Done) or a Step requesting a sub-rule parse (Call); the
	// driver resumes a Call step by invoking its Resume func with the
	// outcome of parsing Target at At.
	Eval(ctx *Context, pos int) Step

	// AlwaysSucceeds reports whether this expression can never fail
	// (Opt, Skip, and List(allow_empty) are the base cases; it propagates
	// structurally from there).
	AlwaysSucceeds() bool

	// ProgramID returns this expression's compiler-assigned serial number.
	ProgramID() int
	setProgramID(id int)

	// String renders the expression back to grammar source syntax, used
	// for error messages and for the self-description round-trip.
	String() string
}

var idCounter int64

// NextProgramID hands out a process-wide unique program id. The grammar
// compiler re-assigns ids in a deterministic pre-order pass after a
// compile finishes (see compile.AssignProgramIDs); this counter only
// guarantees uniqueness at construction time.
func NextProgramID() int {
	return int(atomic.AddInt64(&idCounter, 1))
}

// base is embedded by every concrete Expression to provide the ProgramID
// bookkeeping every variant needs.
type base struct {
	id int
}

func newBase() base {
	return base{id: NextProgramID()}
}

func (b *base) ProgramID() int     { return b.id }
func (b *base) setProgramID(id int) { b.id = id }

// SetProgramID overrides e's assigned id. Exported so compile.AssignProgramIDs
// can perform its deterministic pre-order reassignment pass from outside this
// package; ordinary construction should rely on NextProgramID instead.
func SetProgramID(e Expression, id int) { e.setProgramID(id) }

// ErrorFunc generates a human-readable "Expected ..." message for a
// failure at a given position. It is the Go analogue of the original's
// error-generator closures: on failure, Step.Result holds an ErrorFunc
// instead of a parsed value.
type ErrorFunc func(text string, pos int) string

// StepKind distinguishes a finished evaluation from a suspended one.
type StepKind int

const (
	// Done means the Step carries a final Status/Result/Pos.
	Done StepKind = iota
	// CallKind means evaluation suspended, requesting that Target be
	// parsed at At; Resume continues the computation with that result.
	CallKind
)

// Step is the value every Expression.Eval call produces: either a final
// outcome, or a request to parse another rule plus a continuation to
// resume with its result. See doc.go for the overall CPS design.
type Step struct {
	Kind StepKind

	// Valid when Kind == Done.
	Status bool
	Result interface{} // parsed value on success, ErrorFunc on failure
	Pos    int

	// Valid when Kind == CallKind.
	Target Expression
	At     int
	Resume func(Step) Step
}

// Then sequences a continuation after step. If step is already Done, cont
// runs immediately and its own Step (Done or another CallKind) is
// returned. If step is a suspended CallKind, the continuation is chained
// onto its Resume function so the driver can keep trampolining through
// however many further suspensions the continuation itself produces.
func Then(step Step, cont func(Step) Step) Step {
	if step.Kind == Done {
		return cont(step)
	}
	prevResume := step.Resume
	step.Resume = func(r Step) Step {
		return Then(prevResume(r), cont)
	}
	return step
}

// Succeed builds a final successful Step.
func Succeed(result interface{}, pos int) Step {
	return Step{Kind: Done, Status: true, Result: result, Pos: pos}
}

// FailStep builds a final failing Step. err is an ErrorFunc (or nil, in which
// case the driver synthesizes a generic message).
func FailStep(err ErrorFunc, pos int) Step {
	return Step{Kind: Done, Status: false, Result: err, Pos: pos}
}

// Context is threaded through every Eval call. Text is fixed for the
// duration of one parse; Env is the immutable, parent-linked chain of
// `let`-bound local values (see let.go) — extending it never mutates an
// ambient copy, so Choice/Opt backtracking never needs to explicitly
// unwind bindings introduced by an abandoned alternative.
//
// cut tracks whether a Commit has fired during the current "attempt" — the
// span of evaluation a backtracking combinator (Choice's current
// alternative, Opt's one try, a List/Alt loop iteration) might still
// discard in favor of trying something else. Each such attempt runs with
// its own fresh cut cell (see WithFreshCut); Commit sets whatever cell is
// currently active. See combinators.go for how Checkpoint, Choice, Opt,
// List, and Alt consult it.
type Context struct {
	Text string
	Env  *envFrame
	cut  *bool
}

// WithLocal returns a new Context with name bound to value, without
// mutating ctx.
func (ctx *Context) WithLocal(name string, value interface{}) *Context {
	return &Context{Text: ctx.Text, Env: &envFrame{name: name, value: value, parent: ctx.Env}, cut: ctx.cut}
}

// WithFreshCut returns a derived Context carrying a new, initially-false
// cut cell, plus that cell. A backtracking combinator calls this once per
// attempt it might abandon.
func (ctx *Context) WithFreshCut() (*Context, *bool) {
	flag := new(bool)
	return &Context{Text: ctx.Text, Env: ctx.Env, cut: flag}, flag
}

type envFrame struct {
	name   string
	value  interface{}
	parent *envFrame
}

// Lookup walks the local scope chain for name.
func (ctx *Context) Lookup(name string) (interface{}, bool) {
	for f := ctx.Env; f != nil; f = f.parent {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

// GenericError synthesizes a fallback message for internal failures that
// carry no dedicated ErrorFunc (§7: "other internal failures → empty/None,
// in which case the implementation should synthesize a generic message").
func GenericError(what string) ErrorFunc {
	return func(text string, pos int) string {
		return "parse error: " + what
	}
}
