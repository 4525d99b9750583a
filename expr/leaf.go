package expr

import (
	"fmt"
	"regexp"
	"strings"
)

// StrLit matches a literal string at the current position.
//
// SkipIgnored is resolved once at grammar-compile time (§4.1): the
// compiler walks every leaf in non-ignored rules and sets it to true;
// leaves inside `ignored` rules keep it false. Ignored is the bound
// `_ignored` expression to run (greedily) after a successful match, or
// nil if the grammar defines no ignored tokens.
type StrLit struct {
	base
	Value       string
	SkipIgnored bool
	Ignored     Expression
}

// NewStrLit constructs a literal-string matcher.
func NewStrLit(value string) *StrLit {
	s := &StrLit{base: newBase(), Value: value}
	return s
}

func (s *StrLit) AlwaysSucceeds() bool { return false }

func (s *StrLit) String() string {
	return fmt.Sprintf("%q", s.Value)
}

func (s *StrLit) Eval(ctx *Context, pos int) Step {
	text := ctx.Text
	end := pos + len(s.Value)
	if end > len(text) || text[pos:end] != s.Value {
		// Report the failure at the first byte that differs, so Choice's
		// farthest-failure tracking sees how far a partial match got.
		failAt := pos
		for failAt < len(text) && failAt-pos < len(s.Value) && text[failAt] == s.Value[failAt-pos] {
			failAt++
		}
		return FailStep(s.errorAt(), failAt)
	}
	newPos := end
	if s.SkipIgnored && s.Ignored != nil {
		return Then(s.Ignored.Eval(ctx, newPos), func(r Step) Step {
			return Succeed(s.Value, r.Pos)
		})
	}
	return Succeed(s.Value, newPos)
}

func (s *StrLit) errorAt() ErrorFunc {
	return func(text string, pos int) string {
		return fmt.Sprintf("Expected %q.", s.Value)
	}
}

// RegexLit matches a compiled, anchored regular expression at the current
// position. Matching is byte-oriented and leftmost; see SPEC_FULL.md's C7
// section for the Unicode opt-in.
type RegexLit struct {
	base
	Pattern     *regexp.Regexp
	Source      string // original backtick-delimited source, for String()
	SkipIgnored bool
	Ignored     Expression
}

// NewRegexLit compiles pattern (without the surrounding backticks) anchored
// to the start of the match window.
func NewRegexLit(source string) (*RegexLit, error) {
	anchored := source
	if !strings.HasPrefix(anchored, `\A`) {
		anchored = `\A(?:` + source + `)`
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, fmt.Errorf("invalid regex literal `%s`: %w", source, err)
	}
	return &RegexLit{base: newBase(), Pattern: re, Source: source}, nil
}

func (r *RegexLit) AlwaysSucceeds() bool { return false }

func (r *RegexLit) String() string {
	return "`" + r.Source + "`"
}

func (r *RegexLit) Eval(ctx *Context, pos int) Step {
	text := ctx.Text
	if pos > len(text) {
		return FailStep(r.errorAt(), pos)
	}
	loc := r.Pattern.FindStringIndex(text[pos:])
	if loc == nil || loc[0] != 0 {
		return FailStep(r.errorAt(), pos)
	}
	match := text[pos : pos+loc[1]]
	newPos := pos + loc[1]
	if r.SkipIgnored && r.Ignored != nil {
		return Then(r.Ignored.Eval(ctx, newPos), func(rr Step) Step {
			return Succeed(match, rr.Pos)
		})
	}
	return Succeed(match, newPos)
}

func (r *RegexLit) errorAt() ErrorFunc {
	return func(text string, pos int) string {
		return fmt.Sprintf("Expected match for `%s`.", r.Source)
	}
}

// FailExpr is a constant failure, optionally carrying a custom message
// (grammar source: `Fail("message")`, or bare `Fail`).
type FailExpr struct {
	base
	Message string
}

// NewFail constructs a Fail expression.
func NewFail(message string) *FailExpr {
	return &FailExpr{base: newBase(), Message: message}
}

func (f *FailExpr) AlwaysSucceeds() bool { return false }

func (f *FailExpr) String() string {
	if f.Message == "" {
		return "Fail"
	}
	return fmt.Sprintf("Fail(%q)", f.Message)
}

func (f *FailExpr) Eval(ctx *Context, pos int) Step {
	msg := f.Message
	return FailStep(func(text string, p int) string {
		if msg == "" {
			return "parse failed."
		}
		return msg
	}, pos)
}

// End matches only at the end of input, advancing nowhere.
type End struct {
	base
}

// NewEnd constructs the end-of-input sentinel.
func NewEnd() *End { return &End{base: newBase()} }

func (e *End) AlwaysSucceeds() bool { return false }
func (e *End) String() string       { return "$" }

func (e *End) Eval(ctx *Context, pos int) Step {
	if pos >= len(ctx.Text) {
		return Succeed(nil, pos)
	}
	return FailStep(func(text string, p int) string {
		return "Expected end of input."
	}, pos)
}
