// Copyright © 2024 The jvs/peg Authors.

package compile

import (
	"context"
	"testing"

	"github.com/jvs/peg/driver"
	"github.com/jvs/peg/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parseAll(t *testing.T, env *Env, text string) interface{} {
	t.Helper()
	result, err := driver.Run(context.Background(), text, env.Start, 0)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return result
}

func TestCompileSimpleRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`start = "a" << "b"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "ab", env.Start, 0); err != nil {
		t.Fatalf("expected ab to parse: %v", err)
	}
	if _, err := driver.Run(context.Background(), "ac", env.Start, 0); err == nil {
		t.Fatalf("expected ac to fail")
	}
}

func TestCompileMissingStartFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile(`greeting = "hi"`)
	if err == nil {
		t.Fatal("expected a GrammarError for a missing start rule")
	}
	if _, ok := err.(*GrammarError); !ok {
		t.Fatalf("expected *GrammarError, got %T: %v", err, err)
	}
}

func TestCompileUndefinedReferenceFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile(`start = nope`)
	if err == nil {
		t.Fatal("expected a GrammarError for an undefined reference")
	}
}

func TestCompileIgnoredStartFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile("ignored token start = \" \"\n")
	if err == nil {
		t.Fatal("expected a GrammarError for an ignored start rule")
	}
}

func TestCompileDuplicateRuleNameFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile("start = \"a\"\nstart = \"b\"\n")
	if err == nil {
		t.Fatal("expected a GrammarError for a duplicate rule name")
	}
}

func TestCompileReservedUnderscoreNameFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile("start = _helper\n_helper = \"a\"\n")
	if err == nil {
		t.Fatal("expected a GrammarError for a leading-underscore rule name")
	}
}

func TestCompileMutualRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
start = even
even = "a" << odd | "done"
odd = "b" << even
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "ababdone", env.Start, 0); err != nil {
		t.Fatalf("expected ababdone to parse: %v", err)
	}
}

func TestCompileTemplateInvocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
template paren(inner) => "(" >> inner << ")"
start = paren("x")
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "(x)", env.Start, 0); err != nil {
		t.Fatalf("expected (x) to parse: %v", err)
	}
	if _, err := driver.Run(context.Background(), "x", env.Start, 0); err == nil {
		t.Fatalf("expected bare x to fail without parens")
	}
}

func TestCompileTemplateKeywordArgs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
template sep_by(item, sep) => item << (sep << item)*
start = sep_by(item = "x", sep = ",")
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "x,x,x", env.Start, 0); err != nil {
		t.Fatalf("expected x,x,x to parse: %v", err)
	}
}

func TestCompileLetBinding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`start = let x = "a" in x << x`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "aa", env.Start, 0); err != nil {
		t.Fatalf("expected aa to parse: %v", err)
	}
}

func TestCompileRecoverAppendsAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
start = "good"
recover start = "fallback"
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "good", env.Start, 0); err != nil {
		t.Fatalf("expected good to parse: %v", err)
	}
	if _, err := driver.Run(context.Background(), "fallback", env.Start, 0); err != nil {
		t.Fatalf("expected fallback to parse via the recover branch: %v", err)
	}
}

func TestCompileRecoverUnknownTargetFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile("start = \"a\"\nrecover nope = \"b\"\n")
	if err == nil {
		t.Fatal("expected a GrammarError for a recover targeting an unknown rule")
	}
}

func TestCompileIgnoredWhitespaceThreading(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
ignored token space = ` + "`" + ` +` + "`" + `
start = "a" << "b"
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "a   b", env.Start, 0); err != nil {
		t.Fatalf("expected 'a   b' to parse with ignored whitespace: %v", err)
	}
}

func TestCompileIgnoredWhitespaceBeforeStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
ignored token space = ` + "`" + ` +` + "`" + `
start = "a"
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "  a", env.Start, 0); err != nil {
		t.Fatalf("expected leading ignored whitespace before the first token to be skipped: %v", err)
	}
	if _, err := driver.Run(context.Background(), "a", env.Start, 0); err != nil {
		t.Fatalf("expected 'a' with no leading whitespace to still parse: %v", err)
	}
}

func TestCompileEndOfInputSigil(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`start = "a" << $`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "a", env.Start, 0); err != nil {
		t.Fatalf("expected 'a' at end of input to parse: %v", err)
	}
	if _, err := driver.Run(context.Background(), "ab", env.Start, 0); err == nil {
		t.Fatalf("expected 'ab' to fail: trailing input after $ ")
	}
}

func TestCompileHexEscape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`start = "\x41"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "A", env.Start, 0); err != nil {
		t.Fatalf("expected \\x41 to decode to 'A': %v", err)
	}
}

func TestCompileTopLevelClass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
class Pair { left = "a"; right = "b" }
start = Pair
`)
	if err != nil {
		t.Fatal(err)
	}
	result := parseAll(t, env, "ab")
	rec, ok := result.(*tree.Record)
	if !ok {
		t.Fatalf("expected *tree.Record, got %T", result)
	}
	if rec.Type != "Pair" {
		t.Fatalf("expected type Pair, got %s", rec.Type)
	}
}

func TestCompileCommitPreventsBacktracking(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
start = ("a" << "b"!) << "c" | "ab"
`)
	if err != nil {
		t.Fatal(err)
	}
	// Without the b! commit, "ab" would fall through to the second
	// alternative and succeed; the commit must turn the missing "c" into
	// a dead end instead.
	if _, err := driver.Run(context.Background(), "ab", env.Start, 0); err == nil {
		t.Fatalf("expected ab to fail: the b! commit should block the ab alternative")
	}
}

func TestCompileChoiceBacktracksWithoutCommit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
start = ("a" << "b") << "c" | "ab"
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "ab", env.Start, 0); err != nil {
		t.Fatalf("expected ab to fall through to the ab alternative: %v", err)
	}
}

func TestCompileTemplateArgClosesOverLetFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	_, err := Compile(`
template wrap(inner) => "(" >> inner << ")"
start = let x = "a" in wrap(x)
`)
	if err == nil {
		t.Fatal("expected a GrammarError for a template argument closing over a let-bound name")
	}
	if _, ok := err.(*GrammarError); !ok {
		t.Fatalf("expected *GrammarError, got %T: %v", err, err)
	}
}

func TestCompileUTF8Positions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	plain, err := Compile(`start = "a"`)
	if err != nil {
		t.Fatal(err)
	}
	if got := plain.RunePosition("héllo", 3); got != 3 {
		t.Fatalf("expected byte offsets unchanged by default, got %d", got)
	}

	withOpt, err := Compile(`start = "a"`, WithUTF8Positions())
	if err != nil {
		t.Fatal(err)
	}
	// "hé" is 1 ASCII byte + 2 UTF-8 bytes for 'é': byte offset 3 sits
	// right after the 'é', which is the 2nd rune.
	if got := withOpt.RunePosition("héllo", 3); got != 2 {
		t.Fatalf("expected byte offset 3 to translate to rune offset 2, got %d", got)
	}
}

func TestCompileOpPrecLeftAssoc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.compile")
	defer teardown()

	env, err := Compile(`
template num() => ` + "`" + `[0-9]+` + "`" + `
start = OpPrec(num(), LeftAssoc("+"))
`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := driver.Run(context.Background(), "1+2+3", env.Start, 0); err != nil {
		t.Fatalf("expected 1+2+3 to parse: %v", err)
	}
}
