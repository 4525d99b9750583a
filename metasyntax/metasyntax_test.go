package metasyntax

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLexWords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	toks, err := Lex("foo bar_baz\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 3 { // foo, bar_baz, newline
		t.Fatalf("expected 3 tokens, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != Word || toks[0].Text != "foo" {
		t.Errorf("expected Word 'foo', got %v", toks[0])
	}
	if toks[1].Kind != Word || toks[1].Text != "bar_baz" {
		t.Errorf("expected Word 'bar_baz', got %v", toks[1])
	}
	if toks[2].Kind != Newline {
		t.Errorf("expected trailing Newline, got %v", toks[2])
	}
}

func TestLexSkipsCommentsAndBlanks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	toks, err := Lex("  # a comment\nfoo   # trailing\n")
	if err != nil {
		t.Fatal(err)
	}
	var words []string
	for _, tok := range toks {
		if tok.Kind == Word {
			words = append(words, tok.Text)
		}
	}
	if len(words) != 1 || words[0] != "foo" {
		t.Errorf("expected single word 'foo', got %v", words)
	}
}

func TestLexStringAndRegexLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	toks, err := Lex(`"abc" 'd\'e' ` + "`[0-9]+`")
	if err != nil {
		t.Fatal(err)
	}
	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{StringLit, StringLit, RegexLit}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v (%v)", want, kinds, toks)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestLexMultiCharSymbolsPreferredOverPrefixes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	toks, err := Lex("a <<! b !>> c << d >> e")
	if err != nil {
		t.Fatal(err)
	}
	var symbols []string
	for _, tok := range toks {
		if tok.Kind == Symbol {
			symbols = append(symbols, tok.Text)
		}
	}
	want := []string{"<<!", "!>>", "<<", ">>"}
	if len(symbols) != len(want) {
		t.Fatalf("expected symbols %v, got %v", want, symbols)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbol %d: expected %q, got %q", i, want[i], symbols[i])
		}
	}
}

func TestLexDropsNewlinesInsideParens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	toks, err := Lex("f(\n  a,\n  b\n)\n")
	if err != nil {
		t.Fatal(err)
	}
	newlines := 0
	for _, tok := range toks {
		if tok.Kind == Newline {
			newlines++
		}
	}
	if newlines != 1 {
		t.Errorf("expected exactly 1 surviving newline (after the closing paren), got %d: %v", newlines, toks)
	}
}

func TestParseSimpleRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	defs, err := Parse(`greeting = "hello" << "world"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 def, got %d", len(defs))
	}
	rule, ok := defs[0].(*RuleDef)
	if !ok {
		t.Fatalf("expected *RuleDef, got %T", defs[0])
	}
	if rule.Name != "greeting" {
		t.Errorf("expected name 'greeting', got %q", rule.Name)
	}
	bin, ok := rule.Expr.(*BinOpNode)
	if !ok || bin.Op != "<<" {
		t.Fatalf("expected top-level '<<' BinOpNode, got %T (%v)", rule.Expr, rule.Expr)
	}
	if _, ok := bin.A.(*StrLitNode); !ok {
		t.Errorf("expected left operand to be a StrLitNode, got %T", bin.A)
	}
}

func TestParseListLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	defs, err := Parse(`r = [a, b, "c"]`)
	if err != nil {
		t.Fatal(err)
	}
	rule := defs[0].(*RuleDef)
	list, ok := rule.Expr.(*ListNode)
	if !ok {
		t.Fatalf("expected *ListNode, got %T", rule.Expr)
	}
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list.Items))
	}
}

func TestParseChoiceAndPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	defs, err := Parse(`r = a / "," | b*`)
	if err != nil {
		t.Fatal(err)
	}
	rule := defs[0].(*RuleDef)
	choice, ok := rule.Expr.(*ChoiceNode)
	if !ok {
		t.Fatalf("expected top-level ChoiceNode, got %T (%v)", rule.Expr, rule.Expr)
	}
	if len(choice.Alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(choice.Alts))
	}
	altSep, ok := choice.Alts[0].(*BinOpNode)
	if !ok || altSep.Op != "/" {
		t.Errorf("expected first alt to be a '/' BinOpNode, got %T (%v)", choice.Alts[0], choice.Alts[0])
	}
	post, ok := choice.Alts[1].(*PostfixNode)
	if !ok || post.Op != "*" {
		t.Errorf("expected second alt to be a '*' PostfixNode, got %T (%v)", choice.Alts[1], choice.Alts[1])
	}
}

func TestParseCallWithKeywordArgs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	defs, err := Parse(`r = sep_by(item = NUM, sep = ",")`)
	if err != nil {
		t.Fatal(err)
	}
	rule := defs[0].(*RuleDef)
	call, ok := rule.Expr.(*CallNode)
	if !ok {
		t.Fatalf("expected *CallNode, got %T", rule.Expr)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if call.Args[0].Name != "item" || call.Args[1].Name != "sep" {
		t.Errorf("expected keyword args 'item' and 'sep', got %q and %q", call.Args[0].Name, call.Args[1].Name)
	}
}

func TestParseLetExpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	defs, err := Parse("r = let x = NUM in x << x")
	if err != nil {
		t.Fatal(err)
	}
	rule := defs[0].(*RuleDef)
	let, ok := rule.Expr.(*LetNode)
	if !ok {
		t.Fatalf("expected *LetNode, got %T", rule.Expr)
	}
	if let.Name != "x" {
		t.Errorf("expected binding name 'x', got %q", let.Name)
	}
	if _, ok := let.Value.(*NameNode); !ok {
		t.Errorf("expected value to be a NameNode, got %T", let.Value)
	}
	if _, ok := let.Body.(*BinOpNode); !ok {
		t.Errorf("expected body to be a BinOpNode, got %T", let.Body)
	}
}

func TestParseTokenAndClassDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	src := `
ignored token Space = ` + "`[ \\t]+`" + `

token class Number(value) {
	value = ` + "`[0-9]+`" + `
}
`
	defs, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 defs, got %d", len(defs))
	}
	space, ok := defs[0].(*TokenDef)
	if !ok || !space.IsIgnored {
		t.Fatalf("expected ignored TokenDef, got %#v", defs[0])
	}
	if _, ok := space.Child.(*RuleDef); !ok {
		t.Errorf("expected child *RuleDef, got %T", space.Child)
	}

	num, ok := defs[1].(*TokenDef)
	if !ok || num.IsIgnored {
		t.Fatalf("expected non-ignored TokenDef, got %#v", defs[1])
	}
	class, ok := num.Child.(*ClassDef)
	if !ok {
		t.Fatalf("expected child *ClassDef, got %T", num.Child)
	}
	if class.Name != "Number" || len(class.Params) != 1 || class.Params[0] != "value" {
		t.Errorf("unexpected class header: %#v", class)
	}
	if len(class.Fields) != 1 || class.Fields[0].Name != "value" {
		t.Errorf("unexpected class fields: %#v", class.Fields)
	}
}

func TestParseTemplateAndRecoverDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	src := `
template listOf(item, sep) => item << (sep << item)*

recover stmt = ` + "`[^\\n]*`" + `
`
	defs, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 defs, got %d", len(defs))
	}
	tmpl, ok := defs[0].(*TemplateDef)
	if !ok {
		t.Fatalf("expected *TemplateDef, got %T", defs[0])
	}
	if tmpl.Name != "listOf" || len(tmpl.Params) != 2 {
		t.Errorf("unexpected template header: %#v", tmpl)
	}
	rec, ok := defs[1].(*RecoverDef)
	if !ok || rec.Name != "stmt" {
		t.Fatalf("expected *RecoverDef named 'stmt', got %#v", defs[1])
	}
}

func TestParseMultipleStatementsSeparatedBySemicolon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	defs, err := Parse(`a = "x"; b = "y"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 defs, got %d", len(defs))
	}
	if defs[0].defName() != "a" || defs[1].defName() != "b" {
		t.Errorf("unexpected def names: %q, %q", defs[0].defName(), defs[1].defName())
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peg.metasyntax")
	defer teardown()
	if _, err := Parse(`a = `); err == nil {
		t.Error("expected an error parsing a rule with no body")
	}
	if _, err := Parse(`= "x"`); err == nil {
		t.Error("expected an error parsing a rule with no name")
	}
}
