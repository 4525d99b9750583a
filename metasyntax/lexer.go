// Copyright © 2024 The jvs/peg Authors.

package metasyntax

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Kind classifies a lexed token (§4.5's fixed lexer).
type Kind int

const (
	Word Kind = iota
	Symbol
	StringLit
	RegexLit
	Newline
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Symbol:
		return "Symbol"
	case StringLit:
		return "StringLit"
	case RegexLit:
		return "RegexLit"
	case Newline:
		return "Newline"
	default:
		return "?"
	}
}

// Token is one lexed unit of grammar source, with Pos as a byte offset
// for error reporting.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// multiCharSymbols are registered before their single-character
// prefixes; lexmachine matches the longest possible lexeme regardless of
// add order, so this order only documents the intended priority.
var multiCharSymbols = []string{"<<!", "!>>", "<<", ">>", "=>", "//"}

const singleCharSymbols = "=;,:|/*+?!()[]{}$"

func buildLexer() (*lexmachine.Lexer, error) {
	lex := lexmachine.NewLexer()

	skip := func(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
		return nil, nil
	}
	emit := func(kind Kind) lexmachine.Action {
		return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return Token{Kind: kind, Text: string(m.Bytes), Pos: m.TC}, nil
		}
	}

	// Comment and plain whitespace are discarded entirely.
	lex.Add([]byte(`\#[^\r\n]*`), skip)
	lex.Add([]byte(`( |\t)+`), skip)

	// Newlines carry statement-separator meaning at depth 0; transformTokens
	// (below) drops the ones nested inside ( or [.
	lex.Add([]byte(`(\r|\n)(\r|\n| |\t)*`), emit(Newline))

	lex.Add([]byte(`[_a-zA-Z][_a-zA-Z0-9]*`), emit(Word))

	// Triple/double/single-quoted strings, backslash-escaped; the
	// [^"\\]|"[^"]|""[^"] shape (mirrored for ' and ''') forbids the bare
	// closing delimiter from appearing mid-literal without requiring a
	// non-greedy quantifier lexmachine's regex dialect doesn't support.
	lex.Add([]byte(`'''(\\.|[^'\\]|'[^']|''[^'])*'''`), emit(StringLit))
	lex.Add([]byte(`"""(\\.|[^"\\]|"[^"]|""[^"])*"""`), emit(StringLit))
	lex.Add([]byte(`'(\\.|[^'\\])*'`), emit(StringLit))
	lex.Add([]byte(`"(\\.|[^"\\])*"`), emit(StringLit))

	lex.Add([]byte("`(\\\\.|[^`\\\\])*`"), emit(RegexLit))

	for _, sym := range multiCharSymbols {
		lex.Add([]byte(escapeLiteral(sym)), emit(Symbol))
	}
	for _, c := range singleCharSymbols {
		lex.Add([]byte(escapeLiteral(string(c))), emit(Symbol))
	}

	if err := lex.Compile(); err != nil {
		return nil, fmt.Errorf("metasyntax: failed to compile lexer DFA: %w", err)
	}
	return lex, nil
}

func escapeLiteral(s string) string {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, '\\', s[i])
	}
	return string(out)
}

// Lex tokenizes source in full, applying the paren-depth newline filter
// (§4.5's "Token post-processing"): newlines inside `(` or `[` are
// discarded, since they appear mid-argument-list or mid-field-list rather
// than as statement separators.
func Lex(source string) ([]Token, error) {
	lex, err := buildLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lex.Scanner([]byte(source))
	if err != nil {
		return nil, fmt.Errorf("metasyntax: failed to create scanner: %w", err)
	}

	var tokens []Token
	for {
		raw, err, eof := scanner.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				return nil, fmt.Errorf("metasyntax: unexpected character at byte %d", ui.FailTC)
			}
			return nil, fmt.Errorf("metasyntax: lex error: %w", err)
		}
		tok, ok := raw.(Token)
		if !ok || tok.Text == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return transformTokens(tokens), nil
}

// transformTokens drops Newline tokens nested inside ( or [, tracking
// paren/bracket depth across the whole token stream (§4.5).
func transformTokens(tokens []Token) []Token {
	result := make([]Token, 0, len(tokens))
	depth := 0
	for _, tok := range tokens {
		switch tok.Text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		}
		if depth > 0 && tok.Kind == Newline {
			continue
		}
		result = append(result, tok)
	}
	return result
}
