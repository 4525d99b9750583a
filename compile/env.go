// Copyright © 2024 The jvs/peg Authors.

package compile

import (
	"unicode/utf8"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/jvs/peg/expr"
)

// Env is a compiled grammar's environment (§3.3): an ordered
// `name -> Expression` mapping, plus the two auxiliary entries `start`
// and `#tokens`. Declaration order is preserved via linkedhashmap rather
// than a plain map, since the self-description round trip (§8) and
// error messages benefit from reporting rules in source order.
type Env struct {
	rules         *linkedhashmap.Map
	Start         expr.Expression
	Tokens        []*expr.TokenClass
	UTF8Positions bool
}

// RunePosition translates a byte offset returned by driver.Run (a
// *driver.ParseError's Pos field, for instance) into a rune count for
// display, when the grammar was compiled with WithUTF8Positions; plain
// byte offsets are returned unchanged otherwise. This only affects how a
// position is reported, never how StrLit/RegexLit match.
func (e *Env) RunePosition(text string, bytePos int) int {
	if !e.UTF8Positions || bytePos <= 0 {
		return bytePos
	}
	if bytePos > len(text) {
		bytePos = len(text)
	}
	return utf8.RuneCountInString(text[:bytePos])
}

func newEnv() *Env {
	return &Env{rules: linkedhashmap.New()}
}

// Rule looks up a top-level rule, class, or token definition by name.
func (e *Env) Rule(name string) (expr.Expression, bool) {
	v, found := e.rules.Get(name)
	if !found {
		return nil, false
	}
	return v.(expr.Expression), true
}

// Names returns every top-level name in declaration order.
func (e *Env) Names() []string {
	keys := e.rules.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

func (e *Env) set(name string, value expr.Expression) {
	e.rules.Put(name, value)
}
