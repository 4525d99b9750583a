// Copyright © 2024 The jvs/peg Authors.

package metasyntax

import "fmt"

// Def is a top-level grammar definition (§4.6 step 1's "definition AST").
type Def interface {
	defName() string
}

// FieldDef is one member of a ClassDef's field list (`NAME ("=" | ":") EXPR`).
type FieldDef struct {
	Name string
	Expr ExprNode
}

// RuleDef is `NAME = EXPR` or `NAME : EXPR`.
type RuleDef struct {
	Name string
	Expr ExprNode
}

func (d *RuleDef) defName() string { return d.Name }

// ClassDef is `class NAME { FIELD; ... }` or a parametric
// `class NAME(PARAM, ...) { FIELD; ... }`.
type ClassDef struct {
	Name   string
	Params []string
	Fields []FieldDef
}

func (d *ClassDef) defName() string { return d.Name }

// TokenDef wraps a RuleDef or ClassDef as `token ...` / `ignored? token ...`.
type TokenDef struct {
	IsIgnored bool
	Child     Def // *RuleDef or *ClassDef
}

func (d *TokenDef) defName() string { return d.Child.defName() }

// TemplateDef is `template NAME(PARAM, ...) => EXPR` (or `=`).
type TemplateDef struct {
	Name   string
	Params []string
	Body   ExprNode
}

func (d *TemplateDef) defName() string { return d.Name }

// RecoverDef is `recover NAME = EXPR`, appending an alternative branch to
// an existing rule (§4.6 step 4).
type RecoverDef struct {
	Name string
	Body ExprNode
}

func (d *RecoverDef) defName() string { return d.Name }

// ExprNode is the raw, pre-evaluation expression AST produced by the
// parser — distinct from expr.Expression, the compiled runtime form.
// The compile package's evaluate walks an ExprNode tree against a compile-time
// environment to produce an expr.Expression (§4.6 step 3).
type ExprNode interface {
	fmt.Stringer
}

// NameNode is a bare identifier: a rule reference, a local/template
// binding, or the callee of a template invocation.
type NameNode struct{ Name string }

func (n *NameNode) String() string { return n.Name }

// StrLitNode is a quoted string literal atom.
type StrLitNode struct{ Value string }

func (n *StrLitNode) String() string { return fmt.Sprintf("%q", n.Value) }

// RegexLitNode is a backtick-delimited regex literal atom.
type RegexLitNode struct{ Source string }

func (n *RegexLitNode) String() string { return "`" + n.Source + "`" }

// ListNode is a `[ e, ... ]` list literal.
type ListNode struct{ Items []ExprNode }

func (n *ListNode) String() string { return fmt.Sprintf("%v", n.Items) }

// ChoiceNode is `e1 | e2 | ...` (§6.1 level 6).
type ChoiceNode struct{ Alts []ExprNode }

func (n *ChoiceNode) String() string { return fmt.Sprintf("%v", n.Alts) }

// BinOpNode covers the level-4 and level-5 infix operators: `<<`, `>>`,
// `<<!`, `!>>`, `/`, `//`.
type BinOpNode struct {
	Op   string
	A, B ExprNode
}

func (n *BinOpNode) String() string { return fmt.Sprintf("(%s %s %s)", n.A, n.Op, n.B) }

// PostfixNode covers the level-3 postfix operators: `?`, `*`, `+`, `!`.
type PostfixNode struct {
	Op    string
	Inner ExprNode
}

func (n *PostfixNode) String() string { return n.Inner.String() + n.Op }

// ArgNode is one argument to a template invocation: positional
// (Name == "") or keyword (`name = expr`, the supplemented KeywordArg
// form from parsing_expressions.py).
type ArgNode struct {
	Name string
	Expr ExprNode
}

// CallNode is `callee(arg, ..., name=arg, ...)` (§6.1 level 2):
// a template invocation when Callee names a template, otherwise a call
// to one of the compiler's built-in expression constructors.
type CallNode struct {
	Callee ExprNode
	Args   []ArgNode
}

func (n *CallNode) String() string { return fmt.Sprintf("%s(...)", n.Callee) }

// LetNode is `let NAME = EXPR in EXPR`, the supplemented surface syntax
// for expr.LetExpr (see SPEC_FULL.md's "Supplemented features").
type LetNode struct {
	Name  string
	Value ExprNode
	Body  ExprNode
}

func (n *LetNode) String() string { return fmt.Sprintf("let %s = %s in %s", n.Name, n.Value, n.Body) }
