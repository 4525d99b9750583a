// Copyright © 2024 The jvs/peg Authors.

package compile

import (
	"github.com/jvs/peg/expr"
	"github.com/jvs/peg/metasyntax"
)

// evaluate lowers one ExprNode into a bound expr.Expression (§4.6 step 3).
// sc resolves template-parameter names (a compile-time substitution); ls
// tracks which names are currently let-bound, so a NameNode can be told
// apart from a forward/global rule reference (see resolve.go).
func (c *compiler) evaluate(node metasyntax.ExprNode, sc *scope, ls *letScope) (expr.Expression, error) {
	switch n := node.(type) {
	case *metasyntax.NameNode:
		return c.evaluateName(n, sc, ls)
	case *metasyntax.StrLitNode:
		return expr.NewStrLit(n.Value), nil
	case *metasyntax.RegexLitNode:
		return expr.NewRegexLit(n.Source)
	case *metasyntax.ListNode:
		items := make([]expr.Expression, len(n.Items))
		for i, it := range n.Items {
			v, err := c.evaluate(it, sc, ls)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return expr.NewSeq(items...), nil
	case *metasyntax.ChoiceNode:
		alts := make([]expr.Expression, len(n.Alts))
		for i, a := range n.Alts {
			v, err := c.evaluate(a, sc, ls)
			if err != nil {
				return nil, err
			}
			alts[i] = v
		}
		return expr.NewChoice(alts...), nil
	case *metasyntax.BinOpNode:
		return c.evaluateBinOp(n, sc, ls)
	case *metasyntax.PostfixNode:
		return c.evaluatePostfix(n, sc, ls)
	case *metasyntax.CallNode:
		return c.evaluateCall(n, sc, ls)
	case *metasyntax.LetNode:
		value, err := c.evaluate(n.Value, sc, ls)
		if err != nil {
			return nil, err
		}
		body, err := c.evaluate(n.Body, sc, ls.push(n.Name))
		if err != nil {
			return nil, err
		}
		return expr.NewLetExpr(n.Name, value, body), nil
	default:
		return nil, errorf("unsupported expression node %T", node)
	}
}

// evaluateName resolves a bare identifier in one of three ways, per the
// precedence runtime/let-binding vs. compile-time substitution split
// documented in resolve.go: a let-local (-> a dynamic Ref), a template
// parameter (-> the caller's already-evaluated argument, substituted
// in directly), or a rule name (-> a possibly-forward Ref patched once
// every top-level name is known).
func (c *compiler) evaluateName(n *metasyntax.NameNode, sc *scope, ls *letScope) (expr.Expression, error) {
	if ls.has(n.Name) {
		return expr.NewLocalRef(n.Name), nil
	}
	if v, ok := sc.lookup(n.Name); ok {
		return v, nil
	}
	ref := expr.NewRuleRef(n.Name)
	c.pending[n.Name] = append(c.pending[n.Name], ref)
	return ref, nil
}

func (c *compiler) evaluateBinOp(n *metasyntax.BinOpNode, sc *scope, ls *letScope) (expr.Expression, error) {
	a, err := c.evaluate(n.A, sc, ls)
	if err != nil {
		return nil, err
	}
	b, err := c.evaluate(n.B, sc, ls)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "<<":
		return expr.NewLeft(a, b), nil
	case ">>":
		return expr.NewRight(a, b), nil
	case "<<!":
		return expr.NewCommit(expr.NewLeft(a, b)), nil
	case "!>>":
		return expr.NewCommit(expr.NewRight(a, b)), nil
	case "/":
		return expr.NewAlt(a, b, true, true), nil
	case "//":
		return expr.NewAlt(a, b, false, true), nil
	default:
		return nil, errorf("unsupported binary operator %q", n.Op)
	}
}

func (c *compiler) evaluatePostfix(n *metasyntax.PostfixNode, sc *scope, ls *letScope) (expr.Expression, error) {
	inner, err := c.evaluate(n.Inner, sc, ls)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "?":
		return expr.NewOpt(inner), nil
	case "*":
		return expr.NewList(inner, true), nil
	case "+":
		return expr.NewList(inner, false), nil
	case "!":
		return expr.NewCommit(inner), nil
	default:
		return nil, errorf("unsupported postfix operator %q", n.Op)
	}
}

// evaluateCall lowers `callee(args...)` (§6.1 level 2): a template
// invocation when callee names a declared template, or an invocation of
// one of the expression-algebra constructors the grammar environment is
// seeded with (§4.6 step 2) otherwise.
//
// Apply/Where (host-callable-based combinators) are deliberately not
// reachable from this dispatch: spec.md §9 flags the host-callable
// mechanism itself as an unresolved porting wart with no given surface
// syntax, so this implementation leaves them constructible only by
// direct Go code, never by grammar source.
func (c *compiler) evaluateCall(n *metasyntax.CallNode, sc *scope, ls *letScope) (expr.Expression, error) {
	nameNode, ok := n.Callee.(*metasyntax.NameNode)
	if !ok {
		return nil, errorf("call target must be a plain name, got %s", n.Callee)
	}
	if t, ok := c.templates[nameNode.Name]; ok {
		return c.invokeTemplate(t, n.Args, sc, ls)
	}
	return c.evalBuiltinCall(nameNode.Name, n.Args, sc, ls)
}

// evalBuiltinCall dispatches the built-in expression-algebra constructors.
// true/false/null are only meaningful as arguments here, never as a
// standalone expression: the grammar has no other use for a bare boolean
// or null literal, so NameNode's ordinary resolution path (evaluateName)
// never special-cases them.
func (c *compiler) evalBuiltinCall(name string, args []metasyntax.ArgNode, sc *scope, ls *letScope) (expr.Expression, error) {
	switch name {
	case "Fail":
		return c.evalFailCall(args)
	case "End":
		if len(args) != 0 {
			return nil, errorf("End takes no arguments")
		}
		return expr.NewEnd(), nil
	case "Expect":
		inner, err := c.oneExprArg(name, args, sc, ls)
		if err != nil {
			return nil, err
		}
		return expr.NewExpect(inner), nil
	case "ExpectNot":
		inner, err := c.oneExprArg(name, args, sc, ls)
		if err != nil {
			return nil, err
		}
		return expr.NewExpectNot(inner), nil
	case "Skip":
		items, err := c.variadicExprArgs(name, args, sc, ls)
		if err != nil {
			return nil, err
		}
		return expr.NewSkip(items...), nil
	case "Seq":
		items, err := c.variadicExprArgs(name, args, sc, ls)
		if err != nil {
			return nil, err
		}
		return expr.NewSeq(items...), nil
	case "Choice":
		items, err := c.variadicExprArgs(name, args, sc, ls)
		if err != nil {
			return nil, err
		}
		return expr.NewChoice(items...), nil
	case "Alt":
		return c.evalAltCall(args, sc, ls)
	case "OpPrec", "OperatorPrecedence":
		return c.evalOpPrecCall(args, sc, ls)
	default:
		return nil, errorf("undefined template or constructor %q", name)
	}
}

func (c *compiler) evalFailCall(args []metasyntax.ArgNode) (expr.Expression, error) {
	if len(args) == 0 {
		return expr.NewFail(""), nil
	}
	if len(args) != 1 || args[0].Name != "" {
		return nil, errorf("Fail takes at most one positional string-literal argument")
	}
	lit, ok := args[0].Expr.(*metasyntax.StrLitNode)
	if !ok {
		return nil, errorf("Fail's argument must be a string literal")
	}
	return expr.NewFail(lit.Value), nil
}

func (c *compiler) evalAltCall(args []metasyntax.ArgNode, sc *scope, ls *letScope) (expr.Expression, error) {
	matched, err := matchNamedArgs("Alt", args, []string{"item", "sep", "allow_trailer", "allow_empty"})
	if err != nil {
		return nil, err
	}
	itemArg, ok := matched["item"]
	if !ok {
		return nil, errorf("Alt requires an %q argument", "item")
	}
	sepArg, ok := matched["sep"]
	if !ok {
		return nil, errorf("Alt requires a %q argument", "sep")
	}
	item, err := c.evaluate(itemArg.Expr, sc, ls)
	if err != nil {
		return nil, err
	}
	sep, err := c.evaluate(sepArg.Expr, sc, ls)
	if err != nil {
		return nil, err
	}
	allowTrailer, allowEmpty := true, true
	if a, ok := matched["allow_trailer"]; ok {
		if allowTrailer, err = evalBoolArg(a.Expr); err != nil {
			return nil, err
		}
	}
	if a, ok := matched["allow_empty"]; ok {
		if allowEmpty, err = evalBoolArg(a.Expr); err != nil {
			return nil, err
		}
	}
	return expr.NewAlt(item, sep, allowTrailer, allowEmpty), nil
}

func (c *compiler) evalOpPrecCall(args []metasyntax.ArgNode, sc *scope, ls *letScope) (expr.Expression, error) {
	if len(args) == 0 {
		return nil, errorf("OpPrec requires an atom argument and at least one level")
	}
	if args[0].Name != "" {
		return nil, errorf("OpPrec's first argument (the atom) must be positional")
	}
	atom, err := c.evaluate(args[0].Expr, sc, ls)
	if err != nil {
		return nil, err
	}
	levels := make([]expr.Level, 0, len(args)-1)
	for _, a := range args[1:] {
		if a.Name != "" {
			return nil, errorf("OpPrec's level arguments must be positional")
		}
		lvl, err := c.evalLevel(a.Expr, sc, ls)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return expr.NewOpPrec(atom, levels...), nil
}

// evalLevel lowers one of OpPrec's level-constructor calls (Postfix,
// Prefix, LeftAssoc, RightAssoc, NonAssoc). These produce an expr.Level,
// not an expr.Expression, so they're evaluated by this separate helper
// rather than folded into evaluate/evalBuiltinCall.
func (c *compiler) evalLevel(node metasyntax.ExprNode, sc *scope, ls *letScope) (expr.Level, error) {
	call, ok := node.(*metasyntax.CallNode)
	if !ok {
		return nil, errorf("expected a Postfix/Prefix/LeftAssoc/RightAssoc/NonAssoc call, got %s", node)
	}
	nameNode, ok := call.Callee.(*metasyntax.NameNode)
	if !ok {
		return nil, errorf("operator-precedence level callee must be a name")
	}
	op, err := c.oneExprArg(nameNode.Name, call.Args, sc, ls)
	if err != nil {
		return nil, err
	}
	switch nameNode.Name {
	case "Postfix":
		return expr.Postfix(op), nil
	case "Prefix":
		return expr.Prefix(op), nil
	case "LeftAssoc":
		return expr.LeftAssoc(op), nil
	case "RightAssoc":
		return expr.RightAssoc(op), nil
	case "NonAssoc":
		return expr.NonAssoc(op), nil
	default:
		return nil, errorf("unknown operator-precedence level constructor %q", nameNode.Name)
	}
}

func (c *compiler) oneExprArg(name string, args []metasyntax.ArgNode, sc *scope, ls *letScope) (expr.Expression, error) {
	if len(args) != 1 || args[0].Name != "" {
		return nil, errorf("%s takes exactly one positional argument", name)
	}
	return c.evaluate(args[0].Expr, sc, ls)
}

func (c *compiler) variadicExprArgs(name string, args []metasyntax.ArgNode, sc *scope, ls *letScope) ([]expr.Expression, error) {
	items := make([]expr.Expression, len(args))
	for i, a := range args {
		if a.Name != "" {
			return nil, errorf("%s does not accept keyword arguments", name)
		}
		v, err := c.evaluate(a.Expr, sc, ls)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func evalBoolArg(node metasyntax.ExprNode) (bool, error) {
	n, ok := node.(*metasyntax.NameNode)
	if ok {
		switch n.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, errorf("expected true or false, got %s", node)
}

// matchNamedArgs assigns each positional or keyword argument to a
// parameter name, the same shape bindTemplateArgs uses for templates,
// but returning the unevaluated ArgNode: callers of a builtin constructor
// decide per-parameter how the argument should be lowered (expression,
// bool literal, or nested level-constructor call).
func matchNamedArgs(label string, args []metasyntax.ArgNode, params []string) (map[string]metasyntax.ArgNode, error) {
	result := make(map[string]metasyntax.ArgNode, len(args))
	positional := 0
	for _, arg := range args {
		if arg.Name == "" {
			if positional >= len(params) {
				return nil, errorf("%s: too many positional arguments", label)
			}
			result[params[positional]] = arg
			positional++
			continue
		}
		if !containsParam(params, arg.Name) {
			return nil, errorf("%s: no such parameter %q", label, arg.Name)
		}
		if _, dup := result[arg.Name]; dup {
			return nil, errorf("%s: parameter %q bound more than once", label, arg.Name)
		}
		result[arg.Name] = arg
	}
	return result, nil
}
