// Copyright © 2024 The jvs/peg Authors.

package compile

import (
	"github.com/jvs/peg/expr"
	"github.com/jvs/peg/metasyntax"
)

// invokeTemplate expands a template call (§4.6: "Template invocation is
// a grammar-compile-time substitution: the arguments ... are bound by
// name to the template's parameters and the template body is
// re-evaluated in the extended environment, yielding a fresh expression
// tree"). Each call gets its own fresh traversal of the template body,
// so two invocations of the same template never share ProgramIDs or
// mutable state.
func (c *compiler) invokeTemplate(def *metasyntax.TemplateDef, args []metasyntax.ArgNode, sc *scope, ls *letScope) (expr.Expression, error) {
	bindings, err := c.bindTemplateArgs(def, args, sc, ls)
	if err != nil {
		return nil, err
	}
	return c.evaluate(def.Body, sc.push(bindings), ls)
}

// bindTemplateArgs matches positional and keyword call arguments to a
// template's declared parameters, evaluating each argument expression in
// the *caller's* scope (not the template's) before it is substituted in.
func (c *compiler) bindTemplateArgs(def *metasyntax.TemplateDef, args []metasyntax.ArgNode, sc *scope, ls *letScope) (map[string]expr.Expression, error) {
	bindings := make(map[string]expr.Expression, len(def.Params))
	positional := 0
	for _, arg := range args {
		if arg.Name == "" {
			if positional >= len(def.Params) {
				return nil, errorf("template %q: too many positional arguments", def.Name)
			}
			param := def.Params[positional]
			positional++
			val, err := c.evaluate(arg.Expr, sc, ls)
			if err != nil {
				return nil, err
			}
			if free := freeVars(val); len(free) > 0 {
				return nil, errorf("template %q: argument for %q closes over let-bound name(s) %v, which may go out of scope once spliced into the template body", def.Name, param, free)
			}
			bindings[param] = val
			continue
		}
		if !containsParam(def.Params, arg.Name) {
			return nil, errorf("template %q: no such parameter %q", def.Name, arg.Name)
		}
		if _, dup := bindings[arg.Name]; dup {
			return nil, errorf("template %q: parameter %q bound more than once", def.Name, arg.Name)
		}
		val, err := c.evaluate(arg.Expr, sc, ls)
		if err != nil {
			return nil, err
		}
		if free := freeVars(val); len(free) > 0 {
			return nil, errorf("template %q: argument for %q closes over let-bound name(s) %v, which may go out of scope once spliced into the template body", def.Name, arg.Name, free)
		}
		bindings[arg.Name] = val
	}
	if len(bindings) != len(def.Params) {
		return nil, errorf("template %q: expected %d arguments, got %d", def.Name, len(def.Params), len(bindings))
	}
	return bindings, nil
}

func containsParam(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}
