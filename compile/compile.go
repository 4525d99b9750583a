// Copyright © 2024 The jvs/peg Authors.

package compile

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/jvs/peg/expr"
	"github.com/jvs/peg/metasyntax"
	"github.com/jvs/peg/tree"
	"golang.org/x/exp/maps"
)

// compiler holds the mutable bookkeeping state for one Compile call
// (§4.6 steps 1-5): declared names, forward references awaiting a
// patch, registered templates, and the growing set of token classes
// that feed the `_ignored` sink.
type compiler struct {
	order        []string
	declared     *treeset.Set
	kind         map[string]metasyntax.Def
	resolved     map[string]expr.Expression
	pending      map[string][]*expr.Ref
	templates    map[string]*metasyntax.TemplateDef
	tokenClasses *arraylist.List
	ignoredNames map[string]bool
	recoverWraps map[string]*expr.Recover
}

// Compile lowers grammar source text into an Env (§4.6). It fails with
// a *GrammarError for any structural defect spec.md §7 names, or a
// wrapped parser error if source itself doesn't tokenize/parse.
func Compile(source string, opts ...Option) (*Env, error) {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	defs, err := metasyntax.Parse(source)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		declared:     treeset.NewWith(utils.StringComparator),
		kind:         make(map[string]metasyntax.Def),
		resolved:     make(map[string]expr.Expression),
		pending:      make(map[string][]*expr.Ref),
		templates:    make(map[string]*metasyntax.TemplateDef),
		tokenClasses: arraylist.New(),
		ignoredNames: make(map[string]bool),
		recoverWraps: make(map[string]*expr.Recover),
	}
	recoverDefs := arraylist.New()

	for _, def := range defs {
		switch d := def.(type) {
		case *metasyntax.TemplateDef:
			if _, dup := c.templates[d.Name]; dup {
				return nil, errorf("duplicate template name %q", d.Name)
			}
			c.templates[d.Name] = d
		case *metasyntax.RecoverDef:
			recoverDefs.Add(d)
		default:
			name := topLevelName(def)
			if name == "" {
				return nil, errorf("definition has no name")
			}
			if strings.HasPrefix(name, "_") {
				return nil, errorf("rule name %q may not start with an underscore (reserved)", name)
			}
			if c.declared.Contains(name) {
				return nil, errorf("duplicate rule name %q", name)
			}
			c.declared.Add(name)
			c.kind[name] = def
			c.order = append(c.order, name)
		}
	}

	for _, name := range c.order {
		obj, isIgnored, err := c.evaluateTopLevel(c.kind[name])
		if err != nil {
			return nil, err
		}
		c.resolved[name] = obj
		if isIgnored {
			c.ignoredNames[name] = true
		}
	}

	for _, rd := range recoverDefs.Values() {
		if err := c.applyRecover(rd.(*metasyntax.RecoverDef)); err != nil {
			return nil, err
		}
	}

	// Sorted so that a grammar with more than one undefined forward
	// reference always reports the same name first, independent of Go's
	// randomized map iteration order.
	pendingNames := maps.Keys(c.pending)
	sort.Strings(pendingNames)
	for _, name := range pendingNames {
		target, ok := c.resolved[name]
		if !ok {
			return nil, errorf("undefined reference %q", name)
		}
		for _, ref := range c.pending[name] {
			ref.Resolved = target
		}
	}

	for _, name := range c.order {
		obj := c.resolved[name]
		switch v := obj.(type) {
		case *expr.Rule:
			if containsCommit(v.Body) {
				v.Body = expr.NewCheckpoint(v.Body)
			}
		case *expr.TokenClass:
			if containsCommit(v.Inner) {
				v.Inner = expr.NewCheckpoint(v.Inner)
			}
		case *expr.Class:
			if containsCommit(v.Body) {
				v.Body = expr.NewCheckpoint(v.Body)
			}
		}
	}

	var ignoredSink expr.Expression
	if c.tokenClasses.Size() > 0 {
		var items []expr.Expression
		for _, v := range c.tokenClasses.Values() {
			tc := v.(*expr.TokenClass)
			if tc.IsIgnored {
				items = append(items, tc)
			}
		}
		if len(items) > 0 {
			ignoredSink = expr.NewSkip(items...)
		}
	}

	if ignoredSink != nil {
		for _, name := range c.order {
			if c.ignoredNames[name] {
				continue
			}
			threadSkipIgnored(c.resolved[name], ignoredSink)
		}
		c.resolved["_ignored"] = ignoredSink
	}

	env := newEnv()
	env.UTF8Positions = cfg.utf8Positions
	for _, name := range c.order {
		env.set(name, c.resolved[name])
	}
	if ignoredSink != nil {
		env.set("_ignored", ignoredSink)
	}
	for _, v := range c.tokenClasses.Values() {
		tc := v.(*expr.TokenClass)
		if tc.IsIgnored {
			env.Tokens = append(env.Tokens, tc)
		}
	}

	start, ok := env.Rule("start")
	if !ok {
		return nil, errorf("grammar has no %q rule", "start")
	}
	if c.ignoredNames["start"] {
		return nil, errorf("%q rule may not be marked ignored", "start")
	}
	if ignoredSink != nil {
		start = expr.NewRight(ignoredSink, start)
		env.set("start", start)
	}
	env.Start = start

	AssignProgramIDs(env)

	return env, nil
}

// topLevelName returns the name a rule, class, or token definition
// declares, or "" for any other definition kind.
func topLevelName(def metasyntax.Def) string {
	switch d := def.(type) {
	case *metasyntax.RuleDef:
		return d.Name
	case *metasyntax.ClassDef:
		return d.Name
	case *metasyntax.TokenDef:
		return topLevelName(d.Child)
	}
	return ""
}

func (c *compiler) evaluateTopLevel(def metasyntax.Def) (expr.Expression, bool, error) {
	switch d := def.(type) {
	case *metasyntax.RuleDef:
		body, err := c.evaluate(d.Expr, nil, nil)
		if err != nil {
			return nil, false, err
		}
		return expr.NewRule(d.Name, body, false), false, nil
	case *metasyntax.ClassDef:
		seq, err := c.evaluateClassBody(d, false)
		if err != nil {
			return nil, false, err
		}
		return expr.NewClass(d.Name, seq, false), false, nil
	case *metasyntax.TokenDef:
		inner, err := c.evaluateTokenChild(d.Child, d.IsIgnored)
		if err != nil {
			return nil, false, err
		}
		tc := expr.NewTokenClass(inner, d.IsIgnored)
		c.tokenClasses.Add(tc)
		return tc, d.IsIgnored, nil
	default:
		return nil, false, errorf("unsupported top-level definition %T", def)
	}
}

func (c *compiler) evaluateTokenChild(child metasyntax.Def, isIgnored bool) (expr.Expression, error) {
	switch d := child.(type) {
	case *metasyntax.RuleDef:
		body, err := c.evaluate(d.Expr, nil, nil)
		if err != nil {
			return nil, err
		}
		return expr.NewRule(d.Name, body, isIgnored), nil
	case *metasyntax.ClassDef:
		seq, err := c.evaluateClassBody(d, isIgnored)
		if err != nil {
			return nil, err
		}
		return expr.NewClass(d.Name, seq, isIgnored), nil
	default:
		return nil, errorf("token definitions must wrap a rule or class, got %T", child)
	}
}

func (c *compiler) evaluateClassBody(d *metasyntax.ClassDef, isIgnored bool) (*expr.Seq, error) {
	items := make([]expr.Expression, len(d.Fields))
	fieldNames := make([]string, len(d.Fields))
	bindings := make(map[string]expr.Expression, len(d.Params))
	for _, p := range d.Params {
		bindings[p] = expr.NewLocalRef(p)
	}
	sc := (*scope)(nil)
	if len(bindings) > 0 {
		sc = sc.push(bindings)
	}
	for i, field := range d.Fields {
		item, err := c.evaluate(field.Expr, sc, nil)
		if err != nil {
			return nil, err
		}
		items[i] = item
		fieldNames[i] = field.Name
	}
	typeName := d.Name
	ctor := func(values []interface{}, fields []string) interface{} {
		return tree.NewRecord(typeName, fields, values)
	}
	return expr.NewClassSeq(items, fieldNames, ctor), nil
}

func (c *compiler) applyRecover(rd *metasyntax.RecoverDef) error {
	target, ok := c.resolved[rd.Name]
	if !ok {
		return errorf("recover targets unknown rule %q", rd.Name)
	}
	rule, ok := target.(*expr.Rule)
	if !ok {
		return errorf("recover targets %q, which is not a plain rule", rd.Name)
	}
	body, err := c.evaluate(rd.Body, nil, nil)
	if err != nil {
		return err
	}
	if wrap, already := c.recoverWraps[rd.Name]; already {
		wrap.AddRecovery(body)
		return nil
	}
	wrap := expr.NewRecover(rule.Body, body)
	rule.Body = wrap
	c.recoverWraps[rd.Name] = wrap
	return nil
}
