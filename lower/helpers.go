// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "github.com/jsdown/blockscope/syntax"

// Runtime helpers are declared once, at the top of the program, in the
// order in which they were first needed. A helper is always declared
// after the helpers it depends on.

type helperDef struct {
	hint  string   // base of the generated identifier
	needs []string // helpers referenced by this one
	build func(p *pass, name string) syntax.NodeID
}

var helperDefs = map[string]helperDef{
	// function _readOnlyError(name) { throw new TypeError("\"" + name + "\" is read-only"); }
	"readOnlyError": {
		hint: "readOnlyError",
		build: func(p *pass, name string) syntax.NodeID {
			t := p.t
			msg := t.Binary("+", t.Binary("+", t.Str(`"`), t.Ident("name")), t.Str(`" is read-only`))
			throw := t.Throw(t.NewExpr(t.Ident("TypeError"), msg))
			return t.Func(syntax.FuncDecl, t.Ident(name), t.Block(throw), t.Ident("name"))
		},
	},
	// function _tdzError(name) { throw new ReferenceError(name + " is not defined - temporal dead zone"); }
	"tdz": {
		hint: "tdzError",
		build: func(p *pass, name string) syntax.NodeID {
			t := p.t
			msg := t.Binary("+", t.Ident("name"), t.Str(" is not defined - temporal dead zone"))
			throw := t.Throw(t.NewExpr(t.Ident("ReferenceError"), msg))
			return t.Func(syntax.FuncDecl, t.Ident(name), t.Block(throw), t.Ident("name"))
		},
	},
	// var _temporalUndefined = {};
	"temporalUndefined": {
		hint: "temporalUndefined",
		build: func(p *pass, name string) syntax.NodeID {
			t := p.t
			return t.VarDecl(syntax.Var, t.Declarator(t.Ident(name), t.Object()))
		},
	},
	// function _temporalRef(val, name) { return val === _temporalUndefined ? _tdzError(name) : val; }
	"temporalRef": {
		hint:  "temporalRef",
		needs: []string{"temporalUndefined", "tdz"},
		build: func(p *pass, name string) syntax.NodeID {
			t := p.t
			test := t.Binary("===", t.Ident("val"), t.Ident(p.helpers["temporalUndefined"]))
			cond := t.Cond(test, t.Call(t.Ident(p.helpers["tdz"]), t.Ident("name")), t.Ident("val"))
			return t.Func(syntax.FuncDecl, t.Ident(name), t.Block(t.Return(cond)), t.Ident("val"), t.Ident("name"))
		},
	},
}

// helper returns the identifier of the named runtime helper,
// generating it on first use.
func (p *pass) helper(name string) string {
	if id, ok := p.helpers[name]; ok {
		return id
	}
	def, ok := helperDefs[name]
	if !ok {
		p.fail(syntax.Nil, "unknown helper %q", name)
	}
	for _, dep := range def.needs {
		p.helper(dep)
	}
	id := p.uid(def.hint)
	p.helpers[name] = id
	p.helperOrder = append(p.helperOrder, name)
	return id
}

// injectHelpers declares the helpers used by the pass at the top of
// the program, after any directives.
func (p *pass) injectHelpers() {
	if len(p.helperOrder) == 0 {
		return
	}
	t := p.t
	decls := make([]syntax.NodeID, len(p.helperOrder))
	for i, name := range p.helperOrder {
		decls[i] = helperDefs[name].build(p, p.helpers[name])
	}
	t.Insert(t.Root, directives(t, t.Root), decls...)
}

// directives returns the number of directive statements, such as
// "use strict", at the start of the block or program n.
func directives(t *syntax.Tree, n syntax.NodeID) int {
	i := 0
	for _, s := range t.Kids(n) {
		if t.Kind(s) != syntax.ExprStmt || t.Kind(t.Child(s, 0)) != syntax.StringLit {
			break
		}
		i++
	}
	return i
}
