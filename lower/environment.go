// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"strings"

	"github.com/jsdown/blockscope/syntax"
)

// An environment is a function (or the program) whose this,
// arguments, new.target and super are captured in variables for use by closure
// wrappers nested in it.
type environment struct {
	node  syntax.NodeID     // FuncDecl, FuncExpr or Program
	names map[string]string // "this", "arguments", "new.target" or "super.x" to variable name
	decls int               // declarations inserted so far
}

// env returns the environment providing this to the function fn.
func (p *pass) env(fn syntax.NodeID) *environment {
	t := p.t
	n := t.FindAncestor(fn, func(n syntax.NodeID) bool {
		k := t.Kind(n)
		return k == syntax.FuncDecl || k == syntax.FuncExpr
	})
	if n == syntax.Nil {
		n = t.Root
	}
	e := p.envs[n]
	if e == nil {
		e = &environment{node: n, names: make(map[string]string)}
		p.envs[n] = e
	}
	return e
}

// capture returns the variable holding the value of key in e,
// declaring it as var name = value() at the top of e on first use.
func (p *pass) capture(e *environment, key, hint string, value func() syntax.NodeID) string {
	if name, ok := e.names[key]; ok {
		return name
	}
	t := p.t
	name := p.uid(hint)
	e.names[key] = name
	body := e.node
	if t.Kind(body) != syntax.Program {
		body = t.Child(body, syntax.FuncBody)
	}
	decl := t.VarDecl(syntax.Var, t.Declarator(t.Ident(name), value()))
	t.Insert(body, directives(t, body)+e.decls, decl)
	e.decls++
	p.refresh(decl)
	return name
}

// unwrapFunctionEnvironment rewrites the uses of this, arguments,
// new.target and super in the wrapper fn, and in arrow functions within it, to refer
// to the enclosing function rather than to fn itself.
func (b *blockScoping) unwrapFunctionEnvironment(fn syntax.NodeID) {
	p, t := b.p, b.t
	e := p.env(fn)

	this := func() syntax.NodeID {
		return t.Ident(p.capture(e, "this", "this", t.This))
	}

	var visit func(n syntax.NodeID)
	visit = func(n syntax.NodeID) {
		node := t.Node(n)
		switch node.Kind {
		case syntax.FuncDecl, syntax.FuncExpr, syntax.ClassDecl, syntax.ClassExpr:
			if n != fn {
				if node.Kind == syntax.ClassDecl || node.Kind == syntax.ClassExpr {
					// The heritage clause is evaluated outside the class body.
					if super := t.Child(n, syntax.ClassSuper); super != syntax.Nil {
						visit(super)
					}
				}
				return
			}
		case syntax.ThisExpr:
			t.Replace(n, this())
			return
		case syntax.MetaProperty:
			if node.Name == "new.target" {
				name := p.capture(e, "new.target", "newtarget", func() syntax.NodeID {
					target := t.New(syntax.MetaProperty)
					t.Node(target).Name = "new.target"
					return target
				})
				t.Replace(n, t.Ident(name))
			}
			return
		case syntax.Ident:
			if node.Name == "arguments" && t.IdentRole(n) == syntax.Read && b.idx.BindingOf(n) == nil {
				name := p.capture(e, "arguments", "arguments", func() syntax.NodeID { return t.Ident("arguments") })
				t.Replace(n, t.Ident(name))
			}
			return
		case syntax.CallExpr:
			if t.Kind(t.Child(n, 0)) == syntax.SuperExpr {
				p.fail(n, "super() call inside a block that needs a closure")
			}
		case syntax.MemberExpr:
			if t.Kind(t.Child(n, 0)) == syntax.SuperExpr {
				b.unwrapSuper(e, n, this)
				return
			}
		}
		for _, c := range append([]syntax.NodeID(nil), t.Kids(n)...) {
			if c != syntax.Nil {
				visit(c)
			}
		}
	}
	visit(fn)
}

// unwrapSuper replaces the super property access m by a call of an
// arrow function declared in the environment, where super is valid.
//
//	super.x      =>  _superprop_getX()
//	super.x(a)   =>  _superprop_getX().call(_this, a)
//	super[k]     =>  _superprop_get(k)
func (b *blockScoping) unwrapSuper(e *environment, m syntax.NodeID, this func() syntax.NodeID) {
	p, t := b.p, b.t
	parent := t.Parent(m)
	switch t.Kind(parent) {
	case syntax.AssignExpr, syntax.UpdateExpr:
		if t.Kind(parent) == syntax.UpdateExpr || t.Slot(m) == 0 {
			p.fail(m, "assignment to a super property inside a block that needs a closure")
		}
	}

	var getter syntax.NodeID
	if t.Node(m).Has(syntax.Computed) {
		name := p.capture(e, "super[]", "superprop_get", func() syntax.NodeID {
			prop := p.uid("prop")
			return t.Func(syntax.ArrowFunc, syntax.Nil, t.Index(t.Super(), t.Ident(prop)), t.Ident(prop))
		})
		key := t.Child(m, 1)
		b.unwrapFunctionEnvironmentIn(key, e, this)
		getter = t.Call(t.Ident(name), key)
	} else {
		prop := t.Name(t.Child(m, 1))
		name := p.capture(e, "super."+prop, "superprop_get"+strings.ToUpper(prop[:1])+prop[1:], func() syntax.NodeID {
			return t.Func(syntax.ArrowFunc, syntax.Nil, t.Member(t.Super(), prop))
		})
		getter = t.Call(t.Ident(name))
	}

	if t.Kind(parent) == syntax.CallExpr && t.Slot(m) == 0 {
		t.Replace(m, t.Member(getter, "call"))
		t.Insert(parent, 1, this())
		return
	}
	t.Replace(m, getter)
}

// unwrapFunctionEnvironmentIn rewrites this within the expression n,
// which is about to move out of a super property access.
func (b *blockScoping) unwrapFunctionEnvironmentIn(n syntax.NodeID, e *environment, this func() syntax.NodeID) {
	t := b.t
	syntax.Inspect(t, n, func(c syntax.NodeID) bool {
		switch t.Kind(c) {
		case syntax.FuncDecl, syntax.FuncExpr:
			return false
		case syntax.ThisExpr:
			t.Replace(c, this())
			return false
		}
		return true
	})
}
