// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"sort"
	"strings"

	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// checkConstants rewrites every assignment to a const binding of the
// block into code that performs the assignment's evaluation and then
// throws a TypeError.
func (b *blockScoping) checkConstants() {
	// A for-of or for-in loop has one scope for its head and one for its body.
	var consts []*resolve.Binding
	seen := make(map[*resolve.Binding]bool)
	for _, s := range []*resolve.Scope{b.scope, b.blockScope} {
		for _, bind := range s.Bindings {
			if bind.Kind == syntax.ConstBinding && !seen[bind] {
				seen[bind] = true
				consts = append(consts, bind)
			}
		}
	}
	sort.SliceStable(consts, func(i, j int) bool {
		return b.idx.Order(consts[i].Ident) < b.idx.Order(consts[j].Ident)
	})

	for _, bind := range consts {
		for _, v := range bind.ConstantViolations {
			if !b.p.attached(v) {
				continue
			}
			b.guard(v, bind.Name)
		}
	}
}

// guard rewrites the violation v of constant name.
func (b *blockScoping) guard(v syntax.NodeID, name string) {
	t := b.t
	throw := func() syntax.NodeID {
		return t.Call(t.Ident(b.p.helper("readOnlyError")), t.Str(name))
	}
	node := t.Node(v)
	switch node.Kind {
	case syntax.AssignExpr:
		op := node.Op
		left, right := t.Child(v, 0), t.Child(v, 1)
		var repl syntax.NodeID
		switch op {
		case "=":
			repl = t.Seq(right, throw())
		case "&&=", "||=", "??=":
			repl = t.Logical(strings.TrimSuffix(op, "="), left, t.Seq(right, throw()))
		default:
			repl = t.Seq(t.Binary(strings.TrimSuffix(op, "="), left, right), throw())
		}
		t.Replace(v, repl)
		b.p.refresh(repl)
	case syntax.UpdateExpr:
		repl := t.Seq(t.Unary("+", t.Child(v, 0)), throw())
		t.Replace(v, repl)
		b.p.refresh(repl)
	case syntax.ForInStmt, syntax.ForOfStmt:
		old := t.Child(v, syntax.ForXBody)
		body := t.EnsureBlock(v, syntax.ForXBody)
		decl := t.VarDecl(syntax.Var, t.Declarator(t.Ident(b.p.uid(name)), syntax.Nil))
		t.SetChild(v, syntax.ForXLeft, decl)
		stmt := t.ExprStmt(throw())
		t.Insert(body, 0, stmt)
		if body != old {
			stmt = body
		}
		b.p.refresh(decl, stmt)
	}
}
