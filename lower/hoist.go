// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "github.com/jsdown/blockscope/syntax"

// hoistVarDeclarations moves the var declarations of a block that is
// about to be wrapped out of it, so the variables stay in the scope of
// the enclosing function. Each declaration leaves behind assignments
// of its initializers.
func (b *blockScoping) hoistVarDeclarations() {
	t := b.t
	var visit func(n syntax.NodeID)
	visit = func(n syntax.NodeID) {
		switch k := t.Kind(n); {
		case k.IsFunction():
			return
		case k == syntax.ForStmt:
			if init := t.Child(n, syntax.ForInit); isVar(t, init) {
				assigns := b.pushDeclar(init)
				switch len(assigns) {
				case 0:
					t.SetChild(n, syntax.ForInit, syntax.Nil)
				case 1:
					t.SetChild(n, syntax.ForInit, assigns[0])
				default:
					t.SetChild(n, syntax.ForInit, t.Seq(assigns...))
				}
			}
		case k.IsForX():
			if left := t.Child(n, syntax.ForXLeft); isVar(t, left) {
				target := t.Child(t.Child(left, 0), 0)
				b.pushDeclar(left)
				t.SetChild(n, syntax.ForXLeft, target)
			}
		case isVar(t, n):
			assigns := b.pushDeclar(n)
			stmts := make([]syntax.NodeID, len(assigns))
			for i, a := range assigns {
				stmts[i] = t.ExprStmt(a)
			}
			t.ReplaceWithMultiple(n, stmts...)
			return
		}
		for _, c := range append([]syntax.NodeID(nil), t.Kids(n)...) {
			if c != syntax.Nil {
				visit(c)
			}
		}
	}
	for _, c := range append([]syntax.NodeID(nil), t.Kids(b.block)...) {
		if c != syntax.Nil {
			visit(c)
		}
	}
}

// pushDeclar appends an initializer-free copy of declaration n to the
// block's new body and returns the assignments that replace it.
func (b *blockScoping) pushDeclar(n syntax.NodeID) []syntax.NodeID {
	t := b.t
	var declars []syntax.NodeID
	seen := make(map[string]bool)
	for _, id := range t.BindingIdents(n) {
		name := t.Name(id)
		if !seen[name] {
			seen[name] = true
			declars = append(declars, t.Declarator(t.Ident(name), syntax.Nil))
		}
	}
	b.body = append(b.body, t.VarDecl(t.Node(n).Decl, declars...))

	var assigns []syntax.NodeID
	for _, d := range append([]syntax.NodeID(nil), t.Kids(n)...) {
		init := t.Child(d, 1)
		if init == syntax.Nil {
			continue
		}
		assign := t.Assign("=", t.Child(d, 0), init)
		t.Node(assign).Pos = t.Pos(d)
		assigns = append(assigns, assign)
	}
	return assigns
}
