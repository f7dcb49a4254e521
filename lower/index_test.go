// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jsdown/blockscope/syntax"
)

// loops returns a program of n loops, each capturing its own i:
//
//	for (let i = 0; i < 2; i++) {
//	  fns.push(() => i);
//	}
func loops(n int) *syntax.Tree {
	tree := syntax.NewTree("loops.js")
	var stmts []syntax.NodeID
	for k := 0; k < n; k++ {
		push := tree.Member(tree.Ident("fns"), "push")
		body := tree.Block(tree.ExprStmt(tree.Call(push, tree.Func(syntax.ArrowFunc, syntax.Nil, tree.Ident("i")))))
		stmts = append(stmts, tree.For(
			tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("i"), tree.Number(0))),
			tree.Binary("<", tree.Ident("i"), tree.Number(2)),
			tree.Update("++", false, tree.Ident("i")),
			body,
		))
	}
	tree.Root = tree.Program(stmts...)
	return tree
}

func TestIndexBuiltOnce(t *testing.T) {
	const n = 60
	tree := loops(n)
	p := newPass(tree, Options{})
	if err := p.run(); err != nil {
		t.Fatal(err)
	}
	if p.builds != 1 {
		t.Errorf("index built %d times, want 1", p.builds)
	}

	// Each loop variable after the first collides with the var
	// declared by the loops before it.
	var want strings.Builder
	for k := 1; k <= n; k++ {
		i, loop := "i", "_loop"
		if k > 1 {
			loop = fmt.Sprintf("_loop%d", k)
			i = "_i"
		}
		if k > 2 {
			i = fmt.Sprintf("_i%d", k-1)
		}
		fmt.Fprintf(&want, "var %[2]s = function (%[1]s) {\n  fns.push(() => %[1]s);\n};\n", i, loop)
		fmt.Fprintf(&want, "for (var %[1]s = 0; %[1]s < 2; %[1]s++) {\n  %[2]s(%[1]s);\n}\n", i, loop)
	}
	if got := syntax.Format(tree, tree.Root); got != want.String() {
		t.Errorf("got:\n%s\nwant:\n%s", got, want.String())
	}
}

// Sibling blocks see the bindings promoted out of the blocks before them.
func TestPromotedBindingsVisible(t *testing.T) {
	// { let x = 1; f(x); } { let x = 2; f(x); }
	tree := syntax.NewTree("siblings.js")
	block := func(v float64) syntax.NodeID {
		return tree.Block(
			tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("x"), tree.Number(v))),
			tree.ExprStmt(tree.Call(tree.Ident("f"), tree.Ident("x"))),
		)
	}
	tree.Root = tree.Program(block(1), block(2))
	p := newPass(tree, Options{})
	if err := p.run(); err != nil {
		t.Fatal(err)
	}
	const want = "{\n  var x = 1;\n  f(x);\n}\n{\n  var _x = 2;\n  f(_x);\n}\n"
	if got := syntax.Format(tree, tree.Root); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if p.builds != 1 {
		t.Errorf("index built %d times, want 1", p.builds)
	}
	if b := p.idx.ScopeFor(tree.Root).GetOwnBinding("_x"); b == nil || b.Kind != syntax.VarBinding {
		t.Errorf("renamed binding in the program scope = %v", b)
	}
}
