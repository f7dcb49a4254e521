// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jsdown/blockscope/syntax"
)

// for (const x of y) {
//   if (x) {} else f([2 * x, "abc"]);
// }
func walkSample() *syntax.Tree {
	t := syntax.NewTree("walk.js")
	call := t.Call(t.Ident("f"), t.Array(t.Binary("*", t.Number(2), t.Ident("x")), t.Str("abc")))
	loop := t.New(syntax.ForOfStmt,
		t.VarDecl(syntax.Const, t.Declarator(t.Ident("x"), syntax.Nil)),
		t.Ident("y"),
		t.Block(t.If(t.Ident("x"), t.Block(), t.ExprStmt(call))))
	t.Root = t.Program(loop)
	return t
}

func TestWalk(t *testing.T) {
	tree := walkSample()

	var buf bytes.Buffer
	var depth int
	syntax.Walk(tree, tree.Root, func(n syntax.NodeID) bool {
		if n == syntax.Nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n", strings.Repeat("  ", depth), tree.Kind(n))
		depth++
		return true
	})
	got := buf.String()
	want := `
Program
  ForOfStmt
    VarDecl
      VarDeclarator
        Ident
    Ident
    BlockStmt
      IfStmt
        Ident
        BlockStmt
        ExprStmt
          CallExpr
            Ident
            ArrayExpr
              BinaryExpr
                NumberLit
                Ident
              StringLit`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if depth != 0 {
		t.Errorf("unbalanced Nil calls: depth %d", depth)
	}
}

func TestInspectPrunes(t *testing.T) {
	tree := walkSample()
	var kinds []string
	syntax.Inspect(tree, tree.Root, func(n syntax.NodeID) bool {
		kinds = append(kinds, tree.Kind(n).String())
		return tree.Kind(n) != syntax.IfStmt
	})
	got := strings.Join(kinds, " ")
	want := "Program ForOfStmt VarDecl VarDeclarator Ident Ident BlockStmt IfStmt"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers of a tree.
func ExampleWalk() {
	tree := walkSample()

	var idents []string
	syntax.Walk(tree, tree.Root, func(n syntax.NodeID) bool {
		if tree.Kind(n) == syntax.Ident {
			idents = append(idents, tree.Name(n))
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Output:
	// x y x f x
}
