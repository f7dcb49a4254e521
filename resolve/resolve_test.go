// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// dump renders the scope tree of x, one scope per line, indented by
// nesting depth and followed by its bindings.
func dump(t *syntax.Tree, x *resolve.Index) string {
	var buf strings.Builder
	syntax.Inspect(t, t.Root, func(n syntax.NodeID) bool {
		s := x.ScopeFor(n)
		if s == nil {
			return true
		}
		depth := 0
		for p := s.Parent; p != nil; p = p.Parent {
			depth++
		}
		var names []string
		for name, b := range s.Bindings {
			names = append(names, fmt.Sprintf("%s:%s", name, b.Kind))
		}
		sort.Strings(names)
		buf.WriteString(strings.Repeat("  ", depth))
		buf.WriteString(strings.Join(append([]string{s.Kind.String()}, names...), " "))
		buf.WriteByte('\n')
		return true
	})
	return buf.String()
}

func TestScopes(t *testing.T) {
	// var a = 1;
	// function f(p) { let b; { const c = 2; var d; } }
	// for (let i = 0;;) {}
	// try {} catch (e) {}
	tree := syntax.NewTree("scopes.js")
	fbody := tree.Block(
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("b"), syntax.Nil)),
		tree.Block(
			tree.VarDecl(syntax.Const, tree.Declarator(tree.Ident("c"), tree.Number(2))),
			tree.VarDecl(syntax.Var, tree.Declarator(tree.Ident("d"), syntax.Nil)),
		),
	)
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Var, tree.Declarator(tree.Ident("a"), tree.Number(1))),
		tree.Func(syntax.FuncDecl, tree.Ident("f"), fbody, tree.Ident("p")),
		tree.For(tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("i"), tree.Number(0))), syntax.Nil, syntax.Nil, tree.Block()),
		tree.New(syntax.TryStmt, tree.Block(), tree.New(syntax.CatchClause, tree.Ident("e"), tree.Block()), syntax.Nil),
	)

	const want = `program a:var f:hoisted
  function b:let d:var p:param
    block c:const
  loop i:let
    block
  block
  catch e:let
`
	if got := dump(tree, resolve.Build(tree)); got != want {
		t.Errorf("scopes:\n%s\nwant:\n%s", got, want)
	}
}

func TestReferences(t *testing.T) {
	// let x = 1; x = 2; x++; for (x of xs) {} f(x);
	tree := syntax.NewTree("refs.js")
	decl := tree.Ident("x")
	use := tree.Ident("x")
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Let, tree.Declarator(decl, tree.Number(1))),
		tree.ExprStmt(tree.Assign("=", tree.Ident("x"), tree.Number(2))),
		tree.ExprStmt(tree.Update("++", false, tree.Ident("x"))),
		tree.New(syntax.ForOfStmt, tree.Ident("x"), tree.Ident("xs"), tree.Block()),
		tree.ExprStmt(tree.Call(tree.Ident("f"), use)),
	)
	x := resolve.Build(tree)

	b := x.BindingOf(decl)
	if b == nil {
		t.Fatal("declaration is unresolved")
	}
	if x.BindingOf(use) != b {
		t.Errorf("use of x does not resolve to its declaration")
	}
	if b.Kind != syntax.LetBinding || b.Scope != x.ScopeFor(tree.Root) {
		t.Errorf("binding = %v in %s scope", b, b.Scope.Kind)
	}
	if got := len(b.References); got != 4 {
		t.Errorf("x has %d references, want 4", got)
	}
	var kinds []string
	for _, v := range b.ConstantViolations {
		kinds = append(kinds, tree.Kind(v).String())
	}
	if got, want := strings.Join(kinds, " "), "AssignExpr UpdateExpr ForOfStmt"; got != want {
		t.Errorf("constant violations = %s, want %s", got, want)
	}
	for _, name := range []string{"xs", "f"} {
		if !x.HasGlobal(name) {
			t.Errorf("%s is not global", name)
		}
	}
	if x.HasGlobal("x") {
		t.Errorf("x is global")
	}
}

func TestShadowing(t *testing.T) {
	// let x; { let x; g(x); } g(x);
	tree := syntax.NewTree("shadow.js")
	inner, outer := tree.Ident("x"), tree.Ident("x")
	block := tree.Block(
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("x"), syntax.Nil)),
		tree.ExprStmt(tree.Call(tree.Ident("g"), inner)),
	)
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("x"), syntax.Nil)),
		block,
		tree.ExprStmt(tree.Call(tree.Ident("g"), outer)),
	)
	x := resolve.Build(tree)

	if s := x.BindingOf(inner).Scope; s != x.ScopeFor(block) {
		t.Errorf("inner x resolves to the %s scope", s.Kind)
	}
	if s := x.BindingOf(outer).Scope; s != x.ScopeFor(tree.Root) {
		t.Errorf("outer x resolves to the %s scope", s.Kind)
	}
	if !x.ScopeFor(block).ParentHasBinding("x") {
		t.Errorf("block scope does not see the outer x")
	}
}

func TestFunctionDeclarationOverridesVar(t *testing.T) {
	// var f; function f() {}
	tree := syntax.NewTree("hoist.js")
	fn := tree.Func(syntax.FuncDecl, tree.Ident("f"), tree.Block())
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Var, tree.Declarator(tree.Ident("f"), syntax.Nil)),
		fn,
	)
	b := resolve.Build(tree).ScopeFor(tree.Root).GetOwnBinding("f")
	if b == nil || b.Kind != syntax.HoistedBinding || b.Decl != fn {
		t.Fatalf("binding of f = %v", b)
	}
	if len(b.Idents) != 2 {
		t.Errorf("f has %d binding occurrences, want 2", len(b.Idents))
	}
}

func TestVarHoisting(t *testing.T) {
	// function f() { { var v; let w; } }
	tree := syntax.NewTree("var.js")
	v := tree.Ident("v")
	inner := tree.Block(
		tree.VarDecl(syntax.Var, tree.Declarator(v, syntax.Nil)),
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("w"), syntax.Nil)),
	)
	fn := tree.Func(syntax.FuncDecl, tree.Ident("f"), tree.Block(inner))
	tree.Root = tree.Program(fn)
	x := resolve.Build(tree)

	fscope := x.ScopeFor(fn)
	if x.BindingOf(v).Scope != fscope {
		t.Errorf("var is not bound in the function")
	}
	if got := x.ScopeOf(v); got != x.ScopeFor(inner) {
		t.Errorf("ScopeOf(v) = %s scope, want the block", got.Kind)
	}
	if x.ScopeFor(inner).FunctionParent() != fscope {
		t.Errorf("FunctionParent of the block is not the function")
	}
}

func TestGenerateUID(t *testing.T) {
	// let _x2; f(_x);
	tree := syntax.NewTree("uid.js")
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("_x2"), syntax.Nil)),
		tree.ExprStmt(tree.Call(tree.Ident("f"), tree.Ident("_x"))),
	)
	x := resolve.Build(tree)
	x.Reserve("_y")
	for i, test := range []struct{ hint, want string }{
		{"x", "_x3"},
		{"x", "_x4"},
		{"__ret12", "_ret"},
		{"a-b", "_ab"},
		{"9", "_ref"},
		{"y", "_y2"},
		{"loop", "_loop"},
		{"loop", "_loop2"},
	} {
		if got := x.GenerateUID(test.hint); got != test.want {
			t.Errorf("#%d: GenerateUID(%q) = %s, want %s", i, test.hint, got, test.want)
		}
	}
	if !x.ScopeFor(tree.Root).HasBinding("_loop") {
		t.Errorf("generated name is not considered bound")
	}
	if !x.ScopeFor(tree.Root).HasBinding("undefined") {
		t.Errorf("built-in name is not considered bound")
	}
}

func renameSample() (*syntax.Tree, syntax.NodeID) {
	// let a = 1; f(a); { g(a); }
	tree := syntax.NewTree("rename.js")
	block := tree.Block(tree.ExprStmt(tree.Call(tree.Ident("g"), tree.Ident("a"))))
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("a"), tree.Number(1))),
		tree.ExprStmt(tree.Call(tree.Ident("f"), tree.Ident("a"))),
		block,
	)
	return tree, block
}

func TestRename(t *testing.T) {
	tree, _ := renameSample()
	x := resolve.Build(tree)
	if got := x.ScopeFor(tree.Root).Rename("a", "", syntax.Nil); got != "_a" {
		t.Errorf("Rename returned %s, want _a", got)
	}
	if got, want := syntax.Format(tree, tree.Root), "let _a = 1;\nf(_a);\n{\n  g(_a);\n}\n"; got != want {
		t.Errorf("after Rename:\n%s\nwant:\n%s", got, want)
	}
	if x.ScopeFor(tree.Root).HasOwnBinding("a") || !x.ScopeFor(tree.Root).HasOwnBinding("_a") {
		t.Errorf("binding was not renamed in its scope")
	}
	if got := x.GenerateUID("a"); got != "_a2" {
		t.Errorf("GenerateUID after Rename = %s, want _a2", got)
	}

	tree, block := renameSample()
	x = resolve.Build(tree)
	x.ScopeFor(tree.Root).Rename("a", "b", block)
	if got, want := syntax.Format(tree, tree.Root), "let a = 1;\nf(a);\n{\n  g(b);\n}\n"; got != want {
		t.Errorf("after Rename within the block:\n%s\nwant:\n%s", got, want)
	}
	if b := x.ScopeFor(tree.Root).GetOwnBinding("a"); b == nil || b.Name != "a" {
		t.Errorf("partial rename changed the binding: %v", b)
	}
}

func TestMoveBinding(t *testing.T) {
	// var m; { let m; m = 1; }
	tree := syntax.NewTree("move.js")
	outer, inner, use := tree.Ident("m"), tree.Ident("m"), tree.Ident("m")
	block := tree.Block(
		tree.VarDecl(syntax.Let, tree.Declarator(inner, syntax.Nil)),
		tree.ExprStmt(tree.Assign("=", use, tree.Number(1))),
	)
	tree.Root = tree.Program(tree.VarDecl(syntax.Var, tree.Declarator(outer, syntax.Nil)), block)
	x := resolve.Build(tree)
	program := x.ScopeFor(tree.Root)

	from := x.ScopeFor(block)
	b := from.MoveBindingTo("m", program)
	if from.HasOwnBinding("m") {
		t.Errorf("binding is still in the block")
	}
	if b != program.GetOwnBinding("m") || b.Scope != program {
		t.Fatalf("binding did not merge into the program: %v", b)
	}
	for _, id := range []syntax.NodeID{outer, inner, use} {
		if x.BindingOf(id) != b {
			t.Errorf("node %d resolves to %v", id, x.BindingOf(id))
		}
	}
	if b.Ident != outer || len(b.Idents) != 2 || len(b.References) != 1 || len(b.ConstantViolations) != 1 {
		t.Errorf("merged binding: ident %d, %d idents, %d references, %d violations",
			b.Ident, len(b.Idents), len(b.References), len(b.ConstantViolations))
	}

	// Moving into a scope without the name keeps the binding.
	tree = syntax.NewTree("move2.js")
	block = tree.Block(tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("n"), syntax.Nil)))
	tree.Root = tree.Program(block)
	x = resolve.Build(tree)
	before := x.ScopeFor(block).GetOwnBinding("n")
	if got := x.ScopeFor(block).MoveBindingTo("n", x.ScopeFor(tree.Root)); got != before || got.Scope != x.ScopeFor(tree.Root) {
		t.Errorf("MoveBindingTo = %v, want the original binding in the program", got)
	}
}

func TestRefresh(t *testing.T) {
	// let a; { let b; }
	tree := syntax.NewTree("refresh.js")
	block := tree.Block(tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("b"), syntax.Nil)))
	tree.Root = tree.Program(
		tree.VarDecl(syntax.Let, tree.Declarator(tree.Ident("a"), syntax.Nil)),
		block,
	)
	x := resolve.Build(tree)
	program := x.ScopeFor(tree.Root)
	oldBlock := x.ScopeFor(block)

	// Add g(a, b, c) to the block, and move the block into a function:
	// let a; (function () { { let b; g(a, b, c); } })();
	args := []syntax.NodeID{tree.Ident("a"), tree.Ident("b"), tree.Ident("c")}
	tree.Append(block, tree.ExprStmt(tree.Call(tree.Ident("g"), args...)))
	placeholder := tree.Empty()
	tree.Replace(block, placeholder)
	fn := tree.Func(syntax.FuncExpr, syntax.Nil, tree.Block(block))
	call := tree.ExprStmt(tree.Call(fn))
	tree.Replace(placeholder, call)
	x.Refresh(call)

	if x.ScopeFor(block) == oldBlock || x.ScopeFor(block) == nil {
		t.Errorf("the block kept its old scope")
	}
	if x.ScopeFor(block).Parent != x.ScopeFor(fn) || x.ScopeFor(fn).Parent != program {
		t.Errorf("scope chain of the moved block is wrong")
	}
	if b := x.BindingOf(args[0]); b == nil || b != program.GetOwnBinding("a") || len(b.References) != 1 {
		t.Errorf("a resolves to %v", b)
	}
	if b := x.BindingOf(args[1]); b == nil || b.Scope != x.ScopeFor(block) {
		t.Errorf("b resolves to %v", b)
	}
	if x.BindingOf(args[2]) != nil || !x.HasGlobal("c") {
		t.Errorf("c is not global")
	}
	if x.Known(fn) {
		t.Errorf("Refresh numbered a new node")
	}

	// Removing the declaration of b removes its binding.
	decl := tree.Child(block, 0)
	tree.Detach(decl)
	x.Refresh(block)
	if x.ScopeFor(block).HasOwnBinding("b") || x.BindingOf(args[1]) != nil {
		t.Errorf("b is still bound after its declaration was removed")
	}

	// A var declaration inside the region binds in the enclosing function.
	v := tree.Ident("v")
	stmt := tree.VarDecl(syntax.Var, tree.Declarator(v, syntax.Nil))
	tree.Append(block, stmt)
	x.Refresh(stmt)
	if b := x.BindingOf(v); b == nil || b.Scope != x.ScopeFor(fn) || b.Kind != syntax.VarBinding {
		t.Errorf("v resolves to %v", b)
	}
	if got := x.GenerateUID("v"); got != "_v" {
		t.Errorf("GenerateUID(v) = %s", got)
	}
}

func TestOrder(t *testing.T) {
	tree := syntax.NewTree("order.js")
	a := tree.ExprStmt(tree.Ident("a"))
	b := tree.ExprStmt(tree.Ident("b"))
	tree.Root = tree.Program(a, b)
	x := resolve.Build(tree)

	if !x.Precedes(a, b) || x.Precedes(b, a) {
		t.Errorf("Precedes does not follow source order")
	}
	if x.Precedes(tree.Root, a) {
		t.Errorf("the program precedes its own statement")
	}
	if x.Order(tree.Root) != 0 || x.Order(a) != 1 {
		t.Errorf("pre-order numbers: root %d, a %d", x.Order(tree.Root), x.Order(a))
	}
	late := tree.Empty()
	if x.Known(late) || x.Order(late) != -1 {
		t.Errorf("a node created after Build is known")
	}
}

func TestEmptyTree(t *testing.T) {
	x := resolve.Build(syntax.NewTree("empty.js"))
	if p := x.ScopeOf(syntax.Nil); p == nil || p.Kind != resolve.ProgramScope || len(p.Bindings) != 0 {
		t.Errorf("program scope of an empty tree = %+v", p)
	}
	if got := x.GenerateUID("x"); got != "_x" {
		t.Errorf("GenerateUID = %s", got)
	}
}
