// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"fmt"
	"testing"

	"github.com/jsdown/blockscope/syntax"
)

func TestFormatExpr(t *testing.T) {
	for i, test := range []struct {
		build func(t *syntax.Tree) syntax.NodeID
		want  string
	}{
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Binary("*", t.Binary("+", t.Ident("a"), t.Ident("b")), t.Ident("c"))
		}, "(a + b) * c"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Binary("+", t.Ident("a"), t.Binary("+", t.Ident("b"), t.Ident("c")))
		}, "a + (b + c)"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Binary("**", t.Binary("**", t.Ident("a"), t.Ident("b")), t.Ident("c"))
		}, "(a ** b) ** c"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Binary("**", t.Ident("a"), t.Binary("**", t.Ident("b"), t.Ident("c")))
		}, "a ** b ** c"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Logical("??", t.Logical("||", t.Ident("a"), t.Ident("b")), t.Ident("c"))
		}, "(a || b) ?? c"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Unary("-", t.Unary("-", t.Ident("a")))
		}, "- -a"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Unary("-", t.Number(-1))
		}, "- -1"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Unary("typeof", t.Ident("a"))
		}, "typeof a"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Seq(t.Update("++", true, t.Ident("a")), t.Update("--", false, t.Ident("b")))
		}, "++a, b--"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Member(t.Number(1), "toString")
		}, "(1).toString"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Call(t.Func(syntax.FuncExpr, syntax.Nil, t.Block()))
		}, "(function () {})()"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.NewExpr(t.Call(t.Ident("f")))
		}, "new (f())()"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Member(t.Call(t.Ident("f")), "x")
		}, "f().x"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Cond(t.Assign("=", t.Ident("a"), t.Ident("b")), t.Ident("c"), t.Ident("d"))
		}, "(a = b) ? c : d"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Call(t.Ident("f"), t.Seq(t.Ident("a"), t.Ident("b")))
		}, "f((a, b))"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Func(syntax.ArrowFunc, syntax.Nil, t.Object(t.Prop("a", t.Number(1))))
		}, "() => ({ a: 1 })"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Func(syntax.ArrowFunc, syntax.Nil, t.Seq(t.Ident("a"), t.Ident("b")), t.Ident("x"))
		}, "(x) => (a, b)"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Await(t.Call(t.Ident("f")))
		}, "await f()"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Array(t.Ident("a"), syntax.Nil)
		}, "[a, ,]"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Array(t.Number(1e21), t.Number(0.5), t.Number(100))
		}, "[1e+21, 0.5, 100]"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Index(t.Ident("a"), t.Str("it's"))
		}, `a["it's"]`},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Yield(t.Binary("+", t.Ident("a"), t.Ident("b")), true)
		}, "yield* a + b"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Void0()
		}, "void 0"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.TemplateLit, t.Quasi("a"), t.Seq(t.Ident("b"), t.Ident("c")), t.Quasi("\\n"))
		}, "`a${b, c}\\n`"},
		{func(t *syntax.Tree) syntax.NodeID {
			tag := t.Member(t.Ident("String"), "raw")
			return t.New(syntax.TaggedTemplate, tag, t.New(syntax.TemplateLit, t.Quasi("x")))
		}, "String.raw`x`"},
		{func(t *syntax.Tree) syntax.NodeID {
			re := t.New(syntax.RegExpLit)
			t.Node(re).Str, t.Node(re).Name = "a+b", "gi"
			return t.Member(re, "source")
		}, "/a+b/gi.source"},
		{func(t *syntax.Tree) syntax.NodeID {
			big := func(digits string) syntax.NodeID {
				n := t.New(syntax.BigIntLit)
				t.Node(n).Str = digits
				return n
			}
			return t.Binary("*", big("10"), big("2"))
		}, "10n * 2n"},
		{func(t *syntax.Tree) syntax.NodeID {
			// (a?.b).c(d?.[e])
			inner := t.Member(t.Ident("a"), "b")
			t.Node(inner).Flags |= syntax.Optional
			index := t.Index(t.Ident("d"), t.Ident("e"))
			t.Node(index).Flags |= syntax.Optional
			chain := t.New(syntax.ChainExpr, inner)
			return t.Call(t.Member(chain, "c"), t.New(syntax.ChainExpr, index))
		}, "(a?.b).c(d?.[e])"},
		{func(t *syntax.Tree) syntax.NodeID {
			call := t.Call(t.Member(t.Ident("a"), "f"), t.Ident("x"))
			t.Node(call).Flags |= syntax.Optional
			return t.New(syntax.ChainExpr, call)
		}, "a.f?.(x)"},
		{func(t *syntax.Tree) syntax.NodeID {
			meta := t.New(syntax.MetaProperty)
			t.Node(meta).Name = "import.meta"
			return t.New(syntax.ImportExpr, t.Member(meta, "url"))
		}, "import(import.meta.url)"},
	} {
		tree := syntax.NewTree("expr.js")
		if got := syntax.Format(tree, test.build(tree)); got != test.want {
			t.Errorf("#%d: got %s, want %s", i, got, test.want)
		}
	}
}

func TestFormatStmt(t *testing.T) {
	for i, test := range []struct {
		build func(t *syntax.Tree) syntax.NodeID
		want  string
	}{
		{func(t *syntax.Tree) syntax.NodeID {
			return t.ExprStmt(t.Object())
		}, "({});"},
		{func(t *syntax.Tree) syntax.NodeID {
			fn := t.Func(syntax.FuncExpr, syntax.Nil, t.Block())
			return t.ExprStmt(t.Call(t.Member(fn, "call"), t.This()))
		}, "(function () {}.call(this));"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.If(t.Ident("a"), t.Block(), t.If(t.Ident("b"), t.Return(syntax.Nil), syntax.Nil))
		}, "if (a) {} else if (b) return;"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.If(t.Ident("a"), t.ExprStmt(t.Ident("b")), t.ExprStmt(t.Ident("c")))
		}, "if (a) b;\nelse c;"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.DoWhile(t.Block(), t.Ident("a"))
		}, "do {} while (a);"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.For(syntax.Nil, syntax.Nil, syntax.Nil, t.Empty())
		}, "for (;;);"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ForInStmt, t.Member(t.Ident("a"), "b"), t.Ident("c"), t.Block())
		}, "for (a.b in c) {}"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.Labeled("l", t.While(t.Ident("a"), t.Continue("l")))
		}, "l: while (a) continue l;"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.SwitchStmt, t.Ident("a"),
				t.New(syntax.SwitchCase, t.Number(1), t.ExprStmt(t.Ident("b"))),
				t.New(syntax.SwitchCase, syntax.Nil))
		}, "switch (a) {\n  case 1:\n    b;\n  default:\n}"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.TryStmt, t.Block(), t.New(syntax.CatchClause, syntax.Nil, t.Block()), t.Block())
		}, "try {} catch {} finally {}"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.VarDecl(syntax.Let,
				t.Declarator(t.Ident("a"), syntax.Nil),
				t.Declarator(t.Ident("b"), t.Seq(t.Ident("c"), t.Ident("d"))))
		}, "let a, b = (c, d);"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ClassDecl, t.Ident("A"), t.Ident("B"))
		}, "class A extends B {}"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.ExprStmt(t.New(syntax.ClassExpr, syntax.Nil, syntax.Nil))
		}, "(class {});"},
		{func(t *syntax.Tree) syntax.NodeID {
			m := t.New(syntax.MethodDef, t.Ident("k"), t.Func(syntax.FuncExpr, syntax.Nil, t.Block()))
			t.Node(m).Name = "get"
			t.Node(m).Flags |= syntax.Static | syntax.Computed
			return t.New(syntax.ClassDecl, t.Ident("A"), syntax.Nil, m)
		}, "class A {\n  static get [k]() {}\n}"},
		{func(t *syntax.Tree) syntax.NodeID {
			fn := t.Func(syntax.FuncDecl, t.Ident("g"), t.Block(t.ExprStmt(t.Yield(syntax.Nil, false))))
			t.Node(fn).Flags |= syntax.Generator | syntax.Async
			return fn
		}, "async function* g() {\n  yield;\n}"},
		{func(t *syntax.Tree) syntax.NodeID {
			in := t.Binary("in", t.Str("a"), t.Ident("o"))
			return t.For(t.VarDecl(syntax.Var, t.Declarator(t.Ident("x"), in)), t.Ident("x"), syntax.Nil, t.Block())
		}, `for (var x = ("a" in o); x;) {}`},
		{func(t *syntax.Tree) syntax.NodeID {
			// The in operator is allowed inside brackets and bodies.
			in := func() syntax.NodeID { return t.Binary("in", t.Ident("k"), t.Ident("o")) }
			fn := t.Func(syntax.FuncExpr, syntax.Nil, t.Block(t.Return(in())))
			init := t.Seq(t.Assign("=", t.Ident("y"), t.Logical("&&", t.Ident("a"), in())), t.Call(t.Ident("f"), in()), fn)
			return t.For(init, syntax.Nil, syntax.Nil, t.Empty())
		}, "for (y = a && (k in o), f(k in o), function () {\n  return k in o;\n};;);"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.While(t.Binary("in", t.Ident("k"), t.Ident("o")), t.Empty())
		}, "while (k in o);"},
		{func(t *syntax.Tree) syntax.NodeID {
			def := t.New(syntax.ImportSpec, syntax.Nil, t.Ident("d"))
			t.Node(def).Name = "default"
			return t.New(syntax.ImportDecl, t.Str("m"), def,
				t.New(syntax.ImportSpec, t.Ident("a"), t.Ident("a")),
				t.New(syntax.ImportSpec, t.Ident("b"), t.Ident("c")))
		}, `import d, { a, b as c } from "m";`},
		{func(t *syntax.Tree) syntax.NodeID {
			ns := t.New(syntax.ImportSpec, syntax.Nil, t.Ident("ns"))
			t.Node(ns).Name = "namespace"
			return t.New(syntax.ImportDecl, t.Str("m"), ns)
		}, `import * as ns from "m";`},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ImportDecl, t.Str("side-effect"))
		}, `import "side-effect";`},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ExportNamedDecl, syntax.Nil, syntax.Nil,
				t.New(syntax.ExportSpec, t.Ident("_x"), t.Ident("x")),
				t.New(syntax.ExportSpec, t.Ident("y"), t.Ident("y")))
		}, "export { _x as x, y };"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ExportNamedDecl, t.VarDecl(syntax.Const, t.Declarator(t.Ident("a"), t.Number(1))), syntax.Nil)
		}, "export const a = 1;"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ExportDefaultDecl, t.Func(syntax.FuncExpr, syntax.Nil, t.Block()))
		}, "export default (function () {});"},
		{func(t *syntax.Tree) syntax.NodeID {
			return t.New(syntax.ExportAllDecl, t.Str("m"), t.Ident("ns"))
		}, `export * as ns from "m";`},
		{func(t *syntax.Tree) syntax.NodeID {
			f := t.New(syntax.FieldDef, t.Ident("#n"), t.Number(0))
			t.Node(f).Flags |= syntax.Static
			return t.New(syntax.ClassDecl, t.Ident("A"), syntax.Nil, f, t.New(syntax.FieldDef, t.Ident("m"), syntax.Nil))
		}, "class A {\n  static #n = 0;\n  m;\n}"},
	} {
		tree := syntax.NewTree("stmt.js")
		if got := syntax.Format(tree, test.build(tree)); got != test.want {
			t.Errorf("#%d: got %q, want %q", i, got, test.want)
		}
	}
}

func ExampleFormat() {
	t := syntax.NewTree("example.js")
	loop := t.For(
		t.VarDecl(syntax.Let, t.Declarator(t.Ident("i"), t.Number(0))),
		t.Binary("<", t.Ident("i"), t.Number(3)),
		t.Update("++", false, t.Ident("i")),
		t.ExprStmt(t.Call(t.Member(t.Ident("console"), "log"), t.Ident("i"))))
	t.Root = t.Program(loop)
	fmt.Print(syntax.Format(t, t.Root))
	// Output:
	// for (let i = 0; i < 3; i++) console.log(i);
}
