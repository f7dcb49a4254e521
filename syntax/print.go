// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a printer that renders a tree as JavaScript source.
// The output is meant for reading and for golden tests, not for
// preserving the formatting of the input.

import (
	"math"
	"strconv"
	"strings"
)

// An L is an operator precedence level, from loosest to tightest.
type L uint8

const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
	LPrimary
)

var binaryLevels = map[string]L{
	"??":         LNullishCoalescing,
	"||":         LLogicalOr,
	"&&":         LLogicalAnd,
	"|":          LBitwiseOr,
	"^":          LBitwiseXor,
	"&":          LBitwiseAnd,
	"==":         LEquals,
	"!=":         LEquals,
	"===":        LEquals,
	"!==":        LEquals,
	"<":          LCompare,
	">":          LCompare,
	"<=":         LCompare,
	">=":         LCompare,
	"in":         LCompare,
	"instanceof": LCompare,
	"<<":         LShift,
	">>":         LShift,
	">>>":        LShift,
	"+":          LAdd,
	"-":          LAdd,
	"*":          LMultiply,
	"/":          LMultiply,
	"%":          LMultiply,
	"**":         LExponentiation,
}

// Level returns the precedence level of expression n.
func (t *Tree) Level(n NodeID) L {
	node := t.Node(n)
	switch node.Kind {
	case SeqExpr:
		return LComma
	case YieldExpr:
		return LYield
	case AssignExpr, ArrowFunc:
		return LAssign
	case CondExpr:
		return LConditional
	case BinaryExpr, LogicalExpr:
		return binaryLevels[node.Op]
	case UnaryExpr, AwaitExpr:
		return LPrefix
	case UpdateExpr:
		if node.Has(Prefix) {
			return LPrefix
		}
		return LPostfix
	case NumberLit:
		if node.Num < 0 || node.Num == 0 && math.Signbit(node.Num) {
			return LPrefix
		}
	case CallExpr, NewExpr, ImportExpr:
		return LCall
	case MemberExpr, TaggedTemplate:
		return LMember
	case ChainExpr:
		// (a?.b).c is not a?.b.c
		return LNew
	}
	return LPrimary
}

// Format returns the JavaScript source text of node n.
// A Program is rendered with a trailing newline.
func Format(t *Tree, n NodeID) string {
	p := &printer{t: t}
	switch k := t.Kind(n); {
	case k == Program:
		for _, s := range t.Kids(n) {
			p.stmt(s)
			p.buf.WriteByte('\n')
		}
	case k < Ident:
		p.stmt(n)
	default:
		p.expr(n, LLowest)
	}
	return p.buf.String()
}

type printer struct {
	t        *Tree
	buf      strings.Builder
	indent   int
	forbidIn bool // within a for statement initializer
}

func (p *printer) print(ss ...string) {
	for _, s := range ss {
		p.buf.WriteString(s)
	}
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *printer) stmts(list []NodeID) {
	p.indent++
	for _, s := range list {
		p.newline()
		p.stmt(s)
	}
	p.indent--
}

func (p *printer) block(n NodeID) {
	kids := p.t.Kids(n)
	if len(kids) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.allowIn(func() { p.stmts(kids) })
	p.newline()
	p.print("}")
}

// allowIn runs f with the in operator permitted again, as inside
// brackets or a function body.
func (p *printer) allowIn(f func()) {
	saved := p.forbidIn
	p.forbidIn = false
	f()
	p.forbidIn = saved
}

// body prints the body of a compound statement, after its header.
func (p *printer) body(n NodeID) {
	switch p.t.Kind(n) {
	case BlockStmt:
		p.print(" ")
		p.block(n)
	case EmptyStmt, Invalid:
		p.print(";")
	default:
		p.print(" ")
		p.stmt(n)
	}
}

func (p *printer) stmt(n NodeID) {
	t := p.t
	node := t.Node(n)
	kids := t.Kids(n)
	switch node.Kind {
	case BlockStmt:
		p.block(n)
	case ExprStmt:
		if x := kids[0]; p.needsStmtParens(x) {
			p.print("(")
			p.expr(x, LLowest)
			p.print(");")
		} else {
			p.expr(x, LLowest)
			p.print(";")
		}
	case VarDecl:
		p.varDecl(n)
		p.print(";")
	case FuncDecl:
		p.function(n)
	case ClassDecl:
		p.class(n)
	case ReturnStmt:
		p.print("return")
		if kids[0] != Nil {
			p.print(" ")
			p.expr(kids[0], LLowest)
		}
		p.print(";")
	case ThrowStmt:
		p.print("throw ")
		p.expr(kids[0], LLowest)
		p.print(";")
	case BreakStmt, ContinueStmt:
		if node.Kind == BreakStmt {
			p.print("break")
		} else {
			p.print("continue")
		}
		if node.Name != "" {
			p.print(" ", node.Name)
		}
		p.print(";")
	case IfStmt:
		p.print("if (")
		p.expr(kids[0], LLowest)
		p.print(")")
		p.body(kids[1])
		if alt := kids[2]; alt != Nil {
			if t.Kind(kids[1]) == BlockStmt {
				p.print(" ")
			} else {
				p.newline()
			}
			p.print("else")
			if t.Kind(alt) == IfStmt {
				p.print(" ")
				p.stmt(alt)
			} else {
				p.body(alt)
			}
		}
	case ForStmt:
		p.print("for (")
		if init := kids[ForInit]; init != Nil {
			// An in operator would be taken for a for-in loop.
			p.forbidIn = true
			if t.Kind(init) == VarDecl {
				p.varDecl(init)
			} else {
				p.expr(init, LLowest)
			}
			p.forbidIn = false
		}
		p.print(";")
		if kids[ForTest] != Nil {
			p.print(" ")
			p.expr(kids[ForTest], LLowest)
		}
		p.print(";")
		if kids[ForUpdate] != Nil {
			p.print(" ")
			p.expr(kids[ForUpdate], LLowest)
		}
		p.print(")")
		p.body(kids[ForBody])
	case ForInStmt, ForOfStmt:
		p.print("for ")
		if node.Has(Await) {
			p.print("await ")
		}
		p.print("(")
		if left := kids[ForXLeft]; t.Kind(left) == VarDecl {
			p.varDecl(left)
		} else {
			p.expr(left, LPostfix)
		}
		if node.Kind == ForInStmt {
			p.print(" in ")
			p.expr(kids[ForXRight], LLowest)
		} else {
			p.print(" of ")
			p.expr(kids[ForXRight], LAssign)
		}
		p.print(")")
		p.body(kids[ForXBody])
	case WhileStmt:
		p.print("while (")
		p.expr(kids[0], LLowest)
		p.print(")")
		p.body(kids[1])
	case DoWhileStmt:
		p.print("do")
		p.body(kids[0])
		if t.Kind(kids[0]) == BlockStmt {
			p.print(" ")
		} else {
			p.newline()
		}
		p.print("while (")
		p.expr(kids[1], LLowest)
		p.print(");")
	case LabeledStmt:
		p.print(node.Name, ":")
		p.body(kids[0])
	case SwitchStmt:
		p.print("switch (")
		p.expr(kids[0], LLowest)
		p.print(") {")
		p.indent++
		for _, c := range kids[1:] {
			p.newline()
			if test := t.Child(c, 0); test != Nil {
				p.print("case ")
				p.expr(test, LLowest)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.stmts(t.List(c))
		}
		p.indent--
		p.newline()
		p.print("}")
	case TryStmt:
		p.print("try ")
		p.block(kids[0])
		if h := kids[1]; h != Nil {
			p.print(" catch ")
			if param := t.Child(h, 0); param != Nil {
				p.print("(")
				p.expr(param, LLowest)
				p.print(") ")
			}
			p.block(t.Child(h, 1))
		}
		if f := kids[2]; f != Nil {
			p.print(" finally ")
			p.block(f)
		}
	case EmptyStmt:
		p.print(";")
	case ImportDecl:
		p.importDecl(n)
	case ExportNamedDecl:
		p.print("export ")
		if d := kids[0]; d != Nil {
			p.stmt(d)
			break
		}
		p.exportSpecs(kids[2:])
		if src := kids[1]; src != Nil {
			p.print(" from ")
			p.expr(src, LPrimary)
		}
		p.print(";")
	case ExportDefaultDecl:
		p.print("export default ")
		switch d := kids[0]; t.Kind(d) {
		case FuncDecl, ClassDecl:
			p.stmt(d)
		default:
			if p.needsStmtParens(d) {
				p.print("(")
				p.expr(d, LLowest)
				p.print(")")
			} else {
				p.expr(d, LAssign)
			}
			p.print(";")
		}
	case ExportAllDecl:
		p.print("export *")
		if kids[1] != Nil {
			p.print(" as ")
			p.expr(kids[1], LPrimary)
		}
		p.print(" from ")
		p.expr(kids[0], LPrimary)
		p.print(";")
	default:
		p.expr(n, LLowest)
		p.print(";")
	}
}

func (p *printer) importDecl(n NodeID) {
	t := p.t
	p.print("import ")
	specs := t.List(n)
	var named []NodeID
	sep := ""
	for _, s := range specs {
		local := t.Name(t.Child(s, 1))
		switch t.Name(s) {
		case "default":
			p.print(sep, local)
		case "namespace":
			p.print(sep, "* as ", local)
		default:
			named = append(named, s)
			continue
		}
		sep = ", "
	}
	if len(named) > 0 {
		p.print(sep, "{ ")
		for i, s := range named {
			if i > 0 {
				p.print(", ")
			}
			imported, local := t.Child(s, 0), t.Child(s, 1)
			if !sameName(t, imported, local) {
				p.expr(imported, LPrimary)
				p.print(" as ")
			}
			p.print(t.Name(local))
		}
		p.print(" }")
	}
	if len(specs) > 0 {
		p.print(" from ")
	}
	p.expr(t.Child(n, 0), LPrimary)
	p.print(";")
}

func (p *printer) exportSpecs(specs []NodeID) {
	t := p.t
	if len(specs) == 0 {
		p.print("{}")
		return
	}
	p.print("{ ")
	for i, s := range specs {
		if i > 0 {
			p.print(", ")
		}
		local, exported := t.Child(s, 0), t.Child(s, 1)
		p.expr(local, LPrimary)
		if exported != Nil && !sameName(t, local, exported) {
			p.print(" as ")
			p.expr(exported, LPrimary)
		}
	}
	p.print(" }")
}

// sameName reports whether module export names a and b, identifiers
// or string literals, are spelled alike.
func sameName(t *Tree, a, b NodeID) bool {
	na, nb := t.Node(a), t.Node(b)
	if na == nil || nb == nil || na.Kind != nb.Kind {
		return false
	}
	if na.Kind == StringLit {
		return na.Str == nb.Str
	}
	return na.Name == nb.Name
}

func (p *printer) varDecl(n NodeID) {
	p.print(p.t.Node(n).Decl.String(), " ")
	for i, d := range p.t.Kids(n) {
		if i > 0 {
			p.print(", ")
		}
		p.expr(p.t.Child(d, 0), LLowest)
		if init := p.t.Child(d, 1); init != Nil {
			p.print(" = ")
			p.expr(init, LAssign)
		}
	}
}

// needsStmtParens reports whether expression statement x would be
// misparsed as a declaration or block without parentheses.
func (p *printer) needsStmtParens(x NodeID) bool {
	t := p.t
	for {
		switch t.Kind(x) {
		case FuncExpr, ClassExpr, ObjectExpr, ObjectPattern:
			return true
		case CallExpr, NewExpr, MemberExpr, BinaryExpr, LogicalExpr, AssignExpr, SeqExpr, CondExpr,
			TaggedTemplate, ChainExpr:
			if t.Kind(x) == NewExpr || t.Kind(x) == CallExpr && t.Kind(t.Child(x, 0)) == FuncExpr {
				return false
			}
			x = t.Child(x, 0)
		case UpdateExpr:
			if t.Node(x).Has(Prefix) {
				return false
			}
			x = t.Child(x, 0)
		default:
			return false
		}
	}
}

func (p *printer) params(n NodeID) {
	p.print("(")
	p.allowIn(func() {
		for i, param := range p.t.List(n) {
			if i > 0 {
				p.print(", ")
			}
			p.expr(param, LAssign)
		}
	})
	p.print(")")
}

func (p *printer) function(n NodeID) {
	node := p.t.Node(n)
	if node.Has(Async) {
		p.print("async ")
	}
	p.print("function")
	if node.Has(Generator) {
		p.print("*")
	}
	p.print(" ")
	if id := p.t.Child(n, FuncID); id != Nil {
		p.print(p.t.Name(id))
	}
	p.params(n)
	p.print(" ")
	p.block(p.t.Child(n, FuncBody))
}

func (p *printer) arrow(n NodeID) {
	if p.t.Node(n).Has(Async) {
		p.print("async ")
	}
	p.params(n)
	p.print(" => ")
	body := p.t.Child(n, FuncBody)
	switch p.t.Kind(body) {
	case BlockStmt:
		p.block(body)
	case ObjectExpr:
		p.print("(")
		p.expr(body, LLowest)
		p.print(")")
	default:
		p.expr(body, LAssign)
	}
}

func (p *printer) class(n NodeID) {
	t := p.t
	p.print("class")
	if id := t.Child(n, FuncID); id != Nil {
		p.print(" ", t.Name(id))
	}
	if super := t.Child(n, ClassSuper); super != Nil {
		p.print(" extends ")
		p.expr(super, LNew)
	}
	members := t.List(n)
	if len(members) == 0 {
		p.print(" {}")
		return
	}
	p.print(" {")
	p.indent++
	p.allowIn(func() {
		for _, m := range members {
			p.newline()
			if t.Kind(m) == FieldDef {
				p.field(m)
			} else {
				p.method(m)
			}
		}
	})
	p.indent--
	p.newline()
	p.print("}")
}

// field prints a class field: static [k] = v;
func (p *printer) field(m NodeID) {
	t := p.t
	if t.Node(m).Has(Static) {
		p.print("static ")
	}
	p.key(m, t.Child(m, 0))
	if v := t.Child(m, 1); v != Nil {
		p.print(" = ")
		p.expr(v, LAssign)
	}
	p.print(";")
}

func (p *printer) key(n NodeID, key NodeID) {
	switch {
	case p.t.Node(n).Has(Computed):
		p.print("[")
		p.expr(key, LAssign)
		p.print("]")
	default:
		p.expr(key, LPrimary)
	}
}

// method prints a class member or object method. Its value is a FuncExpr.
func (p *printer) method(m NodeID) {
	t := p.t
	node := t.Node(m)
	fn := t.Child(m, 1)
	if node.Has(Static) {
		p.print("static ")
	}
	if node.Name == "get" || node.Name == "set" {
		p.print(node.Name, " ")
	}
	if t.Node(fn).Has(Async) {
		p.print("async ")
	}
	if t.Node(fn).Has(Generator) {
		p.print("*")
	}
	p.key(m, t.Child(m, 0))
	p.params(fn)
	p.print(" ")
	p.block(t.Child(fn, FuncBody))
}

func (p *printer) property(n NodeID) {
	t := p.t
	node := t.Node(n)
	key, value := t.Child(n, 0), t.Child(n, 1)
	switch {
	case node.Has(Method) || node.Name == "get" || node.Name == "set":
		p.method(n)
	case node.Has(Shorthand):
		p.expr(value, LAssign)
	default:
		p.key(n, key)
		p.print(": ")
		p.expr(value, LAssign)
	}
}

// list prints comma-separated elements, as in call arguments or
// array literals. Nil elements are holes.
func (p *printer) list(elems []NodeID) {
	p.allowIn(func() {
		for i, e := range elems {
			if i > 0 {
				p.print(", ")
			}
			if e != Nil {
				p.expr(e, LAssign)
			} else if i == len(elems)-1 {
				p.print(",")
			}
		}
	})
}

// template prints the template literal n.
func (p *printer) template(n NodeID) {
	t := p.t
	p.print("`")
	p.allowIn(func() {
		for _, c := range t.Kids(n) {
			if t.Kind(c) == TemplateElem {
				p.print(t.Node(c).Str)
				continue
			}
			p.print("${")
			p.expr(c, LLowest)
			p.print("}")
		}
	})
	p.print("`")
}

func (p *printer) expr(n NodeID, level L) {
	t := p.t
	node := t.Node(n)
	if t.Level(n) < level || p.forbidIn && node.Kind == BinaryExpr && node.Op == "in" {
		p.print("(")
		defer p.print(")")
		if p.forbidIn {
			p.forbidIn = false
			defer func() { p.forbidIn = true }()
		}
	}
	kids := t.Kids(n)
	switch node.Kind {
	case Ident:
		p.print(node.Name)
	case StringLit:
		p.print(Quote(node.Str))
	case NumberLit:
		p.print(formatNumber(node))
	case BoolLit:
		p.print(strconv.FormatBool(node.Has(True)))
	case NullLit:
		p.print("null")
	case ThisExpr:
		p.print("this")
	case SuperExpr:
		p.print("super")
	case FuncExpr:
		p.function(n)
	case ArrowFunc:
		p.arrow(n)
	case ClassExpr:
		p.class(n)
	case AssignExpr:
		p.expr(kids[0], LPostfix)
		p.print(" ", node.Op, " ")
		p.expr(kids[1], LAssign)
	case AssignPattern:
		p.expr(kids[0], LPostfix)
		p.print(" = ")
		p.expr(kids[1], LAssign)
	case BinaryExpr, LogicalExpr:
		lvl := binaryLevels[node.Op]
		left, right := lvl, lvl+1
		if node.Op == "**" {
			left, right = LPostfix, lvl
		}
		p.operand(node.Op, kids[0], left)
		p.print(" ", node.Op, " ")
		p.operand(node.Op, kids[1], right)
	case UnaryExpr:
		p.print(node.Op)
		if len(node.Op) > 1 || p.startsWith(kids[0], node.Op) {
			p.print(" ")
		}
		p.expr(kids[0], LPrefix)
	case UpdateExpr:
		if node.Has(Prefix) {
			p.print(node.Op)
			p.expr(kids[0], LPrefix)
		} else {
			p.expr(kids[0], LPostfix)
			p.print(node.Op)
		}
	case AwaitExpr:
		p.print("await ")
		p.expr(kids[0], LPrefix)
	case YieldExpr:
		p.print("yield")
		if node.Has(Delegate) {
			p.print("*")
		}
		if kids[0] != Nil {
			p.print(" ")
			p.expr(kids[0], LYield)
		}
	case SpreadElement, RestElement:
		p.print("...")
		p.expr(kids[0], LAssign)
	case SeqExpr:
		for i, x := range kids {
			if i > 0 {
				p.print(", ")
			}
			p.expr(x, LAssign)
		}
	case CondExpr:
		p.expr(kids[0], LNullishCoalescing)
		p.print(" ? ")
		p.expr(kids[1], LAssign)
		p.print(" : ")
		p.expr(kids[2], LAssign)
	case CallExpr:
		if t.Kind(kids[0]) == FuncExpr {
			// (function () {})()
			p.expr(kids[0], LPrimary+1)
		} else {
			p.expr(kids[0], LCall)
		}
		if node.Has(Optional) {
			p.print("?.")
		}
		p.print("(")
		p.list(kids[1:])
		p.print(")")
	case NewExpr:
		p.print("new ")
		p.expr(kids[0], LMember)
		p.print("(")
		p.list(kids[1:])
		p.print(")")
	case MemberExpr:
		if t.Kind(kids[0]) == NumberLit {
			p.expr(kids[0], LPrimary+1)
		} else {
			p.expr(kids[0], LCall)
		}
		if node.Has(Optional) {
			p.print("?.")
		} else if !node.Has(Computed) {
			p.print(".")
		}
		if node.Has(Computed) {
			p.print("[")
			p.allowIn(func() { p.expr(kids[1], LLowest) })
			p.print("]")
		} else {
			p.print(t.Name(kids[1]))
		}
	case ObjectExpr, ObjectPattern:
		if len(kids) == 0 {
			p.print("{}")
			break
		}
		p.print("{ ")
		p.allowIn(func() {
			for i, prop := range kids {
				if i > 0 {
					p.print(", ")
				}
				if t.Kind(prop) == Property {
					p.property(prop)
				} else {
					p.expr(prop, LAssign)
				}
			}
		})
		p.print(" }")
	case ArrayExpr, ArrayPattern:
		p.print("[")
		p.list(kids)
		p.print("]")
	case TemplateLit:
		p.template(n)
	case TaggedTemplate:
		p.expr(kids[0], LMember)
		p.template(kids[1])
	case RegExpLit:
		p.print("/", node.Str, "/", node.Name)
	case BigIntLit:
		p.print(node.Str, "n")
	case MetaProperty:
		p.print(node.Name)
	case ChainExpr:
		p.expr(kids[0], LLowest)
	case ImportExpr:
		p.print("import(")
		p.list(kids)
		p.print(")")
	default:
		p.print("/* ", node.Kind.String(), " */")
	}
}

// operand prints an operand of a binary operator. Mixing ?? with
// || or && requires parentheses regardless of precedence.
func (p *printer) operand(op string, x NodeID, level L) {
	if p.t.Kind(x) == LogicalExpr {
		inner := p.t.Node(x).Op
		if (op == "??") != (inner == "??") {
			level = LPrimary
		}
	}
	p.expr(x, level)
}

// startsWith reports whether the rendering of unary operand x would
// begin with the sign op, as in - -x or + +x.
func (p *printer) startsWith(x NodeID, op string) bool {
	node := p.t.Node(x)
	switch node.Kind {
	case UnaryExpr, UpdateExpr:
		return node.Has(Prefix) || node.Kind == UnaryExpr && strings.HasPrefix(node.Op, op)
	case NumberLit:
		return op == "-" && p.t.Level(x) == LPrefix
	}
	return false
}

func formatNumber(n *Node) string {
	if n.Str != "" {
		return n.Str
	}
	x := n.Num
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == math.Trunc(x) && math.Abs(x) < 1e21:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Quote returns a double-quoted JavaScript string literal denoting s.
func Quote(s string) string {
	var buf strings.Builder
	buf.Grow(len(s) + 2)
	buf.WriteByte('"')
	for i, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\v':
			buf.WriteString(`\v`)
		case 0:
			if i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '9' {
				buf.WriteString(`\x00`)
			} else {
				buf.WriteString(`\0`)
			}
		case '\u2028', '\u2029':
			buf.WriteString(`\u`)
			buf.WriteString(strconv.FormatInt(int64(r), 16))
		default:
			if r < 0x20 || r == 0x7f {
				const hex = "0123456789abcdef"
				buf.WriteString(`\x`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xf])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
