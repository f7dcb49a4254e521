// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Constructors for synthesized nodes. Each returns a detached node
// whose position is invalid; children passed in are detached from
// their previous parents.

func (t *Tree) leaf(kind Kind, name string) NodeID {
	id := t.New(kind)
	t.nodes[id].Name = name
	return id
}

func (t *Tree) op(kind Kind, op string, kids ...NodeID) NodeID {
	id := t.New(kind, kids...)
	t.nodes[id].Op = op
	return id
}

func (t *Tree) Program(stmts ...NodeID) NodeID { return t.New(Program, stmts...) }
func (t *Tree) Block(stmts ...NodeID) NodeID   { return t.New(BlockStmt, stmts...) }
func (t *Tree) ExprStmt(x NodeID) NodeID       { return t.New(ExprStmt, x) }
func (t *Tree) Ident(name string) NodeID       { return t.leaf(Ident, name) }
func (t *Tree) This() NodeID                   { return t.New(ThisExpr) }
func (t *Tree) Super() NodeID                  { return t.New(SuperExpr) }
func (t *Tree) Null() NodeID                   { return t.New(NullLit) }
func (t *Tree) Empty() NodeID                  { return t.New(EmptyStmt) }
func (t *Tree) Return(arg NodeID) NodeID       { return t.New(ReturnStmt, arg) }
func (t *Tree) Throw(arg NodeID) NodeID        { return t.New(ThrowStmt, arg) }
func (t *Tree) Break(label string) NodeID      { return t.leaf(BreakStmt, label) }
func (t *Tree) Continue(label string) NodeID   { return t.leaf(ContinueStmt, label) }

// VarDecl returns a declaration of the given kind.
func (t *Tree) VarDecl(kind DeclKind, decls ...NodeID) NodeID {
	id := t.New(VarDecl, decls...)
	t.nodes[id].Decl = kind
	return id
}

// Declarator returns the declarator id = init; init may be Nil.
func (t *Tree) Declarator(id, init NodeID) NodeID { return t.New(VarDeclarator, id, init) }

// Str returns a string literal.
func (t *Tree) Str(s string) NodeID {
	id := t.New(StringLit)
	t.nodes[id].Str = s
	return id
}

// Quasi returns a template element whose raw and cooked text are raw.
func (t *Tree) Quasi(raw string) NodeID {
	id := t.leaf(TemplateElem, raw)
	t.nodes[id].Str = raw
	return id
}

// Number returns a numeric literal.
func (t *Tree) Number(x float64) NodeID {
	id := t.New(NumberLit)
	t.nodes[id].Num = x
	return id
}

// Bool returns a boolean literal.
func (t *Tree) Bool(b bool) NodeID {
	id := t.New(BoolLit)
	if b {
		t.nodes[id].Flags |= True
	}
	return id
}

// Void0 returns the expression void 0.
func (t *Tree) Void0() NodeID { return t.Unary("void", t.Number(0)) }

func (t *Tree) Assign(op string, l, r NodeID) NodeID  { return t.op(AssignExpr, op, l, r) }
func (t *Tree) Binary(op string, l, r NodeID) NodeID  { return t.op(BinaryExpr, op, l, r) }
func (t *Tree) Logical(op string, l, r NodeID) NodeID { return t.op(LogicalExpr, op, l, r) }
func (t *Tree) Unary(op string, x NodeID) NodeID      { return t.op(UnaryExpr, op, x) }

// Update returns x++ or ++x (if prefix) for op "++", and likewise for "--".
func (t *Tree) Update(op string, prefix bool, x NodeID) NodeID {
	id := t.op(UpdateExpr, op, x)
	if prefix {
		t.nodes[id].Flags |= Prefix
	}
	return id
}

func (t *Tree) Seq(xs ...NodeID) NodeID { return t.New(SeqExpr, xs...) }

func (t *Tree) Cond(test, cons, alt NodeID) NodeID { return t.New(CondExpr, test, cons, alt) }

func (t *Tree) Call(fn NodeID, args ...NodeID) NodeID {
	return t.New(CallExpr, append([]NodeID{fn}, args...)...)
}

func (t *Tree) NewExpr(fn NodeID, args ...NodeID) NodeID {
	return t.New(NewExpr, append([]NodeID{fn}, args...)...)
}

// Member returns the expression obj.name.
func (t *Tree) Member(obj NodeID, name string) NodeID {
	return t.New(MemberExpr, obj, t.Ident(name))
}

// Index returns the expression obj[prop].
func (t *Tree) Index(obj, prop NodeID) NodeID {
	id := t.New(MemberExpr, obj, prop)
	t.nodes[id].Flags |= Computed
	return id
}

func (t *Tree) If(test, cons, alt NodeID) NodeID { return t.New(IfStmt, test, cons, alt) }

func (t *Tree) For(init, test, update, body NodeID) NodeID {
	return t.New(ForStmt, init, test, update, body)
}

func (t *Tree) While(test, body NodeID) NodeID   { return t.New(WhileStmt, test, body) }
func (t *Tree) DoWhile(body, test NodeID) NodeID { return t.New(DoWhileStmt, body, test) }

// Labeled returns the statement label: body.
func (t *Tree) Labeled(label string, body NodeID) NodeID {
	id := t.New(LabeledStmt, body)
	t.nodes[id].Name = label
	return id
}

// Func returns a function of the given kind (FuncDecl, FuncExpr or
// ArrowFunc). The name may be Nil for expressions.
func (t *Tree) Func(kind Kind, name, body NodeID, params ...NodeID) NodeID {
	return t.New(kind, append([]NodeID{name, body}, params...)...)
}

// Object returns an object literal with the given properties.
func (t *Tree) Object(props ...NodeID) NodeID { return t.New(ObjectExpr, props...) }

// Prop returns the property key: value, keyed by an identifier.
func (t *Tree) Prop(key string, value NodeID) NodeID {
	id := t.New(Property, t.Ident(key), value)
	t.nodes[id].Name = "init"
	return id
}

func (t *Tree) Array(elems ...NodeID) NodeID { return t.New(ArrayExpr, elems...) }
func (t *Tree) Spread(x NodeID) NodeID       { return t.New(SpreadElement, x) }
func (t *Tree) Await(x NodeID) NodeID        { return t.New(AwaitExpr, x) }

// Yield returns yield x, or yield* x if delegate.
func (t *Tree) Yield(x NodeID, delegate bool) NodeID {
	id := t.New(YieldExpr, x)
	if delegate {
		t.nodes[id].Flags |= Delegate
	}
	return id
}
