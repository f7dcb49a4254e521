// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "github.com/jsdown/blockscope/syntax"

// wrapClosure moves the statements of the block into a function and
// replaces them by a call, so that every execution of the block gets
// fresh bindings. For a loop body the function is defined once, before
// the loop, and receives the loop variables as parameters.
func (b *blockScoping) wrapClosure() {
	p, t := b.p, b.t
	if p.opts.ThrowIfClosureRequired {
		panic(bailout{&ClosureForbiddenError{Path: t.Path, Pos: p.pos(b.block)}})
	}

	// Loop variables that collide with an outer name are renamed first,
	// since the closure parameters would shadow the outer variable.
	if b.loop != syntax.Nil {
		for _, name := range b.outsideRefs.keys() {
			id, _ := b.outsideRefs.get(name)
			if !b.idx.HasGlobal(name) && !b.scope.ParentHasBinding(name) {
				continue
			}
			b.outsideRefs.delete(name)
			b.letRefs.delete(name)
			b.scope.Rename(name, "", syntax.Nil)
			b.letRefs.set(t.Name(id), id)
			b.outsideRefs.set(t.Name(id), id)
		}
	}

	b.has = b.checkLoop()
	b.hoistVarDeclarations()

	var args, params []syntax.NodeID
	for _, name := range b.outsideRefs.keys() {
		args = append(args, t.Ident(name))
		params = append(params, t.Ident(name))
	}

	// A switch moves into the function as a whole; a placeholder keeps
	// its place.
	isSwitch := t.Kind(b.block) == syntax.SwitchStmt
	fnBody := t.Block()
	placeholder := syntax.Nil
	if isSwitch {
		placeholder = t.Empty()
		t.Replace(b.block, placeholder)
		t.Append(fnBody, b.block)
	} else {
		stmts := append([]syntax.NodeID(nil), t.Kids(b.block)...)
		t.SetKids(b.block, nil)
		t.Append(fnBody, stmts...)
	}
	fn := t.Func(syntax.FuncExpr, syntax.Nil, fnBody, params...)
	t.Node(fn).Pos = t.Pos(b.block)
	b.addContinuations(fn)

	call := t.Call(syntax.Nil, args...)
	invocation := call
	if containsSuspension(t, fnBody, syntax.YieldExpr) {
		t.Node(fn).Flags |= syntax.Generator
		invocation = t.Yield(invocation, true)
	}
	if containsSuspension(t, fnBody, syntax.AwaitExpr) {
		t.Node(fn).Flags |= syntax.Async
		invocation = t.Await(invocation)
	}

	if b.has.hasReturn || b.has.hasBreakContinue() {
		ret := p.uid("ret")
		b.body = append(b.body, t.VarDecl(syntax.Var, t.Declarator(t.Ident(ret), invocation)))
		b.buildHas(ret)
	} else {
		b.body = append(b.body, t.ExprStmt(invocation))
	}

	if isSwitch {
		t.ReplaceWithMultiple(placeholder, b.body...)
		b.wrapped = append(b.wrapped, b.body...)
	} else {
		t.SetKids(b.block, b.body)
		b.wrapped = append(b.wrapped, b.block)
	}

	if b.loop != syntax.Nil {
		loopID := p.uid("loop")
		decl := t.VarDecl(syntax.Var, t.Declarator(t.Ident(loopID), fn))
		t.InsertBefore(b.loop, decl)
		t.SetChild(call, 0, t.Ident(loopID))
		b.wrapped = []syntax.NodeID{decl, b.loop}
	} else {
		t.SetChild(call, 0, fn)
	}

	b.unwrapFunctionEnvironment(fn)
}
