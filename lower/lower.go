// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lower rewrites the block-scoped declarations of a JavaScript
// program (let, const, and block-level function and class declarations)
// into function-scoped var declarations with the same behavior.
//
// Most blocks are lowered by renaming: each let becomes a var, renamed
// if it would collide with a variable of an enclosing scope. A block
// whose bindings are captured by a function created inside a loop needs
// a fresh binding per iteration; such a block is moved into a function,
// called once per iteration with the current values of the loop
// variables. Its break, continue and return statements are encoded as
// return values and decoded by the caller:
//
//	var _loop = function (i) {
//	  if (i === 1) return "break";
//	  fns.push(() => i);
//	};
//	for (var i = 0; i < 3; i++) {
//	  var _ret = _loop(i);
//	  if (_ret === "break") break;
//	}
//
// Assignments to constants are replaced by code that raises a TypeError
// at run time. With Options.TDZ, reads of a binding before its
// declaration has run raise a ReferenceError.
package lower // import "github.com/jsdown/blockscope/lower"

import (
	"github.com/tliron/commonlog"

	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// Options control the lowering.
type Options struct {
	// TDZ enables temporal dead zone checks: reads and writes of a
	// let, const or class binding before its declaration raise a
	// ReferenceError at run time.
	TDZ bool

	// ThrowIfClosureRequired makes File fail with a
	// ClosureForbiddenError instead of wrapping a block in a closure.
	ThrowIfClosureRequired bool
}

// OptionsFromMap returns the options named in m, as decoded from a
// configuration file. Absent keys keep their default; a value that is
// not a boolean yields a *ConfigurationError. Keys are accepted both
// in camel case and in kebab case.
func OptionsFromMap(m map[string]interface{}) (Options, error) {
	var opts Options
	for _, opt := range []struct {
		keys []string
		dst  *bool
	}{
		{[]string{"throwIfClosureRequired", "throw-if-closure-required"}, &opts.ThrowIfClosureRequired},
		{[]string{"tdz"}, &opts.TDZ},
	} {
		for _, key := range opt.keys {
			v, ok := m[key]
			if !ok || v == nil {
				continue
			}
			b, ok := v.(bool)
			if !ok {
				return Options{}, &ConfigurationError{Key: key}
			}
			*opt.dst = b
		}
	}
	return opts, nil
}

// File lowers the block-scoped declarations of t in place.
//
// If the result is a *ClosureForbiddenError or an *InternalError, the
// tree may have been partially rewritten and should be discarded.
func File(t *syntax.Tree, opts Options) error {
	if t.Root == syntax.Nil {
		return nil
	}
	return newPass(t, opts).run()
}

func newPass(t *syntax.Tree, opts Options) *pass {
	return &pass{
		t:       t,
		opts:    opts,
		seen:    make(map[syntax.NodeID]bool),
		done:    make(map[syntax.NodeID]bool),
		helpers: make(map[string]string),
		envs:    make(map[syntax.NodeID]*environment),
		log:     commonlog.GetLogger("blockscope.lower"),
	}
}

func (p *pass) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	p.visit(p.t.Root)
	p.injectHelpers()
	p.log.Debugf("%s: lowered %d blocks, %d index builds", p.t.Path, len(p.done), p.builds)
	return nil
}

// A pass holds the state of one lowering of one tree.
type pass struct {
	t    *syntax.Tree
	opts Options

	idx    *resolve.Index
	stale  bool     // an edit could not be recorded in idx
	builds int      // number of full index builds
	uids   []string // names generated so far, reserved in every index

	seen map[syntax.NodeID]bool // nodes entered by the traversal
	done map[syntax.NodeID]bool // blocks already lowered

	helpers     map[string]string // helper name to generated identifier
	helperOrder []string
	envs        map[syntax.NodeID]*environment

	log commonlog.Logger
}

// index returns an up-to-date scope index. The index is built once and
// then kept current by refresh and promote; it is rebuilt only after an
// edit that refresh could not record.
func (p *pass) index() *resolve.Index {
	if p.idx == nil || p.stale {
		p.idx = resolve.Build(p.t)
		p.idx.Reserve(p.uids...)
		p.stale = false
		p.builds++
	}
	return p.idx
}

// refresh records in the index the edits made to the subtrees ns.
func (p *pass) refresh(ns ...syntax.NodeID) {
	if p.idx == nil || p.stale {
		return
	}
	for _, n := range ns {
		if n == syntax.Nil {
			continue
		}
		if !p.attached(n) {
			p.stale = true
			return
		}
		p.idx.Refresh(n)
	}
}

// promote records that the block-scoped declaration of identifier id
// has become a var: its binding moves to the enclosing function.
func (p *pass) promote(id syntax.NodeID) {
	if p.idx == nil || p.stale {
		return
	}
	bind := p.idx.BindingOf(id)
	if bind == nil || p.t.Kind(bind.Decl) != syntax.VarDeclarator {
		return
	}
	bind = bind.Scope.MoveBindingTo(bind.Name, bind.Scope.FunctionParent())
	bind.Kind = syntax.VarBinding
}

// uid returns a fresh identifier name derived from hint.
func (p *pass) uid(hint string) string {
	if p.idx == nil {
		p.index()
	}
	name := p.idx.GenerateUID(hint)
	p.uids = append(p.uids, name)
	return name
}

// visit traverses the subtree n in pre-order, lowering as it goes.
// A node that moves while being entered is left for the traversal to
// find again at its new place; nodes inserted next to the current one
// are visited too.
func (p *pass) visit(n syntax.NodeID) {
	t := p.t
	p.seen[n] = true
	parent := t.Parent(n)
	p.enter(n)
	if t.Parent(n) != parent || parent == syntax.Nil && t.Root != n {
		delete(p.seen, n)
		return
	}
	for i := 0; i < t.NumKids(n); i++ {
		c := t.Child(n, i)
		if c == syntax.Nil || p.seen[c] {
			continue
		}
		p.visit(c)
		i-- // the slot may now hold a new node
	}
}

func (p *pass) enter(n syntax.NodeID) {
	t := p.t
	switch k := t.Kind(n); k {
	case syntax.VarDecl:
		p.enterVarDecl(n)
	case syntax.ForStmt, syntax.ForInStmt, syntax.ForOfStmt, syntax.WhileStmt, syntax.DoWhileStmt:
		body := t.EnsureBlock(n, syntax.LoopBody(k))
		p.newBlockScoping(n, body).run()
	case syntax.CatchClause:
		p.newBlockScoping(syntax.Nil, t.Child(n, 1)).run()
	case syntax.BlockStmt, syntax.SwitchStmt, syntax.Program:
		if !p.ignoreBlock(n) {
			p.newBlockScoping(syntax.Nil, n).run()
		}
	}
}

// ignoreBlock reports whether block n is lowered as part of its
// parent loop or catch clause.
func (p *pass) ignoreBlock(n syntax.NodeID) bool {
	k := p.t.Kind(p.t.Parent(n))
	return k.IsLoop() || k == syntax.CatchClause
}

// enterVarDecl converts a let or const declaration to var, and
// rewrites a declaration whose binding may be read in its dead zone.
func (p *pass) enterVarDecl(n syntax.NodeID) {
	t := p.t
	node := t.Node(n)
	if !isBlockScoped(t, n) {
		return
	}
	converted := node.Decl != syntax.Var
	p.convertToVar(n, t.Parent(n))
	if converted {
		for _, id := range t.BindingIdents(n) {
			p.promote(id)
		}
	}

	if !node.Has(syntax.TDZThis) {
		return
	}
	node.Flags &^= syntax.TDZThis
	if list, _ := t.StatementContainer(n); list == syntax.Nil || t.Kind(t.Parent(n)) == syntax.LabeledStmt {
		return
	}
	stmts := []syntax.NodeID{n}
	for _, d := range append([]syntax.NodeID(nil), t.Kids(n)...) {
		init := t.Child(d, 1)
		if init == syntax.Nil {
			init = t.Void0()
		}
		assign := t.Assign("=", t.Clone(t.Child(d, 0)), init)
		t.Node(assign).Flags |= syntax.SkipTDZ
		stmts = append(stmts, t.ExprStmt(assign))
		undef := t.Ident(p.helper("temporalUndefined"))
		t.SetChild(d, 1, undef)
		p.refresh(undef)
	}
	t.ReplaceWithMultiple(n, stmts...)
	p.refresh(stmts[1:]...)
}

// convertToVar turns the block-scoped declaration n into a var. Inside
// a loop each declarator gets an explicit initializer, since a var
// keeps its value from one iteration to the next.
func (p *pass) convertToVar(n, parent syntax.NodeID) {
	t := p.t
	if p.isInLoop(n) && !t.Kind(parent).IsFor() {
		for _, d := range t.Kids(n) {
			if t.Child(d, 1) == syntax.Nil {
				t.SetChild(d, 1, t.Void0())
			}
		}
	}
	node := t.Node(n)
	node.Flags |= syntax.BlockScoped
	node.Decl = syntax.Var
}

// isBlockScoped reports whether n is a let or const declaration,
// possibly one already converted to var.
func isBlockScoped(t *syntax.Tree, n syntax.NodeID) bool {
	node := t.Node(n)
	return node != nil && node.Kind == syntax.VarDecl && (node.Decl != syntax.Var || node.Has(syntax.BlockScoped))
}

// isVar reports whether n is a var declaration in the source.
func isVar(t *syntax.Tree, n syntax.NodeID) bool {
	node := t.Node(n)
	return node != nil && node.Kind == syntax.VarDecl && node.Decl == syntax.Var && !node.Has(syntax.BlockScoped)
}

// isInLoop reports whether the nearest loop or function enclosing n
// (or n itself) is a loop.
func (p *pass) isInLoop(n syntax.NodeID) bool {
	t := p.t
	for ; n != syntax.Nil; n = t.Parent(n) {
		switch k := t.Kind(n); {
		case k.IsLoop():
			return true
		case k.IsFunction():
			return false
		}
	}
	return false
}

// isStrict reports whether n is strict mode code.
func (p *pass) isStrict(n syntax.NodeID) bool {
	t := p.t
	for ; n != syntax.Nil; n = t.Parent(n) {
		node := t.Node(n)
		if node.Kind == syntax.Program && node.Has(syntax.Module) {
			return true
		}
		if (node.Kind == syntax.Program || node.Kind == syntax.BlockStmt) && node.Has(syntax.Strict) {
			return true
		}
	}
	return false
}

// attached reports whether n is still part of the tree.
func (p *pass) attached(n syntax.NodeID) bool {
	t := p.t
	for ; t.Parent(n) != syntax.Nil; n = t.Parent(n) {
	}
	return n == t.Root
}

// wrap replaces n by build(n), which may use n as a subexpression.
func (p *pass) wrap(n syntax.NodeID, build func(syntax.NodeID) syntax.NodeID) syntax.NodeID {
	t := p.t
	placeholder := t.Null()
	t.Replace(n, placeholder)
	repl := build(n)
	t.Replace(placeholder, repl)
	return repl
}

// containsSuspension reports whether the subtree n contains a yield or
// an await belonging to the same function activation.
func containsSuspension(t *syntax.Tree, n syntax.NodeID, kind syntax.Kind) bool {
	found := false
	syntax.Inspect(t, n, func(c syntax.NodeID) bool {
		node := t.Node(c)
		switch {
		case found:
			return false
		case node.Kind.IsFunction() && c != n:
			return false
		case node.Kind == kind:
			found = true
		case kind == syntax.AwaitExpr && node.Kind == syntax.ForOfStmt && node.Has(syntax.Await):
			found = true
		}
		return !found
	})
	return found
}
