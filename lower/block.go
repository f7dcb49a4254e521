// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// A blockScoping lowers the declarations of one block: a loop body, a
// catch body, a block statement, a switch statement or the program.
type blockScoping struct {
	p *pass
	t *syntax.Tree

	loop   syntax.NodeID // the loop whose body is block, or Nil
	block  syntax.NodeID
	parent syntax.NodeID // parent of the loop, or of the block

	idx        *resolve.Index
	scope      *resolve.Scope // scope of the loop head or catch clause, else of the block
	blockScope *resolve.Scope // scope of the block itself

	letRefs     refMap // names declared by the block
	outsideRefs refMap // names declared by the loop head

	body    []syntax.NodeID // statements replacing the block when wrapped
	has     *loopState
	wrapped []syntax.NodeID // subtrees rewritten by wrapClosure
}

func (p *pass) newBlockScoping(loop, block syntax.NodeID) *blockScoping {
	b := &blockScoping{p: p, t: p.t, loop: loop, block: block}
	if loop != syntax.Nil {
		b.parent = p.t.Parent(loop)
	} else {
		b.parent = p.t.Parent(block)
	}
	return b
}

// run lowers the block, at most once.
func (b *blockScoping) run() {
	p, t := b.p, b.t
	if p.done[b.block] {
		return
	}
	p.done[b.block] = true

	b.idx = p.index()
	b.blockScope = b.idx.ScopeOf(b.block)
	b.scope = b.blockScope
	if head := b.headNode(); head != syntax.Nil {
		if s := b.idx.ScopeFor(head); s != nil {
			b.scope = s
		}
	}

	needsClosure := b.getLetReferences()
	b.checkConstants()

	// A function body or the program is already a function scope.
	if t.Kind(b.parent).IsFunction() || t.Kind(b.block) == syntax.Program {
		b.updateScopeInfo()
		return
	}
	if b.letRefs.len() == 0 {
		return
	}

	if needsClosure {
		p.log.Debugf("%s:%s: wrapping %s in a closure", t.Path, p.pos(b.block), b.what())
		b.wrapClosure()
	} else {
		p.log.Debugf("%s:%s: remapping %s", t.Path, p.pos(b.block), b.what())
		b.remap()
	}
	b.updateScopeInfo()
}

// headNode returns the node whose scope holds the bindings declared
// outside the block proper: the loop or the catch clause.
func (b *blockScoping) headNode() syntax.NodeID {
	if b.loop != syntax.Nil {
		return b.loop
	}
	if b.t.Kind(b.parent) == syntax.CatchClause {
		return b.parent
	}
	return syntax.Nil
}

func (b *blockScoping) what() string {
	if b.loop != syntax.Nil {
		return "body of " + b.t.Kind(b.loop).String()
	}
	return b.t.Kind(b.block).String()
}

// updateScopeInfo brings the index up to date. A wrapped block is
// resolved again; otherwise the block's let and const bindings, now
// vars, move to the enclosing function scope.
func (b *blockScoping) updateScopeInfo() {
	if b.wrapped != nil {
		b.p.refresh(b.wrapped...)
		return
	}
	for _, name := range b.letRefs.keys() {
		id, _ := b.letRefs.get(name)
		b.p.promote(id)
	}
}

// statements returns the statement list of the block; for a switch,
// the statements of every case.
func (b *blockScoping) statements() []syntax.NodeID {
	t := b.t
	if t.Kind(b.block) != syntax.SwitchStmt {
		return append([]syntax.NodeID(nil), t.Kids(b.block)...)
	}
	var stmts []syntax.NodeID
	for _, c := range t.List(b.block) {
		stmts = append(stmts, t.List(c)...)
	}
	return stmts
}

// A refMap maps names to identifiers, remembering insertion order.
type refMap struct {
	names []string
	ids   map[string]syntax.NodeID
}

func (m *refMap) set(name string, id syntax.NodeID) {
	if m.ids == nil {
		m.ids = make(map[string]syntax.NodeID)
	}
	if _, ok := m.ids[name]; !ok {
		m.names = append(m.names, name)
	}
	m.ids[name] = id
}

func (m *refMap) get(name string) (syntax.NodeID, bool) {
	id, ok := m.ids[name]
	return id, ok
}

func (m *refMap) delete(name string) {
	if _, ok := m.ids[name]; !ok {
		return
	}
	delete(m.ids, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i:i], m.names[i+1:]...)
			break
		}
	}
}

func (m *refMap) len() int { return len(m.names) }

// keys returns a copy of the names in insertion order.
func (m *refMap) keys() []string { return append([]string(nil), m.names...) }
