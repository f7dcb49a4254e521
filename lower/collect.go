// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// getLetReferences collects the names declared by the block and its
// loop head, converts their let and const declarations to var, and
// reports whether a closure is needed: whether a function created
// inside a loop refers to one of the names.
func (b *blockScoping) getLetReferences() bool {
	t := b.t
	var declarators []syntax.NodeID

	if b.loop != syntax.Nil {
		var head syntax.NodeID
		if t.Kind(b.loop) == syntax.ForStmt {
			head = t.Child(b.loop, syntax.ForInit)
		} else if t.Kind(b.loop).IsForX() {
			head = t.Child(b.loop, syntax.ForXLeft)
		}
		if isBlockScoped(t, head) {
			b.p.convertToVar(head, b.loop)
			declarators = append(declarators, t.Kids(head)...)
			for _, id := range t.BindingIdents(head) {
				b.outsideRefs.set(t.Name(id), id)
			}
		}
	}

	var add func(stmt syntax.NodeID)
	add = func(stmt syntax.NodeID) {
		switch k := t.Kind(stmt); {
		case k == syntax.ClassDecl || k == syntax.FuncDecl:
			declarators = append(declarators, stmt)
		case isBlockScoped(t, stmt):
			b.p.convertToVar(stmt, b.block)
			declarators = append(declarators, t.Kids(stmt)...)
		case k == syntax.LabeledStmt, k == syntax.ExportNamedDecl, k == syntax.ExportDefaultDecl:
			add(t.Child(stmt, 0))
		}
	}
	for _, stmt := range b.statements() {
		add(stmt)
	}

	for _, d := range declarators {
		// Only the outer names: not the parameters of a function declaration.
		for _, id := range t.BindingIdents(d) {
			b.letRefs.set(t.Name(id), id)
		}
	}
	if b.letRefs.len() == 0 {
		return false
	}

	s := &letScan{b: b, bindings: make(map[*resolve.Binding]bool)}
	for _, name := range b.letRefs.names {
		id, _ := b.letRefs.get(name)
		if bind := b.idx.BindingOf(id); bind != nil {
			s.bindings[bind] = true
		}
	}
	depth := 0
	if b.p.isInLoop(b.block) {
		depth++
	}
	for _, c := range append([]syntax.NodeID(nil), t.Kids(b.block)...) {
		if c != syntax.Nil {
			s.block(c, depth)
		}
	}
	return s.closurify
}

// A letScan looks for references to the block's bindings.
type letScan struct {
	b         *blockScoping
	bindings  map[*resolve.Binding]bool
	closurify bool
}

// block scans n outside any function, counting enclosing loops.
func (s *letScan) block(n syntax.NodeID, depth int) {
	t := s.b.t
	k := t.Kind(n)
	if k.IsFunction() {
		// A function created inside a loop may outlive the iteration.
		s.function(n, depth > 0)
		return
	}
	if k == syntax.FieldDef {
		// A field initializer runs when the class is instantiated.
		s.block(t.Child(n, 0), depth)
		if v := t.Child(n, 1); v != syntax.Nil {
			s.function(v, depth > 0)
		}
		return
	}
	if k.IsLoop() {
		depth++
	}
	if k == syntax.Ident {
		s.ident(n, false)
		return
	}
	for _, c := range append([]syntax.NodeID(nil), t.Kids(n)...) {
		if c != syntax.Nil {
			s.block(c, depth)
		}
	}
	s.exit(n)
}

// function scans the subtree of a function. If escapes is set, any
// reference to one of the block's bindings requires a closure.
func (s *letScan) function(n syntax.NodeID, escapes bool) {
	t := s.b.t
	if t.Kind(n) == syntax.Ident {
		s.ident(n, escapes)
		return
	}
	for _, c := range append([]syntax.NodeID(nil), t.Kids(n)...) {
		if c != syntax.Nil {
			s.function(c, escapes)
		}
	}
	s.exit(n)
}

func (s *letScan) ident(n syntax.NodeID, escapes bool) {
	t := s.b.t
	role := t.IdentRole(n)
	if role == syntax.Declare || role == syntax.Label {
		return
	}
	bind := s.b.idx.BindingOf(n)
	if bind == nil || !s.bindings[bind] {
		return
	}
	if escapes {
		s.closurify = true
	}
	if role == syntax.Read {
		s.b.tdzRead(n, bind)
	}
}

// exit runs after the children of n have been scanned.
func (s *letScan) exit(n syntax.NodeID) {
	switch s.b.t.Kind(n) {
	case syntax.AssignExpr, syntax.UpdateExpr:
		s.b.tdzWrite(n, s.bindings)
	}
}
