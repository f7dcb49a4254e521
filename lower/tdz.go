// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// A tdzStatus says whether a reference may execute while its binding
// is in the temporal dead zone.
type tdzStatus uint8

const (
	tdzOutside tdzStatus = iota // always after the declaration
	tdzInside                   // always before the declaration
	tdzMaybe                    // in a function that may run before the declaration
)

// tdzStatusOf classifies reference ref to binding bind.
func (b *blockScoping) tdzStatusOf(ref syntax.NodeID, bind *resolve.Binding) tdzStatus {
	t, idx := b.t, b.idx
	decl := bind.Decl
	switch t.Kind(decl) {
	case syntax.VarDeclarator, syntax.ClassDecl:
	default:
		return tdzOutside
	}
	if !idx.Known(ref) || !idx.Known(decl) {
		return tdzOutside
	}
	declFn := t.FindAncestor(decl, func(n syntax.NodeID) bool { return t.Kind(n).IsFunction() })

	// Find the outermost function containing ref but not decl.
	inner := syntax.Nil
	for a := t.Parent(ref); a != syntax.Nil && a != declFn; a = t.Parent(a) {
		if t.Kind(a).IsFunction() {
			inner = a
		}
	}
	if inner == syntax.Nil {
		if idx.Precedes(decl, ref) {
			return tdzOutside
		}
		return tdzInside
	}
	if t.Kind(inner) != syntax.FuncDecl && idx.Known(inner) && idx.Precedes(decl, inner) {
		return tdzOutside
	}
	return tdzMaybe
}

// tdzRead guards a read of a block-scoped binding.
func (b *blockScoping) tdzRead(ref syntax.NodeID, bind *resolve.Binding) {
	if !b.p.opts.TDZ {
		return
	}
	t := b.t
	if p := t.Parent(ref); t.Kind(p).IsForX() && t.Slot(ref) == syntax.ForXLeft {
		return
	}
	switch b.tdzStatusOf(ref, bind) {
	case tdzInside:
		throw := b.tdzError(bind.Name)
		t.Replace(ref, throw)
		b.p.refresh(throw)
	case tdzMaybe:
		b.markTDZThis(bind)
		b.p.refresh(b.p.wrap(ref, func(x syntax.NodeID) syntax.NodeID { return b.temporalRef(x, bind.Name) }))
	}
}

// tdzWrite guards an assignment or update of a block-scoped binding.
// The right side is still evaluated before the error is raised.
func (b *blockScoping) tdzWrite(n syntax.NodeID, bindings map[*resolve.Binding]bool) {
	t := b.t
	if !b.p.opts.TDZ || t.Node(n).Has(syntax.SkipTDZ) || !b.p.attached(n) {
		return
	}
	var maybe []*resolve.Binding
	for _, id := range t.BindingIdents(n) {
		bind := b.idx.BindingOf(id)
		if bind == nil || !bindings[bind] {
			continue
		}
		switch b.tdzStatusOf(id, bind) {
		case tdzInside:
			repl := b.tdzError(bind.Name)
			if t.Kind(n) == syntax.AssignExpr {
				repl = t.Seq(t.Child(n, 1), repl)
			}
			t.Replace(n, repl)
			b.p.refresh(repl)
			return
		case tdzMaybe:
			maybe = append(maybe, bind)
		}
	}
	if len(maybe) == 0 {
		return
	}
	t.Node(n).Flags |= syntax.SkipTDZ
	b.p.refresh(b.p.wrap(n, func(x syntax.NodeID) syntax.NodeID {
		var seq []syntax.NodeID
		for _, bind := range maybe {
			b.markTDZThis(bind)
			seq = append(seq, b.temporalRef(t.Ident(bind.Name), bind.Name))
		}
		return t.Seq(append(seq, x)...)
	}))
}

// markTDZThis flags the declaration of bind for rewriting into an
// explicit assignment, so that temporalRef can tell whether it has run.
func (b *blockScoping) markTDZThis(bind *resolve.Binding) {
	t := b.t
	if t.Kind(bind.Decl) != syntax.VarDeclarator {
		return
	}
	if decl := t.Parent(bind.Decl); t.Kind(decl) == syntax.VarDecl {
		t.Node(decl).Flags |= syntax.TDZThis
	}
}

func (b *blockScoping) tdzError(name string) syntax.NodeID {
	t := b.t
	return t.Call(t.Ident(b.p.helper("tdz")), t.Str(name))
}

func (b *blockScoping) temporalRef(x syntax.NodeID, name string) syntax.NodeID {
	t := b.t
	return t.Call(t.Ident(b.p.helper("temporalRef")), x, t.Str(name))
}
