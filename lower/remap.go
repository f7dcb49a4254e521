// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "github.com/jsdown/blockscope/syntax"

// remap lowers a block that needs no closure. Its bindings become
// function-scoped, so any that collide with a name of an enclosing
// scope, or with a free name of the program, are renamed.
func (b *blockScoping) remap() {
	t, scope, blockScope := b.t, b.scope, b.blockScope

	for _, name := range b.letRefs.keys() {
		if !scope.ParentHasBinding(name) && !b.idx.HasGlobal(name) {
			continue
		}
		if bind := scope.GetOwnBinding(name); bind != nil {
			// Sloppy-mode block functions keep their name when it
			// would merge with a var anyway.
			if bind.Kind == syntax.HoistedBinding && !b.p.isStrict(t.Parent(bind.Decl)) {
				fn := t.Node(bind.Decl)
				parent := scope.Parent.GetOwnBinding(name)
				if !fn.Has(syntax.Async) && !fn.Has(syntax.Generator) &&
					(parent == nil || isVar(t, t.Parent(parent.Decl))) {
					continue
				}
			}
			scope.Rename(name, "", syntax.Nil)
		}
		// The loop head and the body may bind the same name separately.
		if blockScope != scope && blockScope.HasOwnBinding(name) {
			blockScope.Rename(name, "", syntax.Nil)
		}
	}

	// A body that redeclares its loop variable must not share it with
	// the loop head.
	if b.p.isInLoop(b.block) {
		for _, name := range b.outsideRefs.keys() {
			if blockScope.HasOwnBinding(name) {
				blockScope.Rename(name, "", syntax.Nil)
			}
		}
	}
}
