// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"github.com/jsdown/blockscope/resolve"
	"github.com/jsdown/blockscope/syntax"
)

// addContinuations handles loop variables that the wrapped body
// assigns. Within fn the parameter gets a new name, and its value is
// copied back to the loop variable before each return and at the end
// of fn, so the next iteration of the loop sees the update.
//
//	var _loop = function (_i) {
//	  if (_i === 2) { _i++; i = _i; return "continue"; }
//	  i = _i;
//	};
func (b *blockScoping) addContinuations(fn syntax.NodeID) {
	t := b.t

	outer := make(map[*resolve.Binding]string)
	for _, name := range b.outsideRefs.keys() {
		id, _ := b.outsideRefs.get(name)
		if bind := b.idx.BindingOf(id); bind != nil {
			outer[bind] = name
		}
	}
	reassigned := make(map[string]bool)
	var returns []syntax.NodeID
	var scan func(n syntax.NodeID, own bool)
	scan = func(n syntax.NodeID, own bool) {
		switch k := t.Kind(n); {
		case k == syntax.AssignExpr || k == syntax.UpdateExpr:
			for _, id := range t.BindingIdents(n) {
				if name, ok := outer[b.idx.BindingOf(id)]; ok {
					reassigned[name] = true
				}
			}
		case k == syntax.ReturnStmt && own:
			returns = append(returns, n)
		case k.IsFunction() && n != fn:
			own = false
		}
		for _, c := range t.Kids(n) {
			if c != syntax.Nil {
				scan(c, own)
			}
		}
	}
	scan(fn, true)

	body := t.Child(fn, syntax.FuncBody)
	params := append([]syntax.NodeID(nil), t.List(fn)...)
	for i, param := range params {
		name := t.Name(param)
		if !reassigned[name] {
			continue
		}
		inner := b.p.uid(name)
		t.SetChild(fn, syntax.FuncParams+i, t.Ident(inner))
		b.scope.Rename(name, inner, body)

		writeBack := func() syntax.NodeID {
			return t.ExprStmt(t.Assign("=", t.Ident(name), t.Ident(inner)))
		}
		for _, ret := range returns {
			t.InsertBefore(ret, writeBack())
		}
		t.Append(body, writeBack())
	}
}
