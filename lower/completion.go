// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import "github.com/jsdown/blockscope/syntax"

// A completion is a transfer of control out of a wrapped block that
// the caller of the wrapper must perform on its behalf.
type completion struct {
	kind  syntax.Kind // BreakStmt or ContinueStmt
	label string      // empty for an unlabeled jump
}

// sentinel returns the string the wrapper returns to request c.
func (c completion) sentinel() string {
	s := "break"
	if c.kind == syntax.ContinueStmt {
		s = "continue"
	}
	if c.label != "" {
		s += "|" + c.label
	}
	return s
}

// loopState records the jumps found by checkLoop.
type loopState struct {
	hasReturn   bool
	completions []completion                   // in order of first occurrence
	jumps       map[completion]syntax.NodeID // the original statement, re-emitted by the caller
}

func (s *loopState) hasBreakContinue() bool { return len(s.completions) > 0 }

// checkLoop replaces each break, continue and return of the block that
// leaves the block by a return of a value describing it.
//
// Jumps inside nested functions are unaffected, as are unlabeled jumps
// inside nested loops, unlabeled breaks inside switch statements, and
// jumps to labels declared within the block.
func (b *blockScoping) checkLoop() *loopState {
	t := b.t
	state := &loopState{jumps: make(map[completion]syntax.NodeID)}

	inner := make(map[string]bool)
	syntax.Inspect(t, b.block, func(n syntax.NodeID) bool {
		if t.Kind(n) == syntax.LabeledStmt {
			inner[t.Name(n)] = true
		}
		return true
	})

	var visit func(n syntax.NodeID, inLoop, inSwitchCase bool)
	visit = func(n syntax.NodeID, inLoop, inSwitchCase bool) {
		node := t.Node(n)
		switch k := node.Kind; {
		case k.IsFunction():
			return
		case k.IsLoop():
			inLoop = true
		case k == syntax.SwitchCase:
			inSwitchCase = true
		case k == syntax.BreakStmt || k == syntax.ContinueStmt:
			c := completion{kind: k, label: node.Name}
			if c.label != "" {
				if inner[c.label] {
					return
				}
			} else if inLoop || k == syntax.BreakStmt && inSwitchCase {
				return
			}
			if _, ok := state.jumps[c]; !ok {
				state.completions = append(state.completions, c)
			}
			state.jumps[c] = n
			b.replaceJump(n, t.Str(c.sentinel()))
			return
		case k == syntax.ReturnStmt:
			state.hasReturn = true
			arg := t.Child(n, 0)
			if arg == syntax.Nil {
				arg = t.Void0()
			}
			b.replaceJump(n, t.Object(t.Prop("v", arg)))
			return
		}
		for _, c := range append([]syntax.NodeID(nil), t.Kids(n)...) {
			if c != syntax.Nil {
				visit(c, inLoop, inSwitchCase)
			}
		}
	}
	for _, c := range append([]syntax.NodeID(nil), t.Kids(b.block)...) {
		if c != syntax.Nil {
			visit(c, false, false)
		}
	}
	return state
}

// replaceJump replaces the jump statement n by return value.
func (b *blockScoping) replaceJump(n, value syntax.NodeID) {
	t := b.t
	ret := t.Return(value)
	t.Node(ret).Pos = t.Pos(n)
	t.Replace(n, ret)
}

// buildHas appends to the block's new body the statements that
// perform the jumps requested by the wrapper's result, held in ret.
func (b *blockScoping) buildHas(ret string) {
	t := b.t
	for _, c := range b.has.completions {
		test := t.Binary("===", t.Ident(ret), t.Str(c.sentinel()))
		b.body = append(b.body, t.If(test, b.has.jumps[c], syntax.Nil))
	}
	if b.has.hasReturn {
		test := t.Binary("===", t.Unary("typeof", t.Ident(ret)), t.Str("object"))
		b.body = append(b.body, t.If(test, t.Return(t.Member(t.Ident(ret), "v")), syntax.Nil))
	}
}
