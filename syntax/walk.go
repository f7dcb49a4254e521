// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses the subtree rooted at n in depth-first order.
// It starts by calling f(n); n must not be Nil.
// If f returns true, Walk calls itself
// recursively for each non-Nil child of n.
// Walk then calls f(Nil).
func Walk(t *Tree, n NodeID, f func(NodeID) bool) {
	if n == Nil {
		panic("Walk(Nil)")
	}
	walk(t, n, f)
}

func walk(t *Tree, n NodeID, f func(NodeID) bool) {
	if !f(n) {
		return
	}
	// Copy the child list: f may mutate the tree.
	kids := append([]NodeID(nil), t.Kids(n)...)
	for _, c := range kids {
		if c != Nil {
			walk(t, c, f)
		}
	}
	f(Nil)
}

// Inspect calls f for each node of the subtree rooted at n in
// depth-first order, without the trailing Nil calls of Walk.
// If f returns false the children of the node are skipped.
func Inspect(t *Tree, n NodeID, f func(NodeID) bool) {
	if n == Nil || !f(n) {
		return
	}
	for i := 0; i < t.NumKids(n); i++ {
		if c := t.Child(n, i); c != Nil {
			Inspect(t, c, f)
		}
	}
}
