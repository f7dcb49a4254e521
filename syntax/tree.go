// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A Tree is an arena of syntax nodes rooted at a Program.
type Tree struct {
	Path string // name of the source file, for diagnostics
	Root NodeID // the Program node

	nodes []*Node // nodes[0] is unused so that Nil is never a valid node
}

// NewTree returns an empty tree for the named file.
func NewTree(path string) *Tree {
	return &Tree{Path: path, nodes: []*Node{nil}}
}

// Len returns the number of node slots in the arena, including Nil.
// Every NodeID of the tree is less than Len.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID, or nil for Nil.
func (t *Tree) Node(id NodeID) *Node {
	if id == Nil {
		return nil
	}
	return t.nodes[id]
}

// Kind returns the kind of node id, or Invalid for Nil.
func (t *Tree) Kind(id NodeID) Kind {
	if id == Nil {
		return Invalid
	}
	return t.nodes[id].Kind
}

// Name returns the Name field of node id.
func (t *Tree) Name(id NodeID) string {
	if id == Nil {
		return ""
	}
	return t.nodes[id].Name
}

// Pos returns the source position of node id.
func (t *Tree) Pos(id NodeID) Position {
	if id == Nil {
		return Position{}
	}
	return t.nodes[id].Pos
}

// Parent returns the parent of node id, or Nil for a detached node or the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Slot returns the index of node id among its parent's children.
func (t *Tree) Slot(id NodeID) int { return int(t.nodes[id].slot) }

// Kids returns the children of node id, including Nil entries for
// absent optional children. The slice belongs to the tree and must
// not be modified; it is invalidated by the next mutation of id.
func (t *Tree) Kids(id NodeID) []NodeID { return t.nodes[id].kids }

// NumKids returns the number of child slots of node id.
func (t *Tree) NumKids(id NodeID) int { return len(t.nodes[id].kids) }

// Child returns the child of id in slot i, or Nil if there is none.
func (t *Tree) Child(id NodeID, i int) NodeID {
	kids := t.nodes[id].kids
	if i < 0 || i >= len(kids) {
		return Nil
	}
	return kids[i]
}

// List returns the list children of id, those following its fixed slots.
func (t *Tree) List(id NodeID) []NodeID {
	n := t.nodes[id]
	return n.kids[n.Kind.Fixed():]
}

// New allocates a node of the given kind with the given children,
// which are detached from any previous parent.
func (t *Tree) New(kind Kind, kids ...NodeID) NodeID {
	if fixed := kind.Fixed(); len(kids) < fixed || !kind.HasList() && len(kids) != fixed {
		panic(fmt.Sprintf("syntax: %s takes %d children, got %d", kind, fixed, len(kids)))
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, &Node{Kind: kind})
	t.SetKids(id, kids)
	return id
}

// IsListSlot reports whether slot i of parent is part of its child list.
func (t *Tree) IsListSlot(parent NodeID, i int) bool {
	k := t.Kind(parent)
	return k.HasList() && i >= k.Fixed()
}

// Detach removes node id from its parent. A list entry is deleted from
// the list; a fixed slot is left Nil. Detaching the root clears Root.
func (t *Tree) Detach(id NodeID) {
	n := t.nodes[id]
	p := n.parent
	if p == Nil {
		if t.Root == id {
			t.Root = Nil
		}
		return
	}
	pn := t.nodes[p]
	i := int(n.slot)
	if i < len(pn.kids) && pn.kids[i] == id {
		if t.IsListSlot(p, i) {
			pn.kids = append(pn.kids[:i:i], pn.kids[i+1:]...)
			t.renumber(p, i)
		} else {
			pn.kids[i] = Nil
		}
	}
	n.parent = Nil
	n.slot = 0
}

// SetChild stores c in slot i of id, detaching c from its previous
// parent and the previous occupant of the slot from id.
func (t *Tree) SetChild(id NodeID, i int, c NodeID) {
	if c != Nil {
		t.Detach(c)
	}
	n := t.nodes[id]
	if old := n.kids[i]; old != Nil && old != c {
		t.nodes[old].parent = Nil
		t.nodes[old].slot = 0
	}
	n.kids[i] = c
	if c != Nil {
		t.nodes[c].parent = id
		t.nodes[c].slot = int32(i)
	}
}

// SetKids replaces all children of id.
// Former children absent from kids become detached.
func (t *Tree) SetKids(id NodeID, kids []NodeID) {
	n := t.nodes[id]
	keep := make(map[NodeID]bool, len(kids))
	for _, c := range kids {
		if c != Nil {
			keep[c] = true
		}
	}
	for _, old := range n.kids {
		if old != Nil && !keep[old] {
			t.nodes[old].parent = Nil
			t.nodes[old].slot = 0
		}
	}
	for _, c := range kids {
		if c != Nil && t.nodes[c].parent != id {
			t.Detach(c)
		}
	}
	n.kids = append([]NodeID(nil), kids...)
	for i, c := range n.kids {
		if c != Nil {
			t.nodes[c].parent = id
			t.nodes[c].slot = int32(i)
		}
	}
}

// Insert inserts cs into the child list of id before slot i.
func (t *Tree) Insert(id NodeID, i int, cs ...NodeID) {
	if !t.IsListSlot(id, i) && !(i == len(t.nodes[id].kids) && t.Kind(id).HasList()) {
		panic(fmt.Sprintf("syntax: insert into non-list slot %d of %s", i, t.Kind(id)))
	}
	for _, c := range cs {
		t.Detach(c)
	}
	n := t.nodes[id]
	if i > len(n.kids) {
		i = len(n.kids)
	}
	kids := make([]NodeID, 0, len(n.kids)+len(cs))
	kids = append(kids, n.kids[:i]...)
	kids = append(kids, cs...)
	kids = append(kids, n.kids[i:]...)
	n.kids = kids
	t.renumber(id, i)
}

// Append appends cs to the child list of id.
func (t *Tree) Append(id NodeID, cs ...NodeID) {
	t.Insert(id, len(t.nodes[id].kids), cs...)
}

// renumber refreshes the parent links of the children of id from slot i on.
func (t *Tree) renumber(id NodeID, i int) {
	for j := i; j < len(t.nodes[id].kids); j++ {
		if c := t.nodes[id].kids[j]; c != Nil {
			t.nodes[c].parent = id
			t.nodes[c].slot = int32(j)
		}
	}
}

// Replace puts node repl in the place of old, which becomes detached.
func (t *Tree) Replace(old, repl NodeID) {
	if old == repl {
		return
	}
	p := t.nodes[old].parent
	if p == Nil {
		if t.Root == old {
			t.Detach(repl)
			t.Root = repl
		}
		return
	}
	t.SetChild(p, int(t.nodes[old].slot), repl)
}

// ReplaceWithMultiple replaces the statement old by the statements
// stmts. If old does not occupy a statement list, the statements are
// wrapped in a block.
func (t *Tree) ReplaceWithMultiple(old NodeID, stmts ...NodeID) {
	p := t.nodes[old].parent
	i := int(t.nodes[old].slot)
	if p != Nil && t.IsListSlot(p, i) {
		t.Detach(old)
		t.Insert(p, i, stmts...)
		return
	}
	switch len(stmts) {
	case 0:
		t.Replace(old, t.New(EmptyStmt))
	case 1:
		t.Replace(old, stmts[0])
	default:
		t.Replace(old, t.Block(stmts...))
	}
}

// StatementContainer returns the node whose statement list holds stmt,
// looking through labels, and the statement that occupies the list slot.
// If stmt is not held by a list, StatementContainer returns Nil.
func (t *Tree) StatementContainer(stmt NodeID) (list, elem NodeID) {
	elem = stmt
	for t.Kind(t.Parent(elem)) == LabeledStmt {
		elem = t.Parent(elem)
	}
	p := t.Parent(elem)
	if p != Nil && t.IsListSlot(p, t.Slot(elem)) {
		return p, elem
	}
	return Nil, elem
}

// InsertBefore inserts stmts before the statement stmt. A labeled
// statement is treated as a whole; a statement not held by a list is
// first wrapped in a block.
func (t *Tree) InsertBefore(stmt NodeID, stmts ...NodeID) {
	list, elem := t.StatementContainer(stmt)
	if list == Nil {
		block := t.New(BlockStmt)
		t.Replace(elem, block)
		t.Append(block, elem)
		list = block
	}
	t.Insert(list, t.Slot(elem), stmts...)
}

// InsertAfter inserts stmts after the statement stmt, with the same
// conventions as InsertBefore.
func (t *Tree) InsertAfter(stmt NodeID, stmts ...NodeID) {
	list, elem := t.StatementContainer(stmt)
	if list == Nil {
		block := t.New(BlockStmt)
		t.Replace(elem, block)
		t.Append(block, elem)
		list = block
	}
	t.Insert(list, t.Slot(elem)+1, stmts...)
}

// EnsureBlock makes the statement in slot i of id a block, wrapping it
// if necessary, and returns the block.
func (t *Tree) EnsureBlock(id NodeID, i int) NodeID {
	body := t.Child(id, i)
	if t.Kind(body) == BlockStmt {
		return body
	}
	block := t.New(BlockStmt)
	t.SetChild(id, i, block)
	if body != Nil {
		t.Append(block, body)
	}
	return block
}

// IsAncestor reports whether a is a proper ancestor of n.
func (t *Tree) IsAncestor(a, n NodeID) bool {
	for p := t.nodes[n].parent; p != Nil; p = t.nodes[p].parent {
		if p == a {
			return true
		}
	}
	return false
}

// FindAncestor returns the nearest proper ancestor of n satisfying pred,
// or Nil.
func (t *Tree) FindAncestor(n NodeID, pred func(NodeID) bool) NodeID {
	for p := t.nodes[n].parent; p != Nil; p = t.nodes[p].parent {
		if pred(p) {
			return p
		}
	}
	return Nil
}

// Clone returns a deep copy of the subtree rooted at id.
// The copy is detached and carries the positions of the original.
func (t *Tree) Clone(id NodeID) NodeID {
	if id == Nil {
		return Nil
	}
	src := t.nodes[id]
	kids := make([]NodeID, len(src.kids))
	for i, c := range src.kids {
		kids[i] = t.Clone(c)
	}
	c := t.New(src.Kind, kids...)
	n := t.nodes[c]
	n.Pos, n.Name, n.Op, n.Str, n.Num, n.Decl, n.Flags = src.Pos, src.Name, src.Op, src.Str, src.Num, src.Decl, src.Flags
	return c
}

// BindingIdents returns the identifiers bound by a declaration or
// assigned by an assignment target, in source order. For function and
// class declarations only the declared name is returned, not the
// parameters.
func (t *Tree) BindingIdents(id NodeID) []NodeID {
	var ids []NodeID
	var visit func(NodeID)
	visit = func(n NodeID) {
		if n == Nil {
			return
		}
		kids := t.nodes[n].kids
		switch t.nodes[n].Kind {
		case Ident:
			ids = append(ids, n)
		case VarDecl, ArrayPattern, ObjectPattern:
			for _, c := range kids {
				visit(c)
			}
		case VarDeclarator, AssignPattern, AssignExpr:
			visit(kids[0])
		case Property:
			visit(kids[1])
		case RestElement, UpdateExpr:
			visit(kids[0])
		case FuncDecl, FuncExpr, ClassDecl, ClassExpr:
			visit(kids[FuncID])
		}
	}
	visit(id)
	return ids
}

// A Role classifies an identifier occurrence.
type Role uint8

const (
	Read    Role = iota // a reference to a variable
	Write               // an assignment or update target
	Declare             // a binding occurrence in a declaration
	Label               // a property name, not a variable at all
)

// IdentRole returns the role of the identifier id within its parent.
func (t *Tree) IdentRole(id NodeID) Role {
	p := t.Parent(id)
	if p == Nil {
		return Read
	}
	pn := t.nodes[p]
	slot := t.Slot(id)
	switch pn.Kind {
	case MemberExpr:
		if slot == 1 && !pn.Has(Computed) {
			return Label
		}
	case MethodDef:
		if slot == 0 && !pn.Has(Computed) {
			return Label
		}
	case Property, FieldDef:
		if slot == 0 && !pn.Has(Computed) {
			return Label
		}
	case ImportSpec:
		if slot == 1 {
			return Declare
		}
		return Label
	case ExportSpec:
		// export { x } refers to a local x; export { x } from "m" does not.
		if slot == 0 && t.Child(t.Parent(p), 1) == Nil {
			return Read
		}
		return Label
	case ExportAllDecl:
		return Label
	}
	return t.targetRole(id)
}

// targetRole reports whether n is the target of a declaration or an
// assignment, looking through enclosing patterns.
func (t *Tree) targetRole(n NodeID) Role {
	for {
		p := t.Parent(n)
		if p == Nil {
			return Read
		}
		slot := t.Slot(n)
		switch t.nodes[p].Kind {
		case VarDeclarator, CatchClause:
			if slot == 0 {
				return Declare
			}
			return Read
		case FuncDecl, FuncExpr, ArrowFunc:
			if slot == FuncID || slot >= FuncParams {
				return Declare
			}
			return Read
		case ClassDecl, ClassExpr:
			if slot == FuncID {
				return Declare
			}
			return Read
		case AssignExpr:
			if slot == 0 {
				return Write
			}
			return Read
		case UpdateExpr:
			return Write
		case ForInStmt, ForOfStmt:
			if slot == ForXLeft {
				return Write
			}
			return Read
		case ArrayPattern, RestElement:
			n = p
		case AssignPattern:
			if slot != 0 {
				return Read
			}
			n = p
		case ObjectPattern:
			n = p
		case Property:
			if slot != 1 || t.Kind(t.Parent(p)) != ObjectPattern {
				return Read
			}
			n = p
		default:
			return Read
		}
	}
}
