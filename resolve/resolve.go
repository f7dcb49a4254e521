// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve computes the scope structure of a JavaScript syntax
// tree: which identifiers declare a variable, which refer to one, and
// which names are free in the whole program.
//
// Scopes are introduced by the program, by functions, by named class
// expressions, by blocks other than function and catch bodies, by the
// heads of for, for-in and for-of loops, by switch statements and by
// catch clauses. A var declaration binds its names in the nearest
// enclosing function (or the program); let, const and class
// declarations bind in the nearest enclosing scope; a function
// declaration binds in the scope of the block that contains it; an
// import binds in the program scope.
//
// An Index is kept up to date by its client. Renaming through the
// index, or moving a binding with MoveBindingTo, keeps it consistent;
// after any other edit the client calls Refresh on the edited subtree.
// Refresh does not renumber the tree: nodes created after Build stay
// unknown to Known, Order and Precedes.
package resolve // import "github.com/jsdown/blockscope/resolve"

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jsdown/blockscope/syntax"
)

// A ScopeKind classifies the construct that introduces a scope.
type ScopeKind uint8

const (
	ProgramScope  ScopeKind = iota
	FunctionScope           // function declaration, expression or arrow
	ClassScope              // named class expression
	BlockScope              // block statement
	LoopScope               // head of for, for-in, for-of
	SwitchScope             // switch statement
	CatchScope              // catch clause
)

var scopeKindNames = [...]string{
	ProgramScope:  "program",
	FunctionScope: "function",
	ClassScope:    "class",
	BlockScope:    "block",
	LoopScope:     "loop",
	SwitchScope:   "switch",
	CatchScope:    "catch",
}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// A Scope is a region of the program in which names may be bound.
type Scope struct {
	Node     syntax.NodeID // the node that introduces the scope
	Kind     ScopeKind
	Parent   *Scope // nil for the program scope
	Bindings map[string]*Binding

	index *Index
}

// A Binding ties together all identifiers that denote the same variable.
type Binding struct {
	Name  string
	Kind  syntax.BindingKind
	Scope *Scope

	// Ident is the first binding occurrence of the name, and Idents all
	// of them, in source order; a var may be declared more than once.
	Ident  syntax.NodeID
	Idents []syntax.NodeID

	// Decl is the declaring node: a VarDeclarator, a FuncDecl or
	// ClassDecl, the function of a parameter, the CatchClause of a
	// catch parameter, or the named FuncExpr or ClassExpr.
	Decl syntax.NodeID

	// References holds every identifier that reads or writes the
	// variable, in source order.
	References []syntax.NodeID

	// ConstantViolations holds every node that assigns the variable
	// after its declaration: an AssignExpr, an UpdateExpr, or a for-in
	// or for-of statement whose head is not a declaration.
	ConstantViolations []syntax.NodeID
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s %s", b.Kind, b.Name)
}

// An Index records the scopes and bindings of a tree.
type Index struct {
	tree    *syntax.Tree
	program *Scope
	scopes  map[syntax.NodeID]*Scope
	idents  map[syntax.NodeID]*Binding // every resolved identifier occurrence
	globals map[string]bool            // names referenced but not bound
	names   map[string]bool            // every identifier and label in the tree
	uids    map[string]bool            // names reserved by GenerateUID or Reserve

	// pre[n] is the pre-order number of node n and last[n] the greatest
	// pre-order number within its subtree.
	pre, last []int32
}

// builtins are names that are always considered bound.
var builtins = map[string]bool{
	"undefined": true, "NaN": true, "Infinity": true, "arguments": true,
	"globalThis": true, "Array": true, "Object": true, "Function": true,
	"String": true, "Number": true, "Boolean": true, "Symbol": true,
	"Error": true, "TypeError": true, "ReferenceError": true, "RangeError": true,
	"Math": true, "JSON": true, "Date": true, "RegExp": true, "Promise": true,
	"Map": true, "Set": true, "WeakMap": true, "WeakSet": true, "Reflect": true,
	"Proxy": true, "parseInt": true, "parseFloat": true, "isNaN": true, "isFinite": true,
}

// Build computes the scope index of t.
func Build(t *syntax.Tree) *Index {
	x := &Index{
		tree:    t,
		scopes:  make(map[syntax.NodeID]*Scope),
		idents:  make(map[syntax.NodeID]*Binding),
		globals: make(map[string]bool),
		names:   make(map[string]bool),
		uids:    make(map[string]bool),
		pre:     make([]int32, t.Len()),
		last:    make([]int32, t.Len()),
	}
	for i := range x.pre {
		x.pre[i] = -1
		x.last[i] = -1
	}
	if t.Root == syntax.Nil {
		x.program = &Scope{Kind: ProgramScope, Bindings: map[string]*Binding{}, index: x}
		return x
	}
	r := resolver{x: x, t: t}
	r.declare(t.Root, nil)
	r.number(t.Root)
	r.use(t.Root)
	return x
}

type resolver struct {
	x     *Index
	t     *syntax.Tree
	count int32
}

// newScope records the scope introduced by n, if any.
func (r *resolver) newScope(n syntax.NodeID, parent *Scope) *Scope {
	t := r.t
	var kind ScopeKind
	switch k := t.Kind(n); k {
	case syntax.Program:
		kind = ProgramScope
	case syntax.FuncDecl, syntax.FuncExpr, syntax.ArrowFunc:
		kind = FunctionScope
	case syntax.ClassExpr:
		if t.Child(n, syntax.FuncID) == syntax.Nil {
			return parent
		}
		kind = ClassScope
	case syntax.BlockStmt:
		switch t.Kind(t.Parent(n)) {
		case syntax.FuncDecl, syntax.FuncExpr, syntax.ArrowFunc, syntax.CatchClause:
			return parent
		}
		kind = BlockScope
	case syntax.ForStmt, syntax.ForInStmt, syntax.ForOfStmt:
		kind = LoopScope
	case syntax.SwitchStmt:
		kind = SwitchScope
	case syntax.CatchClause:
		kind = CatchScope
	default:
		return parent
	}
	s := &Scope{Node: n, Kind: kind, Parent: parent, Bindings: make(map[string]*Binding), index: r.x}
	r.x.scopes[n] = s
	if kind == ProgramScope {
		r.x.program = s
	}
	return s
}

// bind adds a binding occurrence of ident to scope s.
func (r *resolver) bind(s *Scope, ident, decl syntax.NodeID, kind syntax.BindingKind) {
	name := r.t.Name(ident)
	b := s.Bindings[name]
	if b == nil {
		b = &Binding{Name: name, Kind: kind, Scope: s, Ident: ident, Decl: decl}
		s.Bindings[name] = b
	} else if kind == syntax.HoistedBinding && b.Kind == syntax.VarBinding {
		// A function declaration takes over a var of the same name.
		b.Kind, b.Ident, b.Decl = kind, ident, decl
	} else if b.Ident == syntax.Nil {
		b.Ident, b.Decl = ident, decl
	}
	b.Idents = append(b.Idents, ident)
	r.x.idents[ident] = b
}

// declare creates the scopes of the subtree n and binds its declarations.
func (r *resolver) declare(n syntax.NodeID, s *Scope) {
	t := r.t
	node := t.Node(n)
	if node.Kind == syntax.Ident {
		r.x.names[node.Name] = true
		return
	}
	if node.Name != "" && (node.Kind == syntax.LabeledStmt || node.Kind == syntax.BreakStmt || node.Kind == syntax.ContinueStmt) {
		r.x.names[node.Name] = true
	}

	switch node.Kind {
	case syntax.VarDecl:
		target := s
		if node.Decl == syntax.Var {
			target = s.FunctionParent()
		}
		kind := syntax.BindingKindOf(node.Decl)
		for _, d := range t.Kids(n) {
			for _, id := range t.BindingIdents(t.Child(d, 0)) {
				r.bind(target, id, d, kind)
			}
		}
	case syntax.FuncDecl:
		if id := t.Child(n, syntax.FuncID); id != syntax.Nil {
			r.bind(s, id, n, syntax.HoistedBinding)
		}
	case syntax.ClassDecl:
		if id := t.Child(n, syntax.FuncID); id != syntax.Nil {
			r.bind(s, id, n, syntax.LetBinding)
		}
	case syntax.ImportSpec:
		if id := t.Child(n, 1); id != syntax.Nil {
			r.bind(s, id, n, syntax.ModuleBinding)
		}
	}

	inner := r.newScope(n, s)
	switch node.Kind {
	case syntax.FuncExpr, syntax.ClassExpr:
		if id := t.Child(n, syntax.FuncID); id != syntax.Nil {
			r.bind(inner, id, n, syntax.LocalBinding)
		}
	case syntax.CatchClause:
		for _, id := range t.BindingIdents(t.Child(n, 0)) {
			r.bind(inner, id, n, syntax.LetBinding)
		}
	}
	if node.Kind.IsFunction() {
		for _, param := range t.List(n) {
			for _, id := range t.BindingIdents(param) {
				r.bind(inner, id, n, syntax.ParamBinding)
			}
		}
	}
	for _, c := range t.Kids(n) {
		if c != syntax.Nil {
			r.declare(c, inner)
		}
	}
}

// number assigns pre-order numbers to the subtree n.
func (r *resolver) number(n syntax.NodeID) {
	r.x.pre[n] = r.count
	r.count++
	for _, c := range r.t.Kids(n) {
		if c != syntax.Nil {
			r.number(c)
		}
	}
	r.x.last[n] = r.count - 1
}

// use resolves every identifier that reads or writes a variable.
func (r *resolver) use(root syntax.NodeID) {
	t := r.t
	syntax.Inspect(t, root, func(n syntax.NodeID) bool {
		if t.Kind(n) != syntax.Ident {
			return true
		}
		role := t.IdentRole(n)
		if role == syntax.Declare || role == syntax.Label {
			return false
		}
		name := t.Name(n)
		b := r.x.ScopeOf(n).GetBinding(name)
		if b == nil {
			r.x.globals[name] = true
			return false
		}
		r.x.idents[n] = b
		b.References = append(b.References, n)
		if role == syntax.Write {
			if v := writer(t, n); v != syntax.Nil {
				b.ConstantViolations = append(b.ConstantViolations, v)
			}
		}
		return false
	})
}

// writer returns the assignment, update or for-in/of statement that
// writes the target identifier id.
func writer(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	for n := t.Parent(id); n != syntax.Nil; n = t.Parent(n) {
		switch t.Kind(n) {
		case syntax.AssignExpr, syntax.UpdateExpr, syntax.ForInStmt, syntax.ForOfStmt:
			return n
		}
	}
	return syntax.Nil
}

// Refresh brings the index up to date after the subtree n was edited,
// created or moved: the scopes and identifier occurrences within n are
// resolved again against the scopes enclosing it. Bindings declared
// outside n lose the occurrences that n no longer holds; those left
// without any binding occurrence are removed.
func (x *Index) Refresh(n syntax.NodeID) {
	t := x.tree
	region := make(map[syntax.NodeID]bool)
	syntax.Inspect(t, n, func(c syntax.NodeID) bool {
		region[c] = true
		return true
	})
	touched := make(map[*Binding]bool)
	for c := range region {
		if b := x.idents[c]; b != nil {
			delete(x.idents, c)
			if !region[b.Scope.Node] {
				touched[b] = true
			}
		}
		delete(x.scopes, c)
	}
	keep := func(ids []syntax.NodeID) []syntax.NodeID {
		out := ids[:0]
		for _, id := range ids {
			if !region[id] {
				out = append(out, id)
			}
		}
		return out
	}
	for b := range touched {
		b.Idents = keep(b.Idents)
		b.References = keep(b.References)
		b.ConstantViolations = keep(b.ConstantViolations)
		if region[b.Ident] {
			b.Ident, b.Decl = syntax.Nil, syntax.Nil
			if len(b.Idents) > 0 {
				b.Ident = b.Idents[0]
				b.Decl = declOf(t, b.Ident)
			}
		}
	}

	var outer *Scope
	if n != t.Root {
		outer = x.ScopeOf(t.Parent(n))
	}
	r := resolver{x: x, t: t}
	r.declare(n, outer)
	r.use(n)

	for b := range touched {
		if len(b.Idents) == 0 && b.Scope.Bindings[b.Name] == b {
			delete(b.Scope.Bindings, b.Name)
		}
	}
}

// declOf returns the declaring node of the binding occurrence id.
func declOf(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	return t.FindAncestor(id, func(n syntax.NodeID) bool {
		switch k := t.Kind(n); {
		case k == syntax.VarDeclarator, k == syntax.CatchClause, k == syntax.ImportSpec,
			k == syntax.ClassDecl, k == syntax.ClassExpr, k.IsFunction():
			return true
		}
		return false
	})
}

// ScopeFor returns the scope introduced by node n, or nil.
func (x *Index) ScopeFor(n syntax.NodeID) *Scope { return x.scopes[n] }

// ScopeOf returns the innermost scope enclosing node n, which may be
// the scope introduced by n itself.
func (x *Index) ScopeOf(n syntax.NodeID) *Scope {
	for ; n != syntax.Nil; n = x.tree.Parent(n) {
		if s := x.scopes[n]; s != nil {
			return s
		}
	}
	return x.program
}

// BindingOf returns the binding that the identifier occurrence id
// declares or refers to, or nil if it is free or unknown to the index.
func (x *Index) BindingOf(id syntax.NodeID) *Binding { return x.idents[id] }

// HasGlobal reports whether name is referenced somewhere without being bound.
func (x *Index) HasGlobal(name string) bool { return x.globals[name] }

// Known reports whether node n existed when the index was built.
func (x *Index) Known(n syntax.NodeID) bool {
	return int(n) < len(x.pre) && x.pre[n] >= 0
}

// Order returns the pre-order number of node n, or -1 if n is unknown.
func (x *Index) Order(n syntax.NodeID) int {
	if !x.Known(n) {
		return -1
	}
	return int(x.pre[n])
}

// Precedes reports whether node a ends before node b begins in
// source order. Both must be known to the index.
func (x *Index) Precedes(a, b syntax.NodeID) bool {
	return x.last[a] < x.pre[b]
}

// Reserve marks names as taken, so that GenerateUID avoids them.
func (x *Index) Reserve(names ...string) {
	for _, name := range names {
		x.uids[name] = true
	}
}

var (
	leadingUnderscores = regexp.MustCompile(`^_+`)
	trailingDigits     = regexp.MustCompile(`[0-9]+$`)
)

// GenerateUID returns a fresh variable name derived from hint: _hint,
// _hint2, _hint3, and so on, skipping any name used in the tree,
// free in the program, or previously generated.
func (x *Index) GenerateUID(hint string) string {
	base := toIdentifier(hint)
	base = leadingUnderscores.ReplaceAllString(base, "")
	base = trailingDigits.ReplaceAllString(base, "")
	for i := 1; ; i++ {
		uid := "_" + base
		if i > 1 {
			uid += strconv.Itoa(i)
		}
		if x.names[uid] || x.globals[uid] || x.uids[uid] || builtins[uid] {
			continue
		}
		x.uids[uid] = true
		return uid
	}
}

// toIdentifier maps hint to a string usable as an identifier.
func toIdentifier(hint string) string {
	var sb strings.Builder
	for _, r := range hint {
		switch {
		case r == '_' || r == '$',
			'a' <= r && r <= 'z', 'A' <= r && r <= 'Z',
			'0' <= r && r <= '9' && sb.Len() > 0:
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "ref"
	}
	return sb.String()
}

// FunctionParent returns the nearest function or program scope
// enclosing or equal to s.
func (s *Scope) FunctionParent() *Scope {
	for ; s.Parent != nil; s = s.Parent {
		if s.Kind == FunctionScope {
			return s
		}
	}
	return s
}

// GetOwnBinding returns the binding of name in s itself, or nil.
func (s *Scope) GetOwnBinding(name string) *Binding { return s.Bindings[name] }

// HasOwnBinding reports whether s itself binds name.
func (s *Scope) HasOwnBinding(name string) bool { return s.Bindings[name] != nil }

// GetBinding returns the binding of name visible from s, or nil.
func (s *Scope) GetBinding(name string) *Binding {
	for ; s != nil; s = s.Parent {
		if b := s.Bindings[name]; b != nil {
			return b
		}
	}
	return nil
}

// HasBinding reports whether name is bound in s or an enclosing
// scope, or is a built-in or generated name.
func (s *Scope) HasBinding(name string) bool {
	return s.GetBinding(name) != nil || builtins[name] || s.index.uids[name]
}

// ParentHasBinding reports whether name is bound outside s.
func (s *Scope) ParentHasBinding(name string) bool {
	return s.Parent != nil && s.Parent.HasBinding(name)
}

// MoveBindingTo transfers the binding of name from s to scope to and
// returns it. If to already binds name, the two bindings are merged
// into the existing one.
func (s *Scope) MoveBindingTo(name string, to *Scope) *Binding {
	b := s.Bindings[name]
	if b == nil || to == s {
		return b
	}
	delete(s.Bindings, name)
	dst := to.Bindings[name]
	if dst == nil {
		b.Scope = to
		to.Bindings[name] = b
		return b
	}
	x := s.index
	for _, lists := range [][2]*[]syntax.NodeID{
		{&dst.Idents, &b.Idents},
		{&dst.References, &b.References},
	} {
		for _, id := range *lists[1] {
			x.idents[id] = dst
		}
		*lists[0] = append(*lists[0], *lists[1]...)
	}
	dst.ConstantViolations = append(dst.ConstantViolations, b.ConstantViolations...)
	return dst
}

// Rename gives the binding of oldName visible from s the name newName,
// or a fresh name derived from oldName if newName is empty, and returns
// the new name. If within is not Nil, only occurrences inside that
// subtree are renamed and the binding itself keeps its name.
func (s *Scope) Rename(oldName, newName string, within syntax.NodeID) string {
	b := s.GetBinding(oldName)
	if b == nil {
		return oldName
	}
	x := s.index
	if newName == "" {
		newName = x.GenerateUID(oldName)
	}
	t := x.tree
	rename := func(ids []syntax.NodeID) {
		for _, id := range ids {
			if within == syntax.Nil || id == within || t.IsAncestor(within, id) {
				t.Node(id).Name = newName
			}
		}
	}
	rename(b.Idents)
	rename(b.References)
	x.names[newName] = true
	if within == syntax.Nil {
		delete(b.Scope.Bindings, oldName)
		b.Name = newName
		b.Scope.Bindings[newName] = b
	}
	return newName
}
