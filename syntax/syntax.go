// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides an abstract syntax tree for JavaScript programs.
//
// A Tree is an arena of nodes. Nodes are addressed by NodeID, an index
// into the arena; each node records the ID of its parent and the slot it
// occupies among the parent's children, so replacing a subtree is an
// index rewrite rather than pointer surgery. The zero NodeID, Nil, denotes
// an absent optional child.
//
// Trees are usually produced by decoding the ESTree output of an
// external parser (see package estree) or built directly with the
// constructor methods of Tree.
package syntax

import "fmt"

// A NodeID identifies a node within its Tree.
type NodeID int32

// Nil is the NodeID of an absent node.
const Nil NodeID = 0

// A Position describes the location of a node in the original source.
// Lines and columns are 1-based; the zero Position is invalid and is
// used for synthesized nodes.
type Position struct {
	Line int32
	Col  int32
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// A Kind is the type of a syntax node.
type Kind uint8

const (
	Invalid Kind = iota

	Program

	// statements
	BlockStmt
	ExprStmt
	VarDecl
	VarDeclarator
	FuncDecl
	ClassDecl
	ReturnStmt
	BreakStmt
	ContinueStmt
	IfStmt
	ForStmt
	ForInStmt
	ForOfStmt
	WhileStmt
	DoWhileStmt
	LabeledStmt
	SwitchStmt
	SwitchCase
	TryStmt
	CatchClause
	ThrowStmt
	EmptyStmt
	ImportDecl
	ExportNamedDecl
	ExportDefaultDecl
	ExportAllDecl

	// expressions
	Ident
	StringLit
	NumberLit
	BoolLit
	NullLit
	ThisExpr
	SuperExpr
	FuncExpr
	ArrowFunc
	ClassExpr
	MethodDef
	AssignExpr
	UpdateExpr
	UnaryExpr
	BinaryExpr
	LogicalExpr
	SeqExpr
	CondExpr
	CallExpr
	NewExpr
	MemberExpr
	ObjectExpr
	Property
	ArrayExpr
	SpreadElement
	YieldExpr
	AwaitExpr
	TemplateLit
	TemplateElem
	TaggedTemplate
	RegExpLit
	BigIntLit
	ChainExpr
	MetaProperty
	ImportExpr
	FieldDef

	// patterns
	ArrayPattern
	ObjectPattern
	AssignPattern
	RestElement

	// module specifiers
	ImportSpec
	ExportSpec

	numKinds
)

var kindNames = [...]string{
	Invalid:           "Invalid",
	Program:           "Program",
	BlockStmt:         "BlockStmt",
	ExprStmt:          "ExprStmt",
	VarDecl:           "VarDecl",
	VarDeclarator:     "VarDeclarator",
	FuncDecl:          "FuncDecl",
	ClassDecl:         "ClassDecl",
	ReturnStmt:        "ReturnStmt",
	BreakStmt:         "BreakStmt",
	ContinueStmt:      "ContinueStmt",
	IfStmt:            "IfStmt",
	ForStmt:           "ForStmt",
	ForInStmt:         "ForInStmt",
	ForOfStmt:         "ForOfStmt",
	WhileStmt:         "WhileStmt",
	DoWhileStmt:       "DoWhileStmt",
	LabeledStmt:       "LabeledStmt",
	SwitchStmt:        "SwitchStmt",
	SwitchCase:        "SwitchCase",
	TryStmt:           "TryStmt",
	CatchClause:       "CatchClause",
	ThrowStmt:         "ThrowStmt",
	EmptyStmt:         "EmptyStmt",
	ImportDecl:        "ImportDecl",
	ExportNamedDecl:   "ExportNamedDecl",
	ExportDefaultDecl: "ExportDefaultDecl",
	ExportAllDecl:     "ExportAllDecl",
	Ident:             "Ident",
	StringLit:         "StringLit",
	NumberLit:         "NumberLit",
	BoolLit:           "BoolLit",
	NullLit:           "NullLit",
	ThisExpr:          "ThisExpr",
	SuperExpr:         "SuperExpr",
	FuncExpr:          "FuncExpr",
	ArrowFunc:         "ArrowFunc",
	ClassExpr:         "ClassExpr",
	MethodDef:         "MethodDef",
	AssignExpr:        "AssignExpr",
	UpdateExpr:        "UpdateExpr",
	UnaryExpr:         "UnaryExpr",
	BinaryExpr:        "BinaryExpr",
	LogicalExpr:       "LogicalExpr",
	SeqExpr:           "SeqExpr",
	CondExpr:          "CondExpr",
	CallExpr:          "CallExpr",
	NewExpr:           "NewExpr",
	MemberExpr:        "MemberExpr",
	ObjectExpr:        "ObjectExpr",
	Property:          "Property",
	ArrayExpr:         "ArrayExpr",
	SpreadElement:     "SpreadElement",
	YieldExpr:         "YieldExpr",
	AwaitExpr:         "AwaitExpr",
	TemplateLit:       "TemplateLit",
	TemplateElem:      "TemplateElem",
	TaggedTemplate:    "TaggedTemplate",
	RegExpLit:         "RegExpLit",
	BigIntLit:         "BigIntLit",
	ChainExpr:         "ChainExpr",
	MetaProperty:      "MetaProperty",
	ImportExpr:        "ImportExpr",
	FieldDef:          "FieldDef",
	ArrayPattern:      "ArrayPattern",
	ObjectPattern:     "ObjectPattern",
	AssignPattern:     "AssignPattern",
	RestElement:       "RestElement",
	ImportSpec:        "ImportSpec",
	ExportSpec:        "ExportSpec",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsLoop reports whether k is an iteration statement.
func (k Kind) IsLoop() bool {
	switch k {
	case ForStmt, ForInStmt, ForOfStmt, WhileStmt, DoWhileStmt:
		return true
	}
	return false
}

// IsFor reports whether k is a for, for-in or for-of statement,
// the loops whose head may declare variables.
func (k Kind) IsFor() bool {
	return k == ForStmt || k == ForInStmt || k == ForOfStmt
}

// IsForX reports whether k is a for-in or for-of statement.
func (k Kind) IsForX() bool { return k == ForInStmt || k == ForOfStmt }

// IsFunction reports whether k introduces a function activation.
func (k Kind) IsFunction() bool {
	return k == FuncDecl || k == FuncExpr || k == ArrowFunc
}

// IsPattern reports whether k may only appear as an assignment or binding target.
func (k Kind) IsPattern() bool {
	switch k {
	case ArrayPattern, ObjectPattern, AssignPattern, RestElement:
		return true
	}
	return false
}

// A DeclKind is the keyword of a variable declaration.
type DeclKind uint8

const (
	Var DeclKind = iota
	Let
	Const
)

var declNames = [...]string{Var: "var", Let: "let", Const: "const"}

func (d DeclKind) String() string { return declNames[d] }

// Flags hold the boolean attributes of a node.
type Flags uint32

const (
	Computed    Flags = 1 << iota // MemberExpr a[b], Property/MethodDef [k]
	Prefix                        // UpdateExpr ++x
	Generator                     // function*
	Async                         // async function
	Delegate                      // yield*
	Static                        // static method
	Await                         // for await
	Shorthand                     // Property {x}
	Method                        // Property {m() {}}
	True                          // BoolLit value
	BlockScoped                   // VarDecl originally declared with let or const
	SkipTDZ                       // synthetic AssignExpr exempt from TDZ checks
	TDZThis                       // VarDecl referenced from a possible temporal dead zone
	Strict                        // Program or function body with a "use strict" directive
	Module                        // Program parsed as a module
	Optional                      // MemberExpr a?.b, CallExpr f?.()
)

// A Node is one element of a Tree.
//
// Only the fields relevant to Kind are meaningful. Besides the uses
// listed below, a TemplateElem holds its raw text in Str and its cooked
// text in Name, a RegExpLit its pattern in Str and its flags in Name, a
// BigIntLit its digits in Str, a MetaProperty its text (new.target or
// import.meta) in Name, and an ImportSpec its form ("default",
// "namespace" or empty) in Name. Children are not
// exposed directly: use Tree.Kids, Tree.Child and the mutation methods,
// which keep parent links consistent.
type Node struct {
	Kind  Kind
	Pos   Position
	Name  string   // Ident name; label of LabeledStmt, BreakStmt, ContinueStmt; MethodDef and Property kind
	Op    string   // operator of AssignExpr, UpdateExpr, UnaryExpr, BinaryExpr, LogicalExpr
	Str   string   // StringLit value; NumberLit source text (may be empty)
	Num   float64  // NumberLit value
	Decl  DeclKind // VarDecl keyword
	Flags Flags

	parent NodeID
	slot   int32
	kids   []NodeID
}

// Has reports whether all of the given flags are set.
func (n *Node) Has(f Flags) bool { return n.Flags&f == f }

// layout records, for each kind, the number of fixed child slots and
// whether further children form a list.
//
//	Program        stmts...
//	BlockStmt      stmts...
//	ExprStmt       X
//	VarDecl        declarators...
//	VarDeclarator  ID Init
//	FuncDecl       ID Body params...   (also FuncExpr, ArrowFunc; arrow Body may be an expression)
//	ClassDecl      ID Super members... (also ClassExpr; members are MethodDefs)
//	ReturnStmt     Arg
//	IfStmt         Test Cons Alt
//	ForStmt        Init Test Update Body
//	ForInStmt      Left Right Body     (also ForOfStmt)
//	WhileStmt      Test Body
//	DoWhileStmt    Body Test
//	LabeledStmt    Body
//	SwitchStmt     Disc cases...
//	SwitchCase     Test stmts...       (Test is Nil for default)
//	TryStmt        Block Handler Finalizer
//	CatchClause    Param Body
//	ThrowStmt      Arg
//	MethodDef      Key Value
//	AssignExpr     Left Right          (also BinaryExpr, LogicalExpr, AssignPattern)
//	UpdateExpr     Arg                 (also UnaryExpr, SpreadElement, YieldExpr, AwaitExpr, RestElement)
//	SeqExpr        exprs...
//	CondExpr       Test Cons Alt
//	CallExpr       Callee args...      (also NewExpr)
//	MemberExpr     Object Property
//	ObjectExpr     props...            (also ObjectPattern)
//	Property       Key Value
//	ArrayExpr      elems...            (also ArrayPattern; Nil marks a hole)
//	TemplateLit    quasis and exprs... (TemplateElem first, last and between expressions)
//	TaggedTemplate Tag Quasi
//	ChainExpr      X                   (an optional chain; its links have Optional set)
//	ImportExpr     Source options...
//	FieldDef       Key Value           (class field; Value may be Nil)
//	ImportDecl     Source specs...
//	ImportSpec     Imported Local      (Imported is Nil for the default and namespace forms)
//	ExportNamedDecl Decl Source specs...
//	ExportDefaultDecl Decl             (a declaration or an expression)
//	ExportAllDecl  Source Exported
//	ExportSpec     Local Exported
var layout = [numKinds]struct {
	fixed int
	list  bool
}{
	Program:           {0, true},
	BlockStmt:         {0, true},
	ExprStmt:          {1, false},
	VarDecl:           {0, true},
	VarDeclarator:     {2, false},
	FuncDecl:          {2, true},
	ClassDecl:         {2, true},
	ReturnStmt:        {1, false},
	BreakStmt:         {0, false},
	ContinueStmt:      {0, false},
	IfStmt:            {3, false},
	ForStmt:           {4, false},
	ForInStmt:         {3, false},
	ForOfStmt:         {3, false},
	WhileStmt:         {2, false},
	DoWhileStmt:       {2, false},
	LabeledStmt:       {1, false},
	SwitchStmt:        {1, true},
	SwitchCase:        {1, true},
	TryStmt:           {3, false},
	CatchClause:       {2, false},
	ThrowStmt:         {1, false},
	EmptyStmt:         {0, false},
	ImportDecl:        {1, true},
	ExportNamedDecl:   {2, true},
	ExportDefaultDecl: {1, false},
	ExportAllDecl:     {2, false},
	Ident:             {0, false},
	StringLit:         {0, false},
	NumberLit:         {0, false},
	BoolLit:           {0, false},
	NullLit:           {0, false},
	ThisExpr:          {0, false},
	SuperExpr:         {0, false},
	FuncExpr:          {2, true},
	ArrowFunc:         {2, true},
	ClassExpr:         {2, true},
	MethodDef:         {2, false},
	AssignExpr:        {2, false},
	UpdateExpr:        {1, false},
	UnaryExpr:         {1, false},
	BinaryExpr:        {2, false},
	LogicalExpr:       {2, false},
	SeqExpr:           {0, true},
	CondExpr:          {3, false},
	CallExpr:          {1, true},
	NewExpr:           {1, true},
	MemberExpr:        {2, false},
	ObjectExpr:        {0, true},
	Property:          {2, false},
	ArrayExpr:         {0, true},
	SpreadElement:     {1, false},
	YieldExpr:         {1, false},
	AwaitExpr:         {1, false},
	TemplateLit:       {0, true},
	TemplateElem:      {0, false},
	TaggedTemplate:    {2, false},
	RegExpLit:         {0, false},
	BigIntLit:         {0, false},
	ChainExpr:         {1, false},
	MetaProperty:      {0, false},
	ImportExpr:        {1, true},
	FieldDef:          {2, false},
	ArrayPattern:      {0, true},
	ObjectPattern:     {0, true},
	AssignPattern:     {2, false},
	RestElement:       {1, false},
	ImportSpec:        {2, false},
	ExportSpec:        {2, false},
}

// Fixed returns the number of fixed child slots of kind k.
// Children beyond them, if any, form a list (see HasList).
func (k Kind) Fixed() int { return layout[k].fixed }

// HasList reports whether nodes of kind k have a child list
// following their fixed slots.
func (k Kind) HasList() bool { return layout[k].list }

// Well-known child slots.
const (
	FuncID     = 0 // FuncDecl, FuncExpr, ArrowFunc, ClassDecl, ClassExpr
	FuncBody   = 1 // FuncDecl, FuncExpr, ArrowFunc
	FuncParams = 2 // first parameter of FuncDecl, FuncExpr, ArrowFunc
	ClassSuper = 1 // ClassDecl, ClassExpr

	ForInit   = 0
	ForTest   = 1
	ForUpdate = 2
	ForBody   = 3

	ForXLeft  = 0 // ForInStmt, ForOfStmt
	ForXRight = 1
	ForXBody  = 2
)

// LoopBody returns the slot holding the body of a loop of kind k.
func LoopBody(k Kind) int {
	switch k {
	case ForStmt:
		return ForBody
	case ForInStmt, ForOfStmt:
		return ForXBody
	case WhileStmt:
		return 1
	case DoWhileStmt:
		return 0
	}
	panic(fmt.Sprintf("LoopBody(%s)", k))
}
