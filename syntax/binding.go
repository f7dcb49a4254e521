// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines resolver data types referenced by the syntax tree.
// We cannot guarantee API stability for these types
// as they are closely tied to the implementation.

// A BindingKind records how a variable was introduced.
type BindingKind uint8

const (
	VarBinding     BindingKind = iota // var declaration, or a let lowered to var
	LetBinding                        // let or class declaration, or catch parameter
	ConstBinding                      // const declaration
	HoistedBinding                    // function declaration
	ParamBinding                      // function parameter
	LocalBinding                      // name of a function or class expression
	ModuleBinding                     // import declaration
)

var bindingKindNames = [...]string{
	VarBinding:     "var",
	LetBinding:     "let",
	ConstBinding:   "const",
	HoistedBinding: "hoisted",
	ParamBinding:   "param",
	LocalBinding:   "local",
	ModuleBinding:  "module",
}

func (k BindingKind) String() string { return bindingKindNames[k] }

// IsBlockScoped reports whether bindings of kind k are visible only
// within their enclosing block.
func (k BindingKind) IsBlockScoped() bool {
	return k == LetBinding || k == ConstBinding
}

// BindingKindOf returns the binding kind of a variable declared by decl.
func BindingKindOf(decl DeclKind) BindingKind {
	switch decl {
	case Let:
		return LetBinding
	case Const:
		return ConstBinding
	}
	return VarBinding
}
