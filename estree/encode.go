// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estree

import (
	"fmt"
	"math"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jsdown/blockscope/syntax"
)

// Encode returns the tree as an indented ESTree JSON document.
func Encode(t *syntax.Tree) ([]byte, error) {
	v, err := structpb.NewValue(EncodeValue(t))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", t.Path, err)
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// EncodeCBOR returns the ESTree document of the tree in canonical
// CBOR. Equal trees have byte-identical encodings.
func EncodeCBOR(t *syntax.Tree) ([]byte, error) {
	return cborEncMode.Marshal(EncodeValue(t))
}

// EncodeValue returns the ESTree document of the tree as nested
// maps and slices.
func EncodeValue(t *syntax.Tree) interface{} {
	e := &encoder{t: t}
	if t.Root == syntax.Nil {
		return object{"type": "Program", "sourceType": "script", "body": []interface{}{}}
	}
	return e.node(t.Root)
}

type encoder struct {
	t *syntax.Tree
}

func (e *encoder) ident(name string) interface{} {
	if name == "" {
		return nil
	}
	return object{"type": "Identifier", "name": name}
}

func (e *encoder) node(n syntax.NodeID) interface{} {
	if n == syntax.Nil {
		return nil
	}
	t := e.t
	node := t.Node(n)
	o := object{"type": typeNames[node.Kind]}
	if pos := node.Pos; pos.IsValid() {
		o["loc"] = object{"start": object{"line": float64(pos.Line), "column": float64(pos.Col - 1)}}
	}

	switch node.Kind {
	case syntax.ClassDecl, syntax.ClassExpr:
		o["id"] = e.node(t.Child(n, syntax.FuncID))
		o["superClass"] = e.node(t.Child(n, syntax.ClassSuper))
		o["body"] = object{"type": "ClassBody", "body": e.list(t.List(n))}
	case syntax.TemplateLit:
		var quasis, exprs []interface{}
		kids := t.Kids(n)
		for i, c := range kids {
			if t.Kind(c) != syntax.TemplateElem {
				exprs = append(exprs, e.node(c))
				continue
			}
			q := e.node(c).(object)
			q["tail"] = i == len(kids)-1
			quasis = append(quasis, q)
		}
		o["quasis"], o["expressions"] = quasis, exprs
		if exprs == nil {
			o["expressions"] = []interface{}{}
		}
	case syntax.ImportSpec:
		switch node.Name {
		case "default":
			o["type"] = "ImportDefaultSpecifier"
		case "namespace":
			o["type"] = "ImportNamespaceSpecifier"
		default:
			o["imported"] = e.node(t.Child(n, 0))
		}
		o["local"] = e.node(t.Child(n, 1))
	case syntax.ImportExpr:
		o["source"] = e.node(t.Child(n, 0))
		if opts := t.List(n); len(opts) > 0 {
			o["options"] = e.node(opts[0])
		}
	default:
		s := shapes[typeNames[node.Kind]]
		for i, key := range s.fixed {
			o[key] = e.node(t.Child(n, i))
		}
		if s.list != "" {
			o[s.list] = e.list(t.List(n))
		}
	}

	switch node.Kind {
	case syntax.Program:
		o["sourceType"] = "script"
		if node.Has(syntax.Module) {
			o["sourceType"] = "module"
		}
		e.directives(o, n)
	case syntax.BlockStmt:
		if t.Kind(t.Parent(n)).IsFunction() {
			e.directives(o, n)
		}
	case syntax.Ident:
		o["name"] = node.Name
		if strings.HasPrefix(node.Name, "#") {
			o["type"] = "PrivateIdentifier"
			o["name"] = node.Name[1:]
		}
	case syntax.TemplateElem:
		o["value"] = object{"raw": node.Str, "cooked": node.Name}
	case syntax.RegExpLit:
		o["value"] = nil
		o["raw"] = "/" + node.Str + "/" + node.Name
		o["regex"] = object{"pattern": node.Str, "flags": node.Name}
	case syntax.BigIntLit:
		o["value"] = nil
		o["raw"] = node.Str + "n"
		o["bigint"] = node.Str
	case syntax.MetaProperty:
		meta, prop, _ := strings.Cut(node.Name, ".")
		o["meta"], o["property"] = e.ident(meta), e.ident(prop)
	case syntax.FieldDef:
		o["static"] = node.Has(syntax.Static)
		o["computed"] = node.Has(syntax.Computed)
	case syntax.StringLit:
		o["value"] = node.Str
	case syntax.NumberLit:
		x := node.Num
		if math.IsInf(x, 0) || math.IsNaN(x) {
			// Not representable in JSON.
			o["value"] = nil
			o["raw"] = formatNumber(x)
		} else {
			o["value"] = x
			if node.Str != "" {
				o["raw"] = node.Str
			}
		}
	case syntax.BoolLit:
		o["value"] = node.Has(syntax.True)
	case syntax.NullLit:
		o["value"] = nil
	case syntax.VarDecl:
		o["kind"] = node.Decl.String()
	case syntax.FuncDecl, syntax.FuncExpr, syntax.ArrowFunc:
		o["generator"] = node.Has(syntax.Generator)
		o["async"] = node.Has(syntax.Async)
		if node.Kind == syntax.ArrowFunc {
			delete(o, "id")
			o["expression"] = t.Kind(t.Child(n, syntax.FuncBody)) != syntax.BlockStmt
		}
	case syntax.BreakStmt, syntax.ContinueStmt, syntax.LabeledStmt:
		o["label"] = e.ident(node.Name)
	case syntax.ForOfStmt:
		o["await"] = node.Has(syntax.Await)
	case syntax.MethodDef:
		o["kind"] = node.Name
		o["static"] = node.Has(syntax.Static)
		o["computed"] = node.Has(syntax.Computed)
	case syntax.Property:
		kind := node.Name
		if kind == "" {
			kind = "init"
		}
		o["kind"] = kind
		o["method"] = node.Has(syntax.Method)
		o["shorthand"] = node.Has(syntax.Shorthand)
		o["computed"] = node.Has(syntax.Computed)
	case syntax.AssignExpr, syntax.BinaryExpr, syntax.LogicalExpr:
		o["operator"] = node.Op
	case syntax.UnaryExpr:
		o["operator"] = node.Op
		o["prefix"] = true
	case syntax.UpdateExpr:
		o["operator"] = node.Op
		o["prefix"] = node.Has(syntax.Prefix)
	case syntax.MemberExpr:
		o["computed"] = node.Has(syntax.Computed)
		o["optional"] = node.Has(syntax.Optional)
	case syntax.CallExpr:
		o["optional"] = node.Has(syntax.Optional)
	case syntax.YieldExpr:
		o["delegate"] = node.Has(syntax.Delegate)
	}
	return o
}

func (e *encoder) list(ids []syntax.NodeID) []interface{} {
	list := make([]interface{}, len(ids))
	for i, id := range ids {
		list[i] = e.node(id)
	}
	return list
}

// directives marks the string statements of the directive prologue of
// the program or function body n.
func (e *encoder) directives(o object, n syntax.NodeID) {
	t := e.t
	body := o["body"].([]interface{})
	for i, s := range t.Kids(n) {
		x := t.Child(s, 0)
		if t.Kind(s) != syntax.ExprStmt || t.Kind(x) != syntax.StringLit {
			break
		}
		body[i].(object)["directive"] = t.Node(x).Str
	}
}

func formatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case x > 0:
		return "Infinity"
	}
	return "-Infinity"
}
