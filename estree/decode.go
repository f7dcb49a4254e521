// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estree

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jsdown/blockscope/syntax"
)

// Decode parses an ESTree JSON document, either a Program or a Babel
// File, and returns its tree. The path is used only in positions and
// error messages.
func Decode(path string, data []byte) (*syntax.Tree, error) {
	var v structpb.Value
	if err := protojson.Unmarshal(data, &v); err != nil {
		return nil, Error{Path: path, Msg: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return DecodeValue(path, v.AsInterface())
}

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// DecodeCBOR parses a tree produced by EncodeCBOR.
func DecodeCBOR(path string, data []byte) (*syntax.Tree, error) {
	var v interface{}
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, Error{Path: path, Msg: fmt.Sprintf("invalid CBOR: %v", err)}
	}
	return DecodeValue(path, v)
}

// DecodeValue converts a generic ESTree document, as produced by
// encoding/json or structpb, to a tree.
func DecodeValue(path string, v interface{}) (t *syntax.Tree, err error) {
	d := &decoder{t: syntax.NewTree(path)}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(Error)
			if !ok {
				panic(r)
			}
			t, err = nil, e
		}
	}()
	o := d.object(v, "document")
	if o["type"] == "File" {
		o = d.object(o["program"], "File.program")
	}
	if o["type"] != "Program" {
		d.errorf(o, "document is a %v, not a Program", o["type"])
	}
	d.t.Root = d.node(o)
	return d.t, nil
}

type object = map[string]interface{}

type decoder struct {
	t       *syntax.Tree
	chained bool // the node being decoded heads a Babel optional chain
}

func (d *decoder) errorf(o object, format string, args ...interface{}) {
	panic(Error{Path: d.t.Path, Pos: position(o), Msg: fmt.Sprintf(format, args...)})
}

func (d *decoder) object(v interface{}, what string) object {
	o, ok := v.(object)
	if !ok {
		panic(Error{Path: d.t.Path, Msg: fmt.Sprintf("%s: got %T, want object", what, v)})
	}
	return o
}

// position returns the start of o's loc property.
func position(o object) syntax.Position {
	loc, _ := o["loc"].(object)
	start, _ := loc["start"].(object)
	line, ok1 := number(start["line"])
	col, ok2 := number(start["column"])
	if !ok1 || !ok2 {
		return syntax.Position{}
	}
	return syntax.Position{Line: int32(line), Col: int32(col) + 1}
}

// number converts the numeric types produced by the JSON and CBOR
// decoders to float64.
func number(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case uint64:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func boolean(o object, key string) bool {
	b, _ := o[key].(bool)
	return b
}

func str(o object, key string) string {
	s, _ := o[key].(string)
	return s
}

// name returns the name of the Identifier in property key of o.
func (d *decoder) name(o object, key string) string {
	v := o[key]
	if v == nil {
		return ""
	}
	id := d.object(v, key)
	if id["type"] != "Identifier" {
		d.errorf(id, "%s is a %v, not an Identifier", key, id["type"])
	}
	return str(id, "name")
}

// nodes decodes a list of nodes; null elements become Nil.
func (d *decoder) nodes(o object, key string) []syntax.NodeID {
	list, _ := o[key].([]interface{})
	ids := make([]syntax.NodeID, len(list))
	for i, v := range list {
		if v != nil {
			ids[i] = d.node(d.object(v, key))
		}
	}
	return ids
}

func (d *decoder) child(o object, key string) syntax.NodeID {
	v := o[key]
	if v == nil {
		return syntax.Nil
	}
	return d.node(d.object(v, key))
}

// node decodes o and its descendants.
func (d *decoder) node(o object) syntax.NodeID {
	t := d.t
	typ := str(o, "type")
	inChain := d.chained
	d.chained = false
	var n syntax.NodeID
	switch typ {
	case "ParenthesizedExpression":
		return d.child(o, "expression")
	case "Literal", "StringLiteral", "NumericLiteral", "BooleanLiteral", "NullLiteral",
		"RegExpLiteral", "BigIntLiteral":
		n = d.literal(o, typ)
	case "TemplateLiteral":
		n = d.template(o)
	case "TemplateElement":
		n = t.New(syntax.TemplateElem)
		value := d.object(o["value"], "TemplateElement.value")
		t.Node(n).Str = str(value, "raw")
		t.Node(n).Name = str(value, "cooked")
	case "PrivateIdentifier":
		n = t.Ident("#" + str(o, "name"))
	case "PrivateName":
		n = t.Ident("#" + d.name(o, "id"))
	case "MetaProperty":
		n = t.New(syntax.MetaProperty)
		t.Node(n).Name = d.name(o, "meta") + "." + d.name(o, "property")
	case "OptionalMemberExpression", "OptionalCallExpression":
		n = d.optional(o, typ, inChain)
	case "ImportExpression":
		kids := []syntax.NodeID{d.child(o, "source")}
		if o["options"] != nil {
			kids = append(kids, d.child(o, "options"))
		}
		n = t.New(syntax.ImportExpr, kids...)
	case "CallExpression":
		if callee, _ := o["callee"].(object); str(callee, "type") == "Import" {
			args := d.nodes(o, "arguments")
			if len(args) == 0 {
				d.errorf(o, "import() without argument")
			}
			n = t.New(syntax.ImportExpr, args...)
		} else {
			n = d.shaped(o, typ)
		}
	case "ImportDefaultSpecifier", "ImportNamespaceSpecifier":
		n = t.New(syntax.ImportSpec, syntax.Nil, d.child(o, "local"))
		t.Node(n).Name = "default"
		if typ == "ImportNamespaceSpecifier" {
			t.Node(n).Name = "namespace"
		}
	case "ClassProperty", "ClassPrivateProperty":
		n = t.New(syntax.FieldDef, d.child(o, "key"), d.child(o, "value"))
	case "ClassDeclaration", "ClassExpression":
		n = d.class(o, shapes[typ].kind)
	case "ObjectProperty":
		n = t.New(syntax.Property, d.child(o, "key"), d.child(o, "value"))
		t.Node(n).Name = "init"
	case "ObjectMethod":
		fn := d.function(o, syntax.FuncExpr)
		n = t.New(syntax.Property, d.child(o, "key"), fn)
		switch kind := str(o, "kind"); kind {
		case "get", "set":
			t.Node(n).Name = kind
		default:
			t.Node(n).Name = "init"
			t.Node(n).Flags |= syntax.Method
		}
	case "ClassMethod", "ClassPrivateMethod":
		fn := d.function(o, syntax.FuncExpr)
		n = t.New(syntax.MethodDef, d.child(o, "key"), fn)
		t.Node(n).Name = str(o, "kind")
	case "FunctionDeclaration", "FunctionExpression", "ArrowFunctionExpression":
		n = d.function(o, shapes[typ].kind)
	case "Program", "BlockStatement":
		stmts, strict := d.body(o)
		n = t.New(shapes[typ].kind, stmts...)
		if strict {
			t.Node(n).Flags |= syntax.Strict
		}
	default:
		n = d.shaped(o, typ)
	}
	node := t.Node(n)
	node.Pos = position(o)
	d.attributes(o, node)
	return n
}

// shaped decodes a node whose children are described by its shape.
func (d *decoder) shaped(o object, typ string) syntax.NodeID {
	s, ok := shapes[typ]
	if !ok {
		d.errorf(o, "unsupported node type %q", typ)
	}
	var kids []syntax.NodeID
	for _, key := range s.fixed {
		kids = append(kids, d.child(o, key))
	}
	if s.list != "" {
		kids = append(kids, d.nodes(o, s.list)...)
	}
	return d.t.New(s.kind, kids...)
}

// optional decodes a link of a Babel optional chain. Babel has no
// node for the chain as a whole, so the outermost link is wrapped in
// a ChainExpr; inChain reports whether o is the object or callee of
// another link.
func (d *decoder) optional(o object, typ string, inChain bool) syntax.NodeID {
	t := d.t
	var n syntax.NodeID
	d.chained = true
	if typ == "OptionalMemberExpression" {
		obj := d.child(o, "object")
		n = t.New(syntax.MemberExpr, obj, d.child(o, "property"))
	} else {
		callee := d.child(o, "callee")
		n = t.New(syntax.CallExpr, append([]syntax.NodeID{callee}, d.nodes(o, "arguments")...)...)
	}
	if inChain {
		return n
	}
	node := t.Node(n)
	node.Pos = position(o)
	d.attributes(o, node)
	return t.New(syntax.ChainExpr, n)
}

// template decodes a template literal, interleaving its quasis with
// its expressions.
func (d *decoder) template(o object) syntax.NodeID {
	quasis := d.nodes(o, "quasis")
	exprs := d.nodes(o, "expressions")
	if len(quasis) != len(exprs)+1 {
		d.errorf(o, "template literal has %d quasis for %d expressions", len(quasis), len(exprs))
	}
	kids := []syntax.NodeID{quasis[0]}
	for i, x := range exprs {
		kids = append(kids, x, quasis[i+1])
	}
	return d.t.New(syntax.TemplateLit, kids...)
}

// attributes copies the non-child properties of o to node.
func (d *decoder) attributes(o object, node *syntax.Node) {
	set := func(key string, f syntax.Flags) {
		if boolean(o, key) {
			node.Flags |= f
		}
	}
	switch node.Kind {
	case syntax.Program:
		if str(o, "sourceType") == "module" {
			node.Flags |= syntax.Module
		}
	case syntax.Ident:
		node.Name = str(o, "name")
	case syntax.VarDecl:
		switch kind := str(o, "kind"); kind {
		case "var":
			node.Decl = syntax.Var
		case "let":
			node.Decl = syntax.Let
		case "const":
			node.Decl = syntax.Const
		default:
			d.errorf(o, "unsupported declaration kind %q", kind)
		}
	case syntax.BreakStmt, syntax.ContinueStmt, syntax.LabeledStmt:
		node.Name = d.name(o, "label")
	case syntax.ForOfStmt:
		set("await", syntax.Await)
	case syntax.MethodDef:
		if node.Name == "" {
			node.Name = str(o, "kind")
		}
		set("static", syntax.Static)
		set("computed", syntax.Computed)
	case syntax.Property:
		switch kind := str(o, "kind"); kind {
		case "init", "get", "set":
			node.Name = kind
		}
		set("method", syntax.Method)
		set("shorthand", syntax.Shorthand)
		set("computed", syntax.Computed)
	case syntax.AssignExpr, syntax.UnaryExpr, syntax.BinaryExpr, syntax.LogicalExpr:
		node.Op = str(o, "operator")
	case syntax.UpdateExpr:
		node.Op = str(o, "operator")
		set("prefix", syntax.Prefix)
	case syntax.MemberExpr, syntax.CallExpr:
		set("optional", syntax.Optional)
		set("computed", syntax.Computed)
	case syntax.FieldDef:
		set("static", syntax.Static)
		set("computed", syntax.Computed)
	case syntax.YieldExpr:
		set("delegate", syntax.Delegate)
	}
}

// body decodes the statements of a program or block, turning Babel
// directives into leading string statements. It reports whether the
// directive prologue contains "use strict".
func (d *decoder) body(o object) ([]syntax.NodeID, bool) {
	t := d.t
	var stmts []syntax.NodeID
	strict := false
	directives, _ := o["directives"].([]interface{})
	for _, v := range directives {
		dir := d.object(v, "directives")
		lit := d.object(dir["value"], "Directive.value")
		value := str(lit, "value")
		if value == "use strict" {
			strict = true
		}
		s := t.ExprStmt(t.Str(value))
		t.Node(s).Pos = position(dir)
		stmts = append(stmts, s)
	}
	prologue := true
	for _, s := range d.nodes(o, "body") {
		if prologue {
			if x := t.Child(s, 0); t.Kind(s) == syntax.ExprStmt && t.Kind(x) == syntax.StringLit {
				strict = strict || t.Node(x).Str == "use strict"
			} else {
				prologue = false
			}
		}
		stmts = append(stmts, s)
	}
	return stmts, strict
}

func (d *decoder) function(o object, kind syntax.Kind) syntax.NodeID {
	t := d.t
	var id syntax.NodeID
	if kind != syntax.ArrowFunc {
		id = d.child(o, "id")
	}
	body := d.child(o, "body")
	if body == syntax.Nil {
		d.errorf(o, "function without body")
	}
	n := t.Func(kind, id, body, d.nodes(o, "params")...)
	node := t.Node(n)
	node.Pos = position(o)
	if boolean(o, "generator") {
		node.Flags |= syntax.Generator
	}
	if boolean(o, "async") {
		node.Flags |= syntax.Async
	}
	return n
}

func (d *decoder) class(o object, kind syntax.Kind) syntax.NodeID {
	var members []syntax.NodeID
	if v := o["body"]; v != nil {
		body := d.object(v, "ClassBody")
		for _, m := range d.nodes(body, "body") {
			if k := d.t.Kind(m); k != syntax.MethodDef && k != syntax.FieldDef {
				d.errorf(body, "unsupported class member %s", d.t.Kind(m))
			}
			members = append(members, m)
		}
	}
	kids := append([]syntax.NodeID{d.child(o, "id"), d.child(o, "superClass")}, members...)
	return d.t.New(kind, kids...)
}

func (d *decoder) literal(o object, typ string) syntax.NodeID {
	t := d.t
	switch {
	case typ == "RegExpLiteral":
		return d.regexp(o)
	case o["regex"] != nil:
		return d.regexp(d.object(o["regex"], "Literal.regex"))
	case typ == "BigIntLiteral":
		return d.bigint(str(o, "value"))
	case o["bigint"] != nil:
		return d.bigint(str(o, "bigint"))
	}
	raw := str(o, "raw")
	if extra, ok := o["extra"].(object); ok && raw == "" {
		raw = str(extra, "raw")
	}
	if typ == "NullLiteral" {
		return t.Null()
	}
	switch v := o["value"].(type) {
	case nil:
		switch raw {
		case "NaN", "Infinity", "-Infinity":
			x, _ := strconv.ParseFloat(raw, 64)
			return t.Number(x)
		}
		return t.Null()
	case string:
		return t.Str(v)
	case bool:
		return t.Bool(v)
	default:
		x, ok := number(v)
		if !ok {
			d.errorf(o, "unsupported literal value %T", v)
		}
		n := t.Number(x)
		t.Node(n).Str = raw
		return n
	}
}

func (d *decoder) regexp(o object) syntax.NodeID {
	n := d.t.New(syntax.RegExpLit)
	node := d.t.Node(n)
	node.Str = str(o, "pattern")
	node.Name = str(o, "flags")
	return n
}

func (d *decoder) bigint(digits string) syntax.NodeID {
	n := d.t.New(syntax.BigIntLit)
	d.t.Node(n).Str = digits
	return n
}
