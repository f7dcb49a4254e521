// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package estree converts between syntax trees and the ESTree JSON
// format produced by JavaScript parsers such as acorn, espree and
// Babel.
//
// Decode accepts both plain ESTree and Babel's variant (File wrapper,
// StringLiteral and friends, ObjectProperty, ObjectMethod, ClassMethod,
// ClassProperty, PrivateName, Optional member and call expressions,
// directives). Encode always produces plain ESTree. Node types outside
// the subset modeled by package syntax, such as JSX or TypeScript
// annotations, are reported as errors.
package estree // import "github.com/jsdown/blockscope/estree"

import (
	"fmt"

	"github.com/jsdown/blockscope/syntax"
)

// An Error describes a document that cannot be converted.
type Error struct {
	Path string
	Pos  syntax.Position // position of the offending node, if known
	Msg  string
}

func (e Error) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.Path, e.Pos, e.Msg)
}

// A shape describes how the children of one ESTree node type map to
// the child slots of a syntax node: the properties holding its fixed
// children, in slot order, and the property holding its child list.
type shape struct {
	kind  syntax.Kind
	fixed []string
	list  string
}

// shapes maps each plain ESTree type to its shape.
var shapes = map[string]shape{
	"Program":                 {syntax.Program, nil, "body"},
	"BlockStatement":          {syntax.BlockStmt, nil, "body"},
	"ExpressionStatement":     {syntax.ExprStmt, []string{"expression"}, ""},
	"VariableDeclaration":     {syntax.VarDecl, nil, "declarations"},
	"VariableDeclarator":      {syntax.VarDeclarator, []string{"id", "init"}, ""},
	"FunctionDeclaration":     {syntax.FuncDecl, []string{"id", "body"}, "params"},
	"ClassDeclaration":        {syntax.ClassDecl, []string{"id", "superClass"}, ""},
	"ReturnStatement":         {syntax.ReturnStmt, []string{"argument"}, ""},
	"BreakStatement":          {syntax.BreakStmt, nil, ""},
	"ContinueStatement":       {syntax.ContinueStmt, nil, ""},
	"IfStatement":             {syntax.IfStmt, []string{"test", "consequent", "alternate"}, ""},
	"ForStatement":            {syntax.ForStmt, []string{"init", "test", "update", "body"}, ""},
	"ForInStatement":          {syntax.ForInStmt, []string{"left", "right", "body"}, ""},
	"ForOfStatement":          {syntax.ForOfStmt, []string{"left", "right", "body"}, ""},
	"WhileStatement":          {syntax.WhileStmt, []string{"test", "body"}, ""},
	"DoWhileStatement":        {syntax.DoWhileStmt, []string{"body", "test"}, ""},
	"LabeledStatement":        {syntax.LabeledStmt, []string{"body"}, ""},
	"SwitchStatement":         {syntax.SwitchStmt, []string{"discriminant"}, "cases"},
	"SwitchCase":              {syntax.SwitchCase, []string{"test"}, "consequent"},
	"TryStatement":            {syntax.TryStmt, []string{"block", "handler", "finalizer"}, ""},
	"CatchClause":             {syntax.CatchClause, []string{"param", "body"}, ""},
	"ThrowStatement":          {syntax.ThrowStmt, []string{"argument"}, ""},
	"EmptyStatement":          {syntax.EmptyStmt, nil, ""},
	"Identifier":              {syntax.Ident, nil, ""},
	"ThisExpression":          {syntax.ThisExpr, nil, ""},
	"Super":                   {syntax.SuperExpr, nil, ""},
	"FunctionExpression":      {syntax.FuncExpr, []string{"id", "body"}, "params"},
	"ArrowFunctionExpression": {syntax.ArrowFunc, []string{"id", "body"}, "params"},
	"ClassExpression":         {syntax.ClassExpr, []string{"id", "superClass"}, ""},
	"MethodDefinition":        {syntax.MethodDef, []string{"key", "value"}, ""},
	"AssignmentExpression":    {syntax.AssignExpr, []string{"left", "right"}, ""},
	"UpdateExpression":        {syntax.UpdateExpr, []string{"argument"}, ""},
	"UnaryExpression":         {syntax.UnaryExpr, []string{"argument"}, ""},
	"BinaryExpression":        {syntax.BinaryExpr, []string{"left", "right"}, ""},
	"LogicalExpression":       {syntax.LogicalExpr, []string{"left", "right"}, ""},
	"SequenceExpression":      {syntax.SeqExpr, nil, "expressions"},
	"ConditionalExpression":   {syntax.CondExpr, []string{"test", "consequent", "alternate"}, ""},
	"CallExpression":          {syntax.CallExpr, []string{"callee"}, "arguments"},
	"NewExpression":           {syntax.NewExpr, []string{"callee"}, "arguments"},
	"MemberExpression":        {syntax.MemberExpr, []string{"object", "property"}, ""},
	"ObjectExpression":        {syntax.ObjectExpr, nil, "properties"},
	"Property":                {syntax.Property, []string{"key", "value"}, ""},
	"ArrayExpression":         {syntax.ArrayExpr, nil, "elements"},
	"SpreadElement":           {syntax.SpreadElement, []string{"argument"}, ""},
	"YieldExpression":         {syntax.YieldExpr, []string{"argument"}, ""},
	"AwaitExpression":         {syntax.AwaitExpr, []string{"argument"}, ""},
	"ArrayPattern":            {syntax.ArrayPattern, nil, "elements"},
	"ObjectPattern":           {syntax.ObjectPattern, nil, "properties"},
	"AssignmentPattern":       {syntax.AssignPattern, []string{"left", "right"}, ""},
	"RestElement":             {syntax.RestElement, []string{"argument"}, ""},

	"TaggedTemplateExpression": {syntax.TaggedTemplate, []string{"tag", "quasi"}, ""},
	"ChainExpression":          {syntax.ChainExpr, []string{"expression"}, ""},
	"ImportExpression":         {syntax.ImportExpr, []string{"source"}, ""},
	"PropertyDefinition":       {syntax.FieldDef, []string{"key", "value"}, ""},
	"ImportDeclaration":        {syntax.ImportDecl, []string{"source"}, "specifiers"},
	"ImportSpecifier":          {syntax.ImportSpec, []string{"imported", "local"}, ""},
	"ExportNamedDeclaration":   {syntax.ExportNamedDecl, []string{"declaration", "source"}, "specifiers"},
	"ExportSpecifier":          {syntax.ExportSpec, []string{"local", "exported"}, ""},
	"ExportDefaultDeclaration": {syntax.ExportDefaultDecl, []string{"declaration"}, ""},
	"ExportAllDeclaration":     {syntax.ExportAllDecl, []string{"source", "exported"}, ""},
}

// typeNames maps each kind to its plain ESTree type.
var typeNames = map[syntax.Kind]string{
	syntax.StringLit:    "Literal",
	syntax.NumberLit:    "Literal",
	syntax.BoolLit:      "Literal",
	syntax.NullLit:      "Literal",
	syntax.RegExpLit:    "Literal",
	syntax.BigIntLit:    "Literal",
	syntax.TemplateLit:  "TemplateLiteral",
	syntax.TemplateElem: "TemplateElement",
	syntax.MetaProperty: "MetaProperty",
}

func init() {
	for name, s := range shapes {
		typeNames[s.kind] = name
	}
}
