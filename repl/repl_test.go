// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repl_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/jsdown/blockscope/lower"
	"github.com/jsdown/blockscope/repl"
)

// for (let i = 0; i < 2; i++) f(() => i);
const loopDoc = `{"type": "Program", "sourceType": "script", "body": [
 {"type": "ForStatement",
  "init": {"type": "VariableDeclaration", "kind": "let", "declarations": [
    {"type": "VariableDeclarator", "id": {"type": "Identifier", "name": "i"},
     "init": {"type": "Literal", "value": 0, "raw": "0"}}]},
  "test": {"type": "BinaryExpression", "operator": "<",
    "left": {"type": "Identifier", "name": "i"}, "right": {"type": "Literal", "value": 2, "raw": "2"}},
  "update": {"type": "UpdateExpression", "operator": "++", "prefix": false,
    "argument": {"type": "Identifier", "name": "i"}},
  "body": {"type": "ExpressionStatement", "expression":
    {"type": "CallExpression", "callee": {"type": "Identifier", "name": "f"}, "arguments": [
      {"type": "ArrowFunctionExpression", "id": null, "params": [], "expression": true,
       "generator": false, "async": false, "body": {"type": "Identifier", "name": "i"}}]}}}]}`

func newSession() (*repl.Session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &repl.Session{Out: &out, Err: &errOut}, &out, &errOut
}

func TestEval(t *testing.T) {
	s, out, errOut := newSession()
	s.Eval(loopDoc)
	const want = `var _loop = function (i) {
  f(() => i);
};
for (var i = 0; i < 2; i++) {
  _loop(i);
}
`
	if got := out.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if errOut.Len() > 0 {
		t.Errorf("unexpected error output: %s", errOut)
	}
}

func TestEvalErrors(t *testing.T) {
	for i, test := range []struct {
		opts      lower.Options
		src       string
		tag, want string
	}{
		{lower.Options{}, `{"type": `, "Input Error", "<stdin>: invalid JSON"},
		{lower.Options{}, `{"type": "Program", "body": [{"type": "WithStatement"}]}`, "Input Error", `unsupported node type "WithStatement"`},
		{lower.Options{ThrowIfClosureRequired: true}, loopDoc, "Closure Error", "would add a closure"},
	} {
		s, out, errOut := newSession()
		s.Options = test.opts
		s.Eval(test.src)
		if out.Len() > 0 {
			t.Errorf("#%d: unexpected output %q", i, out)
		}
		if got := errOut.String(); !strings.Contains(got, test.tag) || !strings.Contains(got, test.want) {
			t.Errorf("#%d: got %q, want %s: %s", i, got, test.tag, test.want)
		}
	}
}

func TestCommands(t *testing.T) {
	s, out, errOut := newSession()
	for _, line := range []string{":tdz", ":throw on", ":throw off", ":estree on", ":options"} {
		s.Command(line)
	}
	const want = "tdz=true\nthrow=true\nthrow=false\nestree=true\ntdz=true throwIfClosureRequired=false estree=true\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if errOut.Len() > 0 {
		t.Errorf("unexpected error output: %s", errOut)
	}

	for _, test := range []struct{ line, want string }{
		{":bogus", "unknown command :bogus"},
		{":tdz maybe", `:tdz takes on or off, not "maybe"`},
		{":", "empty command"},
	} {
		errOut.Reset()
		s.Command(test.line)
		if !strings.Contains(errOut.String(), test.want) {
			t.Errorf("%s: got %q, want %q", test.line, errOut, test.want)
		}
	}
}

func TestEvalESTree(t *testing.T) {
	s, out, _ := newSession()
	s.ESTree = true
	s.Eval(`{"type": "Program", "body": [{"type": "VariableDeclaration", "kind": "const",
		"declarations": [{"type": "VariableDeclarator", "id": {"type": "Identifier", "name": "c"},
		"init": null}]}]}`)
	got := out.String()
	if !regexp.MustCompile(`"kind":\s*"var"`).MatchString(got) {
		t.Errorf("ESTree output does not declare a var: %s", got)
	}
	if strings.Contains(got, "const") {
		t.Errorf("ESTree output still has a const: %s", got)
	}
}

func TestSetStyling(t *testing.T) {
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	repl.SetStyling(&buf)
	repl.PrintError(&buf, errors.New("boom"))
	repl.PrintWarning(&buf, "careful")
	if got, want := buf.String(), "Error boom\nWarning careful\n"; got != want {
		t.Errorf("output to a buffer = %q, want %q", got, want)
	}

	// Nor is a regular file a terminal.
	f, err := os.Create(filepath.Join(t.TempDir(), "stderr.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	pterm.EnableStyling()
	repl.SetStyling(f)
	repl.PrintError(f, &lower.ConfigurationError{Key: "tdz"})
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.ContainsRune(data, '\x1b') || !strings.HasPrefix(string(data), "Config Error ") {
		t.Errorf("output to a file = %q", data)
	}
}
