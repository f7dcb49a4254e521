// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package chunkedfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	r.reported = append(r.reported, fmt.Sprintf(format, args...))
}

func (r *testReporter) assertNone(t *testing.T) {
	t.Helper()
	if len(r.reported) > 0 {
		t.Errorf("reporter expected no errors, got %q", r.reported)
	}
}

func (r *testReporter) assertOne(t *testing.T, substr string) {
	t.Helper()
	if len(r.reported) != 1 {
		t.Fatalf("reporter expected 1 error, got %q", r.reported)
	}
	if !strings.Contains(r.reported[0], substr) {
		t.Fatalf("reporter expected %q, got %q", substr, r.reported[0])
	}
	r.reported = nil
}

func writeFile(t *testing.T, data string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.golden")
	if err := os.WriteFile(name, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestChunkedFile(t *testing.T) {
	name := writeFile(t, `# first tdz
let x = 1;
---
var x = 1;

===
# second
f();
---
### "would add a (closure|function)"
`)
	reporter := &testReporter{}
	chunks := Read(name, reporter)
	reporter.assertNone(t)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	first := chunks[0]
	if first.Name != "first" || !first.HasOption("tdz") || first.HasOption("second") {
		t.Errorf("first chunk: name %q, options %q", first.Name, first.Options)
	}
	if first.Input != "let x = 1;\n" {
		t.Errorf("first input = %q", first.Input)
	}
	if first.Want != "var x = 1;\n" {
		t.Errorf("first want = %q", first.Want)
	}
	first.Check("var x = 1;\n")
	first.Done()
	reporter.assertNone(t)

	first.Check("var y = 1;\n")
	reporter.assertOne(t, name+":1: first: output mismatch")

	second := chunks[1]
	if second.line != 7 {
		t.Errorf("second chunk starts at line %d, want 7", second.line)
	}
	second.Done()
	reporter.assertOne(t, "second: no result")

	second.GotError("this would add a closure")
	reporter.assertNone(t)

	second.GotError("unrelated")
	reporter.assertOne(t, `error "unrelated" does not match pattern`)

	second.Check("f();\n")
	reporter.assertOne(t, "succeeded, want error")

	first.GotError("boom")
	reporter.assertOne(t, ":1: first: unexpected error: boom")
}

func TestMalformedChunks(t *testing.T) {
	for _, test := range []struct{ data, want string }{
		{"no title\n---\nx\n", "does not start with a # title"},
		{"# \nx\n---\nx\n", "chunk has no name"},
		{"# a\nx\n", "chunk a has no --- line"},
		{"# a\nx\n---\n### unquoted\n", "not a quoted regexp"},
		{"# a\nx\n---\n### \"(\"\n", "missing closing )"},
	} {
		reporter := &testReporter{}
		if chunks := Read(writeFile(t, test.data), reporter); len(chunks) != 0 {
			t.Errorf("%q: got %d chunks", test.data, len(chunks))
		}
		reporter.assertOne(t, test.want)
	}

	reporter := &testReporter{}
	Read(filepath.Join(t.TempDir(), "missing.golden"), reporter)
	reporter.assertOne(t, "missing.golden")
}
