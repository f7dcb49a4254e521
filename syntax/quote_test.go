// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "testing"

var quoteTests = []struct {
	s string // actual string
	q string // quoted
}{
	{"", `""`},
	{`hello`, `"hello"`},
	{`quote"here`, `"quote\"here"`},
	{`quote'here`, `"quote'here"`},
	{`back\slash`, `"back\\slash"`},
	{"\n\r\t\b\f\v", `"\n\r\t\b\f\v"`},
	{"\x00", `"\0"`},
	{"\x00a", `"\0a"`},
	{"\x001", `"\x001"`},
	{"\x01\x1f\x7f", `"\x01\x1f\x7f"`},
	{"\u2028\u2029", `"\u2028\u2029"`},
	{"héllo ☃", "\"héllo ☃\""},
}

func TestQuote(t *testing.T) {
	for _, tt := range quoteTests {
		if q := Quote(tt.s); q != tt.q {
			t.Errorf("Quote(%#q) = %s, want %s", tt.s, q, tt.q)
		}
	}
}
