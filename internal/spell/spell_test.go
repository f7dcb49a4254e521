// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spell

import "testing"

func TestDistance(t *testing.T) {
	for _, test := range []struct {
		x, y string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"tdz", "tdzz", 1},
		{"throw", "thorw", 2},
		{"flaw", "lawn", 2},
	} {
		if got := distance(test.x, test.y, 100); got != test.want {
			t.Errorf("distance(%q, %q) = %d, want %d", test.x, test.y, got, test.want)
		}
		if got := distance(test.y, test.x, 100); got != test.want {
			t.Errorf("distance(%q, %q) = %d, want %d", test.y, test.x, got, test.want)
		}
	}
}

func TestNearest(t *testing.T) {
	keys := []string{"tdz", "throwIfClosureRequired", "throw-if-closure-required"}
	for _, test := range []struct{ x, want string }{
		{"tdzz", "tdz"},
		{"TDZ", "tdz"},
		{"throw_if_closure_required", "throwIfClosureRequired"},
		{"throwIfClosureRequire", "throwIfClosureRequired"},
		{"format", ""},
		{"", ""},
	} {
		if got := Nearest(test.x, keys); got != test.want {
			t.Errorf("Nearest(%q) = %q, want %q", test.x, got, test.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	cmds := []string{"tdz", "throw", "estree", "options", "help"}
	if got, want := Suggest("optoins", cmds), " (did you mean options?)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := Suggest("zzzzzz", cmds); got != "" {
		t.Errorf("got %q for a hopeless name", got)
	}
}
