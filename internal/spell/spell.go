// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spell suggests corrections for misspelled names, as in
// "unknown setting transform.tdzz (did you mean tdz?)".
package spell // import "github.com/jsdown/blockscope/internal/spell"

import (
	"strings"
	"unicode"
)

// fold maps s to the form used for comparison: lower case, without
// the separators of snake, kebab and camel case.
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Nearest returns the element of candidates nearest to x by edit
// distance, or "" if none is within half the length of x.
func Nearest(x string, candidates []string) string {
	x = fold(x)
	var best string
	bestD := (len(x) + 1) / 2
	for _, c := range candidates {
		if d := distance(x, fold(c), bestD); d < bestD {
			bestD, best = d, c
		}
	}
	return best
}

// Suggest returns " (did you mean c?)" for the nearest candidate c,
// or "" if there is none.
func Suggest(x string, candidates []string) string {
	if c := Nearest(x, candidates); c != "" {
		return " (did you mean " + c + "?)"
	}
	return ""
}

// distance returns the Levenshtein distance between x and y, computed
// over a single row. Once every entry of a row exceeds max it returns
// early with a value greater than max.
func distance(x, y string, max int) int {
	if len(x) > len(y) {
		x, y = y, x
	}
	for len(x) > 0 && x[0] == y[0] {
		x, y = x[1:], y[1:]
	}
	if x == "" {
		return len(y)
	}

	row := make([]int, len(y)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(x); i++ {
		diag := row[0]
		row[0] = i
		rowMin := i
		for j := 1; j <= len(y); j++ {
			cost := diag
			if x[i-1] != y[j-1] {
				cost++
			}
			d := min(cost, row[j-1]+1, row[j]+1)
			diag, row[j] = row[j], d
			rowMin = min(rowMin, d)
		}
		if rowMin > max {
			return rowMin
		}
	}
	return row[len(y)]
}
