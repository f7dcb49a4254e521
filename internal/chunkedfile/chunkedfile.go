// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for golden tests of program
// transformations.
//
// A chunked file consists of several chunks separated by "===" lines.
// Each chunk starts with a title line "# name word..." naming the test
// case and its options, followed by the input program, a "---" line,
// and the expected output. An expected output consisting of a line
// "### " followed by a Go string literal is instead an expectation of
// failure: the literal denotes a regular expression that should match
// the failure message.
//
// Example:
//
//	# let-in-block
//	{
//	  let x = 1;
//	}
//	---
//	{
//	  var x = 1;
//	}
//	===
//	# closure-forbidden throwIfClosureRequired
//	for (let i of xs) fns.push(() => i);
//	---
//	### "would add a closure"
//
// A client test transforms the input of each chunk, then calls either
// chunk.Check with the output or chunk.GotError with the failure. Any
// discrepancy is reported using the client's reporter, which is
// typically a testing.T.
package chunkedfile // import "github.com/jsdown/blockscope/internal/chunkedfile"

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// A Chunk is one test case of a chunked file.
type Chunk struct {
	Name    string
	Options []string
	Input   string
	Want    string // expected output, with a trailing newline

	filename string
	line     int // line of the title
	report   Reporter
	wantErr  *regexp.Regexp
	done     bool
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
func Read(filename string, report Reporter) (chunks []*Chunk) {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	linenum := 1
	for _, part := range strings.Split(text, "\n===\n") {
		chunk := &Chunk{filename: filename, line: linenum, report: report}
		linenum += strings.Count(part, "\n") + 2

		title, rest, _ := strings.Cut(part, "\n")
		if !strings.HasPrefix(title, "# ") {
			report.Errorf("\n%s:%d: chunk does not start with a # title", filename, chunk.line)
			continue
		}
		fields := strings.Fields(title[2:])
		if len(fields) == 0 {
			report.Errorf("\n%s:%d: chunk has no name", filename, chunk.line)
			continue
		}
		chunk.Name, chunk.Options = fields[0], fields[1:]

		input, want, ok := strings.Cut(rest, "\n---\n")
		if !ok {
			report.Errorf("\n%s:%d: chunk %s has no --- line", filename, chunk.line, chunk.Name)
			continue
		}
		chunk.Input = input + "\n"
		want = strings.TrimRight(want, "\n") + "\n"
		if strings.HasPrefix(want, "### ") {
			pattern, err := strconv.Unquote(strings.TrimSpace(want[len("### "):]))
			if err != nil {
				report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, chunk.line, want)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%d: %v", filename, chunk.line, err)
				continue
			}
			chunk.wantErr = rx
		} else {
			chunk.Want = want
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// HasOption reports whether the title of the chunk lists opt.
func (chunk *Chunk) HasOption(opt string) bool {
	for _, o := range chunk.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Check reports a difference between got and the expected output.
func (chunk *Chunk) Check(got string) {
	chunk.done = true
	if chunk.wantErr != nil {
		chunk.report.Errorf("\n%s:%d: %s: succeeded, want error matching %q", chunk.filename, chunk.line, chunk.Name, chunk.wantErr)
		return
	}
	if diff := cmp.Diff(chunk.Want, got); diff != "" {
		chunk.report.Errorf("\n%s:%d: %s: output mismatch (-want +got):\n%s", chunk.filename, chunk.line, chunk.Name, diff)
	}
}

// GotError should be called by the client to report a failure.
// It reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(msg string) {
	chunk.done = true
	if chunk.wantErr == nil {
		chunk.report.Errorf("\n%s:%d: %s: unexpected error: %s", chunk.filename, chunk.line, chunk.Name, msg)
	} else if !chunk.wantErr.MatchString(msg) {
		chunk.report.Errorf("\n%s:%d: %s: error %q does not match pattern %q", chunk.filename, chunk.line, chunk.Name, msg, chunk.wantErr)
	}
}

// Done should be called by the client after Check or GotError.
// It reports a chunk for which neither was called.
func (chunk *Chunk) Done() {
	if !chunk.done {
		chunk.report.Errorf("\n%s:%d: %s: no result", chunk.filename, chunk.line, chunk.Name)
	}
}
