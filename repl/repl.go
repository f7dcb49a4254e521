// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive session for the block-scope
// lowering.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// Each entry is an ESTree JSON document, as printed by a JavaScript
// parser, terminated by a blank line. The REPL lowers the program and
// prints the result. A line starting with a colon is a command:
//
//	:tdz [on|off]     set or toggle the tdz option
//	:throw [on|off]   set or toggle throwIfClosureRequired
//	:estree [on|off]  print results as ESTree JSON instead of JavaScript
//	:options          show the current settings
//	:help             list the commands
package repl // import "github.com/jsdown/blockscope/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/jsdown/blockscope/estree"
	"github.com/jsdown/blockscope/internal/spell"
	"github.com/jsdown/blockscope/lower"
	"github.com/jsdown/blockscope/syntax"
)

// REPL runs a read, lower, print loop on the terminal.
func REPL(opts lower.Options) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(os.Stderr, err)
		return
	}
	defer rl.Close()

	s := &Session{Options: opts, Out: os.Stdout, Err: os.Stderr}
	for {
		if err := rep(rl, s); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, lowers, and prints one entry.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Lowering errors are printed.
func rep(rl *readline.Instance, s *Session) error {
	rl.SetPrompt(">>> ")
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			// An entry cut short by end of input is still processed.
			if err == io.EOF && buf.Len() > 0 {
				s.Eval(buf.String())
			}
			return err
		}
		blank := strings.TrimSpace(line) == ""
		if buf.Len() == 0 {
			if blank {
				return nil
			}
			if strings.HasPrefix(line, ":") {
				s.Command(line)
				return nil
			}
		} else if blank {
			break
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		rl.SetPrompt("... ")
	}
	s.Eval(buf.String())
	return nil
}

// A Session holds the settings of an interactive session.
type Session struct {
	Options lower.Options
	ESTree  bool // print results as ESTree JSON

	Out, Err io.Writer
}

// Eval lowers the program described by the ESTree JSON document src
// and prints it.
func (s *Session) Eval(src string) {
	tree, err := estree.Decode("<stdin>", []byte(src))
	if err != nil {
		PrintError(s.Err, err)
		return
	}
	if err := lower.File(tree, s.Options); err != nil {
		PrintError(s.Err, err)
		return
	}
	if !s.ESTree {
		fmt.Fprint(s.Out, syntax.Format(tree, tree.Root))
		return
	}
	data, err := estree.Encode(tree)
	if err != nil {
		PrintError(s.Err, err)
		return
	}
	fmt.Fprintf(s.Out, "%s\n", data)
}

// Command executes one colon command.
func (s *Session) Command(line string) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(fields) == 0 {
		PrintWarning(s.Err, "empty command; try :help")
		return
	}
	var flag *bool
	switch fields[0] {
	case "tdz":
		flag = &s.Options.TDZ
	case "throw":
		flag = &s.Options.ThrowIfClosureRequired
	case "estree":
		flag = &s.ESTree
	case "options":
		fmt.Fprintf(s.Out, "tdz=%t throwIfClosureRequired=%t estree=%t\n", s.Options.TDZ, s.Options.ThrowIfClosureRequired, s.ESTree)
		return
	case "help":
		fmt.Fprint(s.Out, help)
		return
	default:
		PrintWarning(s.Err, fmt.Sprintf("unknown command :%s%s; try :help", fields[0], spell.Suggest(fields[0], commands)))
		return
	}

	switch {
	case len(fields) == 1:
		*flag = !*flag
	case fields[1] == "on":
		*flag = true
	case fields[1] == "off":
		*flag = false
	default:
		PrintWarning(s.Err, fmt.Sprintf(":%s takes on or off, not %q", fields[0], fields[1]))
		return
	}
	fmt.Fprintf(s.Out, "%s=%t\n", fields[0], *flag)
}

var commands = []string{"tdz", "throw", "estree", "options", "help"}

const help = `Paste an ESTree JSON document and end it with a blank line.
  :tdz [on|off]     set or toggle the tdz option
  :throw [on|off]   set or toggle throwIfClosureRequired
  :estree [on|off]  print results as ESTree JSON
  :options          show the current settings
  :help             show this message
`

var (
	errorTag  = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorText = pterm.FgRed
	warnTag   = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warnText  = pterm.FgYellow
)

// SetStyling enables the colors of PrintError and PrintWarning if w is
// a terminal, and disables them otherwise.
func SetStyling(w io.Writer) {
	if f, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		pterm.EnableStyling()
	} else {
		pterm.DisableStyling()
	}
}

// PrintError prints err to w under a tag naming its kind.
func PrintError(w io.Writer, err error) {
	tag := "Error"
	var (
		closure  *lower.ClosureForbiddenError
		internal *lower.InternalError
		config   *lower.ConfigurationError
		input    estree.Error
	)
	switch {
	case errors.As(err, &closure):
		tag = "Closure Error"
	case errors.As(err, &internal):
		tag = "Internal Error"
	case errors.As(err, &config):
		tag = "Config Error"
	case errors.As(err, &input):
		tag = "Input Error"
	}
	fmt.Fprintln(w, errorTag.Sprint(tag), errorText.Sprint(err.Error()))
}

// PrintWarning prints msg to w under a warning tag.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warnTag.Sprint("Warning"), warnText.Sprint(msg))
}
