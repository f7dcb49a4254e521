// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lower

import (
	"fmt"

	"github.com/jsdown/blockscope/syntax"
)

// A ClosureForbiddenError is returned by File when a block would need a
// closure wrapper but Options.ThrowIfClosureRequired is set.
type ClosureForbiddenError struct {
	Path string
	Pos  syntax.Position // position of the offending block
}

func (e *ClosureForbiddenError) Error() string {
	return fmt.Sprintf("%s:%s: compiling let/const in this block would add a closure (throwIfClosureRequired)", e.Path, e.Pos)
}

// An InternalError reports a tree that the lowering cannot handle,
// such as an assignment to a super property inside a wrapped block.
// The tree is left in an unspecified state.
type InternalError struct {
	Path string
	Pos  syntax.Position
	Msg  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s:%s: internal error: %s", e.Path, e.Pos, e.Msg)
}

// A ConfigurationError reports an option of the wrong type.
type ConfigurationError struct {
	Key string // option name, e.g. "tdz"
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(".%s must be a boolean, or undefined", e.Key)
}

// bailout is the panic value used to abandon a pass.
type bailout struct{ err error }

func (p *pass) fail(n syntax.NodeID, format string, args ...interface{}) {
	panic(bailout{&InternalError{Path: p.t.Path, Pos: p.pos(n), Msg: fmt.Sprintf(format, args...)}})
}

// pos returns the position of n or of its nearest positioned ancestor.
func (p *pass) pos(n syntax.NodeID) syntax.Position {
	for ; n != syntax.Nil; n = p.t.Parent(n) {
		if pos := p.t.Pos(n); pos.IsValid() {
			return pos
		}
	}
	return syntax.Position{}
}
