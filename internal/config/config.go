// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads blockscope.toml project files and the
// BLOCKSCOPE_* environment variables.
//
// A configuration file looks like this:
//
//	[transform]
//	tdz = true
//	throw-if-closure-required = false
//
//	[output]
//	format = "js"   # or "estree", "cbor"
package config // import "github.com/jsdown/blockscope/internal/config"

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"

	"github.com/jsdown/blockscope/internal/spell"
	"github.com/jsdown/blockscope/lower"
)

// FileName is the name of the configuration file.
const FileName = "blockscope.toml"

// Output formats.
const (
	FormatJS     = "js"
	FormatESTree = "estree"
	FormatCBOR   = "cbor"
)

// A Config holds the settings of one run.
type Config struct {
	Transform lower.Options
	Format    string

	// Path is the file the configuration was read from, or "".
	Path string

	// Warnings lists keys of the file that were not understood,
	// with a suggested correction where one is close.
	Warnings []string
}

// file is the schema of blockscope.toml.
type file struct {
	Transform map[string]interface{} `toml:"transform"`
	Output    struct {
		Format string `toml:"format"`
	} `toml:"output"`
}

var (
	transformKeys = []string{"tdz", "throwIfClosureRequired", "throw-if-closure-required"}
	fileKeys      = []string{"transform", "output", "output.format"}
)

// Default returns the configuration used when there is no file.
func Default() *Config { return &Config{Format: FormatJS} }

// Load looks for blockscope.toml in dir and its parents and parses the
// first one found. If there is none, Load returns Default().
func Load(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		data, err := os.ReadFile(path)
		if err == nil {
			return Parse(path, data)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Parse parses the contents of a configuration file.
func Parse(path string, data []byte) (*Config, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c := Default()
	c.Path = path
	c.Transform, err = lower.OptionsFromMap(f.Transform)
	if err != nil {
		return nil, fmt.Errorf("%s: [transform]%w", path, err)
	}
	if f.Output.Format != "" {
		c.Format = f.Output.Format
	}
	if err := CheckFormat(c.Format); err != nil {
		return nil, fmt.Errorf("%s: [output] %w", path, err)
	}

	for _, key := range md.Undecoded() {
		c.Warnings = append(c.Warnings, key.String()+spell.Suggest(key.String(), fileKeys))
	}
	for key := range f.Transform {
		if !known(key) {
			c.Warnings = append(c.Warnings, "transform."+key+spell.Suggest(key, transformKeys))
		}
	}
	sort.Strings(c.Warnings)
	return c, nil
}

func known(key string) bool {
	for _, k := range transformKeys {
		if k == key {
			return true
		}
	}
	return false
}

// FromEnv applies the BLOCKSCOPE_TDZ, BLOCKSCOPE_THROW_IF_CLOSURE_REQUIRED
// and BLOCKSCOPE_FORMAT environment variables to c. Unset or empty
// variables leave c unchanged. A boolean variable must hold a value
// such as 1, true, yes or 0, false, no; anything else yields an error
// wrapping a *lower.ConfigurationError.
func FromEnv(c *Config) error {
	env.Load() // the package caches the environment on first use
	for _, v := range []struct {
		name, key string
		dst       *bool
	}{
		{"BLOCKSCOPE_TDZ", "tdz", &c.Transform.TDZ},
		{"BLOCKSCOPE_THROW_IF_CLOSURE_REQUIRED", "throwIfClosureRequired", &c.Transform.ThrowIfClosureRequired},
	} {
		s := env.Str(v.name)
		switch {
		case s == "":
		case env.True(s):
			*v.dst = true
		case env.False(s):
			*v.dst = false
		default:
			return fmt.Errorf("%s=%q: %w", v.name, s, &lower.ConfigurationError{Key: v.key})
		}
	}
	c.Format = env.Str("BLOCKSCOPE_FORMAT", c.Format)
	if err := CheckFormat(c.Format); err != nil {
		return fmt.Errorf("BLOCKSCOPE_FORMAT: %w", err)
	}
	return nil
}

// CheckFormat returns an error unless format names an output format.
func CheckFormat(format string) error {
	switch format {
	case FormatJS, FormatESTree, FormatCBOR:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want js, estree or cbor)", format)
}
