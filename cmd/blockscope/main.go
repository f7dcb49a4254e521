// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The blockscope command lowers let and const declarations in
// JavaScript programs given as ESTree JSON, as printed by a parser
// such as esprima, acorn or @babel/parser.
//
// Usage:
//
//	blockscope [flags] [file.json ...]
//
// With no file arguments it reads a document from standard input, or,
// if standard input is a terminal, starts an interactive session.
// Settings are read from the nearest blockscope.toml, then from the
// BLOCKSCOPE_* environment variables, then from the flags.
package main // import "github.com/jsdown/blockscope/cmd/blockscope"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jsdown/blockscope/estree"
	"github.com/jsdown/blockscope/internal/config"
	"github.com/jsdown/blockscope/lower"
	"github.com/jsdown/blockscope/repl"
	"github.com/jsdown/blockscope/syntax"

	_ "github.com/tliron/commonlog/simple"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	configFile = flag.String("config", "", "read settings from this file instead of the nearest "+config.FileName)
	output     = flag.String("o", "", "write results to this file, or to this directory if there are several inputs")
	verbose    = flag.Int("v", 0, "log verbosity (1 info, 2 debug)")

	tdz     = flag.Bool("tdz", false, "check for uses of let and const bindings in their temporal dead zone")
	noClose = flag.Bool("throw-if-closure-required", false, "fail instead of wrapping a block in a closure")
	format  = flag.String("format", config.FormatJS, "output `format`: js, estree or cbor")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("blockscope: ")
	log.SetFlags(0)
	flag.Parse()
	commonlog.Configure(*verbose, nil)
	repl.SetStyling(os.Stderr)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	cfg, err := settings(flag.Args())
	if err != nil {
		repl.PrintError(os.Stderr, err)
		return 1
	}
	for _, key := range cfg.Warnings {
		repl.PrintWarning(os.Stderr, fmt.Sprintf("%s: unknown setting %s", cfg.Path, key))
	}

	switch {
	case flag.NArg() > 0:
		return lowerFiles(cfg, flag.Args())
	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to blockscope. Paste an ESTree document, then a blank line.")
		repl.REPL(cfg.Transform)
		return 0
	default:
		data, err := io.ReadAll(os.Stdin)
		check(err)
		res := lowerOne(cfg, "<stdin>", data)
		if res.err != nil {
			repl.PrintError(os.Stderr, res.err)
			return 1
		}
		if err := write(*output, res.out); err != nil {
			log.Print(err)
			return 1
		}
		return 0
	}
}

// settings combines the configuration file, the environment and the
// flags, in increasing order of precedence.
func settings(args []string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configFile != "" {
		data, rerr := os.ReadFile(*configFile)
		if rerr != nil {
			return nil, rerr
		}
		cfg, err = config.Parse(*configFile, data)
	} else {
		dir := "."
		if len(args) > 0 {
			dir = filepath.Dir(args[0])
		}
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, err
	}
	if err := config.FromEnv(cfg); err != nil {
		return nil, err
	}

	var ferr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tdz":
			cfg.Transform.TDZ = *tdz
		case "throw-if-closure-required":
			cfg.Transform.ThrowIfClosureRequired = *noClose
		case "format":
			if err := config.CheckFormat(*format); err != nil {
				ferr = fmt.Errorf("-format: %w", err)
			}
			cfg.Format = *format
		}
	})
	return cfg, ferr
}

type result struct {
	path string
	out  []byte
	err  error
}

// lowerFiles lowers each file concurrently and writes the results in
// the order of the arguments.
func lowerFiles(cfg *config.Config, paths []string) int {
	logger := commonlog.GetLogger("blockscope")
	results := make([]result, len(paths))

	var dsts []string
	if *output != "" && len(paths) > 1 {
		var err error
		if dsts, err = outputNames(*output, paths, cfg.Format); err != nil {
			repl.PrintError(os.Stderr, err)
			return 1
		}
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, release, err := readFile(path)
			if err != nil {
				results[i] = result{path: path, err: err}
				return nil
			}
			defer release()
			logger.Infof("lowering %s (%d bytes)", path, len(data))
			results[i] = lowerOne(cfg, path, data)
			return nil
		})
	}
	_ = g.Wait() // workers record their errors in results

	status := 0
	for i, res := range results {
		if res.err != nil {
			repl.PrintError(os.Stderr, res.err)
			status = 1
			continue
		}
		dst := *output
		if dsts != nil {
			dst = dsts[i]
		}
		if err := write(dst, res.out); err != nil {
			log.Print(err)
			status = 1
		}
	}
	return status
}

// lowerOne decodes, lowers and encodes one document. A .cbor input is
// read as EncodeCBOR output, anything else as ESTree JSON.
func lowerOne(cfg *config.Config, path string, data []byte) result {
	res := result{path: path}
	var tree *syntax.Tree
	if strings.HasSuffix(path, ".cbor") {
		tree, res.err = estree.DecodeCBOR(path, data)
	} else {
		tree, res.err = estree.Decode(path, data)
	}
	if res.err != nil {
		return res
	}
	if res.err = lower.File(tree, cfg.Transform); res.err != nil {
		return res
	}
	switch cfg.Format {
	case config.FormatESTree:
		res.out, res.err = estree.Encode(tree)
		res.out = append(res.out, '\n')
	case config.FormatCBOR:
		res.out, res.err = estree.EncodeCBOR(tree)
	default:
		res.out = []byte(syntax.Format(tree, tree.Root))
	}
	return res
}

// outputNames returns the output file in dir of each input. Inputs
// whose results would go to the same file are an error.
func outputNames(dir string, paths []string, format string) ([]string, error) {
	names := make([]string, len(paths))
	seen := make(map[string]string)
	for i, path := range paths {
		name := filepath.Join(dir, outputName(path, format))
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, path, name)
		}
		seen[name] = path
		names[i] = name
	}
	return names, nil
}

// outputName returns the name of the output file for input path.
func outputName(path, format string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch format {
	case config.FormatESTree:
		return base + ".json"
	case config.FormatCBOR:
		return base + ".cbor"
	}
	return base + ".js"
}

// write writes data to the named file, creating its directory, or to
// standard output if name is empty.
func write(name string, data []byte) error {
	if name == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0777); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0666)
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
