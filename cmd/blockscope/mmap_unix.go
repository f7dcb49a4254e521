// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// readFile maps the named file into memory. The caller must call
// release once it no longer uses the data.
func readFile(name string) (data []byte, release func(), err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 || !info.Mode().IsRegular() {
		// Empty files cannot be mapped, and pipes have no size.
		data, err := os.ReadFile(name)
		return data, func() {}, err
	}
	if int64(int(size)) != size {
		return nil, nil, fmt.Errorf("%s: file too large (%d bytes)", name, size)
	}
	data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", name, err)
	}
	return data, func() { unix.Munmap(data) }, nil
}
