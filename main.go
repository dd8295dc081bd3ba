// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors
//
// edlink - EverDrive-64 USB utility
//
// A CLI tool for loading ROM images onto an EverDrive-64 flash cartridge
// and following the debug stream from running homebrew.

package main

import (
	"os"

	"github.com/ed64dev/edlink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
