// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ed64dev/edlink/pkg/edlink"
	"github.com/ed64dev/edlink/pkg/edproto"
)

// parseSpace maps a --space flag value to a memory space.
func parseSpace(s string) (edlink.MemorySpace, error) {
	switch strings.ToLower(s) {
	case "rom":
		return edlink.SpaceROM, nil
	case "sram", "save":
		return edlink.SpaceSRAM, nil
	default:
		return 0, fmt.Errorf("unknown memory space %q (use rom or sram)", s)
	}
}

// parseAddr parses a cartridge address, accepting 0x-prefixed hex or
// decimal. An empty string selects the space's base address.
func parseAddr(s string, space edlink.MemorySpace) (uint32, error) {
	if s == "" {
		if space == edlink.SpaceSRAM {
			return edproto.SramBaseAddr, nil
		}
		return edproto.RomBaseAddr, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %v", s, err)
	}
	return uint32(v), nil
}

// parseSize parses a byte count, accepting 0x-prefixed hex or decimal
// with an optional K or M suffix.
func parseSize(s string) (int, error) {
	mult := 1
	switch {
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		mult = 1024 * 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		mult = 1024
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseUint(s, 0, 31)
	if err != nil {
		return 0, fmt.Errorf("bad size %q: %v", s, err)
	}
	return int(v) * mult, nil
}

// hexdump prints data in the classic 16-bytes-per-line format with an
// address column starting at base.
func hexdump(base uint32, data []byte) {
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		line := data[off:end]

		fmt.Printf("%08X  ", base+uint32(off))
		for i := 0; i < 16; i++ {
			if i == 8 {
				fmt.Print(" ")
			}
			if i < len(line) {
				fmt.Printf("%02X ", line[i])
			} else {
				fmt.Print("   ")
			}
		}
		fmt.Print(" |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7F {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}
