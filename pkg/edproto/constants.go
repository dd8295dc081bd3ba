// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

// Package edproto implements the EverDrive-64 USB command protocol.
//
// The cartridge speaks a fixed-size request/response protocol over its
// FTDI serial link: every command is a 16-byte frame and every reply is a
// 16-byte frame. Bulk data for reads and writes travels as a raw byte
// stream immediately after the command that announced it. This package is
// the pure codec layer: it builds command frames and decodes reply frames,
// with no knowledge of transports or sequencing.
package edproto

// Frame geometry. Both directions use fixed 16-byte frames beginning with
// the ASCII magic "cmd".
const (
	FrameSize = 16
	magic0    = 'c'
	magic1    = 'm'
	magic2    = 'd'
)

// ReplyOK is the acknowledge byte carried in a reply frame.
const ReplyOK = 'r'

// Opcodes understood by the EverDrive OS.
const (
	OpStatus   = 't' // handshake / status probe
	OpRomRead  = 'R' // read from ROM space
	OpRomWrite = 'W' // write to ROM space
	OpRomFill  = 'c' // fill a ROM region with a constant
	OpSramRead = 'r' // read from save RAM space
	OpSramWrit = 'w' // write to save RAM space
	OpFpgaInit = 'f' // upload an FPGA configuration
	OpAppStart = 's' // boot the loaded image
)

// The device transfers data in 512-byte blocks; the frame's size field
// counts blocks, not bytes. MaxChunkSize is the default per-command
// transfer size used when streaming bulk data alongside a command.
const (
	BlockSize    = 512
	MaxChunkSize = 0x8000
)

// Well-known addresses in the cartridge address map.
const (
	RomBaseAddr    = 0x10000000 // native ROM image base
	RomBaseAddrEmu = 0x10200000 // base used for emulator images
	SramBaseAddr   = 0x08000000 // save RAM window
)

// Save hardware selectors written into the ROM header at HeaderSaveOffset.
const (
	SaveNone     = 0x00
	SaveEeprom4K = 0x10
	SaveEeprom16 = 0x20
	SaveSram     = 0x30
	SaveSram768K = 0x40
	SaveFlashRAM = 0x50
	SaveSram128K = 0x60
)

// RTC/region selectors combined with the save type in the header patch.
const (
	RegionNone = 0x00
	RegionRTC  = 0x01
	RegionFree = 0x02
	RegionAll  = 0x03
)

// ROM header layout used by the loader.
const (
	HeaderMagicNative  = 0x80371240 // big-endian native image
	HeaderMagicSwapped = 0x37804012 // byte-swapped image, swap every 2
	HeaderMagicLittle  = 0x40123780 // little-endian image, swap every 4
	HeaderSaveOffset   = 0x3C       // 'E','D', pad, save|region
	CRCAreaSize        = 0x101000   // region covered by the boot CRC
)

// SaveNameSize is the fixed length of the save-file name block that
// follows an app-start command when a name is supplied.
const SaveNameSize = 256
