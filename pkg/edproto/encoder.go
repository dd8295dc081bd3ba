// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edproto

import "encoding/binary"

// EncodeCommand builds a 16-byte command frame.
//
// Frame structure:
//
//	['c' 'm' 'd'][OPCODE][ADDR u32 BE][BLOCKS u32 BE][ARG u32 BE]
//
// length is the byte count announced to the device; the frame carries it
// as a 512-byte block count, so it must be block-aligned. Encoding is
// deterministic: the same inputs always produce the same bytes.
func EncodeCommand(opcode byte, addr, length, arg uint32) ([]byte, error) {
	if length%BlockSize != 0 {
		return nil, &PayloadSizeError{Length: int(length), Reason: "not a multiple of the 512-byte device block"}
	}

	frame := make([]byte, FrameSize)
	frame[0] = magic0
	frame[1] = magic1
	frame[2] = magic2
	frame[3] = opcode
	binary.BigEndian.PutUint32(frame[4:8], addr)
	binary.BigEndian.PutUint32(frame[8:12], length/BlockSize)
	binary.BigEndian.PutUint32(frame[12:16], arg)
	return frame, nil
}

// EncodeSaveName builds the fixed 256-byte save-file name block that
// follows an app-start command when a name is supplied. The name is
// zero-padded; names of SaveNameSize bytes or longer are rejected.
func EncodeSaveName(name string) ([]byte, error) {
	if len(name) >= SaveNameSize {
		return nil, &PayloadSizeError{Length: len(name), Reason: "save name does not fit the fixed name block"}
	}
	block := make([]byte, SaveNameSize)
	copy(block, name)
	return block, nil
}

// PadToBlock returns data grown to the next 512-byte boundary, padded
// with 0xFF. Already aligned data is returned unchanged.
func PadToBlock(data []byte) []byte {
	rem := len(data) % BlockSize
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+BlockSize-rem)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = 0xFF
	}
	return padded
}

// AlignToBlock rounds n up to the next 512-byte boundary.
func AlignToBlock(n int) int {
	rem := n % BlockSize
	if rem == 0 {
		return n
	}
	return n + BlockSize - rem
}
