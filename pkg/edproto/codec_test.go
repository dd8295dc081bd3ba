// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edproto

import (
	"bytes"
	"errors"
	"testing"
)

// ============================================================
// Command encoding
// ============================================================

func TestEncodeCommand_StatusFrame(t *testing.T) {
	frame, err := EncodeCommand(OpStatus, 0, 0, 0)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	want := []byte{
		'c', 'm', 'd', 't',
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame mismatch:\n got  % X\n want % X", frame, want)
	}
}

func TestEncodeCommand_RomWriteFrame(t *testing.T) {
	frame, err := EncodeCommand(OpRomWrite, RomBaseAddr, 0x1000, 0)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if got := len(frame); got != FrameSize {
		t.Fatalf("frame length = %d, want %d", got, FrameSize)
	}
	// Address is big-endian at bytes 4..8.
	if frame[4] != 0x10 || frame[5] != 0x00 || frame[6] != 0x00 || frame[7] != 0x00 {
		t.Errorf("address bytes = % X", frame[4:8])
	}
	// 0x1000 bytes = 8 blocks, big-endian at bytes 8..12.
	if frame[8] != 0 || frame[9] != 0 || frame[10] != 0 || frame[11] != 8 {
		t.Errorf("block count bytes = % X, want 8 blocks", frame[8:12])
	}
}

func TestEncodeCommand_Deterministic(t *testing.T) {
	a, err := EncodeCommand(OpRomFill, RomBaseAddr, BlockSize, 0xFF)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	b, err := EncodeCommand(OpRomFill, RomBaseAddr, BlockSize, 0xFF)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same inputs produced different frames")
	}
}

func TestEncodeCommand_SizeRules(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
		ok     bool
	}{
		{"zero", 0, true},
		{"one block", BlockSize, true},
		{"max chunk", MaxChunkSize, true},
		{"whole crc area", CRCAreaSize, true},
		{"unaligned", 100, false},
		{"unaligned tail", MaxChunkSize - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeCommand(OpRomWrite, RomBaseAddr, tt.length, 0)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				var sizeErr *PayloadSizeError
				if !errors.As(err, &sizeErr) {
					t.Errorf("expected PayloadSizeError, got %v", err)
				}
			}
		})
	}
}

func TestEncodeSaveName(t *testing.T) {
	block, err := EncodeSaveName("game.z64")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if len(block) != SaveNameSize {
		t.Fatalf("block length = %d, want %d", len(block), SaveNameSize)
	}
	if string(block[:8]) != "game.z64" {
		t.Errorf("name bytes = %q", block[:8])
	}
	if block[8] != 0 || block[SaveNameSize-1] != 0 {
		t.Error("padding is not zeroed")
	}

	long := make([]byte, SaveNameSize)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := EncodeSaveName(string(long)); err == nil {
		t.Error("expected error for oversized name")
	}
}

// ============================================================
// Block alignment helpers
// ============================================================

func TestPadToBlock(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		wantLen int
	}{
		{"empty", 0, 0},
		{"aligned", BlockSize, BlockSize},
		{"one byte", 1, BlockSize},
		{"just over", BlockSize + 1, 2 * BlockSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xAB}, tt.in)
			out := PadToBlock(data)
			if len(out) != tt.wantLen {
				t.Fatalf("padded length = %d, want %d", len(out), tt.wantLen)
			}
			if !bytes.Equal(out[:tt.in], data) {
				t.Error("padding corrupted original data")
			}
			for i := tt.in; i < len(out); i++ {
				if out[i] != 0xFF {
					t.Fatalf("pad byte at %d = 0x%02X, want 0xFF", i, out[i])
				}
			}
		})
	}
}

func TestAlignToBlock(t *testing.T) {
	if got := AlignToBlock(0); got != 0 {
		t.Errorf("AlignToBlock(0) = %d", got)
	}
	if got := AlignToBlock(1); got != BlockSize {
		t.Errorf("AlignToBlock(1) = %d", got)
	}
	if got := AlignToBlock(BlockSize); got != BlockSize {
		t.Errorf("AlignToBlock(BlockSize) = %d", got)
	}
}

// ============================================================
// Reply decoding
// ============================================================

func okReply() []byte {
	buf := make([]byte, FrameSize)
	copy(buf, []byte{'c', 'm', 'd', ReplyOK})
	return buf
}

func TestDecodeReply_OK(t *testing.T) {
	reply, err := DecodeReply(okReply(), ReplyOK)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if reply.Reply != ReplyOK {
		t.Errorf("reply byte = %c, want %c", reply.Reply, ReplyOK)
	}
	if reply.Code != 0 {
		t.Errorf("code = 0x%02X, want 0", reply.Code)
	}
}

func TestDecodeReply_Truncated(t *testing.T) {
	for _, n := range []int{0, 1, 4, FrameSize - 1} {
		_, err := DecodeReply(okReply()[:n], ReplyOK)
		var trunc *TruncatedError
		if !errors.As(err, &trunc) {
			t.Fatalf("len %d: expected TruncatedError, got %v", n, err)
		}
		if trunc.Got != n {
			t.Errorf("len %d: TruncatedError.Got = %d", n, trunc.Got)
		}
	}
}

func TestDecodeReply_BadMagic(t *testing.T) {
	buf := okReply()
	buf[0] = 'x'
	_, err := DecodeReply(buf, ReplyOK)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
}

func TestDecodeReply_WrongAck(t *testing.T) {
	buf := okReply()
	buf[3] = 'z'
	_, err := DecodeReply(buf, ReplyOK)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if malformed.Want != ReplyOK {
		t.Errorf("MalformedError.Want = %c", malformed.Want)
	}
}

func TestDecodeReply_DeviceFault(t *testing.T) {
	buf := okReply()
	buf[4] = 0x03
	_, err := DecodeReply(buf, ReplyOK)
	var fault *DeviceFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected DeviceFault, got %v", err)
	}
	if fault.Code != 0x03 {
		t.Errorf("fault code = 0x%02X, want 0x03", fault.Code)
	}
}
