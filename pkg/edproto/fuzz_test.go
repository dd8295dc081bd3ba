// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edproto

import (
	"errors"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// newFuzzRng creates a random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := time.Now().UnixNano()
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if s, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			seed = s
		}
	}
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// ============================================================
// Reply decoder fuzz tests
// ============================================================

// TestFuzz_DecodeReply_RandomBytes feeds random buffers to the decoder and
// checks it never succeeds on garbage and never panics.
func TestFuzz_DecodeReply_RandomBytes(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		buf := make([]byte, rng.Intn(64))
		rng.Read(buf)

		reply, err := DecodeReply(buf, ReplyOK)
		if err != nil {
			continue
		}
		// A successful decode must have had the full magic and a zero code.
		if len(buf) < FrameSize {
			t.Fatalf("round %d: decoded a %d-byte buffer", i, len(buf))
		}
		if buf[0] != magic0 || buf[1] != magic1 || buf[2] != magic2 || buf[3] != ReplyOK {
			t.Fatalf("round %d: decoded buffer with bad header % X", i, buf[:4])
		}
		if reply.Code != 0 {
			t.Fatalf("round %d: decode succeeded with non-zero code 0x%02X", i, reply.Code)
		}
	}
}

// TestFuzz_DecodeReply_CorruptedOK flips one byte of a valid reply and
// verifies corruption in the header region is always detected.
func TestFuzz_DecodeReply_CorruptedOK(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		buf := make([]byte, FrameSize)
		copy(buf, []byte{'c', 'm', 'd', ReplyOK})

		pos := rng.Intn(5)
		old := buf[pos]
		for buf[pos] == old {
			buf[pos] = byte(rng.Intn(256))
		}

		_, err := DecodeReply(buf, ReplyOK)
		if err == nil {
			t.Fatalf("round %d: corruption at byte %d went undetected", i, pos)
		}
		var malformed *MalformedError
		var fault *DeviceFault
		if !errors.As(err, &malformed) && !errors.As(err, &fault) {
			t.Fatalf("round %d: unexpected error class %T: %v", i, err, err)
		}
	}
}

// ============================================================
// Encoder fuzz tests
// ============================================================

// TestFuzz_EncodeCommand_AlignedLengths encodes random aligned commands and
// verifies the frame invariants hold.
func TestFuzz_EncodeCommand_AlignedLengths(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	opcodes := []byte{OpStatus, OpRomRead, OpRomWrite, OpRomFill, OpSramRead, OpSramWrit, OpFpgaInit, OpAppStart}

	for i := 0; i < rounds; i++ {
		op := opcodes[rng.Intn(len(opcodes))]
		addr := rng.Uint32()
		length := uint32(rng.Intn(MaxChunkSize/BlockSize+1)) * BlockSize
		arg := rng.Uint32()

		frame, err := EncodeCommand(op, addr, length, arg)
		if err != nil {
			t.Fatalf("round %d: encode error for aligned length %d: %v", i, length, err)
		}
		if len(frame) != FrameSize {
			t.Fatalf("round %d: frame length %d", i, len(frame))
		}
		if frame[0] != 'c' || frame[1] != 'm' || frame[2] != 'd' || frame[3] != op {
			t.Fatalf("round %d: frame header % X", i, frame[:4])
		}
		blocks := uint32(frame[8])<<24 | uint32(frame[9])<<16 | uint32(frame[10])<<8 | uint32(frame[11])
		if blocks != length/BlockSize {
			t.Fatalf("round %d: block count %d, want %d", i, blocks, length/BlockSize)
		}
	}
}
