// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"encoding/binary"
	"fmt"

	"github.com/ed64dev/edlink/pkg/edproto"
)

// LoadOptions tunes how an image is placed into ROM space.
type LoadOptions struct {
	// BaseAddr overrides the upload base. Zero selects the base implied
	// by the image header (native base, or the emulator base for images
	// with an unrecognized header word).
	BaseAddr uint32

	// SaveType, when non-zero, is patched into the image header so the
	// EverDrive OS provisions the matching save hardware. Use the
	// edproto.Save* constants.
	SaveType byte

	// Region is combined with SaveType in the header patch. Use the
	// edproto.Region* constants.
	Region byte
}

// NormalizeROM converts an image to the big-endian byte order the
// cartridge expects, probing the header word to detect the source
// order. The input is not modified; the returned slice is the caller's
// to keep. The second result is the upload base implied by the header:
// images with an unrecognized header word are assumed to be emulator
// payloads and get the emulator base.
func NormalizeROM(data []byte) ([]byte, uint32) {
	out := append([]byte(nil), data...)
	if len(out) < 4 {
		return out, edproto.RomBaseAddrEmu
	}

	switch binary.BigEndian.Uint32(out[:4]) {
	case edproto.HeaderMagicNative:
		return out, edproto.RomBaseAddr

	case edproto.HeaderMagicSwapped:
		for i := 0; i+1 < len(out); i += 2 {
			out[i], out[i+1] = out[i+1], out[i]
		}
		return out, edproto.RomBaseAddr

	case edproto.HeaderMagicLittle:
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+3] = out[i+3], out[i]
			out[i+1], out[i+2] = out[i+2], out[i+1]
		}
		return out, edproto.RomBaseAddr

	default:
		return out, edproto.RomBaseAddrEmu
	}
}

// PatchSaveType stamps the save hardware selector and RTC/region code
// into the image header in place. The EverDrive OS reads the marker
// bytes 'E','D' to know the field is present.
func PatchSaveType(data []byte, saveType, region byte) error {
	if len(data) < edproto.HeaderSaveOffset+4 {
		return fmt.Errorf("image too short for header patch: %d bytes", len(data))
	}
	data[edproto.HeaderSaveOffset] = 'E'
	data[edproto.HeaderSaveOffset+1] = 'D'
	data[edproto.HeaderSaveOffset+3] = (saveType & 0xF0) | (region & 0x0F)
	return nil
}

// LoadROM uploads an image into ROM space: byte order is normalized,
// the save-type header patch applied when requested, and the boot CRC
// area zero-filled first for images too short to cover it. opts may be
// nil for defaults.
func (s *Session) LoadROM(data []byte, opts *LoadOptions) error {
	if len(data) == 0 {
		return fmt.Errorf("load rom: empty image")
	}

	image, base := NormalizeROM(data)
	if opts != nil {
		if opts.BaseAddr != 0 {
			base = opts.BaseAddr
		}
		if opts.SaveType != 0 {
			if err := PatchSaveType(image, opts.SaveType, opts.Region); err != nil {
				return fmt.Errorf("load rom: %w", err)
			}
		}
	}

	s.logInfo("loading rom", "base", fmt.Sprintf("0x%08X", base), "length", len(image))

	// The boot CRC covers a fixed span; short images need the remainder
	// cleared so the console's checksum passes.
	if len(image) < edproto.CRCAreaSize {
		if err := s.Fill(base, edproto.CRCAreaSize, 0); err != nil {
			return fmt.Errorf("load rom: clear crc area: %w", err)
		}
	}

	if err := s.Write(SpaceROM, base, image); err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	return nil
}
