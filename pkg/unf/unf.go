// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

// Package unf implements the UNFLoader debug protocol spoken by homebrew
// running on the console. Debug traffic shares the cartridge's USB link
// with the command protocol: once an image is booted, the device streams
// UNF packets instead of command replies.
//
// Packets are framed with a "DMA@" magic word, a one-byte data type plus
// 24-bit payload size, the payload, a pad byte to 2-byte alignment on
// the outgoing side, and a "CMPH" footer.
package unf

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	packetMagic  = 0x444D4140 // "DMA@"
	packetFooter = 0x434D5048 // "CMPH"

	// MaxDataSize is the largest payload the 24-bit size field can carry.
	MaxDataSize = 0x00FFFFFF
)

// DataType tags the payload of a UNF packet.
type DataType uint8

const (
	TypeText       DataType = 0x01
	TypeBinary     DataType = 0x02
	TypeHeader     DataType = 0x03
	TypeScreenshot DataType = 0x04
	TypeHeartbeat  DataType = 0x05
	TypeRDBPacket  DataType = 0x06
)

func (d DataType) String() string {
	switch d {
	case TypeText:
		return "TEXT"
	case TypeBinary:
		return "BINARY"
	case TypeHeader:
		return "HEADER"
	case TypeScreenshot:
		return "SCREENSHOT"
	case TypeHeartbeat:
		return "HEARTBEAT"
	case TypeRDBPacket:
		return "RDB"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(d))
	}
}

// Packet is one decoded UNF transfer.
type Packet struct {
	Type DataType
	Data []byte
}

// Encode builds a complete outgoing packet around data. The payload is
// padded to 2-byte alignment with 0xFF before the footer, matching what
// the console-side library expects.
func Encode(dtype DataType, data []byte) ([]byte, error) {
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("unf: payload of %d bytes exceeds the 24-bit size field", len(data))
	}

	pad := len(data) & 1
	out := make([]byte, 8+len(data)+pad+4)

	binary.BigEndian.PutUint32(out[0:4], packetMagic)
	binary.BigEndian.PutUint32(out[4:8], uint32(dtype)<<24|uint32(len(data)))
	copy(out[8:], data)
	if pad == 1 {
		out[8+len(data)] = 0xFF
	}
	binary.BigEndian.PutUint32(out[8+len(data)+pad:], packetFooter)

	return out, nil
}

// ReadPacket reads and validates one packet from r. It blocks until a
// full packet arrives or r fails; a malformed magic or footer is
// reported as an error since it means the stream lost framing.
func ReadPacket(r io.Reader) (*Packet, error) {
	var word [4]byte

	if _, err := io.ReadFull(r, word[:]); err != nil {
		return nil, fmt.Errorf("unf: read magic: %w", err)
	}
	if got := binary.BigEndian.Uint32(word[:]); got != packetMagic {
		return nil, fmt.Errorf("unf: bad magic 0x%08X, want 0x%08X", got, uint32(packetMagic))
	}

	if _, err := io.ReadFull(r, word[:]); err != nil {
		return nil, fmt.Errorf("unf: read header: %w", err)
	}
	header := binary.BigEndian.Uint32(word[:])
	dtype := DataType(header >> 24)
	size := header & MaxDataSize

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("unf: read %d-byte payload: %w", size, err)
	}

	if _, err := io.ReadFull(r, word[:]); err != nil {
		return nil, fmt.Errorf("unf: read footer: %w", err)
	}
	if got := binary.BigEndian.Uint32(word[:]); got != packetFooter {
		return nil, fmt.Errorf("unf: bad footer 0x%08X, want 0x%08X", got, uint32(packetFooter))
	}

	return &Packet{Type: dtype, Data: data}, nil
}
