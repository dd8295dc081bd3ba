// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edproto

import "fmt"

// TruncatedError reports a reply shorter than the fixed frame size.
// The in-flight exchange cannot be recovered; the caller should treat
// the link as desynchronized.
type TruncatedError struct {
	Got int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated reply: got %d bytes, frame is %d", e.Got, FrameSize)
}

// MalformedError reports a reply whose magic or acknowledge byte does not
// match the expected frame shape.
type MalformedError struct {
	Want byte
	Got  [4]byte
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed reply: got % X, want \"cmd%c\"", e.Got[:], e.Want)
}

// DeviceFault is an error explicitly reported by the cartridge in a reply
// frame's code field. The raw code is preserved for caller interpretation.
type DeviceFault struct {
	Code byte
}

func (e *DeviceFault) Error() string {
	return fmt.Sprintf("device reported fault: %s (0x%02X)", faultName(e.Code), e.Code)
}

// PayloadSizeError reports a single-command payload that violates the
// protocol's size rules. The session layer always chunks and aligns
// transfers, so seeing this error indicates a programming error rather
// than a runtime fault.
type PayloadSizeError struct {
	Length int
	Reason string
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("invalid payload length %d: %s", e.Length, e.Reason)
}

func faultName(code byte) string {
	switch code {
	case 0x01:
		return "invalid address"
	case 0x02:
		return "busy"
	case 0x03:
		return "unsupported command"
	case 0x04:
		return "sd card error"
	default:
		return "unknown fault"
	}
}
