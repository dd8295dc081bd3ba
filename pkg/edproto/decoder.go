// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edproto

// Reply is a decoded response frame.
//
// Frame structure:
//
//	['c' 'm' 'd'][REPLY][CODE][... zero padding to 16 bytes]
//
// Reply is the acknowledge byte (ReplyOK on success) and Code is the
// device-reported status, zero when the command succeeded.
type Reply struct {
	Reply byte
	Code  byte
}

// DecodeReply validates a raw reply frame and extracts its fields.
// want is the acknowledge byte the caller expects (ReplyOK for every
// command the EverDrive OS currently implements).
//
// Decoding is all-or-nothing: on any error the returned Reply is nil and
// no caller state has been touched. Errors:
//   - *TruncatedError when fewer than FrameSize bytes are available
//   - *MalformedError when the magic or acknowledge byte is wrong
//   - *DeviceFault when the frame is well-formed but the code field is
//     non-zero
func DecodeReply(buf []byte, want byte) (*Reply, error) {
	if len(buf) < FrameSize {
		return nil, &TruncatedError{Got: len(buf)}
	}
	if buf[0] != magic0 || buf[1] != magic1 || buf[2] != magic2 || buf[3] != want {
		return nil, &MalformedError{Want: want, Got: [4]byte{buf[0], buf[1], buf[2], buf[3]}}
	}
	if buf[4] != 0 {
		return nil, &DeviceFault{Code: buf[4]}
	}
	return &Reply{Reply: buf[3], Code: buf[4]}, nil
}
