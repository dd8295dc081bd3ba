// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

// Package edlink drives an EverDrive-64 flash cartridge over its USB
// serial link: device discovery, the command/response session, chunked
// transfers to and from the cartridge's memory spaces, and ROM loading.
//
// The wire codec lives in package edproto; this package owns the open
// transport and the sequencing discipline around it.
package edlink

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ed64dev/edlink/pkg/capture"
	"github.com/ed64dev/edlink/pkg/edproto"
)

// MemorySpace selects which of the cartridge's addressable regions an
// operation targets.
type MemorySpace int

const (
	SpaceROM MemorySpace = iota
	SpaceSRAM
)

func (m MemorySpace) String() string {
	switch m {
	case SpaceROM:
		return "rom"
	case SpaceSRAM:
		return "sram"
	default:
		return fmt.Sprintf("space(%d)", int(m))
	}
}

func (m MemorySpace) readOpcode() (byte, error) {
	switch m {
	case SpaceROM:
		return edproto.OpRomRead, nil
	case SpaceSRAM:
		return edproto.OpSramRead, nil
	default:
		return 0, fmt.Errorf("unknown memory space %d", int(m))
	}
}

func (m MemorySpace) writeOpcode() (byte, error) {
	switch m {
	case SpaceROM:
		return edproto.OpRomWrite, nil
	case SpaceSRAM:
		return edproto.OpSramWrit, nil
	default:
		return 0, fmt.Errorf("unknown memory space %d", int(m))
	}
}

// StatusInfo is the device state reported by a status probe.
type StatusInfo struct {
	// Ready is true when the cartridge acknowledged cleanly.
	Ready bool

	// Code is the raw device status code; zero when Ready.
	Code byte
}

// Session owns an open transport to one cartridge and sequences commands
// over it. At most one command is in flight at any time: the device
// processes a command/response pair before accepting the next, and
// replies carry no request IDs to reassociate out-of-order responses.
// A mutex serializes the public operations, so a Session may be shared,
// but operations from concurrent callers execute strictly one at a time.
//
// The transport handle is exclusively owned for the Session's lifetime
// and is released by Close.
type Session struct {
	mu        sync.Mutex
	transport Transport
	timeout   time.Duration
	chunkSize int
	logger    Logger
	closed    bool
}

// New discovers the cartridge on the USB bus, opens its serial port and
// performs the status handshake. timeout bounds every transport
// round-trip for the life of the session.
//
// Errors: ErrNotFound when no matching device is enumerated, ErrBusy
// when the port exists but cannot be opened.
func New(timeout time.Duration, opts ...Option) (*Session, error) {
	portName, err := FindPort()
	if err != nil {
		return nil, err
	}

	transport, err := OpenSerial(portName)
	if err != nil {
		return nil, err
	}

	return Open(transport, timeout, opts...)
}

// Open builds a session over a caller-supplied transport (a websocket
// bridge, or a stub in tests) and performs the status handshake. On
// handshake failure the transport is closed before returning.
func Open(transport Transport, timeout time.Duration, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.capture != nil {
		transport = capture.Tap(transport, cfg.capture)
	}

	if err := transport.SetReadTimeout(timeout); err != nil {
		transport.Close()
		return nil, fmt.Errorf("configure read timeout: %w", err)
	}

	s := &Session{
		transport: transport,
		timeout:   timeout,
		chunkSize: cfg.chunkSize,
		logger:    cfg.logger,
	}

	info, err := s.Status()
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("status handshake: %w", err)
	}
	if !info.Ready {
		transport.Close()
		return nil, fmt.Errorf("status handshake: %w", &edproto.DeviceFault{Code: info.Code})
	}

	s.logDebug("session open", "timeout", timeout.String(), "chunk_size", s.chunkSize)
	return s, nil
}

// Close releases the underlying transport. The session is unusable
// afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.transport.Close()
}

// Status sends the status probe and reports the device's state. A
// device-reported code is returned in StatusInfo rather than as an
// error; transport and framing failures are errors.
func (s *Session) Status() (*StatusInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	if err := s.command("status", edproto.OpStatus, 0, 0, 0); err != nil {
		return nil, err
	}

	err := s.awaitReply("status")
	if err != nil {
		var fault *edproto.DeviceFault
		if errors.As(err, &fault) {
			return &StatusInfo{Ready: false, Code: fault.Code}, nil
		}
		return nil, err
	}
	return &StatusInfo{Ready: true}, nil
}

// Read transfers length bytes starting at addr in the given memory
// space. The transfer is split into chunks of at most the configured
// chunk size, issued strictly in ascending address order; the first
// failing chunk aborts the call and no later chunks are attempted.
//
// The device moves data in 512-byte blocks, so an unaligned tail is
// over-read and trimmed before returning.
func (s *Session) Read(space MemorySpace, addr uint32, length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%s read: negative length %d", space, length)
	}
	if length == 0 {
		return []byte{}, nil
	}

	opcode, err := space.readOpcode()
	if err != nil {
		return nil, err
	}
	op := space.String() + " read"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	aligned := edproto.AlignToBlock(length)
	buf := make([]byte, aligned)
	chunks := PlanChunks(aligned, s.chunkSize)
	s.logDebug("read", "space", space.String(), "addr", fmt.Sprintf("0x%08X", addr), "length", length, "chunks", len(chunks))

	for _, ch := range chunks {
		if err := s.command(op, opcode, addr+uint32(ch.Offset), uint32(ch.Length), 0); err != nil {
			return nil, err
		}
		if err := s.readFull(op, buf[ch.Offset:ch.Offset+ch.Length]); err != nil {
			return nil, err
		}
	}

	return buf[:length], nil
}

// Write transfers data to addr in the given memory space, chunked and
// ordered the same way as Read. Each chunk is acknowledged by the device
// before the next is sent; the first failure aborts the call, leaving
// bytes from completed chunks written.
//
// An unaligned tail is padded to the 512-byte device block with 0xFF,
// which overwrites up to 511 bytes beyond the caller's data.
func (s *Session) Write(space MemorySpace, addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	opcode, err := space.writeOpcode()
	if err != nil {
		return err
	}
	op := space.String() + " write"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	padded := edproto.PadToBlock(data)
	chunks := PlanChunks(len(padded), s.chunkSize)
	s.logDebug("write", "space", space.String(), "addr", fmt.Sprintf("0x%08X", addr), "length", len(data), "chunks", len(chunks))

	for _, ch := range chunks {
		if err := s.command(op, opcode, addr+uint32(ch.Offset), uint32(ch.Length), 0); err != nil {
			return err
		}
		if err := s.send(op, padded[ch.Offset:ch.Offset+ch.Length]); err != nil {
			return err
		}
		if err := s.awaitReply(op); err != nil {
			return err
		}
	}

	return nil
}

// Fill writes the low byte of value over length bytes of ROM starting at
// addr, executed device-side. length is rounded up to the 512-byte
// block.
func (s *Session) Fill(addr uint32, length int, value byte) error {
	if length <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	aligned := edproto.AlignToBlock(length)
	s.logDebug("fill", "addr", fmt.Sprintf("0x%08X", addr), "length", aligned, "value", value)

	if err := s.command("rom fill", edproto.OpRomFill, addr, uint32(aligned), uint32(value)); err != nil {
		return err
	}
	return s.awaitReply("rom fill")
}

// InitFPGA uploads an FPGA configuration image. The image is padded to
// the 512-byte block before streaming.
func (s *Session) InitFPGA(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("fpga init: empty image")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	padded := edproto.PadToBlock(data)
	s.logDebug("fpga init", "length", len(padded))

	if err := s.command("fpga init", edproto.OpFpgaInit, 0, uint32(len(padded)), 0); err != nil {
		return err
	}
	if err := s.send("fpga init", padded); err != nil {
		return err
	}
	return s.awaitReply("fpga init")
}

// Boot starts the image previously loaded into ROM space. saveName, when
// non-empty, names the save file on the cartridge's SD card; it is sent
// as a fixed 256-byte block after the command. The device boots into
// the image immediately, so no acknowledgement is read.
func (s *Session) Boot(saveName string) error {
	var nameBlock []byte
	if saveName != "" {
		var err error
		nameBlock, err = edproto.EncodeSaveName(saveName)
		if err != nil {
			return fmt.Errorf("boot: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	arg := uint32(0)
	if nameBlock != nil {
		arg = 1
	}
	s.logDebug("boot", "save_name", saveName)

	if err := s.command("boot", edproto.OpAppStart, 0, 0, arg); err != nil {
		return err
	}
	if nameBlock != nil {
		return s.send("boot", nameBlock)
	}
	return nil
}

// command encodes and transmits one command frame.
func (s *Session) command(op string, opcode byte, addr, length, arg uint32) error {
	frame, err := edproto.EncodeCommand(opcode, addr, length, arg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.send(op, frame)
}

// send writes the full buffer to the transport.
func (s *Session) send(op string, buf []byte) error {
	for len(buf) > 0 {
		n, err := s.transport.Write(buf)
		if err != nil {
			return fmt.Errorf("%s: transport write: %w", op, err)
		}
		buf = buf[n:]
	}
	return nil
}

// readFull fills buf from the transport. A read that makes no progress
// means the configured timeout elapsed with no data; the transport
// contract reports that as a zero-byte read without an error.
func (s *Session) readFull(op string, buf []byte) error {
	for filled := 0; filled < len(buf); {
		n, err := s.transport.Read(buf[filled:])
		if err != nil {
			return fmt.Errorf("%s: transport read: %w", op, err)
		}
		if n == 0 {
			return &TimeoutError{Op: op, After: s.timeout}
		}
		filled += n
	}
	return nil
}

// awaitReply reads and validates one reply frame.
func (s *Session) awaitReply(op string) error {
	buf := make([]byte, edproto.FrameSize)
	if err := s.readFull(op, buf); err != nil {
		return err
	}
	if _, err := edproto.DecodeReply(buf, edproto.ReplyOK); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, keysAndValues...)
	}
}

func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, keysAndValues...)
	}
}
