// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// The EverDrive-64 enumerates as a stock FTDI FT232 serial bridge.
const (
	usbVendorID  = "0403"
	usbProductID = "6001"

	// BaudRate is the link speed the cartridge firmware expects.
	BaudRate = 115200
)

// Transport is the byte-level capability a Session needs to talk to the
// device. Implementations exist for USB serial and for a websocket
// bridge; tests substitute scripted stubs.
type Transport interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds each Read call. A timed-out Read returns
	// zero bytes without an error.
	SetReadTimeout(timeout time.Duration) error

	// Flush discards any buffered input data.
	Flush() error
}

// serialTransport wraps a serial port.
type serialTransport struct {
	port serial.Port
}

func (s *serialTransport) Read(p []byte) (int, error)  { return s.port.Read(p) }
func (s *serialTransport) Write(p []byte) (int, error) { return s.port.Write(p) }
func (s *serialTransport) Close() error                { return s.port.Close() }

func (s *serialTransport) SetReadTimeout(timeout time.Duration) error {
	return s.port.SetReadTimeout(timeout)
}

func (s *serialTransport) Flush() error {
	return s.port.ResetInputBuffer()
}

// FindPort enumerates USB serial ports and returns the name of the first
// one matching the cartridge's FTDI vendor/product identifiers. Returns
// ErrNotFound when no port matches.
func FindPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate serial ports: %w", err)
	}

	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		if strings.EqualFold(p.VID, usbVendorID) && strings.EqualFold(p.PID, usbProductID) {
			return p.Name, nil
		}
	}
	return "", ErrNotFound
}

// OpenSerial opens the named port at the cartridge's fixed line settings
// and returns it as a Transport. Open failures map to ErrBusy: the
// device is present but another process may hold the port.
func OpenSerial(portName string) (Transport, error) {
	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrBusy, portName, err)
	}

	return &serialTransport{port: port}, nil
}
