// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package capture

import (
	"io"
	"time"
)

// Conn is the transport shape the tap can wrap. It mirrors the session
// layer's Transport so a tapped connection drops in transparently.
type Conn interface {
	io.ReadWriteCloser
	SetReadTimeout(timeout time.Duration) error
	Flush() error
}

type tappedConn struct {
	inner Conn
	w     *Writer
}

// Tap wraps conn so every successful read and write is also appended to
// w. Capture failures are ignored: wire traffic must never stall on the
// trace sink.
func Tap(conn Conn, w *Writer) Conn {
	return &tappedConn{inner: conn, w: w}
}

func (t *tappedConn) Read(p []byte) (int, error) {
	n, err := t.inner.Read(p)
	if n > 0 {
		_ = t.w.Write(DirReceive, p[:n])
	}
	return n, err
}

func (t *tappedConn) Write(p []byte) (int, error) {
	n, err := t.inner.Write(p)
	if n > 0 {
		_ = t.w.Write(DirSend, p[:n])
	}
	return n, err
}

func (t *tappedConn) Close() error { return t.inner.Close() }

func (t *tappedConn) SetReadTimeout(timeout time.Duration) error {
	return t.inner.SetReadTimeout(timeout)
}

func (t *tappedConn) Flush() error { return t.inner.Flush() }
