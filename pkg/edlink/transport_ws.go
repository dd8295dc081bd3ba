// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when reading from a closed websocket
// bridge connection.
var ErrConnectionClosed = errors.New("websocket connection closed")

// WebsocketOptions configures a bridge connection to a remote cartridge
// host exposing the serial link over a websocket.
type WebsocketOptions struct {
	// Username and Password enable HTTP Basic auth when both are set.
	Username string
	Password string

	// SkipTLSVerify disables certificate verification for wss:// URLs.
	SkipTLSVerify bool

	// HandshakeTimeout bounds the websocket dial. Zero means 10s.
	HandshakeTimeout time.Duration
}

// wsTransport adapts a websocket connection carrying binary messages to
// the byte-oriented Transport contract.
type wsTransport struct {
	conn        *websocket.Conn
	buf         []byte
	bufOffset   int
	readTimeout time.Duration
	closed      bool
}

func (w *wsTransport) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}

	// Drain buffered data from a previous message first.
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	if w.readTimeout > 0 {
		if err := w.conn.SetReadDeadline(time.Now().Add(w.readTimeout)); err != nil {
			return 0, err
		}
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				// Deadline expired with no message. The Transport
				// contract reports timeouts as a zero-byte read.
				w.closed = true
				return 0, nil
			}
			w.closed = true
			return 0, err
		}

		// The bridge carries raw serial bytes as binary messages only.
		if messageType != websocket.BinaryMessage {
			continue
		}

		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *wsTransport) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsTransport) Close() error {
	w.closed = true
	return w.conn.Close()
}

// SetReadTimeout bounds each Read. Zero disables the deadline: reads
// block until a message arrives or the connection closes. An expired
// deadline kills the underlying websocket connection, so a timeout is
// only appropriate for command traffic where silence means a failed
// exchange, never for following an idle stream.
func (w *wsTransport) SetReadTimeout(timeout time.Duration) error {
	w.readTimeout = timeout
	return nil
}

func (w *wsTransport) Flush() error {
	w.buf = nil
	w.bufOffset = 0
	return nil
}

// OpenWebsocket connects to a remote cartridge bridge at wsURL (ws:// or
// wss://) and returns the connection as a Transport.
func OpenWebsocket(wsURL string, opts WebsocketOptions) (Transport, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q (use ws:// or wss://)", u.Scheme)
	}

	handshakeTimeout := opts.HandshakeTimeout
	if handshakeTimeout == 0 {
		handshakeTimeout = 10 * time.Second
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: opts.SkipTLSVerify,
		}
	}

	headers := http.Header{}
	if opts.Username != "" && opts.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	conn, resp, err := dialer.Dial(wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket connection failed: %w", err)
	}

	return &wsTransport{conn: conn}, nil
}
