// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBridge runs a websocket endpoint that hands the server side of
// each connection to handler.
func startBridge(t *testing.T, handler func(*websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// A quiet console must not kill the stream: with no read deadline set,
// a read outlives an idle gap and returns the next message.
func TestWebsocket_IdleThenDeliver(t *testing.T) {
	payload := []byte("DMA@ after a quiet spell")
	done := make(chan struct{})
	url := startBridge(t, func(conn *websocket.Conn) {
		time.Sleep(500 * time.Millisecond)
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			t.Errorf("server write: %v", err)
		}
		<-done
	})
	defer close(done)

	transport, err := OpenWebsocket(url, WebsocketOptions{})
	require.NoError(t, err)
	defer transport.Close()

	buf := make([]byte, 64)
	n, err := transport.Read(buf)
	require.NoError(t, err, "transport unusable across an idle gap")
	assert.Equal(t, payload, buf[:n])
}

// A short message is drained across multiple reads before the next
// message is pulled from the connection.
func TestWebsocket_BufferedMessageDrain(t *testing.T) {
	done := make(chan struct{})
	url := startBridge(t, func(conn *websocket.Conn) {
		if err := conn.WriteMessage(websocket.BinaryMessage, []byte("abcdef")); err != nil {
			t.Errorf("server write: %v", err)
		}
		<-done
	})
	defer close(done)

	transport, err := OpenWebsocket(url, WebsocketOptions{})
	require.NoError(t, err)
	defer transport.Close()

	buf := make([]byte, 4)
	n, err := transport.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf[:n]))

	n, err = transport.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ef", string(buf[:n]))
}

// An expired read deadline is terminal for the websocket connection:
// the timeout surfaces as a zero-byte read, and the transport reports
// closed afterwards. This is why follow streams read without a
// deadline.
func TestWebsocket_DeadlineExpiryIsTerminal(t *testing.T) {
	done := make(chan struct{})
	url := startBridge(t, func(conn *websocket.Conn) {
		<-done // never send anything
	})
	defer close(done)

	transport, err := OpenWebsocket(url, WebsocketOptions{})
	require.NoError(t, err)
	defer transport.Close()
	require.NoError(t, transport.SetReadTimeout(100*time.Millisecond))

	buf := make([]byte, 16)
	n, err := transport.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n, "timeout reports as a zero-byte read")

	_, err = transport.Read(buf)
	assert.ErrorIs(t, err, ErrConnectionClosed)
}
