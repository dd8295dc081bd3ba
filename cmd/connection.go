// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 the edlink authors

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/ed64dev/edlink/pkg/capture"
	"github.com/ed64dev/edlink/pkg/edlink"
)

// sessionLogger adapts the CLI's zerolog logger to the session layer's
// logging capability.
type sessionLogger struct {
	log zerolog.Logger
}

func (l sessionLogger) Debug(msg string, keysAndValues ...interface{}) {
	logEvent(l.log.Debug(), msg, keysAndValues)
}

func (l sessionLogger) Info(msg string, keysAndValues ...interface{}) {
	logEvent(l.log.Info(), msg, keysAndValues)
}

func (l sessionLogger) Error(msg string, keysAndValues ...interface{}) {
	logEvent(l.log.Error(), msg, keysAndValues)
}

func logEvent(ev *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		ev = ev.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	ev.Msg(msg)
}

// getPassword retrieves the bridge password from the environment or
// prompts the user without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("EDLINK_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fall back to plain input when stdin is not a terminal.
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// openTransport opens the raw byte link per the connection flags:
// websocket bridge when --url is set, the named serial port when --port
// is set, otherwise USB autodetection.
func openTransport() (edlink.Transport, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		transport, err := edlink.OpenWebsocket(wsURL, edlink.WebsocketOptions{
			Username:      wsUsername,
			Password:      password,
			SkipTLSVerify: wsNoSSLVerify,
		})
		if err != nil {
			return nil, "", err
		}
		return transport, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	name := portName
	if name == "" {
		var err error
		name, err = edlink.FindPort()
		if err != nil {
			return nil, "", err
		}
		log.Debug().Str("port", name).Msg("autodetected cartridge port")
	}

	transport, err := edlink.OpenSerial(name)
	if err != nil {
		return nil, "", err
	}
	return transport, fmt.Sprintf("Serial: %s @ %d baud", name, edlink.BaudRate), nil
}

// openCapture opens the wire-capture sink when --capture is set. The
// second return closes the file; it is a no-op when capture is off.
func openCapture() (*capture.Writer, func(), error) {
	if capturePath == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(capturePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open capture file: %w", err)
	}
	log.Info().Str("path", capturePath).Msg("recording wire traffic")
	return capture.NewWriter(f), func() { f.Close() }, nil
}

// openSession opens a transport and performs the command handshake. The
// returned cleanup closes the session and any capture file.
func openSession() (*edlink.Session, string, func(), error) {
	transport, info, err := openTransport()
	if err != nil {
		return nil, "", nil, err
	}

	cw, closeCapture, err := openCapture()
	if err != nil {
		transport.Close()
		return nil, "", nil, err
	}

	opts := []edlink.Option{
		edlink.WithLogger(sessionLogger{log: log}),
	}
	if chunkSize > 0 {
		opts = append(opts, edlink.WithChunkSize(chunkSize))
	}
	if cw != nil {
		opts = append(opts, edlink.WithCapture(cw))
	}

	session, err := edlink.Open(transport, cmdTimeout, opts...)
	if err != nil {
		closeCapture()
		return nil, "", nil, err
	}

	cleanup := func() {
		session.Close()
		closeCapture()
	}
	return session, info, cleanup, nil
}

// openStream opens a raw transport for following the debug stream, with
// the wire capture tap applied when requested. Serial reads poll on the
// given timeout per the Transport contract; the websocket bridge reads
// without a deadline, because a gorilla connection does not survive an
// expired read deadline, and an idle console must not kill the stream.
// Cancellation comes from closing the transport.
func openStream(readTimeout time.Duration) (edlink.Transport, string, func(), error) {
	transport, info, err := openTransport()
	if err != nil {
		return nil, "", nil, err
	}
	if wsURL == "" {
		if err := transport.SetReadTimeout(readTimeout); err != nil {
			transport.Close()
			return nil, "", nil, err
		}
	}

	cw, closeCapture, err := openCapture()
	if err != nil {
		transport.Close()
		return nil, "", nil, err
	}

	stream := transport
	if cw != nil {
		stream = capture.Tap(transport, cw).(edlink.Transport)
	}

	cleanup := func() {
		transport.Close()
		closeCapture()
	}
	return stream, info, cleanup, nil
}
