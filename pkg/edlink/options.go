// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"github.com/ed64dev/edlink/pkg/capture"
	"github.com/ed64dev/edlink/pkg/edproto"
)

// Logger is the structured logging capability a Session accepts. It is
// optional; a nil logger disables logging. The CLI injects a
// zerolog-backed implementation.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type config struct {
	logger    Logger
	chunkSize int
	capture   *capture.Writer
}

func defaultConfig() config {
	return config{
		chunkSize: edproto.MaxChunkSize,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*config)

// WithLogger sets a logger for session operations.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithChunkSize caps the payload moved per command. The size must be a
// positive multiple of the 512-byte device block and no larger than the
// protocol maximum; out-of-range values are ignored.
func WithChunkSize(size int) Option {
	return func(c *config) {
		if size > 0 && size <= edproto.MaxChunkSize && size%edproto.BlockSize == 0 {
			c.chunkSize = size
		}
	}
}

// WithCapture taps all transport traffic into w for offline inspection.
func WithCapture(w *capture.Writer) Option {
	return func(c *config) {
		c.capture = w
	}
}
