// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"errors"
	"fmt"
	"time"
)

// Session creation failures. Both are retryable from the caller's side:
// the device may be plugged in or released later.
var (
	// ErrNotFound means no matching USB serial device was enumerated.
	ErrNotFound = errors.New("no EverDrive USB device found")

	// ErrBusy means a matching device exists but its port could not be
	// opened or claimed.
	ErrBusy = errors.New("EverDrive device busy or unopenable")
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session is closed")

// TimeoutError reports a transport round-trip that produced no data
// within the session's configured timeout. The outcome of the in-flight
// command is unknown: the device may or may not have executed it, so the
// session never retries automatically. Reads are safe for the caller to
// retry; writes are not guaranteed idempotent at the device.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no response within %s", e.Op, e.After)
}

// Timeout marks the error as a timeout for callers using net.Error-style
// probing.
func (e *TimeoutError) Timeout() bool { return true }

// IsTimeout reports whether err is (or wraps) a round-trip timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
