// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

// Package capture records raw transport traffic as a stream of CBOR
// records, one per send or receive, for offline wire debugging and for
// replaying sessions in tests.
package capture

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Traffic directions.
const (
	DirSend    = "tx"
	DirReceive = "rx"
)

// Record is one captured transfer.
type Record struct {
	T    time.Time `cbor:"1,keyasint"`
	Dir  string    `cbor:"2,keyasint"`
	Data []byte    `cbor:"3,keyasint"`
}

// Writer appends records to an underlying stream. It is safe for use
// from a single session; writes are serialized internally.
type Writer struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

// NewWriter creates a capture writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write appends one record. The data slice is copied before encoding so
// callers may reuse their buffers.
func (c *Writer) Write(dir string, data []byte) error {
	rec := Record{
		T:    time.Now(),
		Dir:  dir,
		Data: append([]byte(nil), data...),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(rec)
}

// Reader iterates records from a capture stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a capture reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at end of stream.
func (c *Reader) Next() (*Record, error) {
	var rec Record
	if err := c.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return &rec, nil
}
