// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package unf

import (
	"encoding/binary"
	"fmt"
)

// Heartbeat is the payload of a TypeHeartbeat packet, announcing the
// protocol revision the console-side library speaks.
type Heartbeat struct {
	ProtocolVersion  uint16
	HeartbeatVersion uint16
}

// ParseHeartbeat decodes a heartbeat payload.
func ParseHeartbeat(data []byte) (*Heartbeat, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("unf: heartbeat payload is %d bytes, want 4", len(data))
	}
	return &Heartbeat{
		ProtocolVersion:  binary.BigEndian.Uint16(data[0:2]),
		HeartbeatVersion: binary.BigEndian.Uint16(data[2:4]),
	}, nil
}
