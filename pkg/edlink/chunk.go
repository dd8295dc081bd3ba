// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

// Chunk is one device-sized piece of a larger logical transfer.
type Chunk struct {
	Offset int
	Length int
}

// PlanChunks splits a transfer of total bytes into chunks of at most max
// bytes each. The returned chunks cover [0, total) exactly once, in
// ascending offset order, with a short final chunk when total is not a
// multiple of max. A zero total yields an empty plan. max must be
// positive.
func PlanChunks(total, max int) []Chunk {
	if total <= 0 || max <= 0 {
		return nil
	}

	chunks := make([]Chunk, 0, (total+max-1)/max)
	for off := 0; off < total; off += max {
		n := total - off
		if n > max {
			n = max
		}
		chunks = append(chunks, Chunk{Offset: off, Length: n})
	}
	return chunks
}
