// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the edlink authors

package edlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanChunks_Empty(t *testing.T) {
	assert.Empty(t, PlanChunks(0, 64))
	assert.Empty(t, PlanChunks(-1, 64))
	assert.Empty(t, PlanChunks(100, 0))
}

func TestPlanChunks_Exact(t *testing.T) {
	chunks := PlanChunks(512, 64)
	require.Len(t, chunks, 8)
	for i, ch := range chunks {
		assert.Equal(t, i*64, ch.Offset)
		assert.Equal(t, 64, ch.Length)
	}
}

func TestPlanChunks_ShortTail(t *testing.T) {
	chunks := PlanChunks(100, 64)
	require.Len(t, chunks, 2)
	assert.Equal(t, Chunk{Offset: 0, Length: 64}, chunks[0])
	assert.Equal(t, Chunk{Offset: 64, Length: 36}, chunks[1])
}

func TestPlanChunks_SingleChunk(t *testing.T) {
	chunks := PlanChunks(10, 64)
	require.Len(t, chunks, 1)
	assert.Equal(t, Chunk{Offset: 0, Length: 10}, chunks[0])
}

// TestPlanChunks_Coverage checks the planner invariants over a sweep of
// sizes: chunks cover [0, total) exactly once, in ascending order, each
// no longer than max.
func TestPlanChunks_Coverage(t *testing.T) {
	for total := 0; total <= 1024; total += 7 {
		for _, max := range []int{1, 3, 64, 100, 512, 4096} {
			chunks := PlanChunks(total, max)

			covered := 0
			next := 0
			for _, ch := range chunks {
				require.Equal(t, next, ch.Offset, "total=%d max=%d", total, max)
				require.Greater(t, ch.Length, 0, "total=%d max=%d", total, max)
				require.LessOrEqual(t, ch.Length, max, "total=%d max=%d", total, max)
				covered += ch.Length
				next = ch.Offset + ch.Length
			}
			require.Equal(t, total, covered, "total=%d max=%d", total, max)
		}
	}
}
