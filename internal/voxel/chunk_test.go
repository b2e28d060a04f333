package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netherpath/internal/geometry"
)

func allAirCells() []bool {
	return make([]bool, CellCount)
}

func TestNewChunkRejectsMalformedInput(t *testing.T) {
	_, err := NewChunk(geometry.ChunkPos{}, make([]bool, 100), HostSupplied)
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestAllAirChunkIsEmptyAtEverySize(t *testing.T) {
	chunk, err := NewChunk(geometry.ChunkPos{}, allAirCells(), Generated)
	require.NoError(t, err)

	sizes := []geometry.Size{geometry.Size1, geometry.Size2, geometry.Size4, geometry.Size8, geometry.Size16}
	for _, s := range sizes {
		assert.True(t, chunk.IsEmpty(s, geometry.BlockPos{X: 0, Y: 0, Z: 0}), "size %v", s)
	}
	assert.True(t, chunk.IsEmpty(geometry.Size16, geometry.BlockPos{X: 0, Y: 112, Z: 0}))
}

func TestSingleSolidBlockPoisonsContainingAggregates(t *testing.T) {
	cells := allAirCells()
	cells[cellIndex(5, 5, 5)] = true
	chunk, err := NewChunk(geometry.ChunkPos{}, cells, Generated)
	require.NoError(t, err)

	assert.True(t, chunk.Solid(5, 5, 5))
	assert.False(t, chunk.IsEmpty(geometry.Size1, geometry.BlockPos{X: 5, Y: 5, Z: 5}))
	assert.False(t, chunk.IsEmpty(geometry.Size2, geometry.BlockPos{X: 4, Y: 4, Z: 4}))
	assert.False(t, chunk.IsEmpty(geometry.Size4, geometry.BlockPos{X: 4, Y: 4, Z: 4}))
	assert.False(t, chunk.IsEmpty(geometry.Size8, geometry.BlockPos{X: 0, Y: 0, Z: 0}))
	assert.False(t, chunk.IsEmpty(geometry.Size16, geometry.BlockPos{X: 0, Y: 0, Z: 0}))

	// A sibling size-2 cube sharing no cells with the solid block stays empty.
	assert.True(t, chunk.IsEmpty(geometry.Size2, geometry.BlockPos{X: 8, Y: 4, Z: 4}))
}

func TestIsEmptyRejectsOutOfBoundsY(t *testing.T) {
	chunk, err := NewChunk(geometry.ChunkPos{}, allAirCells(), Generated)
	require.NoError(t, err)
	assert.False(t, chunk.IsEmpty(geometry.Size16, geometry.BlockPos{X: 0, Y: 120, Z: 0}))
}

func TestHostSuppliedProvenancePreserved(t *testing.T) {
	chunk, err := NewChunk(geometry.ChunkPos{}, allAirCells(), HostSupplied)
	require.NoError(t, err)
	assert.Equal(t, HostSupplied, chunk.Provenance())
}

func TestGeneratedProvenance(t *testing.T) {
	chunk, err := NewChunk(geometry.ChunkPos{}, allAirCells(), Generated)
	require.NoError(t, err)
	assert.Equal(t, Generated, chunk.Provenance())
}
