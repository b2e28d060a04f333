package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToChunkPos(t *testing.T) {
	cases := []struct {
		pos  BlockPos
		want ChunkPos
	}{
		{BlockPos{X: 0, Y: 64, Z: 0}, ChunkPos{CX: 0, CZ: 0}},
		{BlockPos{X: 15, Y: 64, Z: 15}, ChunkPos{CX: 0, CZ: 0}},
		{BlockPos{X: 16, Y: 64, Z: 16}, ChunkPos{CX: 1, CZ: 1}},
		{BlockPos{X: -1, Y: 64, Z: -1}, ChunkPos{CX: -1, CZ: -1}},
		{BlockPos{X: -16, Y: 64, Z: 0}, ChunkPos{CX: -1, CZ: 0}},
		{BlockPos{X: -17, Y: 64, Z: 0}, ChunkPos{CX: -2, CZ: 0}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.pos.ToChunkPos(), "pos=%v", c.pos)
	}
}

func TestLocalXZ(t *testing.T) {
	x, z := BlockPos{X: -1, Y: 0, Z: -17}.LocalXZ()
	assert.Equal(t, int32(15), x)
	assert.Equal(t, int32(15), z)
}

func TestNodePosCenter(t *testing.T) {
	n := NodePos{Size: Size4, Origin: BlockPos{X: 8, Y: 0, Z: 8}}
	assert.Equal(t, BlockPos{X: 10, Y: 2, Z: 10}, n.Center())
}

func TestAlignDown(t *testing.T) {
	got := AlignDown(BlockPos{X: 5, Y: 5, Z: 5}, Size4)
	assert.Equal(t, BlockPos{X: 4, Y: 4, Z: 4}, got)

	got = AlignDown(BlockPos{X: -5, Y: 0, Z: 0}, Size4)
	assert.Equal(t, BlockPos{X: -8, Y: 0, Z: 0}, got)
}

func TestSizeGrowShrink(t *testing.T) {
	s, ok := Size16.Grow()
	require.False(t, ok)
	require.Equal(t, Size16, s)

	s, ok = Size1.Shrink()
	require.False(t, ok)
	require.Equal(t, Size1, s)

	s, ok = Size2.Grow()
	require.True(t, ok)
	require.Equal(t, Size4, s)
}

func TestBlockPosPackRoundTrip(t *testing.T) {
	cases := []BlockPos{
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 64, Z: -100},
		{X: -30000000 % (1 << 25), Y: 127, Z: 30000000 % (1 << 25)},
		{X: -1, Y: 1, Z: -1},
	}
	for _, pos := range cases {
		packed := PackBlockPos(pos)
		got := UnpackBlockPos(packed)
		assert.Equal(t, pos, got, "round trip for %v", pos)
	}
}

func TestFaceOffsetsAreUnitSteps(t *testing.T) {
	for _, f := range AllFaces() {
		dx, dy, dz := f.Offset()
		sum := abs32(dx) + abs32(dy) + abs32(dz)
		assert.Equal(t, int32(1), sum, "face %v should be a unit step", f)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestIsInBounds(t *testing.T) {
	assert.True(t, IsInBounds(BlockPos{Y: 0}))
	assert.True(t, IsInBounds(BlockPos{Y: 127}))
	assert.False(t, IsInBounds(BlockPos{Y: 128}))
	assert.False(t, IsInBounds(BlockPos{Y: -1}))
}
