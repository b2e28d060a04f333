package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netherpath/internal/cache"
	"netherpath/internal/geometry"
)

func TestFindNearestAirCubeReturnsOriginWhenAlreadyEmpty(t *testing.T) {
	c := cache.New(allAirGenerator())
	start := geometry.BlockPos{X: 5, Y: 64, Z: 5}

	node, ok, err := FindNearestAirCube(context.Background(), c, geometry.Size2, start)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, geometry.AlignDown(start, geometry.Size2), node.Origin)
}

func TestFindNearestAirCubeSearchesOutwardAroundSolidBlob(t *testing.T) {
	blobCenter := geometry.BlockPos{X: 0, Y: 64, Z: 0}
	gen := predicateGenerator{air: func(pos geometry.BlockPos) bool {
		dx := pos.X - blobCenter.X
		dy := pos.Y - blobCenter.Y
		dz := pos.Z - blobCenter.Z
		distSq := dx*dx + dy*dy + dz*dz
		return distSq > 16 // solid sphere of radius ~4 around the center
	}}
	c := cache.New(gen)

	node, ok, err := FindNearestAirCube(context.Background(), c, geometry.Size2, blobCenter)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, distance(node.Center(), blobCenter), 0.0)
}

func TestFindNearestAirCubeFailsWhenNothingWithinRadius(t *testing.T) {
	gen := predicateGenerator{air: func(geometry.BlockPos) bool { return false }}
	c := cache.New(gen)

	start := geometry.BlockPos{X: 0, Y: 64, Z: 0}
	node, ok, err := FindNearestAirCube(context.Background(), c, geometry.Size2, start)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, geometry.NodePos{Size: geometry.Size1, Origin: start}, node, "falls back to the raw X1 cube when nothing is found")
}
