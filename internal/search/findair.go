package search

import (
	"context"

	"netherpath/internal/cache"
	"netherpath/internal/geometry"
)

// maxAirSearchRadius bounds coarse start/goal promotion so a request
// embedded deep in solid terrain fails fast instead of scanning forever
// (SPEC_FULL.md's supplemented coarse-start feature).
const maxAirSearchRadius = 64

// FindNearestAirCube locates the nearest aligned size-cube to start that is
// entirely empty, searching outward in expanding cube shells up to
// maxAirSearchRadius blocks. It supplements original_source's
// findAir<Size> template (not retrieved in full), used there to promote a
// raw block position to a coarser starting NodePos before the main search.
// If nothing empty is found within the bound, it falls back to the raw X1
// cube at start (ok=false signals the fallback, matching SPEC_FULL.md §8's
// resolution of the original's unbounded search).
func FindNearestAirCube(ctx context.Context, c *cache.ChunkCache, size geometry.Size, start geometry.BlockPos) (geometry.NodePos, bool, error) {
	side := size.Blocks()
	origin := geometry.AlignDown(start, size)

	empty, err := isCubeEmpty(ctx, c, size, origin)
	if err != nil {
		return geometry.NodePos{}, false, err
	}
	if empty {
		return geometry.NodePos{Size: size, Origin: origin}, true, nil
	}

	for radius := side; radius <= maxAirSearchRadius; radius += side {
		for _, candidate := range shellCandidates(origin, side, radius) {
			empty, err := isCubeEmpty(ctx, c, size, candidate)
			if err != nil {
				return geometry.NodePos{}, false, err
			}
			if empty {
				return geometry.NodePos{Size: size, Origin: candidate}, true, nil
			}
		}
	}
	return geometry.NodePos{Size: geometry.Size1, Origin: start}, false, nil
}

func isCubeEmpty(ctx context.Context, c *cache.ChunkCache, size geometry.Size, origin geometry.BlockPos) (bool, error) {
	side := size.Blocks()
	if origin.Y < 0 || origin.Y+side > geometry.ChunkHeight {
		return false, nil
	}
	localX, localZ := origin.LocalXZ()
	if localX+side > geometry.ChunkWidth || localZ+side > geometry.ChunkWidth {
		// The cube straddles a chunk boundary; treat conservatively as
		// non-empty rather than special-casing a cross-chunk IsEmpty.
		return false, nil
	}
	chunk, err := c.GetOrGen(ctx, origin.ToChunkPos())
	if err != nil {
		return false, err
	}
	local := geometry.BlockPos{X: localX, Y: origin.Y, Z: localZ}
	return chunk.IsEmpty(size, local), nil
}

// shellCandidates returns the aligned, size-spaced positions on the surface
// of the cube shell at the given radius from center, so FindNearestAirCube
// never re-checks interior points already covered by a smaller radius.
func shellCandidates(center geometry.BlockPos, side, radius int32) []geometry.BlockPos {
	var out []geometry.BlockPos
	for dx := -radius; dx <= radius; dx += side {
		onXEdge := dx == -radius || dx == radius
		for dy := -radius; dy <= radius; dy += side {
			onYEdge := dy == -radius || dy == radius
			for dz := -radius; dz <= radius; dz += side {
				onZEdge := dz == -radius || dz == radius
				if !onXEdge && !onYEdge && !onZEdge {
					continue
				}
				out = append(out, center.Add(dx, dy, dz))
			}
		}
	}
	return out
}
