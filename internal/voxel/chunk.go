// Package voxel implements the dense per-chunk solidity grid and its
// hierarchical emptiness aggregates (spec.md §3, §4.1).
package voxel

import (
	"context"
	"errors"
	"fmt"

	"netherpath/internal/geometry"
)

// CellCount is the number of blocks in one chunk (16 * 128 * 16).
const CellCount = geometry.ChunkWidth * geometry.ChunkHeight * geometry.ChunkWidth

// ErrMalformedInput is returned when a host-supplied cell array is not
// exactly CellCount long (spec.md §7).
var ErrMalformedInput = errors.New("voxel: chunk cell array must have exactly 32768 elements")

// Provenance distinguishes generator-produced chunks from host-supplied ones.
type Provenance int

const (
	Generated Provenance = iota
	HostSupplied
)

func (p Provenance) String() string {
	if p == HostSupplied {
		return "host-supplied"
	}
	return "generated"
}

const wordsPerChunk = CellCount / 64

// Chunk stores a dense 16x128x16 solidity bitset plus hierarchical
// "is this aligned NxNxN sub-cube fully empty" aggregates for N in
// {2,4,8,16}. All reads are safe for concurrent use; a Chunk is immutable
// once constructed.
type Chunk struct {
	Pos        geometry.ChunkPos
	provenance Provenance

	bits [wordsPerChunk]uint64

	// agg[i] holds the emptiness aggregate for size 2<<i (i=0 -> Size2 ... i=3 -> Size16).
	agg [4][]bool
}

// cellIndex returns the bit position for a block-local (x,y,z), per spec.md's
// i = (y<<8) | (z<<4) | x layout. x and z must be in [0,16); y in [0,128).
func cellIndex(x, y, z int32) int {
	return int(y)<<8 | int(z)<<4 | int(x)
}

// NewChunk builds a Chunk from a flat CellCount-length solidity slice
// (true = solid), computing all four aggregate levels bottom-up.
func NewChunk(pos geometry.ChunkPos, cells []bool, provenance Provenance) (*Chunk, error) {
	if len(cells) != CellCount {
		return nil, fmt.Errorf("%w: got %d", ErrMalformedInput, len(cells))
	}
	c := &Chunk{Pos: pos, provenance: provenance}
	for i, solid := range cells {
		if solid {
			c.bits[i/64] |= 1 << uint(i%64)
		}
	}
	c.buildAggregates()
	return c, nil
}

// GenerateFunc produces the flat solidity array for a chunk position. It is
// a pure function of (implicit seed, pos) per spec.md §6's generator contract.
type GenerateFunc func(ctx context.Context, pos geometry.ChunkPos) ([]bool, error)

// Generator mirrors spec.md §6's generateChunk(cx, cz) -> Chunk contract.
type Generator interface {
	Generate(ctx context.Context, pos geometry.ChunkPos) (*Chunk, error)
}

// FuncGenerator adapts a GenerateFunc to the Generator interface.
type FuncGenerator GenerateFunc

func (f FuncGenerator) Generate(ctx context.Context, pos geometry.ChunkPos) (*Chunk, error) {
	cells, err := f(ctx, pos)
	if err != nil {
		return nil, err
	}
	return NewChunk(pos, cells, Generated)
}

func (c *Chunk) rawSolid(x, y, z int32) bool {
	if y < 0 || y >= geometry.ChunkHeight {
		return true // out-of-band Y is treated as solid for bounds checks (spec.md §4.1)
	}
	i := cellIndex(x, y, z)
	return c.bits[i/64]&(1<<uint(i%64)) != 0
}

// buildAggregates computes isEmpty_s for s in {2,4,8,16}, bottom-up: each
// isEmpty_2s(origin) is the AND of its eight isEmpty_s children, with
// isEmpty_1 defined as "the raw cell is empty" (spec.md §3 invariant).
func (c *Chunk) buildAggregates() {
	var prevEmpty func(x, y, z int32) bool = func(x, y, z int32) bool {
		return !c.rawSolid(x, y, z)
	}

	for level, size := range []geometry.Size{geometry.Size2, geometry.Size4, geometry.Size8, geometry.Size16} {
		side := size.Blocks()
		nx := geometry.ChunkWidth / side
		nz := geometry.ChunkWidth / side
		ny := geometry.ChunkHeight / side
		grid := make([]bool, int(nx*ny*nz))

		half := side / 2
		for ax := int32(0); ax < nx; ax++ {
			for ay := int32(0); ay < ny; ay++ {
				for az := int32(0); az < nz; az++ {
					ox, oy, oz := ax*side, ay*side, az*side
					empty := true
					for dx := int32(0); dx < side && empty; dx += half {
						for dy := int32(0); dy < side && empty; dy += half {
							for dz := int32(0); dz < side && empty; dz += half {
								if !prevEmpty(ox+dx, oy+dy, oz+dz) {
									empty = false
								}
							}
						}
					}
					grid[aggIndex(ax, ay, az, nx, nz)] = empty
				}
			}
		}
		c.agg[level] = grid

		gridCapture, nxCap, nzCap, sideCap := grid, nx, nz, side
		prevEmpty = func(x, y, z int32) bool {
			ax, ay, az := x/sideCap, y/sideCap, z/sideCap
			return gridCapture[aggIndex(ax, ay, az, nxCap, nzCap)]
		}
	}
}

func aggIndex(ax, ay, az, nx, nz int32) int {
	return int(ay*nx*nz + az*nx + ax)
}

// IsEmpty reports whether the aligned size-s cube at chunk-local origin
// (origin.X, origin.Z in [0,16), origin.Y in [0,128)) is entirely air.
// A cube that straddles the vertical bounds is never empty.
func (c *Chunk) IsEmpty(size geometry.Size, origin geometry.BlockPos) bool {
	side := size.Blocks()
	if origin.Y < 0 || origin.Y+side > geometry.ChunkHeight {
		return false
	}
	if origin.X < 0 || origin.X+side > geometry.ChunkWidth || origin.Z < 0 || origin.Z+side > geometry.ChunkWidth {
		return false
	}
	if size == geometry.Size1 {
		return !c.rawSolid(origin.X, origin.Y, origin.Z)
	}
	level := int(size) - int(geometry.Size2)
	nx := geometry.ChunkWidth / side
	nz := geometry.ChunkWidth / side
	ax, ay, az := origin.X/side, origin.Y/side, origin.Z/side
	return c.agg[level][aggIndex(ax, ay, az, nx, nz)]
}

// Provenance reports whether this chunk came from the generator or was
// supplied directly by the host (spec.md §3/§4.1).
func (c *Chunk) Provenance() Provenance {
	return c.provenance
}

// Solid reports the raw occupancy of a single chunk-local block (used by
// the voxel and cache tests).
func (c *Chunk) Solid(x, y, z int32) bool {
	return c.rawSolid(x, y, z)
}
