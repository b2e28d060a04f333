// Package cache implements the chunk cache (spec.md §4.2): a
// position-keyed map of owned chunks, lazily filled via a generator,
// safe for concurrent lookups, with distance-based bulk eviction and
// four-way parallel neighbor prefetch.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"netherpath/internal/geometry"
	"netherpath/internal/voxel"
)

// ChunkCache maps chunk positions to owned chunks. Lookups are safe for
// concurrent use; generation for distinct positions proceeds in parallel.
// Concurrent misses on the same position may each run the generator, but
// only the first result is stored and every caller gets that one chunk.
type ChunkCache struct {
	generator voxel.Generator

	mu     sync.Mutex
	chunks map[geometry.ChunkPos]*voxel.Chunk

	prefetchMu sync.Mutex
	prefetched map[geometry.ChunkPos]struct{}
}

// New creates a cache backed by the given generator.
func New(generator voxel.Generator) *ChunkCache {
	return &ChunkCache{
		generator:  generator,
		chunks:     make(map[geometry.ChunkPos]*voxel.Chunk),
		prefetched: make(map[geometry.ChunkPos]struct{}),
	}
}

// Get returns the cached chunk at pos, if present, without generating it.
func (c *ChunkCache) Get(pos geometry.ChunkPos) (*voxel.Chunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chunk, ok := c.chunks[pos]
	return chunk, ok
}

// GetOrGen returns the chunk at pos, generating and inserting it if absent.
// Generation happens outside the lock: the cache is checked, unlocked,
// the (expensive) generator is invoked, then the lock is re-acquired and
// the entry inserted only if still absent, so a slower concurrent caller's
// redundant work is discarded rather than overwriting the winner
// (spec.md §4.2).
func (c *ChunkCache) GetOrGen(ctx context.Context, pos geometry.ChunkPos) (*voxel.Chunk, error) {
	c.mu.Lock()
	if chunk, ok := c.chunks[pos]; ok {
		c.mu.Unlock()
		return chunk, nil
	}
	c.mu.Unlock()

	chunk, err := c.generator.Generate(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("cache: generate chunk %v: %w", pos, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.chunks[pos]; ok {
		return existing, nil
	}
	c.chunks[pos] = chunk
	return chunk, nil
}

// Insert stores a host-supplied chunk at pos, preempting any generated (or
// previously host-supplied) entry. The stored chunk is always marked
// voxel.HostSupplied, and later reads see that provenance.
func (c *ChunkCache) Insert(pos geometry.ChunkPos, cells []bool) error {
	chunk, err := voxel.NewChunk(pos, cells, voxel.HostSupplied)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.chunks[pos] = chunk
	c.mu.Unlock()
	return nil
}

// CullFar removes every cached chunk whose chunk-space distance from
// center exceeds (maxDistanceBlocks/16) chunks. Victims are collected
// before any deletion so the map is never mutated mid-iteration
// (resolves spec.md's Open Question #1).
func (c *ChunkCache) CullFar(center geometry.ChunkPos, maxDistanceBlocks int) {
	maxChunks := int64(maxDistanceBlocks / geometry.ChunkWidth)
	maxDistSq := maxChunks * maxChunks

	c.mu.Lock()
	defer c.mu.Unlock()

	victims := make([]geometry.ChunkPos, 0)
	for pos := range c.chunks {
		if pos.DistanceSqChunks(center) > maxDistSq {
			victims = append(victims, pos)
		}
	}
	for _, pos := range victims {
		delete(c.chunks, pos)
		delete(c.prefetched, pos)
	}
}

// crossNeighbors returns the four chunks horizontally adjacent to pos.
func crossNeighbors(pos geometry.ChunkPos) [4]geometry.ChunkPos {
	return [4]geometry.ChunkPos{
		{CX: pos.CX, CZ: pos.CZ - 1}, // north
		{CX: pos.CX, CZ: pos.CZ + 1}, // south
		{CX: pos.CX + 1, CZ: pos.CZ}, // east
		{CX: pos.CX - 1, CZ: pos.CZ}, // west
	}
}

// PrefetchCross generates the four chunks horizontally adjacent to pos in
// parallel, memoized so a given chunk's neighbors are only ever generated
// once (spec.md §4.6 step c / §5). It returns once all four are resident
// (or the first generation error, which cancels the rest).
func (c *ChunkCache) PrefetchCross(ctx context.Context, pos geometry.ChunkPos) error {
	c.prefetchMu.Lock()
	if _, done := c.prefetched[pos]; done {
		c.prefetchMu.Unlock()
		return nil
	}
	c.prefetched[pos] = struct{}{}
	c.prefetchMu.Unlock()

	neighbors := crossNeighbors(pos)
	group, gctx := errgroup.WithContext(ctx)
	for _, n := range neighbors {
		n := n
		group.Go(func() error {
			_, err := c.GetOrGen(gctx, n)
			return err
		})
	}
	return group.Wait()
}
