// Package engine is the host-facing API surface (SPEC_FULL.md §6.6): it
// bundles the chunk cache, the configured generator, and a cooperative
// cancel flag behind a single Context, and realizes spec.md §7's error
// contract at the boundary.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"netherpath/internal/cache"
	"netherpath/internal/geometry"
	"netherpath/internal/search"
	"netherpath/internal/telemetry"
	"netherpath/internal/terrain"
	"netherpath/internal/voxel"
)

// Error kinds surfaced at the host boundary (spec.md §7).
var (
	ErrOutOfBounds       = errors.New("engine: position out of the 0-128 height bound")
	ErrMalformedInput    = voxel.ErrMalformedInput
	ErrGenerationFailure = errors.New("engine: chunk generation failed")
)

// Context is the engine's host-facing handle: one chunk cache, one
// generator, and a cooperative cancel flag. There is no FreeContext;
// Go's GC retires it once the last reference drops (a deliberate
// idiomatic substitution for the host-lifetime contract, which exists
// only to serve a non-GC host language).
type Context struct {
	cache   *cache.ChunkCache
	metrics *telemetry.Metrics
	cancel  atomic.Bool

	searchOptions search.Options
}

// NewContext builds a Context seeded for deterministic terrain generation.
// Pass a nil metrics to run with zero telemetry overhead.
func NewContext(seed int64, metrics *telemetry.Metrics) *Context {
	cfg := terrain.DefaultConfig()
	cfg.Seed = seed
	gen := terrain.NewGenerator(cfg, metrics)
	return NewContextWithGenerator(gen, metrics)
}

// NewContextWithGenerator builds a Context around a caller-supplied
// generator (for tests, or hosts with their own terrain rules).
func NewContextWithGenerator(gen voxel.Generator, metrics *telemetry.Metrics) *Context {
	opts := search.DefaultOptions()
	opts.Metrics = metrics
	return &Context{
		cache:         cache.New(gen),
		metrics:       metrics,
		searchOptions: opts,
	}
}

// InsertChunk supplies a host-authoritative chunk, preempting any
// generated entry at the same position (spec.md §4.2/§6).
func (c *Context) InsertChunk(pos geometry.ChunkPos, cells []bool) error {
	if err := c.cache.Insert(pos, cells); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	c.metrics.ChunkHostLoaded(context.Background())
	return nil
}

// GetOrCreateChunk returns the chunk at pos, generating it if absent.
func (c *Context) GetOrCreateChunk(ctx context.Context, pos geometry.ChunkPos) (*voxel.Chunk, error) {
	chunk, err := c.cache.GetOrGen(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	return chunk, nil
}

// GetChunk returns the chunk at pos without generating it.
func (c *Context) GetChunk(pos geometry.ChunkPos) (*voxel.Chunk, bool) {
	return c.cache.Get(pos)
}

// CullFarChunks evicts every cached chunk farther than maxDistanceBlocks
// from center (spec.md §4.2's CullFar).
func (c *Context) CullFarChunks(center geometry.ChunkPos, maxDistanceBlocks int) {
	c.cache.CullFar(center, maxDistanceBlocks)
}

// SetObserver installs an observer that every subsequent PathFind call
// reports node-expansion and segment-discovery events to (SPEC_FULL.md
// §6.8's liveview broadcaster is the intended caller). Pass nil to detach.
func (c *Context) SetObserver(obs search.Observer) {
	c.searchOptions.Observer = obs
}

// Cancel sets the cooperative cancel flag and returns its previous value.
// A search in progress observes it via the ctx.Done() channel derived
// from it in PathFind (see withCancel).
func (c *Context) Cancel() (previous bool) {
	return c.cancel.Swap(true)
}

// Reset clears the cancel flag, allowing the Context to be reused for a
// fresh PathFind call after a prior Cancel.
func (c *Context) Reset() {
	c.cancel.Store(false)
}

// PathFind runs the hierarchical A* search from start to goal. Both
// endpoints are first promoted via a local "nearest empty cube" search
// around the input point (SPEC_FULL.md §8's coarse-start/goal promotion):
// to an X4 cube when coarseMin is true, or an X2 cube when it is false
// (spec.md §6). timeout bounds the whole multi-segment search; <=0 uses
// the default (30s failure / 500ms soft) from search.DefaultOptions.
func (c *Context) PathFind(ctx context.Context, start, goal geometry.BlockPos, coarseMin bool, timeout time.Duration) (*search.Path, error) {
	if !geometry.IsInBounds(start) || !geometry.IsInBounds(goal) {
		return nil, ErrOutOfBounds
	}

	ctx, cancel := c.withCancel(ctx, timeout)
	defer cancel()

	opts := c.searchOptions
	if timeout > 0 {
		opts.FailureTimeout = timeout
	}

	promoteSize := geometry.Size2
	if coarseMin {
		promoteSize = geometry.Size4
	}
	promotedStart, _, err := search.FindNearestAirCube(ctx, c.cache, promoteSize, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	promotedGoal, _, err := search.FindNearestAirCube(ctx, c.cache, promoteSize, goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	start = promotedStart.Center()
	goal = promotedGoal.Center()

	path, err := search.FindPath(ctx, c.cache, start, goal, opts)
	if err != nil {
		return nil, fmt.Errorf("engine: path find: %w", err)
	}
	return path, nil
}

// withCancel derives a context that is canceled either by the caller's
// ctx, an optional timeout, or this Context's own cooperative cancel flag
// (polled via a background goroutine that exits as soon as either the
// flag flips or the search concludes).
func (c *Context) withCancel(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	if c.cancel.Load() {
		cancel()
		return ctx, cancel
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if c.cancel.Load() {
					cancel()
					return
				}
			}
		}
	}()

	return ctx, func() {
		close(done)
		cancel()
	}
}
