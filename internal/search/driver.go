// Package search implements the hierarchical A* pathfinder: a variable
// cube-size open-set search over voxel.Chunk emptiness aggregates, with
// Grow/Shrink neighbor generation, dual timeouts, and segment splicing
// (original_source/PathFinder.cpp's findPath0/findPath).
package search

import (
	"context"
	"fmt"
	"time"

	"netherpath/internal/cache"
	"netherpath/internal/geometry"
	"netherpath/internal/telemetry"
)

const timeCheckInterval = 1 << 6 // sample the clock every 64 popped nodes

// Options tunes a search run. Use DefaultOptions and override as needed;
// a bare zero-value Options has a nil Observer/Metrics, which is fine since
// both are nil-safe.
type Options struct {
	FailureTimeout     time.Duration
	SoftTimeout        time.Duration
	MinSegmentDistance float64
	GoalRadius         float64
	MinImprovement     float64
	Observer           Observer
	Metrics            *telemetry.Metrics
}

// DefaultOptions mirrors original_source's hardcoded constants: a 30s hard
// failure timeout, a 500ms soft timeout once progress is being made, a 5
// block minimum segment distance, and a 16 block goal radius.
func DefaultOptions() Options {
	return Options{
		FailureTimeout:     30 * time.Second,
		SoftTimeout:        500 * time.Millisecond,
		MinSegmentDistance: 5,
		GoalRadius:         16,
		MinImprovement:     0.01,
		Observer:           noopObserver{},
	}
}

func (o Options) observer() Observer {
	if o.Observer == nil {
		return noopObserver{}
	}
	return o.Observer
}

// FindSegment runs one bounded A* search from start towards goal. It
// returns a FinishedPath if the goal's radius was reached, a SegmentPath
// recording the best progress made if a timeout was hit first, or a nil
// Path if no progress at all was possible (start surrounded by solid
// terrain within MinSegmentDistance).
func FindSegment(ctx context.Context, c *cache.ChunkCache, start, goal geometry.BlockPos, opts Options) (*Path, error) {
	observer := opts.observer()
	metrics := opts.Metrics

	g := newGraph(goal)
	open := newOpenSet()

	startNode := g.getOrCreate(geometry.NodePos{Size: geometry.Size1, Origin: start})
	startNode.G = 0
	startNode.F = startNode.H
	open.insert(startNode)

	if _, err := c.GetOrGen(ctx, start.ToChunkPos()); err != nil {
		return nil, fmt.Errorf("search: seed start chunk: %w", err)
	}

	bestSoFar := startNode
	bestF := startNode.F
	failing := true

	startTime := time.Now()
	failureDeadline := startTime.Add(opts.FailureTimeout)
	softDeadline := startTime.Add(opts.SoftTimeout)

	numNodes := 0
	for !open.isEmpty() {
		if numNodes&(timeCheckInterval-1) == 0 {
			now := time.Now()
			if now.After(failureDeadline) || (!failing && now.After(softDeadline)) {
				break
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		numNodes++

		current := open.removeLowest()
		observer.NodeExpanded(ctx, current.Pos)
		metrics.NodeExpanded(ctx)

		if distance(current.Pos.Center(), goal) <= opts.GoalRadius {
			path := createPath(startNode, current, start, goal, FinishedPath)
			observer.SegmentFound(ctx, path)
			metrics.SegmentEmitted(ctx)
			return path, nil
		}

		if err := expandNode(ctx, c, g, open, current, opts, start, &bestSoFar, &bestF, &failing); err != nil {
			return nil, err
		}
	}

	path := bestPathSoFar(startNode, bestSoFar, start, goal, opts.MinSegmentDistance)
	if path != nil {
		observer.SegmentFound(ctx, path)
		metrics.SegmentEmitted(ctx)
	}
	return path, nil
}

// expandNode generates current's neighbors across all six faces (growing
// or shrinking cubes as needed per growThenIterate) and relaxes each.
func expandNode(ctx context.Context, c *cache.ChunkCache, g *graph, open *openSet, current *Node, opts Options, segmentStart geometry.BlockPos, bestSoFar **Node, bestF *float64, failing *bool) error {
	size := current.Pos.Size
	origin := current.Pos.Origin
	cpos := origin.ToChunkPos()

	currentChunk, err := c.GetOrGen(ctx, cpos)
	if err != nil {
		return err
	}
	if err := c.PrefetchCross(ctx, cpos); err != nil {
		return err
	}

	step := size.Blocks()
	for _, face := range geometry.AllFaces() {
		dx, dy, dz := face.Offset()
		neighborOrigin := origin.Add(dx*step, dy*step, dz*step)
		if !face.IsHorizontal() && !geometry.IsInBounds(neighborOrigin) {
			continue
		}

		chunk := currentChunk
		if neighborCpos := neighborOrigin.ToChunkPos(); neighborCpos != cpos {
			chunk, err = c.GetOrGen(ctx, neighborCpos)
			if err != nil {
				return err
			}
		}

		base := geometry.NodePos{Size: size, Origin: neighborOrigin}
		growThenIterate(chunk, face, base, func(neighborPos geometry.NodePos) {
			relax(g, open, current, neighborPos, opts, segmentStart, bestSoFar, bestF, failing)
		})
	}
	return nil
}

// relax applies one candidate edge (current -> neighborPos), updating the
// neighbor's cost/predecessor and open-set membership if it's an
// improvement, and tracking the best (lowest-F) node seen so far for the
// timeout fallback path (original_source's per-neighbor lambda in findPath0).
func relax(g *graph, open *openSet, current *Node, neighborPos geometry.NodePos, opts Options, segmentStart geometry.BlockPos, bestSoFar **Node, bestF *float64, failing *bool) {
	const edgeCost = 1.0
	neighbor := g.getOrCreate(neighborPos)
	tentative := current.G + edgeCost

	if neighbor.G-tentative <= opts.MinImprovement {
		return
	}
	neighbor.Previous = current
	neighbor.G = tentative
	neighbor.F = tentative + neighbor.H

	if neighbor.isOpen() {
		open.update(neighbor)
	} else {
		open.insert(neighbor)
	}

	if *bestF-neighbor.F > opts.MinImprovement {
		*bestF = neighbor.F
		*bestSoFar = neighbor
		if *failing && distance(segmentStart, neighborPos.Center()) > opts.MinSegmentDistance {
			*failing = false
		}
	}
}

// FindPath runs FindSegment repeatedly, splicing SEGMENT results together
// until a FINISHED segment is reached or no further progress is possible
// (original_source's findPath outer loop).
func FindPath(ctx context.Context, c *cache.ChunkCache, start, goal geometry.BlockPos, opts Options) (*Path, error) {
	if !geometry.IsInBounds(start) {
		return nil, fmt.Errorf("search: start %v is out of the 0-128 height bound", start)
	}

	startTime := time.Now()
	var segments []*Path
	cursor := start
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		segment, err := FindSegment(ctx, c, cursor, goal, opts)
		if err != nil {
			return nil, err
		}
		if segment == nil {
			break
		}
		segments = append(segments, segment)
		cursor = segment.EndPos()
		if segment.Type == FinishedPath {
			break
		}
	}

	if len(segments) == 0 {
		return nil, nil
	}
	path := splicePaths(segments)
	opts.Metrics.SearchDuration(ctx, float64(time.Since(startTime).Microseconds())/1000)
	return path, nil
}
