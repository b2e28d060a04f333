package search

import (
	"context"

	"netherpath/internal/geometry"
)

// PathType distinguishes a best-effort partial route from one that reached
// the goal (original_source PathFinder.h's Path::Type).
type PathType int

const (
	SegmentPath PathType = iota
	FinishedPath
)

func (t PathType) String() string {
	if t == FinishedPath {
		return "finished"
	}
	return "segment"
}

// Path is a contiguous sequence of node-center waypoints produced by one or
// more spliced FindSegment runs.
type Path struct {
	Type   PathType
	Start  geometry.BlockPos
	Goal   geometry.BlockPos
	Blocks []geometry.BlockPos
	Nodes  []geometry.NodePos
}

// EndPos returns the path's last waypoint, or its start if the path is empty.
func (p *Path) EndPos() geometry.BlockPos {
	if len(p.Blocks) == 0 {
		return p.Start
	}
	return p.Blocks[len(p.Blocks)-1]
}

// Observer receives progress callbacks during a search, for live debugging
// (SPEC_FULL.md's liveview broadcaster). Implementations must not block.
type Observer interface {
	NodeExpanded(ctx context.Context, pos geometry.NodePos)
	SegmentFound(ctx context.Context, path *Path)
}

type noopObserver struct{}

func (noopObserver) NodeExpanded(context.Context, geometry.NodePos) {}
func (noopObserver) SegmentFound(context.Context, *Path)            {}

func createPath(start, end *Node, startPos, goal geometry.BlockPos, pathType PathType) *Path {
	var blocks []geometry.BlockPos
	var nodes []geometry.NodePos
	for n := end; n != nil; n = n.Previous {
		blocks = append(blocks, n.Pos.Center())
		nodes = append(nodes, n.Pos)
	}
	reverseBlocks(blocks)
	reverseNodes(nodes)
	return &Path{Type: pathType, Start: startPos, Goal: goal, Blocks: blocks, Nodes: nodes}
}

// bestPathSoFar returns a SEGMENT path to the best (lowest-F) node visited,
// unless it's too close to startPos to be worth emitting as progress
// (original_source's bestPathSoFar / MIN_DIST_PATH).
func bestPathSoFar(start, end *Node, startPos, goal geometry.BlockPos, minSegmentDistance float64) *Path {
	if distance(startPos, end.Pos.Center()) > minSegmentDistance {
		return createPath(start, end, startPos, goal, SegmentPath)
	}
	return nil
}

func splicePaths(segments []*Path) *Path {
	head := segments[0]
	for _, seg := range segments[1:] {
		head.Blocks = append(head.Blocks, seg.Blocks...)
		head.Nodes = append(head.Nodes, seg.Nodes...)
		head.Type = seg.Type
		head.Goal = seg.Goal
	}
	return head
}

func reverseBlocks(s []geometry.BlockPos) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseNodes(s []geometry.NodePos) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
