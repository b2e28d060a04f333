package search

import (
	"math"

	"netherpath/internal/geometry"
)

// Node is one entry in the search graph: a candidate cube plus its best
// known path cost, heuristic, and predecessor (original_source's PathNode).
type Node struct {
	Pos       geometry.NodePos
	G         float64 // cost from the segment's start
	H         float64 // straight-line estimate to goal, fixed at creation
	F         float64 // G+H
	Previous  *Node
	heapIndex int
}

func (n *Node) isOpen() bool { return n.heapIndex >= 0 }

// graph memoizes one Node per NodePos visited during a single FindSegment
// call. It is not safe for concurrent use; each search owns its own graph.
type graph struct {
	nodes map[geometry.NodePos]*Node
	goal  geometry.BlockPos
}

func newGraph(goal geometry.BlockPos) *graph {
	return &graph{nodes: make(map[geometry.NodePos]*Node), goal: goal}
}

// getOrCreate returns the Node for pos, creating it (with G=+Inf, heapIndex
// -1, and a heuristic fixed relative to the graph's goal) on first visit.
func (g *graph) getOrCreate(pos geometry.NodePos) *Node {
	if n, ok := g.nodes[pos]; ok {
		return n
	}
	n := &Node{
		Pos:       pos,
		G:         math.Inf(1),
		H:         distance(pos.Center(), g.goal),
		F:         math.Inf(1),
		heapIndex: -1,
	}
	g.nodes[pos] = n
	return n
}

func distance(a, b geometry.BlockPos) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
