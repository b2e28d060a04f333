package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netherpath/internal/geometry"
)

func newTestNode(f float64) *Node {
	return &Node{F: f, heapIndex: -1}
}

func TestOpenSetRemovesLowestFirst(t *testing.T) {
	s := newOpenSet()
	a := newTestNode(5)
	b := newTestNode(1)
	c := newTestNode(3)
	s.insert(a)
	s.insert(b)
	s.insert(c)

	require.False(t, s.isEmpty())
	assert.Same(t, b, s.removeLowest())
	assert.Same(t, c, s.removeLowest())
	assert.Same(t, a, s.removeLowest())
	assert.True(t, s.isEmpty())
}

func TestOpenSetUpdateReordersAfterDecrease(t *testing.T) {
	s := newOpenSet()
	a := newTestNode(10)
	b := newTestNode(20)
	s.insert(a)
	s.insert(b)

	b.F = 1
	s.update(b)

	assert.Same(t, b, s.removeLowest())
	assert.Same(t, a, s.removeLowest())
}

func TestOpenSetTracksMembershipViaHeapIndex(t *testing.T) {
	s := newOpenSet()
	n := newTestNode(1)
	assert.False(t, n.isOpen())
	s.insert(n)
	assert.True(t, n.isOpen())
	s.removeLowest()
	assert.False(t, n.isOpen())
}

func TestGraphGetOrCreateMemoizes(t *testing.T) {
	g := newGraph(geometry.BlockPos{X: 100, Y: 64, Z: 0})
	pos := geometry.NodePos{Size: geometry.Size1, Origin: geometry.BlockPos{}}
	a := g.getOrCreate(pos)
	b := g.getOrCreate(pos)
	assert.Same(t, a, b)
	assert.Greater(t, a.H, 0.0)
}
