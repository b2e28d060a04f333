package search

import "container/heap"

// openSet is an indexed binary min-heap of *Node ordered by F, supporting
// O(log n) insert, removeLowest, and update (decrease-key), mirroring
// original_source's BinaryHeapOpenSet via the standard container/heap
// interface. Each Node tracks its own heap slot in heapIndex (-1 when not
// present), so update need not search for the element first.
type openSet struct {
	items []*Node
}

func newOpenSet() *openSet {
	return &openSet{}
}

func (s *openSet) Len() int { return len(s.items) }

func (s *openSet) Less(i, j int) bool { return s.items[i].F < s.items[j].F }

func (s *openSet) Swap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.items[i].heapIndex = i
	s.items[j].heapIndex = j
}

func (s *openSet) Push(x any) {
	n := x.(*Node)
	n.heapIndex = len(s.items)
	s.items = append(s.items, n)
}

func (s *openSet) Pop() any {
	old := s.items
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.heapIndex = -1
	s.items = old[:last]
	return n
}

func (s *openSet) isEmpty() bool { return len(s.items) == 0 }

func (s *openSet) insert(n *Node) { heap.Push(s, n) }

// update re-heapifies n after its F changed, since Go's heap has no direct
// decrease-key: it needs the element's current index, which n.heapIndex
// already tracks.
func (s *openSet) update(n *Node) { heap.Fix(s, n.heapIndex) }

func (s *openSet) removeLowest() *Node { return heap.Pop(s).(*Node) }
