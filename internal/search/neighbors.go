package search

import (
	"netherpath/internal/geometry"
	"netherpath/internal/voxel"
)

// neighborFunc receives each concrete cube reachable by stepping across one
// face from a search node.
type neighborFunc func(geometry.NodePos)

// growThenIterate finds the neighbor cube(s) reachable by stepping across
// face from pos: it repeatedly tries to grow the candidate into the next
// larger enclosing cube while that cube stays fully empty, then, once
// growth stops, either emits the grown cube directly (if any growth at all
// happened, since the last successful grow already confirmed it's empty)
// or — if no growth happened — checks the original-size cube itself and,
// if it's obstructed, shrinks into face-adjacent quadrants to route around
// the obstruction (never shrinking as far as Size1). Ported from
// original_source/PathFinder.cpp's growThenIterateInner/forEachNeighborInCube.
func growThenIterate(chunk *voxel.Chunk, face geometry.Face, pos geometry.NodePos, emit neighborFunc) {
	origSize := pos.Size
	origin := pos.Origin
	size := origSize
	for {
		next, ok := size.Grow()
		if !ok {
			iterateAtSize(chunk, face, size, origin, size != origSize, emit)
			return
		}
		grownOrigin := geometry.AlignDown(origin, next)
		if !chunk.IsEmpty(next, localOrigin(grownOrigin)) {
			iterateAtSize(chunk, face, size, origin, size != origSize, emit)
			return
		}
		size = next
		origin = grownOrigin
	}
}

func iterateAtSize(chunk *voxel.Chunk, face geometry.Face, size geometry.Size, origin geometry.BlockPos, grown bool, emit neighborFunc) {
	pos := geometry.NodePos{Size: size, Origin: origin}
	if grown {
		// A prior grow step already confirmed this cube is empty.
		emit(pos)
		return
	}
	if chunk.IsEmpty(size, localOrigin(origin)) {
		emit(pos)
		return
	}
	if size == geometry.Size1 {
		return // blocked; X1 never subdivides further
	}
	sub, _ := size.Shrink()
	if sub == geometry.Size1 {
		return // never shrink as far as X1
	}
	for _, subOrigin := range neighborCubes(face, sub, origin) {
		iterateAtSize(chunk, face, sub, subOrigin, false, emit)
	}
}

// localOrigin converts a world-space block position into the chunk-local
// X/Z form voxel.Chunk.IsEmpty requires, leaving Y untouched.
func localOrigin(origin geometry.BlockPos) geometry.BlockPos {
	lx, lz := origin.LocalXZ()
	return geometry.BlockPos{X: lx, Y: origin.Y, Z: lz}
}

// neighborCubes returns the four sub-cubes of size sub that tile the face
// of the (2*sub)-sized cube at origin nearest the direction opposite face
// — i.e. the quadrants actually adjacent to wherever the search arrived
// from, not the far side of origin's cube.
func neighborCubes(face geometry.Face, sub geometry.Size, origin geometry.BlockPos) [4]geometry.BlockPos {
	s := sub.Blocks()
	switch face {
	case geometry.Up:
		c := origin
		return [4]geometry.BlockPos{c, c.Add(s, 0, 0), c.Add(0, 0, s), c.Add(s, 0, s)}
	case geometry.Down:
		c := origin.Add(0, s, 0)
		return [4]geometry.BlockPos{c, c.Add(s, 0, 0), c.Add(0, 0, s), c.Add(s, 0, s)}
	case geometry.North:
		c := origin.Add(0, 0, s)
		return [4]geometry.BlockPos{c, c.Add(s, 0, 0), c.Add(0, s, 0), c.Add(s, s, 0)}
	case geometry.South:
		c := origin
		return [4]geometry.BlockPos{c, c.Add(s, 0, 0), c.Add(0, s, 0), c.Add(s, s, 0)}
	case geometry.East:
		c := origin
		return [4]geometry.BlockPos{c, c.Add(0, 0, s), c.Add(0, s, 0), c.Add(0, s, s)}
	case geometry.West:
		c := origin.Add(s, 0, 0)
		return [4]geometry.BlockPos{c, c.Add(0, 0, s), c.Add(0, s, 0), c.Add(0, s, s)}
	default:
		return [4]geometry.BlockPos{}
	}
}
