// Package bfsengine implements parallel level-synchronous breadth-first
// search over a merged CSR graph layout, with chunked work-stealing
// frontiers and a persistent, core-pinned worker pool.
package bfsengine

// VId identifies a vertex. Graphs are bounded to 2^32-1 vertices.
type VId uint32

// EOff is an offset into a MergedLayout's backing array. It is a distinct
// type from VId even though both are backed by uint32, so a vertex id is
// never mistaken for an offset into the merged layout (or vice versa)
// without an explicit conversion at the boundary where one is derived
// from the other.
type EOff uint32

// Unreached is the sentinel value for "no distance computed" / "no parent
// assigned". It doubles as both -1 and +infinity since VId is unsigned;
// any finite BFS distance or parent id is strictly smaller than it for
// any graph this engine can address.
const Unreached VId = ^VId(0)

// Shape selects which metadata header the MergedLayout stores per vertex,
// which in turn selects what BFSDriver.Run produces.
type Shape int

const (
	// ShapeDistances stores [degree, distance] per vertex and the engine
	// produces a distance-from-source array.
	ShapeDistances Shape = iota
	// ShapeParents stores [vertex_id, parent, degree] per vertex and the
	// engine produces a parent/predecessor array (no distances).
	ShapeParents
)

func (s Shape) String() string {
	switch s {
	case ShapeDistances:
		return "distances"
	case ShapeParents:
		return "parents"
	default:
		return "unknown"
	}
}

// headerSize returns the number of metadata cells a shape reserves ahead
// of each vertex's neighbor offsets in the merged array.
func (s Shape) headerSize() int {
	switch s {
	case ShapeParents:
		return 3
	default:
		return 2
	}
}
