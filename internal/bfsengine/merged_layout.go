package bfsengine

// MergedLayout interleaves each vertex's metadata header with its neighbor
// offsets into a single contiguous []uint32 buffer, so that relaxing an
// edge during traversal costs one indirection (index into the merged
// array) instead of two (row_ptr lookup, then a separate metadata array
// lookup). This mirrors the merged CSR representation used by the
// direction-agnostic reference traversal this package was built from.
//
// Layout per vertex v, at offset rowPtrMerged[v]:
//
//	ShapeDistances: [degree, distance, neighbor_0, neighbor_1, ...]
//	ShapeParents:   [vertex_id, parent, degree, neighbor_0, neighbor_1, ...]
//
// Each neighbor cell does not store a raw vertex id; it stores that
// neighbor's own merged offset, so a traversal step never has to
// recompute rowPtrMerged[neighbor] on the hot path.
type MergedLayout struct {
	shape    Shape
	n        int
	header   int
	merged   []uint32
	rowPtr   []EOff // length n+1, rowPtr[v] is v's offset into merged
}

func headerOffset(csrRowPtr EOff, v int, header int) EOff {
	return csrRowPtr + EOff(header*v)
}

// BuildMergedLayout constructs the interleaved layout for the given CSR
// and shape. The CSR is assumed already validated.
func BuildMergedLayout(csr *CSR, shape Shape) *MergedLayout {
	n := csr.NumVertices()
	h := shape.headerSize()

	m := &MergedLayout{
		shape:  shape,
		n:      n,
		header: h,
		merged: make([]uint32, csr.NumEdges()+n*h),
		rowPtr: make([]EOff, n+1),
	}

	for v := 0; v < n; v++ {
		pos := headerOffset(csr.RowPtr[v], v, h)
		m.rowPtr[v] = pos
		degree := csr.Degree(VId(v))

		switch shape {
		case ShapeParents:
			m.merged[pos] = uint32(v)
			m.merged[pos+1] = uint32(Unreached) // parent
			m.merged[pos+2] = degree
		default:
			m.merged[pos] = degree
			m.merged[pos+1] = uint32(Unreached) // distance
		}

		neighbors := csr.Neighbors(VId(v))
		for j, col := range neighbors {
			m.merged[int(pos)+h+j] = uint32(headerOffset(csr.RowPtr[col], int(col), h))
		}
	}
	m.rowPtr[n] = headerOffset(csr.RowPtr[n], n, h)

	return m
}

// NumVertices returns N.
func (m *MergedLayout) NumVertices() int { return m.n }

// Shape returns the metadata shape this layout was built with.
func (m *MergedLayout) Shape() Shape { return m.shape }

// HeaderOf returns vertex v's merged offset, i.e. the index of its
// metadata header's first cell.
func (m *MergedLayout) HeaderOf(v VId) EOff {
	return m.rowPtr[v]
}

// DegreeAt returns the degree stored in the header at offset off.
func (m *MergedLayout) DegreeAt(off EOff) uint32 {
	if m.shape == ShapeParents {
		return m.merged[off+2]
	}
	return m.merged[off]
}

// NeighborOffsetAt returns the merged offset of the i-th neighbor of the
// vertex whose header starts at off.
func (m *MergedLayout) NeighborOffsetAt(off EOff, i int) EOff {
	return EOff(m.merged[int(off)+m.header+i])
}

// DistanceAt reads the distance cell of a ShapeDistances header.
func (m *MergedLayout) DistanceAt(off EOff) VId {
	return VId(m.merged[off+1])
}

// SetDistanceAt writes the distance cell of a ShapeDistances header. This
// is a plain, non-atomic store: concurrent workers may race to write the
// same value here (the level a vertex is first discovered at), which is
// benign under BFSDriver.workerRoutine's level barrier — see driver.go.
func (m *MergedLayout) SetDistanceAt(off EOff, dist VId) {
	m.merged[off+1] = uint32(dist)
}

// IDAt reads the vertex_id cell of a ShapeParents header.
func (m *MergedLayout) IDAt(off EOff) VId {
	return VId(m.merged[off])
}

// ParentAt reads the parent cell of a ShapeParents header.
func (m *MergedLayout) ParentAt(off EOff) VId {
	return VId(m.merged[off+1])
}

// SetParentAt writes the parent cell of a ShapeParents header. See
// SetDistanceAt: also a benign-race plain store.
func (m *MergedLayout) SetParentAt(off EOff, parent VId) {
	m.merged[off+1] = uint32(parent)
}

// ResetMutables reinitializes every distance/parent cell to Unreached, so
// the same layout can be reused across repeated runs from different
// sources without rebuilding it (see BFSDriver.Run).
func (m *MergedLayout) ResetMutables() {
	for v := 0; v < m.n; v++ {
		off := m.rowPtr[v]
		m.merged[off+1] = uint32(Unreached)
	}
}
