package sourcegen

import (
	"testing"

	"github.com/dd0wney/bfsengine/internal/bfsengine"
)

func starWithIsolatedVertex() *bfsengine.CSR {
	// Vertex 0 is the hub, 1-2 are leaves, 3 is isolated (degree 0).
	return &bfsengine.CSR{
		RowPtr: []bfsengine.EOff{0, 2, 3, 4, 4},
		ColIdx: []bfsengine.VId{1, 2, 0, 0},
	}
}

func TestGenerateFixedSourceRepeatsVerbatim(t *testing.T) {
	csr := starWithIsolatedVertex()
	fixed := bfsengine.VId(2)
	got := Generate(csr, uint32(csr.NumVertices()), 5, &fixed)
	if len(got) != 5 {
		t.Fatalf("len(got) = %d, want 5", len(got))
	}
	for i, v := range got {
		if v != fixed {
			t.Errorf("sources[%d] = %d, want %d", i, v, fixed)
		}
	}
}

func TestGenerateRandomIsDeterministic(t *testing.T) {
	csr := starWithIsolatedVertex()
	a := Generate(csr, uint32(csr.NumVertices()), 50, nil)
	b := Generate(csr, uint32(csr.NumVertices()), 50, nil)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("sources[%d] = %d, want %d (same seed must reproduce the same sequence)", i, b[i], a[i])
		}
	}
}

func TestGenerateNeverSelectsZeroDegreeVertex(t *testing.T) {
	csr := starWithIsolatedVertex()
	sources := Generate(csr, uint32(csr.NumVertices()), 200, nil)
	for i, v := range sources {
		if csr.Degree(v) == 0 {
			t.Errorf("sources[%d] = %d has degree 0, rejection sampling should have skipped it", i, v)
		}
	}
}
