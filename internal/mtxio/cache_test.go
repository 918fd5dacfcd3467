package mtxio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dd0wney/bfsengine/internal/bfsengine"
	"github.com/dd0wney/bfsengine/pkg/logging"
)

func TestWriteReadCacheRoundTrip(t *testing.T) {
	csr := &bfsengine.CSR{
		RowPtr: []bfsengine.EOff{0, 1, 3, 5, 6},
		ColIdx: []bfsengine.VId{1, 0, 2, 1, 3, 2},
	}
	path := filepath.Join(t.TempDir(), "graph.bfsc")

	if err := WriteCache(path, csr); err != nil {
		t.Fatalf("WriteCache: %v", err)
	}

	got, err := ReadCache(path, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("ReadCache: %v", err)
	}
	if got.NumVertices() != csr.NumVertices() || got.NumEdges() != csr.NumEdges() {
		t.Fatalf("round trip mismatch: got %d vertices / %d edges, want %d / %d",
			got.NumVertices(), got.NumEdges(), csr.NumVertices(), csr.NumEdges())
	}
	for v := 0; v < csr.NumVertices(); v++ {
		want := csr.Neighbors(bfsengine.VId(v))
		gotN := got.Neighbors(bfsengine.VId(v))
		if len(want) != len(gotN) {
			t.Fatalf("vertex %d: neighbor count mismatch", v)
		}
		for i := range want {
			if want[i] != gotN[i] {
				t.Errorf("vertex %d neighbor %d: got %d, want %d", v, i, gotN[i], want[i])
			}
		}
	}
}

func TestReadCacheRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bfsc")
	if err := os.WriteFile(path, []byte("NOTB1234567890"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadCache(path, logging.NewNopLogger()); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("err = %v, want ErrInvalidGraph", err)
	}
}

func TestReadCacheMissingFile(t *testing.T) {
	if _, err := ReadCache("/nonexistent/cache.bfsc", logging.NewNopLogger()); !errors.Is(err, ErrIOFailure) {
		t.Fatalf("err = %v, want ErrIOFailure", err)
	}
}
