package mtxio

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/bfsengine/pkg/logging"
)

func TestReadGeneralPattern(t *testing.T) {
	// Path P4: 0-1-2-3, directed entries as given (general, so no mirroring).
	const mtx = `%%MatrixMarket matrix coordinate pattern general
% comment line, ignored
4 4 3
1 2
2 3
3 4
`
	csr, err := Read(strings.NewReader(mtx), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if csr.NumVertices() != 4 {
		t.Fatalf("NumVertices() = %d, want 4", csr.NumVertices())
	}
	if csr.NumEdges() != 3 {
		t.Fatalf("NumEdges() = %d, want 3 (general storage, no mirroring)", csr.NumEdges())
	}
	if err := csr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestReadSymmetricMirrorsEdges(t *testing.T) {
	const mtx = `%%MatrixMarket matrix coordinate pattern symmetric
4 4 3
1 2
2 3
3 4
`
	csr, err := Read(strings.NewReader(mtx), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if csr.NumEdges() != 6 {
		t.Fatalf("NumEdges() = %d, want 6 (symmetric storage mirrors each entry)", csr.NumEdges())
	}
	if got := csr.Degree(0); got != 1 {
		t.Errorf("Degree(0) = %d, want 1", got)
	}
	if got := csr.Degree(1); got != 2 {
		t.Errorf("Degree(1) = %d, want 2", got)
	}
}

func TestReadWithRealWeightsIgnoresValues(t *testing.T) {
	const mtx = `%%MatrixMarket matrix coordinate real general
2 2 1
1 2 3.14159
`
	csr, err := Read(strings.NewReader(mtx), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if csr.NumEdges() != 1 {
		t.Fatalf("NumEdges() = %d, want 1", csr.NumEdges())
	}
}

func TestReadRejectsMissingBanner(t *testing.T) {
	const mtx = `2 2 1
1 2
`
	if _, err := Read(strings.NewReader(mtx), logging.NewNopLogger()); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("err = %v, want ErrInvalidGraph", err)
	}
}

func TestReadRejectsArrayFormat(t *testing.T) {
	const mtx = `%%MatrixMarket matrix array real general
2 2
1.0
2.0
`
	if _, err := Read(strings.NewReader(mtx), logging.NewNopLogger()); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("err = %v, want ErrInvalidGraph", err)
	}
}

func TestReadRejectsOutOfRangeIndex(t *testing.T) {
	const mtx = `%%MatrixMarket matrix coordinate pattern general
2 2 1
1 5
`
	if _, err := Read(strings.NewReader(mtx), logging.NewNopLogger()); !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("err = %v, want ErrInvalidGraph", err)
	}
}

func TestReadRejectsTruncatedEntries(t *testing.T) {
	const mtx = `%%MatrixMarket matrix coordinate pattern general
3 3 3
1 2
`
	if _, err := Read(strings.NewReader(mtx), logging.NewNopLogger()); !errors.Is(err, ErrIOFailure) {
		t.Fatalf("err = %v, want ErrIOFailure", err)
	}
}

func TestReadFileMissingPath(t *testing.T) {
	if _, err := ReadFile("/nonexistent/path/graph.mtx", logging.NewNopLogger()); !errors.Is(err, ErrIOFailure) {
		t.Fatalf("err = %v, want ErrIOFailure", err)
	}
}
