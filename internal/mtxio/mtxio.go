// Package mtxio reads the NIST Matrix Market coordinate format into the
// CSR layout bfsengine operates on. It supports the "pattern", "real",
// "integer" and "complex" value fields of the coordinate object type,
// and both "general" and "symmetric"/"skew-symmetric" storage (the
// latter two are expanded into both directions of each edge).
package mtxio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/bfsengine/internal/bfsengine"
	"github.com/dd0wney/bfsengine/pkg/logging"
	"github.com/dd0wney/bfsengine/pkg/pools"
)

const bannerPrefix = "%%MatrixMarket"

type header struct {
	object   string // "matrix"
	format   string // "coordinate" or "array"
	field    string // "real", "integer", "complex", "pattern"
	symmetry string // "general", "symmetric", "skew-symmetric", "hermitian"
}

// ReadFile opens path and parses it as a Matrix Market coordinate file,
// returning an unvalidated bfsengine.CSR. Callers should call Validate
// on the result before handing it to an Engine.
func ReadFile(path string, logger logging.Logger) (*bfsengine.CSR, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Op: "open " + path, Cause: errors.Join(ErrIOFailure, err)}
	}
	defer f.Close()

	logger.Info("reading Matrix Market file", logging.String("path", path))
	csr, err := Read(f, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("parsed Matrix Market file",
		logging.String("path", path),
		logging.Int("vertices", csr.NumVertices()),
		logging.Int("edges", csr.NumEdges()),
	)
	return csr, nil
}

// Read parses r as a Matrix Market coordinate stream.
func Read(r io.Reader, logger logging.Logger) (*bfsengine.CSR, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNum := 0
	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || (len(line) > 0 && line[0] == '%' && !strings.HasPrefix(line, bannerPrefix)) {
				continue
			}
			return line, true
		}
		return "", false
	}

	banner, ok := nextLine()
	if !ok {
		return nil, &FormatError{Op: "read banner", Line: lineNum, Cause: ErrIOFailure}
	}
	hdr, err := parseBanner(banner, lineNum)
	if err != nil {
		return nil, err
	}
	if hdr.format != "coordinate" {
		return nil, &FormatError{Op: "parse banner", Line: lineNum, Cause: ErrInvalidGraph, Detail: "only the coordinate format is supported, got " + hdr.format}
	}

	// Skip remaining %-comment lines, which nextLine already does; the
	// first non-comment line after the banner is the size line.
	sizeLine, ok := nextLine()
	if !ok {
		return nil, &FormatError{Op: "read size line", Line: lineNum, Cause: ErrIOFailure}
	}
	nrows, _, nnz, err := parseSizeLine(sizeLine, lineNum)
	if err != nil {
		return nil, err
	}
	if nrows == 0 {
		return nil, &FormatError{Op: "parse size line", Line: lineNum, Cause: ErrInvalidGraph, Detail: "zero rows"}
	}

	mirror := hdr.symmetry == "symmetric" || hdr.symmetry == "skew-symmetric" || hdr.symmetry == "hermitian"

	adj := make([][]uint32, nrows)
	for i := uint64(0); i < nnz; i++ {
		line, ok := nextLine()
		if !ok {
			return nil, &FormatError{Op: "read entries", Line: lineNum, Cause: ErrIOFailure, Detail: fmt.Sprintf("expected %d entries, got %d", nnz, i)}
		}
		row, col, err := parseEntryLine(line, lineNum, hdr.field)
		if err != nil {
			return nil, err
		}
		if row == 0 || col == 0 || row > nrows || col > nrows {
			return nil, &FormatError{Op: "parse entry", Line: lineNum, Cause: ErrInvalidGraph, Detail: "index out of [1,nrows] range"}
		}
		u, v := uint32(row-1), uint32(col-1)
		adj[u] = appendVID(adj[u], v)
		if mirror && u != v {
			adj[v] = appendVID(adj[v], u)
		}
	}

	rowPtr := make([]bfsengine.EOff, nrows+1)
	total := 0
	for i, neighbors := range adj {
		rowPtr[i] = bfsengine.EOff(total)
		total += len(neighbors)
	}
	rowPtr[nrows] = bfsengine.EOff(total)

	colIdx := make([]bfsengine.VId, total)
	cursor := 0
	for _, neighbors := range adj {
		for i, v := range neighbors {
			colIdx[cursor+i] = bfsengine.VId(v)
		}
		cursor += len(neighbors)
		pools.PutVIDs(neighbors)
	}

	return &bfsengine.CSR{RowPtr: rowPtr, ColIdx: colIdx}, nil
}

func appendVID(s []uint32, v uint32) []uint32 {
	if s == nil {
		s = pools.GetVIDs(4)
	}
	return append(s, v)
}

func parseBanner(line string, lineNum int) (header, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != bannerPrefix {
		return header{}, &FormatError{Op: "parse banner", Line: lineNum, Cause: ErrInvalidGraph, Detail: "missing %%MatrixMarket banner"}
	}
	hdr := header{
		object:   strings.ToLower(fields[1]),
		format:   strings.ToLower(fields[2]),
		field:    strings.ToLower(fields[3]),
		symmetry: strings.ToLower(fields[4]),
	}
	if hdr.object != "matrix" {
		return header{}, &FormatError{Op: "parse banner", Line: lineNum, Cause: ErrInvalidGraph, Detail: "only matrix objects are supported, got " + hdr.object}
	}
	return hdr, nil
}

func parseSizeLine(line string, lineNum int) (nrows, ncols, nnz uint64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, &FormatError{Op: "parse size line", Line: lineNum, Cause: ErrInvalidGraph, Detail: "expected 3 fields (rows cols entries)"}
	}
	nrows, e1 := strconv.ParseUint(fields[0], 10, 32)
	ncols, e2 := strconv.ParseUint(fields[1], 10, 32)
	nnz, e3 := strconv.ParseUint(fields[2], 10, 64)
	if e1 != nil || e2 != nil || e3 != nil {
		return 0, 0, 0, &FormatError{Op: "parse size line", Line: lineNum, Cause: ErrInvalidGraph, Detail: "non-numeric dimension"}
	}
	return nrows, ncols, nnz, nil
}

func parseEntryLine(line string, lineNum int, field string) (row, col uint64, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, &FormatError{Op: "parse entry", Line: lineNum, Cause: ErrInvalidGraph, Detail: "expected at least row and column indices"}
	}
	row, e1 := strconv.ParseUint(fields[0], 10, 32)
	col, e2 := strconv.ParseUint(fields[1], 10, 32)
	if e1 != nil || e2 != nil {
		return 0, 0, &FormatError{Op: "parse entry", Line: lineNum, Cause: ErrInvalidGraph, Detail: "non-numeric index"}
	}
	// Edge weights (real/integer/complex fields) are never read; BFS is
	// unweighted, so only the index pair matters.
	return row, col, nil
}
