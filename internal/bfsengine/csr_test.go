package bfsengine

import (
	"errors"
	"testing"
)

func TestCSRValidateRejectsNonMonotoneRowPtr(t *testing.T) {
	csr := &CSR{
		RowPtr: []EOff{0, 3, 1, 4},
		ColIdx: []VId{0, 1, 2, 0},
	}
	err := csr.Validate()
	if err == nil || !errors.Is(err, ErrMalformedCSR) {
		t.Fatalf("Validate() = %v, want ErrMalformedCSR", err)
	}
}

func TestCSRValidateRejectsOutOfRangeColumn(t *testing.T) {
	csr := &CSR{
		RowPtr: []EOff{0, 1},
		ColIdx: []VId{99},
	}
	err := csr.Validate()
	if err == nil || !errors.Is(err, ErrMalformedCSR) {
		t.Fatalf("Validate() = %v, want ErrMalformedCSR", err)
	}
}

func TestCSRValidateRejectsEmptyGraph(t *testing.T) {
	csr := &CSR{}
	if err := csr.Validate(); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("Validate() = %v, want ErrEmptyGraph", err)
	}
}

func TestCSRValidateAccepts(t *testing.T) {
	csr := pathP4()
	if err := csr.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestCSRAverageDegree(t *testing.T) {
	csr := pathP4()
	if got, want := csr.AverageDegree(), 1.5; got != want {
		t.Errorf("AverageDegree() = %v, want %v", got, want)
	}
}
