package bfsengine

import (
	"runtime"
	"sync/atomic"

	"github.com/dd0wney/bfsengine/internal/bfsmetrics"
	"github.com/dd0wney/bfsengine/pkg/logging"
)

// BFSDriver orchestrates one WorkerPool over a pair of FrontierPools to
// run level-synchronous top-down BFS passes against a MergedLayout. A
// single driver instance is reused across many Run calls against
// different sources; MergedLayout's mutable cells are reset as part of
// each run's finalization, so no rebuild is needed between runs.
type BFSDriver struct {
	layout     *MergedLayout
	curr, next *FrontierPool
	pool       *WorkerPool
	numWorkers int
	logger     logging.Logger
	metrics    *bfsmetrics.Registry

	activeWorkers   atomic.Int32
	explorationDone atomic.Bool
	currentLevel    atomic.Uint32
	maxChunks       int

	output []VId
}

// NewBFSDriver builds a driver over layout with numWorkers persistent
// workers, each pre-sizing chunksPerWorker chunk slots in both frontier
// pools.
func NewBFSDriver(layout *MergedLayout, numWorkers, chunksPerWorker int, logger logging.Logger, metrics *bfsmetrics.Registry) (*BFSDriver, error) {
	if numWorkers <= 0 {
		return nil, NewError("NewBFSDriver").Because(ErrNoWorkers).Build()
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	d := &BFSDriver{
		layout:     layout,
		curr:       NewFrontierPool(numWorkers, chunksPerWorker),
		next:       NewFrontierPool(numWorkers, chunksPerWorker),
		numWorkers: numWorkers,
		logger:     logger,
		metrics:    metrics,
	}
	pool, err := NewWorkerPool(numWorkers, d.workerRoutine, logger)
	if err != nil {
		return nil, err
	}
	d.pool = pool
	return d, nil
}

// Start spawns the driver's worker goroutines. Must be called once
// before any Run.
func (d *BFSDriver) Start() {
	d.pool.Start()
}

// Stop terminates the driver's worker goroutines. The driver cannot be
// reused after Stop.
func (d *BFSDriver) Stop() {
	d.pool.Stop()
}

// MaxChunksObserved returns the high-water mark of total chunks seen
// across all levels of the most recently completed run.
func (d *BFSDriver) MaxChunksObserved() int {
	return d.maxChunks
}

// Run executes one full BFS from source, writing into output (which must
// have length layout.NumVertices()). It blocks until every worker has
// finalized its vertex stripe.
func (d *BFSDriver) Run(source VId, output []VId) error {
	n := d.layout.NumVertices()
	if int(source) >= n {
		return NewError("BFSDriver.Run").Vertex(source).Because(ErrSourceOutOfRange).Build()
	}
	sourceOff := d.layout.HeaderOf(source)
	if d.layout.DegreeAt(sourceOff) == 0 {
		return NewError("BFSDriver.Run").Vertex(source).Because(ErrSourceOutOfRange).
			WithContext("source has no outgoing edges").Build()
	}

	d.output = output
	d.curr.Reset()
	d.next.Reset()
	d.maxChunks = 0

	switch d.layout.Shape() {
	case ShapeParents:
		d.layout.SetParentAt(sourceOff, source)
	default:
		d.layout.SetDistanceAt(sourceOff, 0)
	}
	d.curr.PushVertex(0, sourceOff)

	d.activeWorkers.Store(int32(d.numWorkers))
	d.explorationDone.Store(false)
	d.currentLevel.Store(1)

	d.pool.Dispatch()
	return nil
}

// workerRoutine is the per-run body executed by every WorkerPool worker.
// It loops across levels internally (spinning on the level barrier)
// until exploration is exhausted, then finalizes its vertex stripe.
func (d *BFSDriver) workerRoutine(workerID int) {
	for !d.explorationDone.Load() {
		prevLevel := d.currentLevel.Load()
		d.topDownStep(workerID, prevLevel)

		if d.activeWorkers.Add(-1) == 0 {
			d.activeWorkers.Store(int32(d.numWorkers))
			d.curr, d.next = d.next, d.curr
			chunks := d.curr.TotalChunksApprox()
			if chunks == 0 {
				d.explorationDone.Store(true)
			}
			if chunks > d.maxChunks {
				d.maxChunks = chunks
			}
			d.currentLevel.Add(1)
		} else {
			for d.currentLevel.Load() == prevLevel {
				runtime.Gosched()
			}
		}
	}

	d.finalizeStripe(workerID)
	if d.activeWorkers.Add(-1) == 0 {
		d.pool.NotifyParent()
	}
}

// topDownStep drains every offset assigned to workerID (its own chunks,
// then whatever it can steal from other workers) and relaxes each one's
// edges against the current level.
func (d *BFSDriver) topDownStep(workerID int, level uint32) {
	for {
		off, ok, stolen := d.curr.PopVertex(workerID)
		if !ok {
			return
		}
		if stolen && d.metrics != nil {
			d.metrics.FrontierStealsTotal.Inc()
		}
		d.relaxVertex(off, workerID, level)
	}
}

// relaxVertex scans the neighbors of the vertex whose header starts at
// off and, for each unvisited neighbor, records distance or parent and
// (unless the neighbor is a degree-1 dead end) pushes it into next.
func (d *BFSDriver) relaxVertex(off EOff, workerID int, level uint32) {
	degree := d.layout.DegreeAt(off)
	parents := d.layout.Shape() == ShapeParents
	for i := uint32(0); i < degree; i++ {
		n := d.layout.NeighborOffsetAt(off, int(i))
		if parents {
			if d.layout.ParentAt(n) == Unreached {
				d.layout.SetParentAt(n, d.layout.IDAt(off))
				if d.layout.DegreeAt(n) != 1 {
					d.next.PushVertex(workerID, n)
				}
			}
			continue
		}
		if d.layout.DistanceAt(n) == Unreached {
			d.layout.SetDistanceAt(n, VId(level))
			if d.layout.DegreeAt(n) != 1 {
				d.next.PushVertex(workerID, n)
			}
		}
	}
}

// finalizeStripe copies this worker's vertex range out of the layout
// into the output buffer and resets those cells to Unreached, fusing the
// write-out with the reset the next Run needs.
func (d *BFSDriver) finalizeStripe(workerID int) {
	n := d.layout.NumVertices()
	stripe := (n + d.numWorkers - 1) / d.numWorkers
	start := workerID * stripe
	end := start + stripe
	if end > n {
		end = n
	}
	parents := d.layout.Shape() == ShapeParents
	for v := start; v < end; v++ {
		off := d.layout.HeaderOf(VId(v))
		if parents {
			d.output[v] = d.layout.ParentAt(off)
			d.layout.SetParentAt(off, Unreached)
		} else {
			d.output[v] = d.layout.DistanceAt(off)
			d.layout.SetDistanceAt(off, Unreached)
		}
		if d.metrics != nil {
			d.metrics.VerticesFinalized.Inc()
		}
	}
}
