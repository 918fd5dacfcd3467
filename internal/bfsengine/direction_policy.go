package bfsengine

import (
	"sync/atomic"

	"github.com/dd0wney/bfsengine/internal/bfsmetrics"
	"github.com/dd0wney/bfsengine/pkg/logging"
)

// Alpha and Beta are the direction-optimizing heuristic thresholds: Alpha
// governs top-down-to-bottom-up switching on edge density in the current
// frontier, Beta governs the reverse switch on frontier vertex count.
const (
	Alpha = 4
	Beta  = 24
)

// AverageDegreeThreshold is the M/N cutoff NewEngine uses to pick
// DirectionEngine over the plain merged-CSR BFSDriver.
const AverageDegreeThreshold = 10.0

type direction int32

const (
	dirTopDown direction = iota
	dirBottomUp
)

type dePhase int32

const (
	phaseStep dePhase = iota
	phaseReduce
)

// DirectionEngine is a direction-optimizing BFS over a boolean-bitmap
// frontier representation, used instead of BFSDriver's merged-CSR
// top-down-only traversal when the graph's average degree suggests a
// bottom-up sweep will dominate. It shares the WorkerPool abstraction
// with BFSDriver, but drives it once per (step, reduce) pair per level
// from the calling goroutine rather than looping internally inside the
// worker routine, since the direction decision and frontier bookkeeping
// need a global view between every parallel step.
type DirectionEngine struct {
	csr        *CSR
	pool       *WorkerPool
	numWorkers int
	n          int
	logger     logging.Logger
	metrics    *bfsmetrics.Registry

	thisFrontier, nextFrontier, visited []bool
	edgesPartial, verticesPartial       []int64

	direction direction
	phase     dePhase
	level     uint32
	distances []VId

	pending atomic.Int32 // workers still running the current Dispatch
}

// NewDirectionEngine builds a direction-optimizing engine over csr with
// numWorkers persistent workers.
func NewDirectionEngine(csr *CSR, numWorkers int, logger logging.Logger, metrics *bfsmetrics.Registry) (*DirectionEngine, error) {
	if numWorkers <= 0 {
		return nil, NewError("NewDirectionEngine").Because(ErrNoWorkers).Build()
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	n := csr.NumVertices()
	e := &DirectionEngine{
		csr:             csr,
		numWorkers:      numWorkers,
		n:               n,
		logger:          logger,
		metrics:         metrics,
		thisFrontier:    make([]bool, n),
		nextFrontier:    make([]bool, n),
		visited:         make([]bool, n),
		edgesPartial:    make([]int64, numWorkers),
		verticesPartial: make([]int64, numWorkers),
	}
	e.pending.Store(int32(numWorkers))
	pool, err := NewWorkerPool(numWorkers, e.routine, logger)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	return e, nil
}

func (e *DirectionEngine) Start() { e.pool.Start() }
func (e *DirectionEngine) Stop()  { e.pool.Stop() }

func (e *DirectionEngine) stripe(workerID int) (int, int) {
	size := (e.n + e.numWorkers - 1) / e.numWorkers
	start := workerID * size
	end := start + size
	if end > e.n {
		end = e.n
	}
	return start, end
}

// routine is the single shared WorkerPool body for this engine; it
// branches on phase (set by Run on the driving goroutine before each
// Dispatch) to either perform one top-down/bottom-up step or reduce the
// resulting frontier into per-worker edge/vertex counts. The last worker
// to finish a pass signals the pool's parent.
func (e *DirectionEngine) routine(workerID int) {
	defer func() {
		if e.pending.Add(-1) == 0 {
			e.pending.Store(int32(e.numWorkers))
			e.pool.NotifyParent()
		}
	}()
	start, end := e.stripe(workerID)

	if e.phase == phaseStep {
		if e.direction == dirTopDown {
			for v := start; v < end; v++ {
				if !e.thisFrontier[v] {
					continue
				}
				for _, nb := range e.csr.Neighbors(VId(v)) {
					if !e.visited[nb] {
						e.visited[nb] = true
						e.nextFrontier[nb] = true
					}
				}
			}
		} else {
			for v := start; v < end; v++ {
				if e.visited[v] {
					continue
				}
				for _, nb := range e.csr.Neighbors(VId(v)) {
					if e.thisFrontier[nb] {
						e.visited[v] = true
						e.nextFrontier[v] = true
						break
					}
				}
			}
		}
		return
	}

	var edges, vertices int64
	for v := start; v < end; v++ {
		if e.nextFrontier[v] {
			edges += int64(e.csr.Degree(VId(v)))
			vertices++
			e.distances[v] = VId(e.level)
		}
		e.thisFrontier[v] = false
	}
	e.edgesPartial[workerID] = edges
	e.verticesPartial[workerID] = vertices
}

// Run computes distances from source, writing into the caller-supplied
// slice (length n, pre-filled with Unreached is not required: Run clears
// it itself).
func (e *DirectionEngine) Run(source VId, distances []VId) error {
	if int(source) >= e.n {
		return NewError("DirectionEngine.Run").Vertex(source).Because(ErrSourceOutOfRange).Build()
	}
	if e.csr.Degree(source) == 0 {
		return NewError("DirectionEngine.Run").Vertex(source).Because(ErrSourceOutOfRange).
			WithContext("source has no outgoing edges").Build()
	}

	for i := range distances {
		distances[i] = Unreached
	}
	for i := 0; i < e.n; i++ {
		e.thisFrontier[i] = false
		e.nextFrontier[i] = false
		e.visited[i] = false
	}

	e.thisFrontier[source] = true
	e.visited[source] = true
	distances[source] = 0
	e.distances = distances

	unexploredEdges := int64(e.csr.NumEdges())
	edgesFrontier := int64(e.csr.Degree(source))
	verticesFrontier := int64(1)
	dir := dirTopDown
	level := uint32(1)

	for {
		if dir == dirBottomUp && verticesFrontier < int64(e.n)/Beta {
			dir = dirTopDown
			e.recordSwitch("top_down")
		} else if dir == dirTopDown && edgesFrontier > unexploredEdges/Alpha {
			dir = dirBottomUp
			e.recordSwitch("bottom_up")
		}
		unexploredEdges -= edgesFrontier

		e.direction = dir
		e.phase = phaseStep
		e.level = level
		e.pool.Dispatch()

		e.phase = phaseReduce
		e.pool.Dispatch()

		edgesFrontier, verticesFrontier = 0, 0
		for i := 0; i < e.numWorkers; i++ {
			edgesFrontier += e.edgesPartial[i]
			verticesFrontier += e.verticesPartial[i]
		}
		if verticesFrontier == 0 {
			break
		}

		e.thisFrontier, e.nextFrontier = e.nextFrontier, e.thisFrontier
		level++
	}

	for i := 0; i < e.n; i++ {
		e.visited[i] = false
		e.thisFrontier[i] = false
		e.nextFrontier[i] = false
	}
	return nil
}

func (e *DirectionEngine) recordSwitch(to string) {
	if e.metrics != nil {
		e.metrics.RecordDirectionSwitch(to)
	}
}
