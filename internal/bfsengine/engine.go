package bfsengine

import (
	"time"

	"github.com/dd0wney/bfsengine/internal/bfsmetrics"
	"github.com/dd0wney/bfsengine/pkg/logging"
)

// DefaultNumWorkers is the compile-time worker count the original
// traversal was tuned against (MAX_THREADS).
const DefaultNumWorkers = 24

// Config controls Engine construction.
type Config struct {
	NumWorkers      int
	ChunksPerWorker int
	Logger          logging.Logger
	Metrics         *bfsmetrics.Registry
}

func (c Config) withDefaults() Config {
	if c.NumWorkers <= 0 {
		c.NumWorkers = DefaultNumWorkers
	}
	if c.ChunksPerWorker <= 0 {
		c.ChunksPerWorker = DefaultChunksPerWorker
	}
	if c.Logger == nil {
		c.Logger = logging.DefaultLogger()
	}
	return c
}

// Engine is the single entry point for running BFS against a graph. It
// selects, at construction, between the plain merged-CSR top-down driver
// and the direction-optimizing bitmap engine by comparing the graph's
// average degree against AverageDegreeThreshold, exactly as a sparse
// scale-free graph (few, high-degree hubs) favors bottom-up sweeps while
// a uniformly sparse graph favors the merged-CSR top-down path.
//
// An Engine owns goroutines after Start and must be Stop()ed.
type Engine struct {
	csr    *CSR
	cfg    Config
	shape  Shape
	layout *MergedLayout

	driver    *BFSDriver // used when shape == ShapeParents, or low-degree distances
	direction *DirectionEngine // used for high-degree distances

	started bool
}

// NewEngine validates csr and builds the traversal strategy appropriate
// to shape. Distances-shape engines over high-average-degree graphs use
// DirectionEngine; everything else uses BFSDriver over a MergedLayout.
func NewEngine(csr *CSR, shape Shape, cfg Config) (*Engine, error) {
	if err := csr.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	e := &Engine{csr: csr, cfg: cfg, shape: shape}

	if shape == ShapeDistances && csr.AverageDegree() >= AverageDegreeThreshold {
		de, err := NewDirectionEngine(csr, cfg.NumWorkers, cfg.Logger, cfg.Metrics)
		if err != nil {
			return nil, err
		}
		e.direction = de
		return e, nil
	}

	e.layout = BuildMergedLayout(csr, shape)
	driver, err := NewBFSDriver(e.layout, cfg.NumWorkers, cfg.ChunksPerWorker, cfg.Logger, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	e.driver = driver
	return e, nil
}

// Start spawns the engine's persistent worker goroutines.
func (e *Engine) Start() {
	if e.started {
		return
	}
	if e.direction != nil {
		e.direction.Start()
	} else {
		e.driver.Start()
	}
	e.started = true
}

// Stop terminates the engine's worker goroutines. The engine cannot be
// reused after Stop.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	if e.direction != nil {
		e.direction.Stop()
	} else {
		e.driver.Stop()
	}
	e.started = false
}

// Shape reports which output this engine produces.
func (e *Engine) Shape() Shape {
	return e.shape
}

// UsingDirectionOptimizing reports whether this engine selected the
// bitmap-based direction-optimizing strategy over the merged-CSR driver.
func (e *Engine) UsingDirectionOptimizing() bool {
	return e.direction != nil
}

// Run computes one BFS from source into output (length NumVertices()),
// recording the run's duration and chunk high-water mark to metrics when
// configured. output holds distances when Shape() == ShapeDistances, or
// parents otherwise.
func (e *Engine) Run(source VId, output []VId) error {
	start := time.Now()

	var err error
	if e.direction != nil {
		err = e.direction.Run(source, output)
	} else {
		err = e.driver.Run(source, output)
	}
	if err != nil {
		return err
	}

	if e.cfg.Metrics != nil {
		maxChunks := 0
		if e.driver != nil {
			maxChunks = e.driver.MaxChunksObserved()
		}
		e.cfg.Metrics.RecordRun(e.shape.String(), time.Since(start).Seconds(), maxChunks)
	}
	return nil
}

// NumVertices returns the graph's vertex count.
func (e *Engine) NumVertices() int {
	return e.csr.NumVertices()
}

// MaxChunksObserved reports the frontier chunk high-water mark of the
// most recently completed run. The direction-optimizing strategy has no
// chunked frontier and always reports 0.
func (e *Engine) MaxChunksObserved() int {
	if e.driver != nil {
		return e.driver.MaxChunksObserved()
	}
	return 0
}
