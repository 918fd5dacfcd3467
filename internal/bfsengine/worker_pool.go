package bfsengine

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/dd0wney/bfsengine/pkg/logging"
)

// WorkerPool is a fixed-size set of long-lived, best-effort core-pinned
// goroutines driven by a two-sided condition-variable handshake, in place
// of a task queue: Dispatch wakes every worker to run one full pass of
// the shared routine, then blocks until the last worker to finish signals
// back. This avoids a channel send/receive per unit of work, which
// matters here because a BFS level can hand out millions of chunks.
type WorkerPool struct {
	numWorkers int
	routine    func(workerID int)
	logger     logging.Logger

	childrenMu   sync.Mutex
	childrenCond *sync.Cond
	runID        atomic.Uint64
	stopping     atomic.Bool

	parentMu     sync.Mutex
	parentCond   *sync.Cond
	childrenDone atomic.Bool

	wg sync.WaitGroup
}

// NewWorkerPool creates (but does not start) a pool of n workers, each of
// which will run routine once per Dispatch call.
func NewWorkerPool(n int, routine func(workerID int), logger logging.Logger) (*WorkerPool, error) {
	if n <= 0 {
		return nil, NewError("NewWorkerPool").Because(ErrNoWorkers).Build()
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	wp := &WorkerPool{
		numWorkers: n,
		routine:    routine,
		logger:     logger,
	}
	wp.childrenCond = sync.NewCond(&wp.childrenMu)
	wp.parentCond = sync.NewCond(&wp.parentMu)
	return wp, nil
}

// Start spawns the worker goroutines. Each attempts to pin itself to a
// distinct OS thread and CPU; pinning failures are logged and otherwise
// ignored, since correctness never depends on pinning succeeding.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.loop(i)
	}
}

func (wp *WorkerPool) loop(workerID int) {
	defer wp.wg.Done()

	runtime.LockOSThread()
	if err := pinToCPU(workerID); err != nil {
		wp.logger.Warn("worker CPU pin failed", logging.WorkerID(workerID), logging.Error(err))
	}

	var localRun uint64
	for {
		wp.childrenMu.Lock()
		for wp.runID.Load() == localRun && !wp.stopping.Load() {
			wp.childrenCond.Wait()
		}
		stop := wp.stopping.Load()
		localRun = wp.runID.Load()
		wp.childrenMu.Unlock()

		if stop {
			return
		}
		wp.routine(workerID)
	}
}

// Dispatch bumps the run generation, wakes every worker, and blocks until
// the last worker to finish this generation's routine calls NotifyParent.
func (wp *WorkerPool) Dispatch() {
	wp.childrenMu.Lock()
	wp.runID.Add(1)
	wp.childrenCond.Broadcast()
	wp.childrenMu.Unlock()

	wp.parentMu.Lock()
	for !wp.childrenDone.Load() {
		wp.parentCond.Wait()
	}
	wp.childrenDone.Store(false)
	wp.parentMu.Unlock()
}

// NotifyParent is called by whichever worker determines itself to be the
// last to finish the current generation's routine. The routine owns that
// determination (typically an atomic countdown over its own worker
// count); WorkerPool only owns the handshake's signaling half.
func (wp *WorkerPool) NotifyParent() {
	wp.parentMu.Lock()
	wp.childrenDone.Store(true)
	wp.parentCond.Signal()
	wp.parentMu.Unlock()
}

// Stop terminates every worker goroutine and waits for them to exit. The
// pool cannot be restarted after Stop.
func (wp *WorkerPool) Stop() {
	wp.childrenMu.Lock()
	wp.stopping.Store(true)
	wp.runID.Add(1)
	wp.childrenCond.Broadcast()
	wp.childrenMu.Unlock()
	wp.wg.Wait()
}

// NumWorkers returns the fixed worker count this pool was created with.
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// pinToCPU best-effort pins the calling OS thread to CPU id % runtime.NumCPU().
// A worker routine must never depend on pinning succeeding: it is purely
// an optimization for cache locality across levels, and is unavailable
// entirely on non-Linux platforms.
func pinToCPU(id int) error {
	ncpu := runtime.NumCPU()
	if ncpu == 0 {
		return nil
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(id % ncpu)
	return unix.SchedSetaffinity(0, &set)
}
