package query

import (
	"runtime"

	"github.com/alitto/pond"
)

// newWorkerPool sizes the engine's fan-out pool to the machine:
// no task buffer (capacity 0, so Submit blocks until a worker takes the
// task), and a floor on idle workers so a burst of lookups doesn't pay
// worker spin-up cost.
func newWorkerPool() *pond.WorkerPool {
	size := runtime.NumCPU()
	if size < 4 {
		size = 4
	}
	return pond.New(size, 0, pond.MinWorkers(4))
}
