package stage

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// batchChunkSize is the number of invocations handed to one pool task.
// Per-vertex tasks would drown the pool in scheduling overhead, so vertices
// are processed in runs while invocations stay mutually independent.
const batchChunkSize = 1024

// NewTransformPool creates a worker pool sized for software draw-call
// emulation. Workers are reused across draws; the queue depth accommodates
// large vertex buffers split into chunks with headroom.
//
// Returns:
//   - worker.DynamicWorkerPool: the pool to pass to TransformBatch
func NewTransformPool() worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), 256, 1*time.Second)
}

// TransformBatch emulates one draw call on the CPU: it runs Transform once
// for every vertex, in no particular order, and returns the outputs indexed
// like the input. The uniform block is shared read-only across invocations,
// which never block on or communicate with each other — the per-draw
// WaitGroup barrier is the only synchronization.
//
// A nil pool runs the invocations serially, which is also the path for small
// batches where parallelism cannot pay for itself.
//
// Parameters:
//   - pool: the worker pool to spread chunks across (may be nil)
//   - u: the bound uniform transform block for the draw call
//   - vertices: the vertex attribute records to transform
//
// Returns:
//   - []Output: one output per input vertex, in input order
func TransformBatch(pool worker.DynamicWorkerPool, u *TransformUniform, vertices []Vertex) []Output {
	out := make([]Output, len(vertices))

	if pool == nil || len(vertices) <= batchChunkSize {
		for i, v := range vertices {
			out[i] = Transform(u, v)
		}
		return out
	}

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(vertices); start += batchChunkSize {
		end := min(start+batchChunkSize, len(vertices))

		wg.Add(1)
		lo, hi := start, end // capture for closure
		id := taskID
		taskID++
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					out[i] = Transform(u, vertices[i])
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return out
}
