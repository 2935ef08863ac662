// Package worker (worker_pool.go): manages the lifecycle of the fixed
// Worker goroutines and the task/result channels between them and the
// local gRPC server. Shape is unchanged from the pull-based ancestor this
// repo started from: a bounded task channel feeds N long-lived workers, a
// bounded result channel drains back out, Stop() closes taskCh and waits.
package worker

import (
	"errors"
	"sync"

	"github.com/vtmesh/transcode/internal/media"
)

var (
	// ErrPoolClosed means the pool has been stopped and will not accept
	// new tasks.
	ErrPoolClosed = errors.New("worker pool is closed")
	// ErrPoolNotStarted means Start has not been called yet.
	ErrPoolNotStarted = errors.New("worker pool not started")
)

// Pool owns a fixed set of Worker goroutines sharing one task channel and
// one result channel.
type Pool struct {
	workers  []*Worker
	taskCh   chan Task
	resultCh chan Result
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	stopped  bool
	mu       sync.Mutex

	executor   *media.Executor
	scratchDir string
}

// NewPool creates a Pool bound to a media executor and scratch directory;
// bufferSize sizes both the task and result channels.
func NewPool(bufferSize int, executor *media.Executor, scratchDir string) *Pool {
	return &Pool{
		workers:    make([]*Worker, 0),
		taskCh:     make(chan Task, bufferSize),
		resultCh:   make(chan Result, bufferSize),
		stopCh:     make(chan struct{}),
		executor:   executor,
		scratchDir: scratchDir,
	}
}

// Start launches workerCount goroutines pulling from the shared task
// channel. The gRPC server's ProcessShard handler is the only producer
// into this pool; there is no separate poll loop, since shards are pushed
// to the worker rather than pulled by it.
func (p *Pool) Start(workerCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return errors.New("pool already started")
	}

	for i := 0; i < workerCount; i++ {
		w := newWorker(i, p.taskCh, p.resultCh, p.executor, p.scratchDir)
		p.workers = append(p.workers, w)

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run()
		}(w)
	}

	p.started = true
	return nil
}

// Submit hands one Task to the pool. It blocks until a worker accepts it.
//
// Submit and Stop touch taskCh from different goroutines: Submit sends,
// Stop closes. Submit holds p.mu for the whole send, and Stop marks the
// pool stopped under the same lock before it closes taskCh, so Submit never
// sends on a closed channel: a Submit that runs after Stop returns
// ErrPoolClosed, and a Stop that arrives during a blocked Submit waits for
// that send to finish.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return ErrPoolNotStarted
	}
	if p.stopped {
		return ErrPoolClosed
	}
	p.taskCh <- task
	return nil
}

// ReceiveResult blocks until a Result is available or the pool stops.
func (p *Pool) ReceiveResult() (Result, error) {
	select {
	case result, ok := <-p.resultCh:
		if !ok {
			return Result{}, ErrPoolClosed
		}
		return result, nil
	case <-p.stopCh:
		return Result{}, ErrPoolClosed
	}
}

// Stop closes the task channel, waits for every worker to drain its
// current task, then closes the result channel.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.stopCh)
	close(p.taskCh)

	p.wg.Wait()

	close(p.resultCh)
}

// GetWorkerCount returns how many workers this pool started.
func (p *Pool) GetWorkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// IsStarted reports whether Start has completed successfully.
func (p *Pool) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}
