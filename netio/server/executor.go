package server

// IExecutor accepts a unit of deferred work and executes it, possibly on
// another goroutine. Implementations decide the concurrency policy; the
// dispatch loop only ever calls Submit.
type IExecutor interface {
	Submit(task func())
}

// --------------------------------------------------------------------------
// Thread Executor (default)
// --------------------------------------------------------------------------

// threadExecutor runs every submission on its own goroutine
type threadExecutor struct{}

// NewThreadExecutor creates the default executor: one detached goroutine
// per submission, unbounded concurrency, no pooling, no backpressure.
func NewThreadExecutor() IExecutor {
	return &threadExecutor{}
}

func (e *threadExecutor) Submit(task func()) {
	go task()
}

// --------------------------------------------------------------------------
// Sync Executor (tests, debugging)
// --------------------------------------------------------------------------

// syncExecutor runs every submission inline on the caller's goroutine
type syncExecutor struct{}

// NewSyncExecutor creates an executor that runs each task inline before
// Submit returns. Dispatch then blocks the accept loop; useful in tests
// and as the minimal proof that the executor is pluggable.
func NewSyncExecutor() IExecutor {
	return &syncExecutor{}
}

func (e *syncExecutor) Submit(task func()) {
	task()
}
