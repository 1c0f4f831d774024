// Package worker implements the mining workflow for the blockchain on a
// dedicated goroutine so callers stay responsive.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// ErrShutdown is returned when mining is requested after the worker
// has been shut down.
var ErrShutdown = errors.New("worker is shut down")

// =============================================================================

// request represents a single call to mine a block.
type request struct {
	ctx    context.Context
	result chan result
}

// result is what the mining goroutine sends back to the requester.
type result struct {
	block database.Block
	err   error
}

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	shut      chan struct{}
	shutOnce  sync.Once
	requests  chan request
	evHandler state.EventHandler
}

// Run creates a worker, registers it with the state and starts the
// mining G. Run returns once the G is running.
func Run(st *state.State, evHandler state.EventHandler) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	w := Worker{
		state:     st,
		shut:      make(chan struct{}),
		requests:  make(chan request),
		evHandler: ev,
	}

	st.Worker = &w

	// Mining requests are served by a single G so blocks are sealed in the
	// order they were asked for.
	started := make(chan struct{})
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		close(started)
		w.miningOperations()
	}()
	<-started
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work. A mining operation in
// progress is cancelled.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: terminate goroutines")
	w.shutOnce.Do(func() { close(w.shut) })
	w.wg.Wait()
}

// Mine queues a mining operation and waits for the block to be sealed.
// Requests are processed one at a time in the order they are received.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := request{
		ctx:    ctx,
		result: make(chan result, 1),
	}

	select {
	case w.requests <- req:
		w.evHandler("worker: Mine: mining signaled")

	case <-ctx.Done():
		return database.Block{}, fmt.Errorf("%w: %w", state.ErrMiningCancelled, ctx.Err())

	case <-w.shut:
		return database.Block{}, ErrShutdown
	}

	// Once the request is accepted a result is always sent back.
	res := <-req.result
	return res.block, res.err
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
