package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// miningOperations pulls mining requests off the queue one at a time until
// the worker is shut down.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.requests:
			req.result <- w.mine(req.ctx)

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// mine runs one mining workflow. The search stops early if the request's
// context is done or the worker is shut down.
func (w *Worker) mine(reqCtx context.Context) result {
	if w.isShutdown() {
		return result{err: ErrShutdown}
	}

	ctx, cancel := context.WithCancel(reqCtx)
	defer cancel()

	// Shutdown cancels the search. The deferred cancel releases this G.
	go func() {
		select {
		case <-w.shut:
			w.evHandler("worker: mine: MINING: CANCEL: shutdown requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	block, err := w.state.MineNewBlock(ctx)

	switch {
	case err == nil:
		w.evHandler("worker: mine: MINING: SOLVED: blk[%s]: duration[%v]", block.Hash(), time.Since(start))
	case errors.Is(err, state.ErrMiningCancelled):
		w.evHandler("worker: mine: MINING: CANCELLED: duration[%v]", time.Since(start))
	default:
		w.evHandler("worker: mine: MINING: ERROR: %s", err)
	}

	return result{block: block, err: err}
}
