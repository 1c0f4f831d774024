// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log           *zap.SugaredLogger
	State         *state.State
	MiningTimeout time.Duration
	WS            websocket.Upgrader
	Evts          *events.Events
}

// Mine seals the pending transactions into a new block and returns it.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.MiningTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.MiningTimeout)
		defer cancel()
	}

	blk, err := h.State.Mine(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrMiningCancelled), errors.Is(err, worker.ErrShutdown):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		default:
			return err
		}
	}

	metrics.AddBlocks()
	h.Log.Infow("mine", "traceid", web.GetTraceID(ctx), "hash", blk.Hash(), "bits", blk.Header.Bits, "trans", len(blk.Trans))

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// Chain returns every block from genesis to the latest block.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.RetrieveBlocks()
	if err != nil {
		return err
	}

	resp := chain{
		Chain:  make([]block, len(blocks)),
		Length: uint64(len(blocks)),
	}
	for i, blk := range blocks {
		resp.Chain[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Block returns the block at the position in the chain, genesis being 0.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "num"), 10, 64)
	if err != nil {
		return errs.NewTrustedf(http.StatusBadRequest, "invalid block number %q", web.Param(r, "num"))
	}

	if length := h.State.RetrieveChainLength(); num >= length {
		return errs.NewTrustedf(http.StatusNotFound, "block %d not found, chain length is %d", num, length)
	}

	blk, err := h.State.RetrieveBlock(num)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, toBlock(blk), http.StatusOK)
}

// Genesis returns the values the genesis block was sealed with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()

	resp := genesisInfo{
		Date:        gen.Date.UTC().Format(database.TimeFormat),
		Version:     gen.Version,
		Beneficiary: gen.Beneficiary,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction records a transaction in the mempool for the next block.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx := h.State.SubmitTransaction(ntx.toTx())
	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "from", tx.From, "to", tx.To, "amount", tx.Amount)

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// NewTx submits the fixed demo transaction of 1000 from A to B.
func (h Handlers) NewTx(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tx := h.State.SubmitTransaction(database.NewTx("A", "B", 1000))

	resp := demoTx{
		FromAddress: tx.From,
		ToAddress:   tx.To,
		Amount:      tx.Amount,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions and their commitment.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()

	resp := mempool{
		Commitment: h.State.RetrieveCommitment(),
		Count:      len(trans),
		Trans:      trans,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balances returns the derived account balances. An account may be
// provided to narrow the result.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	var bals []balance
	switch account := web.Param(r, "account"); account {
	case "":
		for name, info := range h.State.RetrieveAccounts() {
			bals = append(bals, balance{Account: name, Balance: info.Balance, Trans: info.Trans})
		}
		sort.Slice(bals, func(i, j int) bool { return bals[i].Account < bals[j].Account })

	default:
		info, exists := h.State.QueryAccount(account)
		if !exists {
			return errs.NewTrustedf(http.StatusNotFound, "account %q not found", account)
		}
		bals = append(bals, balance{Account: account, Balance: info.Balance, Trans: info.Trans})
	}

	resp := balances{
		LatestBlock: latest.Hash(),
		Uncommitted: h.State.QueryMempoolLength(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns a summary of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	length := h.State.RetrieveChainLength()

	resp := status{
		Beneficiary: h.State.RetrieveBeneficiary(),
		LatestBlock: latest.Hash(),
		Length:      length,
		Bits:        difficulty.Bits(length),
		Uncommitted: h.State.QueryMempoolLength(),
		Subscribers: h.Evts.Count(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}
