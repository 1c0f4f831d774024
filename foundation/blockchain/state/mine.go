package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Set of error variables for mining.
var (
	ErrMiningCancelled = errors.New("mining cancelled")
	ErrChainChanged    = errors.New("latest block changed while mining")
)

// candidate holds everything captured at the start of a mining workflow
// that the new block will be sealed with.
type candidate struct {
	prevHash string
	version  string
	bits     uint
	reward   float64
	pending  int
	trans    []database.Tx
}

// =============================================================================

// Mine runs a mining workflow. If a worker is registered the work is queued
// to it, otherwise the workflow runs on the caller's goroutine.
func (s *State) Mine(ctx context.Context) (database.Block, error) {
	if s.Worker != nil {
		return s.Worker.Mine(ctx)
	}

	return s.MineNewBlock(ctx)
}

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. The transactions in the mempool when
// mining starts are sealed along with the coinbase reward. Transactions that
// arrive while the nonce is being searched are left for the next block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	for {
		block, err := s.mineNewBlock(ctx)
		if errors.Is(err, ErrChainChanged) {
			s.evHandler("state: MineNewBlock: MINING: %s: restarting", err)
			continue
		}

		return block, err
	}
}

// mineNewBlock performs a single attempt at mining the next block.
func (s *State) mineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: capture candidate")

	cand, err := s.captureCandidate()
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: bits[%d]: reward[%v]: numTrans[%d]", cand.bits, cand.reward, len(cand.trans))

	// Attempt to solve the POW puzzle for the new block's own header.
	// This can be cancelled.
	header, err := database.POW(ctx, database.POWArgs{
		Version:       cand.version,
		PrevBlockHash: cand.prevHash,
		MerkleRoot:    signature.Hash(cand.trans),
		TimeStamp:     database.Now(),
		Bits:          cand.bits,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return database.Block{}, powError(err)
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, fmt.Errorf("%w: %w", ErrMiningCancelled, ctx.Err())
	}

	s.evHandler("state: MineNewBlock: MINING: seal and append")

	return s.sealAndAppend(cand, header)
}

// powError reports a failed nonce search as ErrMiningCancelled only when
// the search ended because its context did.
func powError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrMiningCancelled, err)
	}
	return fmt.Errorf("pow: %w", err)
}

// captureCandidate reads the latest block and the mempool and computes the
// fields of the next block.
func (s *State) captureCandidate() (candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.db.LatestBlock()
	if err != nil {
		return candidate{}, err
	}

	bits := difficulty.Bits(s.db.Length())
	reward := difficulty.Reward(bits)

	// The reward goes at the end of the batch, after the pending transactions.
	trans := s.mempool.Copy()
	pending := len(trans)
	trans = append(trans, database.NewCoinbaseTx(s.beneficiary, reward))

	cand := candidate{
		prevHash: s.db.HashOf(previous),
		version:  previous.Header.Version,
		bits:     bits,
		reward:   reward,
		pending:  pending,
		trans:    trans,
	}

	return cand, nil
}

// sealAndAppend makes sure the chain has not moved since the candidate was
// captured and then appends the block and removes the sealed transactions
// from the mempool.
func (s *State) sealAndAppend(cand candidate, header database.BlockHeader) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, err := s.db.LatestBlock()
	if err != nil {
		return database.Block{}, err
	}

	if s.db.HashOf(latest) != cand.prevHash {
		return database.Block{}, ErrChainChanged
	}

	block, err := s.db.SealAndAppend(header, cand.trans)
	if err != nil {
		return database.Block{}, err
	}

	s.mempool.DrainFirst(cand.pending)
	s.accounts.ApplyBlock(block)

	// Send an event about this new block.
	s.blockEvent(block)

	return block, nil
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}
