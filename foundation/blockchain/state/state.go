// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for running mining workflows off the
// caller's goroutine.
type Worker interface {
	Shutdown()
	Mine(ctx context.Context) (database.Block, error)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Beneficiary string
	Genesis     genesis.Genesis
	Storage     database.Storage
	EvHandler   EventHandler
}

// State manages the blockchain database.
type State struct {
	beneficiary string
	evHandler   EventHandler

	// mu makes reading the latest block and appending a new block atomic
	// with respect to the mempool. miningMu allows a single mining workflow
	// to run at any given time.
	mu       sync.Mutex
	miningMu sync.Mutex

	genesis  genesis.Genesis
	mempool  *mempool.Mempool
	db       *database.Database
	accounts *accounts.Accounts

	Worker Worker
}

// New constructs a new blockchain for data management. The chain is
// initialized with the genesis block before New returns.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	beneficiary := cfg.Beneficiary
	if beneficiary == "" {
		beneficiary = cfg.Genesis.Beneficiary
	}

	// Construct the pool and database and seal the genesis block.
	mp := mempool.New()
	db := database.New(cfg.Storage, ev)

	genesisBlock, err := db.Initialize(cfg.Genesis, mp)
	if err != nil {
		return nil, err
	}

	// Create the account read model and apply the genesis coinbase.
	accts := accounts.New()
	accts.ApplyBlock(genesisBlock)

	state := State{
		beneficiary: beneficiary,
		evHandler:   ev,

		genesis:  cfg.Genesis,
		mempool:  mp,
		db:       db,
		accounts: accts,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.db.Close()
}
