// Package database handles all the lower level support for maintaining the
// blockchain in storage and the rules for sealing new blocks onto it.
package database

import (
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Set of error variables for the database.
var (
	ErrEmptyChain         = errors.New("chain is empty, database not initialized")
	ErrAlreadyInitialized = errors.New("chain already has a genesis block")
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// Pool interface represents the behavior required from the set of pending
// transactions when the genesis block is sealed.
type Pool interface {
	Submit(tx Tx) int
	Drain() []Tx
}

// =============================================================================

// DatabaseIterator walks through the blocks in storage.
type DatabaseIterator struct {
	iterator Iterator
}

// Next retrieves the next block from storage.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData), nil
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// Database manages the ordered set of sealed blocks. Blocks are only ever
// appended, never removed or changed.
type Database struct {
	mu sync.RWMutex

	latestBlock Block
	length      uint64

	storage   Storage
	evHandler func(v string, args ...any)
}

// New constructs an empty database backed by the specified storage. The
// chain has no blocks until Initialize is called.
func New(storage Storage, evHandler func(v string, args ...any)) *Database {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Database{
		storage:   storage,
		evHandler: ev,
	}
}

// Initialize seeds the pool with the genesis coinbase transaction and then
// seals the pool into the genesis block. The genesis block is not mined, it
// uses the zero hash for its parent and a nonce of 1.
func (db *Database) Initialize(gen genesis.Genesis, pool Pool) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.length > 0 {
		return Block{}, ErrAlreadyInitialized
	}

	db.evHandler("database: Initialize: seed pool: beneficiary[%s] amount[%v]", gen.Beneficiary, difficulty.InitialReward)

	pool.Submit(NewCoinbaseTx(gen.Beneficiary, difficulty.InitialReward))
	trans := pool.Drain()

	bh := BlockHeader{
		Version:       gen.Version,
		PrevBlockHash: signature.ZeroHash,
		MerkleRoot:    signature.Hash(trans),
		TimeStamp:     gen.Date.UTC().Format(TimeFormat),
		Bits:          difficulty.Bits(0),
		Nonce:         1,
	}

	block, err := db.append(bh, trans)
	if err != nil {
		return Block{}, err
	}

	db.evHandler("database: Initialize: genesis sealed: blk[%s]", block.Hash())

	return block, nil
}

// SealAndAppend constructs a new block from the header and transactions and
// appends it to the end of the chain. This is the only way a block is
// added after genesis.
func (db *Database) SealAndAppend(bh BlockHeader, trans []Tx) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.length == 0 {
		return Block{}, ErrEmptyChain
	}

	return db.append(bh, trans)
}

// append writes the block to storage and makes it the latest block. The
// caller must hold the write lock.
func (db *Database) append(bh BlockHeader, trans []Tx) (Block, error) {
	block := NewBlock(bh, trans)

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return Block{}, err
	}

	db.latestBlock = block
	db.length++

	db.evHandler("database: append: blk[%d]: prevBlk[%s]: bits[%d]: nonce[%d]: numTrans[%d]", db.length-1, bh.PrevBlockHash, bh.Bits, bh.Nonce, len(trans))

	return block, nil
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.length == 0 {
		return Block{}, ErrEmptyChain
	}

	return db.latestBlock, nil
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.length
}

// HashOf returns the hash a block's child must carry as its previous
// block hash.
func (db *Database) HashOf(block Block) string {
	return block.Hash()
}

// GetBlock returns the block at the specified position in the chain.
func (db *Database) GetBlock(num uint64) (Block, error) {
	blockData, err := db.storage.GetBlock(num)
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData), nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{iterator: db.storage.ForEach()}
}

// Blocks returns a copy of every block in the chain in order.
func (db *Database) Blocks() ([]Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, 0, db.length)

	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// Close closes the storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// =============================================================================

// Now returns the current time formatted for a block timestamp.
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}
