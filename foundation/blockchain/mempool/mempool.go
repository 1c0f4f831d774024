// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Mempool represents the ordered set of transactions waiting to be sealed
// into the next block. Transactions are kept in submission order.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Submit adds a transaction to the end of the mempool and returns the
// new number of transactions. No validation is performed.
func (mp *Mempool) Submit(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Commitment returns a single hash over the transactions in the pool.
//
// This is a flat hash of the whole batch and not a merkle tree. There is no
// support for inclusion proofs. With zero or one transaction it is simply the
// hash of that batch.
func (mp *Mempool) Commitment() string {
	return signature.Hash(mp.Copy())
}

// Drain returns all the transactions and leaves the pool empty.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	if trans == nil {
		return []database.Tx{}
	}

	return trans
}

// DrainFirst removes and returns the oldest n transactions. Transactions
// submitted after those stay in the pool in their original order.
func (mp *Mempool) DrainFirst(n int) []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	n = max(0, min(n, len(mp.pool)))

	trans := make([]database.Tx, n)
	copy(trans, mp.pool[:n])

	rest := make([]database.Tx, len(mp.pool)-n)
	copy(rest, mp.pool[n:])
	mp.pool = rest

	return trans
}
