// Package accounts maintains a read model of account balances derived from
// the transactions sealed into the chain. Balances are informational only,
// nothing is ever rejected because of them.
package accounts

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Info represents information stored for an individual account.
type Info struct {
	Balance float64 `json:"balance"`
	Trans   uint    `json:"trans"`
}

// Accounts manages data related to accounts who have transacted on
// the blockchain.
type Accounts struct {
	info map[string]Info
	mu   sync.RWMutex
}

// New constructs an empty set of accounts.
func New() *Accounts {
	return &Accounts{
		info: make(map[string]Info),
	}
}

// Copy makes a copy of the current information for all accounts.
func (act *Accounts) Copy() map[string]Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	accounts := make(map[string]Info, len(act.info))
	for name, info := range act.info {
		accounts[name] = info
	}
	return accounts
}

// Query returns the information for the specified account.
func (act *Accounts) Query(name string) (Info, bool) {
	act.mu.RLock()
	defer act.mu.RUnlock()

	info, exists := act.info[name]
	return info, exists
}

// ApplyBlock applies every transaction in the block in order.
func (act *Accounts) ApplyBlock(block database.Block) {
	for _, tx := range block.Trans {
		act.ApplyTransaction(tx)
	}
}

// ApplyTransaction moves the amount between the two parties. A coinbase
// transaction only credits the receiver since the value is newly created.
// Balances are allowed to go negative.
func (act *Accounts) ApplyTransaction(tx database.Tx) {
	act.mu.Lock()
	defer act.mu.Unlock()

	if !tx.IsCoinbase() {
		from := act.info[tx.From]
		from.Balance -= tx.Amount
		from.Trans++
		act.info[tx.From] = from
	}

	to := act.info[tx.To]
	to.Balance += tx.Amount
	to.Trans++
	act.info[tx.To] = to
}
