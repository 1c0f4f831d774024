package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveBeneficiary returns the name credited with mining rewards.
func (s *State) RetrieveBeneficiary() string {
	return s.beneficiary
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() (database.Block, error) {
	return s.db.LatestBlock()
}

// RetrieveBlock returns the block at the specified position, genesis
// being position 0.
func (s *State) RetrieveBlock(num uint64) (database.Block, error) {
	return s.db.GetBlock(num)
}

// RetrieveBlocks returns every block in the chain starting with genesis.
func (s *State) RetrieveBlocks() ([]database.Block, error) {
	return s.db.Blocks()
}

// RetrieveChainLength returns the number of blocks in the chain.
func (s *State) RetrieveChainLength() uint64 {
	return s.db.Length()
}

// RetrieveMempool returns a copy of the mempool in submission order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveCommitment returns the commitment hash over the current mempool.
func (s *State) RetrieveCommitment() string {
	return s.mempool.Commitment()
}

// RetrieveAccounts returns a copy of the derived account information.
func (s *State) RetrieveAccounts() map[string]accounts.Info {
	return s.accounts.Copy()
}

// QueryAccount returns the derived information for the specified account.
func (s *State) QueryAccount(name string) (accounts.Info, bool) {
	return s.accounts.Query(name)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
