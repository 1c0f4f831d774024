package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction adds the transaction to the end of the mempool and
// returns the transaction that was recorded. No validation is performed.
func (s *State) SubmitTransaction(tx database.Tx) database.Tx {
	n := s.mempool.Submit(tx)

	s.evHandler("state: SubmitTransaction: tx[%s]: pending[%d]", tx, n)

	return tx
}
