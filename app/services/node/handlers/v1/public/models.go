package public

import (
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// block is a sealed block along with the hash a successor must carry.
type block struct {
	Hash string `json:"hash"`
	database.BlockData
}

func toBlock(b database.Block) block {
	return block{
		Hash:      b.Hash(),
		BlockData: database.NewBlockData(b),
	}
}

type chain struct {
	Chain  []block `json:"chain"`
	Length uint64  `json:"length"`
}

// newTx is the payload accepted for a transaction submission. Amount is a
// pointer so a missing amount can be told apart from a zero amount.
type newTx struct {
	From   string   `json:"from" validate:"required"`
	To     string   `json:"to" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
}

// Validate checks the submission has every field.
func (ntx newTx) Validate() error {
	return validate.Check(ntx)
}

func (ntx newTx) toTx() database.Tx {
	return database.NewTx(ntx.From, ntx.To, *ntx.Amount)
}

// demoTx is the response for the fixed demo submission.
type demoTx struct {
	FromAddress string  `json:"from_address"`
	ToAddress   string  `json:"to_address"`
	Amount      float64 `json:"amount"`
}

type mempool struct {
	Commitment string        `json:"commitment"`
	Count      int           `json:"count"`
	Trans      []database.Tx `json:"transactions"`
}

type balance struct {
	Account string  `json:"account"`
	Balance float64 `json:"balance"`
	Trans   uint    `json:"transactions"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type status struct {
	Beneficiary string `json:"beneficiary"`
	LatestBlock string `json:"latest_block"`
	Length      uint64 `json:"length"`
	Bits        uint   `json:"bits"`
	Uncommitted int    `json:"uncommitted"`
	Subscribers int    `json:"subscribers"`
}

type genesisInfo struct {
	Date        string `json:"date"`
	Version     string `json:"version"`
	Beneficiary string `json:"beneficiary"`
}
