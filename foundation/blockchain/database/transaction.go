package database

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CoinbaseFrom is the sender used by reward transactions. These transactions
// have no real sender, the value is created by the act of mining.
const CoinbaseFrom = "0"

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	From   string  `json:"from"`   // Name of the party sending the amount.
	To     string  `json:"to"`     // Name of the party receiving the amount.
	Amount float64 `json:"amount"` // Amount being transferred.
}

// NewTx constructs a new transaction. No validation is performed on the
// parties or the amount.
func NewTx(from string, to string, amount float64) Tx {
	return Tx{
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewCoinbaseTx constructs the transaction that pays the mining reward
// to the specified beneficiary.
func NewCoinbaseTx(beneficiary string, reward float64) Tx {
	return NewTx(CoinbaseFrom, beneficiary, reward)
}

// IsCoinbase reports whether the transaction pays a mining reward.
func (tx Tx) IsCoinbase() bool {
	return tx.From == CoinbaseFrom
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.From, tx.To, tx.Amount)
}

// =============================================================================

// txJSON is the wire form of a transaction. The amount is kept raw so a
// non-finite amount can be carried as a string.
type txJSON struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount json.RawMessage `json:"amount"`
}

// MarshalJSON implements json.Marshaler. Finite amounts are written as JSON
// numbers. NaN and the infinities have no JSON number form and are written
// as the strings "NaN", "+Inf" and "-Inf", so every transaction can be
// serialized and hashed.
func (tx Tx) MarshalJSON() ([]byte, error) {
	var amount []byte
	switch {
	case math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0):
		amount = strconv.AppendQuote(nil, strconv.FormatFloat(tx.Amount, 'g', -1, 64))
	default:
		amount = strconv.AppendFloat(nil, tx.Amount, 'g', -1, 64)
	}

	return json.Marshal(txJSON{
		From:   tx.From,
		To:     tx.To,
		Amount: amount,
	})
}

// UnmarshalJSON implements json.Unmarshaler. It accepts the amount as a
// number or as one of the strings written by MarshalJSON.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	var tj txJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}

	var amount float64
	if len(tj.Amount) > 0 && string(tj.Amount) != "null" {
		text := string(tj.Amount)
		if tj.Amount[0] == '"' {
			var err error
			if text, err = strconv.Unquote(text); err != nil {
				return fmt.Errorf("amount: %w", err)
			}
		}

		var err error
		if amount, err = strconv.ParseFloat(text, 64); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
	}

	*tx = Tx{
		From:   tj.From,
		To:     tj.To,
		Amount: amount,
	}

	return nil
}
