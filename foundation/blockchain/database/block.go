package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Version is the block format version stamped on the genesis block and
// carried forward by every block mined after it.
const Version = "1.0"

// TimeFormat is the layout used for block timestamps.
const TimeFormat = "2006-01-02 15:04:05.000000"

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Version       string // Format version of the block.
	PrevBlockHash string // Hash of the previous block in the chain.
	MerkleRoot    string // Commitment hash over the block's transactions.
	TimeStamp     string // Time mining of the block started.
	Bits          uint   // Number of leading 0's needed to solve the hash solution.
	Nonce         uint64 // Value identified to solve the hash solution.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  []Tx
}

// NewBlock constructs a sealed block. The transactions are copied so the
// block can't be changed through the caller's slice.
func NewBlock(header BlockHeader, trans []Tx) Block {
	b := Block{
		Header: header,
		Trans:  make([]Tx, len(trans)),
	}
	copy(b.Trans, trans)

	return b
}

// Hash returns the unique hash for the Block. The full block including
// the transactions is hashed.
func (b Block) Hash() string {
	return signature.Hash(NewBlockData(b))
}

// Values returns a copy of the transactions in the block.
func (b Block) Values() []Tx {
	trans := make([]Tx, len(b.Trans))
	copy(trans, b.Trans)
	return trans
}

// ValidatePOW checks the nonce stored in the header solves the proof of work
// for the difficulty stored in the same header. The genesis block is sealed
// without mining, use ValidateChain to check a chain that starts with it.
func (b Block) ValidatePOW() error {
	hash := b.Header.WorkHash()
	if !IsHashSolved(b.Header.Bits, hash) {
		return fmt.Errorf("%s invalid block hash for %d bits", hash, b.Header.Bits)
	}

	return nil
}

// ValidateChain checks the blocks form a chain starting at genesis. The
// block at position 0 must carry ZeroHash as its parent and is not mined.
// Every later block must link to the block before it and solve its own
// proof of work.
func ValidateChain(blocks []Block) error {
	for i, block := range blocks {
		if i == 0 {
			if block.Header.PrevBlockHash != signature.ZeroHash {
				return fmt.Errorf("block 0: genesis parent %q is not the zero hash", block.Header.PrevBlockHash)
			}
			continue
		}

		if parent := blocks[i-1].Hash(); block.Header.PrevBlockHash != parent {
			return fmt.Errorf("block %d: parent %s does not match %s", i, block.Header.PrevBlockHash, parent)
		}

		if err := block.ValidatePOW(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return nil
}

// workPrefix returns the header fields that don't change while searching
// for a nonce, concatenated in the order they are hashed.
func (bh BlockHeader) workPrefix() string {
	return bh.Version + bh.PrevBlockHash + bh.MerkleRoot + bh.TimeStamp + strconv.FormatUint(uint64(bh.Bits), 10)
}

// WorkHash returns the hash the proof of work is checked against.
func (bh BlockHeader) WorkHash() string {
	return signature.Hash(bh.workPrefix() + strconv.FormatUint(bh.Nonce, 10))
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Version       string
	PrevBlockHash string
	MerkleRoot    string
	TimeStamp     string
	Bits          uint
	EvHandler     func(v string, args ...any)
}

// POW constructs a new block header and performs the work to find a nonce
// that solves the cryptographic POW puzzle for the header's own difficulty.
func POW(ctx context.Context, args POWArgs) (BlockHeader, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	bh := BlockHeader{
		Version:       args.Version,
		PrevBlockHash: args.PrevBlockHash,
		MerkleRoot:    args.MerkleRoot,
		TimeStamp:     args.TimeStamp,
		Bits:          args.Bits,
	}

	nonce, err := FindNonce(ctx, bh, ev)
	if err != nil {
		return BlockHeader{}, err
	}
	bh.Nonce = nonce

	return bh, nil
}

// FindNonce searches for the first nonce, starting at 1, that gives the
// header a hash with the header's number of leading zeros. The nonce in the
// specified header is ignored. The search has no upper bound and only ends
// early when the context is cancelled.
func FindNonce(ctx context.Context, bh BlockHeader, ev func(v string, args ...any)) (uint64, error) {
	ev("database: FindNonce: MINING: started: bits[%d]", bh.Bits)
	defer ev("database: FindNonce: MINING: completed")

	prefix := bh.workPrefix()

	var attempts uint64
	for nonce := uint64(1); ; nonce++ {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: FindNonce: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: FindNonce: MINING: CANCELLED: attempts[%d]", attempts)
			return 0, ctx.Err()
		}

		hash := signature.Hash(prefix + strconv.FormatUint(nonce, 10))
		if !IsHashSolved(bh.Bits, hash) {
			continue
		}

		ev("database: FindNonce: MINING: SOLVED: prevBlk[%s]: hash[%s]: attempts[%d]", bh.PrevBlockHash, hash, attempts)

		return nonce, nil
	}
}

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a bits number of 0's.
func IsHashSolved(bits uint, hash string) bool {
	if len(hash) != 64 || bits > uint(len(hash)) {
		return false
	}

	for i := uint(0); i < bits; i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// =============================================================================

// BlockData represents what can be serialized to disk and over the network.
type BlockData struct {
	Version       string `json:"version"`
	PrevBlockHash string `json:"previous_block_hash"`
	MerkleRoot    string `json:"merkle_root"`
	TimeStamp     string `json:"timestamp"`
	Bits          uint   `json:"bits"`
	Nonce         uint64 `json:"nonce"`
	Trans         []Tx   `json:"transactions"`
}

// NewBlockData constructs block data from a block.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Version:       block.Header.Version,
		PrevBlockHash: block.Header.PrevBlockHash,
		MerkleRoot:    block.Header.MerkleRoot,
		TimeStamp:     block.Header.TimeStamp,
		Bits:          block.Header.Bits,
		Nonce:         block.Header.Nonce,
		Trans:         block.Values(),
	}
}

// ToBlock converts a storage block into a database block.
func ToBlock(blockData BlockData) Block {
	bh := BlockHeader{
		Version:       blockData.Version,
		PrevBlockHash: blockData.PrevBlockHash,
		MerkleRoot:    blockData.MerkleRoot,
		TimeStamp:     blockData.TimeStamp,
		Bits:          blockData.Bits,
		Nonce:         blockData.Nonce,
	}

	return NewBlock(bh, blockData.Trans)
}
