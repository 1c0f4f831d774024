package state_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T) *state.State {
	storage, err := memory.New()
	ifErrFailNow(t, err)

	st, err := state.New(state.Config{
		Genesis: genesis.Default(),
		Storage: storage,
	})
	ifErrFailNow(t, err)

	return st
}

func Test_MineEndToEnd(t *testing.T) {
	t.Log("Given the need to mine a block with a submitted transaction.")
	{
		st := newState(t)

		genesisBlock, err := st.RetrieveLatestBlock()
		ifErrFailNow(t, err)

		tx := st.SubmitTransaction(database.NewTx("A", "B", 1000))
		if tx != database.NewTx("A", "B", 1000) {
			t.Fatalf("\t%s\tShould get back the recorded transaction : got %s", failed, tx)
		}
		t.Logf("\t%s\tShould get back the recorded transaction.", success)

		block, err := st.Mine(context.Background())
		ifErrFailNow(t, err)

		if st.RetrieveChainLength() != 2 {
			t.Fatalf("\t%s\tShould have a chain length of 2 : got %d", failed, st.RetrieveChainLength())
		}
		t.Logf("\t%s\tShould have a chain length of 2.", success)

		exp := []database.Tx{
			{From: "A", To: "B", Amount: 1000},
			{From: "0", To: "miner", Amount: 10000},
		}
		if len(block.Trans) != len(exp) || block.Trans[0] != exp[0] || block.Trans[1] != exp[1] {
			t.Fatalf("\t%s\tShould have the transaction and the coinbase : got %v", failed, block.Trans)
		}
		t.Logf("\t%s\tShould have the transaction and the coinbase.", success)

		if block.Header.Bits != 1 {
			t.Fatalf("\t%s\tShould have 1 bit of difficulty : got %d", failed, block.Header.Bits)
		}
		t.Logf("\t%s\tShould have 1 bit of difficulty.", success)

		if block.Header.PrevBlockHash != genesisBlock.Hash() {
			t.Fatalf("\t%s\tShould link to the genesis block.", failed)
		}
		t.Logf("\t%s\tShould link to the genesis block.", success)

		if block.Header.MerkleRoot != signature.Hash(exp) {
			t.Fatalf("\t%s\tShould commit to the sealed transactions.", failed)
		}
		t.Logf("\t%s\tShould commit to the sealed transactions.", success)

		if err := block.ValidatePOW(); err != nil {
			t.Fatalf("\t%s\tShould have a valid proof of work : %s", failed, err)
		}
		t.Logf("\t%s\tShould have a valid proof of work.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool : got %d", failed, st.QueryMempoolLength())
		}
		t.Logf("\t%s\tShould have an empty mempool.", success)

		info, _ := st.QueryAccount("miner")
		if info.Balance != 20000 {
			t.Fatalf("\t%s\tShould credit the miner twice : got %v", failed, info.Balance)
		}
		t.Logf("\t%s\tShould credit the miner twice.", success)
	}
}

func Test_MineDifficulty(t *testing.T) {
	t.Log("Given the need to raise the difficulty as the chain grows.")
	{
		st := newState(t)

		for i := 1; i <= 6; i++ {
			previous, err := st.RetrieveLatestBlock()
			ifErrFailNow(t, err)

			length := st.RetrieveChainLength()

			block, err := st.MineNewBlock(context.Background())
			ifErrFailNow(t, err)

			bits := difficulty.Bits(length)
			if block.Header.Bits != bits {
				t.Fatalf("\t%s\tShould mine block %d with %d bits : got %d", failed, i, bits, block.Header.Bits)
			}

			coinbase := block.Trans[len(block.Trans)-1]
			if !coinbase.IsCoinbase() || coinbase.Amount != difficulty.Reward(bits) {
				t.Fatalf("\t%s\tShould pay a reward of %v for block %d : got %v", failed, difficulty.Reward(bits), i, coinbase)
			}

			if block.Header.PrevBlockHash != previous.Hash() {
				t.Fatalf("\t%s\tShould link block %d to its parent.", failed, i)
			}

			if err := block.ValidatePOW(); err != nil {
				t.Fatalf("\t%s\tShould have a valid proof of work for block %d : %s", failed, i, err)
			}

			if st.RetrieveChainLength() != length+1 {
				t.Fatalf("\t%s\tShould grow the chain by exactly one block.", failed)
			}
			t.Logf("\t%s\tShould mine block %d with %d bits and a reward of %v.", success, i, bits, coinbase.Amount)
		}
	}
}

func Test_MineCancelled(t *testing.T) {
	t.Log("Given the need to cancel a mining operation.")
	{
		st := newState(t)
		st.SubmitTransaction(database.NewTx("A", "B", 1000))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := st.Mine(ctx)
		if !errors.Is(err, state.ErrMiningCancelled) {
			t.Fatalf("\t%s\tShould get back a mining cancelled error : got %v", failed, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould wrap the context error : got %v", failed, err)
		}
		t.Logf("\t%s\tShould get back a mining cancelled error.", success)

		if st.RetrieveChainLength() != 1 {
			t.Fatalf("\t%s\tShould not add a block : got %d", failed, st.RetrieveChainLength())
		}
		t.Logf("\t%s\tShould not add a block.", success)

		pool := st.RetrieveMempool()
		if len(pool) != 1 || pool[0].IsCoinbase() {
			t.Fatalf("\t%s\tShould leave the mempool untouched : got %v", failed, pool)
		}
		t.Logf("\t%s\tShould leave the mempool untouched.", success)
	}
}

func Test_MineConcurrent(t *testing.T) {
	t.Log("Given the need to mine from many goroutines at once.")
	{
		st := newState(t)

		const g = 4

		var wg sync.WaitGroup
		wg.Add(g)
		for i := 0; i < g; i++ {
			i := i
			go func() {
				defer wg.Done()
				st.SubmitTransaction(database.NewTx("A", "B", float64(i)))
				if _, err := st.Mine(context.Background()); err != nil {
					t.Errorf("\t%s\tShould be able to mine : %s", failed, err)
				}
			}()
		}
		wg.Wait()

		blocks, err := st.RetrieveBlocks()
		ifErrFailNow(t, err)

		if len(blocks) != g+1 {
			t.Fatalf("\t%s\tShould have %d blocks : got %d", failed, g+1, len(blocks))
		}

		var trans int
		for i := 1; i < len(blocks); i++ {
			if blocks[i].Header.PrevBlockHash != blocks[i-1].Hash() {
				t.Fatalf("\t%s\tShould link block %d to block %d.", failed, i, i-1)
			}
			trans += len(blocks[i].Trans) - 1
		}
		t.Logf("\t%s\tShould keep the chain linear.", success)

		if trans+st.QueryMempoolLength() != g {
			t.Fatalf("\t%s\tShould seal every transaction exactly once : sealed %d pending %d", failed, trans, st.QueryMempoolLength())
		}
		t.Logf("\t%s\tShould seal every transaction exactly once.", success)
	}
}

func Test_Commitment(t *testing.T) {
	st := newState(t)
	st.SubmitTransaction(database.NewTx("A", "B", 1000))

	if st.RetrieveCommitment() != st.RetrieveCommitment() {
		t.Fatalf("Should get back the same commitment for the same mempool.")
	}

	latest, err := st.RetrieveLatestBlock()
	ifErrFailNow(t, err)

	if latest.Hash() != latest.Hash() {
		t.Fatalf("Should get back the same hash for the same block.")
	}
}

func Test_MineNonFiniteAmount(t *testing.T) {
	t.Log("Given the need to mine a transaction whose amount JSON can't represent as a number.")
	{
		st := newState(t)

		st.SubmitTransaction(database.NewTx("A", "B", math.NaN()))
		if st.RetrieveCommitment() == signature.ZeroHash {
			t.Fatalf("\t%s\tShould not commit to the zero hash.", failed)
		}
		t.Logf("\t%s\tShould not commit to the zero hash.", success)

		b1, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)

		b2, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)

		if b1.Header.MerkleRoot == signature.ZeroHash || b1.Hash() == signature.ZeroHash {
			t.Fatalf("\t%s\tShould not seal a block with the zero hash.", failed)
		}
		t.Logf("\t%s\tShould not seal a block with the zero hash.", success)

		if b2.Header.PrevBlockHash != b1.Hash() || b2.Header.PrevBlockHash == signature.ZeroHash {
			t.Fatalf("\t%s\tShould link the next block to the real parent hash.", failed)
		}
		t.Logf("\t%s\tShould link the next block to the real parent hash.", success)

		blocks, err := st.RetrieveBlocks()
		ifErrFailNow(t, err)

		if err := database.ValidateChain(blocks); err != nil {
			t.Fatalf("\t%s\tShould have a valid chain : %s", failed, err)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_MineLateSubmission(t *testing.T) {
	t.Log("Given the need to leave transactions submitted during the search for the next block.")
	{
		storage, err := memory.New()
		ifErrFailNow(t, err)

		late := database.NewTx("C", "D", 5)

		// The hook submits once the candidate is captured and the nonce
		// search is about to start.
		var st *state.State
		var once sync.Once
		ev := func(v string, args ...any) {
			if strings.HasPrefix(v, "state: MineNewBlock: MINING: perform POW") {
				once.Do(func() { st.SubmitTransaction(late) })
			}
		}

		st, err = state.New(state.Config{
			Genesis:   genesis.Default(),
			Storage:   storage,
			EvHandler: ev,
		})
		ifErrFailNow(t, err)

		st.SubmitTransaction(database.NewTx("A", "B", 1))

		block, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)

		exp := []database.Tx{database.NewTx("A", "B", 1), database.NewCoinbaseTx("miner", 10000)}
		if len(block.Trans) != 2 || block.Trans[0] != exp[0] || block.Trans[1] != exp[1] {
			t.Fatalf("\t%s\tShould seal only the snapshot and the coinbase : got %v", failed, block.Trans)
		}
		t.Logf("\t%s\tShould seal only the snapshot and the coinbase.", success)

		pool := st.RetrieveMempool()
		if len(pool) != 1 || pool[0] != late {
			t.Fatalf("\t%s\tShould keep the late transaction pending : got %v", failed, pool)
		}
		t.Logf("\t%s\tShould keep the late transaction pending.", success)

		next, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)

		if next.Trans[0] != late {
			t.Fatalf("\t%s\tShould seal the late transaction in the next block : got %v", failed, next.Trans)
		}
		t.Logf("\t%s\tShould seal the late transaction in the next block.", success)
	}
}
