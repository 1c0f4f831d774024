package memory_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

func TestWriteRead(t *testing.T) {
	m, err := memory.New()
	if err != nil {
		t.Fatalf("Should be able to construct memory storage: %s", err)
	}

	for i := 0; i < 3; i++ {
		bd := database.BlockData{
			Nonce: uint64(i + 1),
			Trans: []database.Tx{database.NewTx("A", "B", float64(i))},
		}
		if err := m.Write(bd); err != nil {
			t.Fatalf("Should be able to write block %d: %s", i, err)
		}
	}

	bd, err := m.GetBlock(1)
	if err != nil {
		t.Fatalf("Should be able to read block 1: %s", err)
	}
	if bd.Nonce != 2 {
		t.Fatalf("Should get back the second block: got nonce %d", bd.Nonce)
	}

	bd.Trans[0].Amount = 9999
	again, _ := m.GetBlock(1)
	if again.Trans[0].Amount != 1 {
		t.Fatalf("Should not be able to change a stored block through a copy.")
	}

	if _, err := m.GetBlock(3); !errors.Is(err, memory.ErrNotFound) {
		t.Fatalf("Should get not found past the end of the chain: got %v", err)
	}
}

func TestForEach(t *testing.T) {
	m, _ := memory.New()
	for i := 0; i < 2; i++ {
		m.Write(database.BlockData{Nonce: uint64(i + 1)})
	}

	iter := m.ForEach()

	// A block written after the iterator was created is not visible to it.
	m.Write(database.BlockData{Nonce: 3})

	var nonces []uint64
	for bd, err := iter.Next(); !iter.Done(); bd, err = iter.Next() {
		if err != nil {
			t.Fatalf("Should be able to iterate: %s", err)
		}
		nonces = append(nonces, bd.Nonce)
	}

	if len(nonces) != 2 || nonces[0] != 1 || nonces[1] != 2 {
		t.Fatalf("Should iterate the blocks in order: got %v", nonces)
	}
}
