// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrNotFound is returned when a block number is past the end of the chain.
var ErrNotFound = errors.New("block does not exist")

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// New constructs an Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write stores a copy of the block at the end of the chain.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = append(m.blocks, clone(blockData))

	return nil
}

// GetBlock returns a copy of the block at the specified position.
func (m *Memory) GetBlock(num uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num >= uint64(len(m.blocks)) {
		return database.BlockData{}, ErrNotFound
	}

	return clone(m.blocks[num]), nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block. The iterator only sees the blocks that existed when
// it was created.
func (m *Memory) ForEach() database.Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &memoryIterator{
		blocks: m.blocks[:len(m.blocks):len(m.blocks)],
	}
}

// =============================================================================

// memoryIterator walks a fixed view of the chain. This implements the
// database Iterator interface.
type memoryIterator struct {
	blocks  []database.BlockData
	current int
	eoc     bool
}

// Next retrieves the next block. Once the end of the chain is reached an
// error is returned and Done reports true.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc || mi.current >= len(mi.blocks) {
		mi.eoc = true
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData := clone(mi.blocks[mi.current])
	mi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}

// clone copies the transaction slice so a stored block can't be changed
// through a value handed out by the storage.
func clone(blockData database.BlockData) database.BlockData {
	trans := make([]database.Tx, len(blockData.Trans))
	copy(trans, blockData.Trans)
	blockData.Trans = trans

	return blockData
}
