// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date        time.Time `json:"date"`        // Timestamp recorded on the genesis block.
	Version     string    `json:"version"`     // Block format version carried by every block.
	Beneficiary string    `json:"beneficiary"` // Receives the genesis coinbase transaction.
}

// =============================================================================

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:        time.Now().UTC(),
		Version:     "1.0",
		Beneficiary: "miner",
	}
}

// Load opens and consumes the genesis file. Any value missing from the file
// is taken from the default genesis.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file %q: %w", path, err)
	}

	return genesis, nil
}
