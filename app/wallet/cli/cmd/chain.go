package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	summary bool
	verify  bool
)

type chainBlock struct {
	Hash string `json:"hash"`
	database.BlockData
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var chain struct {
			Chain  []chainBlock `json:"chain"`
			Length uint64       `json:"length"`
		}
		if err := send(http.MethodGet, "/v1/chain", nil, &chain); err != nil {
			return err
		}

		if verify {
			if err := verifyChain(chain.Chain); err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chain verified: %d blocks\n", len(chain.Chain))
			return nil
		}

		if !summary {
			return printJSON(cmd, chain)
		}

		for i, blk := range chain.Chain {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s bits[%d] nonce[%d] trans[%d]\n", i, blk.Hash, blk.Bits, blk.Nonce, len(blk.Trans))
		}
		return nil
	},
}

// verifyChain rebuilds each block from what the node returned, checks the
// hash it reported and then the links and proof of work of the chain.
func verifyChain(chain []chainBlock) error {
	blocks := make([]database.Block, len(chain))
	for i, cb := range chain {
		blocks[i] = database.ToBlock(cb.BlockData)
		if hash := blocks[i].Hash(); hash != cb.Hash {
			return fmt.Errorf("block %d: reported hash %s, computed %s", i, cb.Hash, hash)
		}
	}

	return database.ValidateChain(blocks)
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print one line per block.")
	chainCmd.Flags().BoolVarP(&verify, "verify", "v", false, "Check the hashes, links and proof of work of the chain.")
}
