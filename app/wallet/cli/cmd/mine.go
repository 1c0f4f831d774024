package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to seal the pending transactions into a block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var block map[string]any
		if err := send(http.MethodPost, "/v1/mine", nil, &block); err != nil {
			return err
		}

		return printJSON(cmd, block)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
