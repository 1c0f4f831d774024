package cmd

import (
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount float64
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a transaction to the node's mempool.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tx database.Tx
		if err := send(http.MethodPost, "/v1/tx/submit", database.NewTx(from, to, amount), &tx); err != nil {
			return err
		}

		return printJSON(cmd, tx)
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&from, "from", "f", "", "Account sending the amount.")
	submitCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the amount.")
	submitCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	submitCmd.MarkFlagRequired("from")
	submitCmd.MarkFlagRequired("to")
}
