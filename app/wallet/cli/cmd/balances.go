package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

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

var balancesCmd = &cobra.Command{
	Use:   "balances [account]",
	Short: "Print the derived balances, or the balance of one account.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/v1/balances/list"
		if len(args) == 1 {
			path = fmt.Sprintf("%s/%s", path, args[0])
		}

		var bals balances
		if err := send(http.MethodGet, path, nil, &bals); err != nil {
			return err
		}

		for _, bal := range bals.Balances {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", bal.Account, bal.Balance)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}
