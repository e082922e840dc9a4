package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdridwan/etasmik/internal/admin"
)

var adminHashCmd = &cobra.Command{
	Use:   "admin-hash <secret>",
	Short: "Hash an operator secret for the [admin] config section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := admin.HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}
