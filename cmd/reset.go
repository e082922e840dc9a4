package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdridwan/etasmik/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Sign out the active learner on this device",
	Long:  "Clears the locally saved session. The learner's record in the shared directory is kept; they can resume with their IC number.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Println("This signs out the active learner. Re-run with --yes to confirm.")
			return nil
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.SessionRepo().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Local session cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
