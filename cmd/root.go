package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohdridwan/etasmik/internal/app"
	"github.com/mohdridwan/etasmik/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "etasmik",
	Short: "Latih tasmik Matan al-Bayquniyyah",
	Long:  "e-Tasmik — terminal app for memorizing Matan al-Bayquniyyah: record your recitation, get it judged by an AI examiner, track your hafazan.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dbPath, _ := cmd.Flags().GetString("db")
		return app.Run(configPath, dbPath)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ETASMIK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides ETASMIK_CONFIG env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(versesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(adminHashCmd)
	rootCmd.AddCommand(initConfigCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then ETASMIK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
