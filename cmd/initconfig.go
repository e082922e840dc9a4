package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdridwan/etasmik/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a sample config file to the default location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}
		if err := config.WriteSample(path); err != nil {
			return err
		}
		fmt.Println("Wrote", path)
		return nil
	},
}
