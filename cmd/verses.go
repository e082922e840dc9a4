package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mohdridwan/etasmik/internal/catalog"
)

var versesCmd = &cobra.Command{
	Use:   "verses",
	Short: "Print the Matan al-Bayquniyyah verse catalog",
	Run: func(cmd *cobra.Command, args []string) {
		rows := make([][]string, 0, catalog.Size())
		for _, v := range catalog.All() {
			rows = append(rows, []string{
				strconv.Itoa(v.ID),
				v.Text,
				v.Translation,
			})
		}
		fmt.Println(renderTable(
			[]string{"#", "Verse", "Translation"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft},
		))
	},
}
