package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohdridwan/etasmik/internal/catalog"
	"github.com/mohdridwan/etasmik/internal/store"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List every learner in the directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		entries, err := st.DirectoryRepo().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("read directory: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No learners registered yet.")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			lastSync := "-"
			if e.LastSync > 0 {
				lastSync = time.UnixMilli(e.LastSync).Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				e.Profile.FullName,
				e.Profile.ICNumber,
				e.Profile.ClassName,
				strconv.Itoa(e.History.ProgressPercent(catalog.Size())) + "%",
				strconv.Itoa(len(e.History)),
				lastSync,
			})
		}

		fmt.Println(renderTable(
			[]string{"Name", "IC", "Class", "Progress", "Attempts", "Last Sync"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		))
		return nil
	},
}
