package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"csvana"
)

var tableName string

// loadCmd streams a file into a database table chunk by chunk.
var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a CSV file into the database in chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if tableName == "" {
			tableName = tableNameFromPath(path)
		}

		progress := func(processed, total int64) {
			if total <= 0 {
				return
			}
			fmt.Printf("\rLoading... %d/%d rows (%.0f%%)", processed, total,
				100*float64(processed)/float64(total))
		}

		analyzer, db, err := openAnalyzer(csvana.WithProgress(progress))
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := analyzer.Load(cmd.Context(), path, tableName)
		fmt.Println()
		if err != nil {
			if rows > 0 {
				fmt.Printf("Load failed after committing %d rows; table %q is partially loaded, rerun to replace it\n", rows, tableName)
			}
			return err
		}

		fmt.Printf("Loaded %d rows into table %q\n", rows, tableName)
		return nil
	},
}

// tableNameFromPath derives a table name from a file name, stripping
// compression and format extensions.
func tableNameFromPath(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".bz2", ".xz", ".zst"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func init() {
	loadCmd.Flags().StringVarP(&tableName, "table", "t", "", "target table name (default derived from file name)")
}
