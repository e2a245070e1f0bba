package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"csvana"
)

var pageSize int

// queryCmd runs a SQL query against the loaded tables.
var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a SQL query against loaded tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		analyzer, db, err := openAnalyzer()
		if err != nil {
			return err
		}
		defer db.Close()

		if pageSize <= 0 {
			result, err := analyzer.Query(cmd.Context(), query)
			if err != nil {
				return err
			}
			printResult(result)
			fmt.Printf("\n%d rows\n", result.Len())
			return nil
		}

		pages, err := analyzer.QueryPaged(cmd.Context(), query, pageSize)
		if err != nil {
			return err
		}
		defer pages.Close()

		total := 0
		for page := 1; ; page++ {
			result, err := pages.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return err
			}
			fmt.Printf("-- page %d --\n", page)
			printResult(result)
			total += result.Len()
		}
		fmt.Printf("\n%d rows\n", total)
		return nil
	},
}

// printResult renders a result as tab-separated lines.
func printResult(result *csvana.Result) {
	fmt.Println(strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func init() {
	queryCmd.Flags().IntVar(&pageSize, "page-size", 0, "fetch results in pages of this many rows")
}
