package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csvana/internal/kaggle"
)

// downloadCmd fetches a Kaggle dataset into the local data directory.
var downloadCmd = &cobra.Command{
	Use:   "download [owner/dataset]",
	Short: "Download a Kaggle dataset and list its CSV files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := kaggle.NewClient(cfg.Kaggle.DataDir,
			kaggle.WithCredentials(cfg.Kaggle.Username, cfg.Kaggle.Key),
			kaggle.WithLogger(logger),
		)
		if err := client.Verify(); err != nil {
			return err
		}

		dir, err := client.DownloadDataset(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		files, err := client.ListFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("Dataset downloaded to %s, but it contains no CSV files\n", dir)
			return nil
		}

		fmt.Printf("Dataset downloaded to %s\n\nCSV files:\n", dir)
		for _, f := range files {
			fmt.Printf("  %s\n", f)
		}
		return nil
	},
}
