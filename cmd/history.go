package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadgenius/prospect-cli/internal/store"
)

var (
	historyNiche string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored search batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		batches, err := st.ListBatches(ctx, store.BatchFilter{
			Niche: historyNiche,
			Limit: historyLimit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(batches)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyNiche, "niche", "", "filter by niche")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum batches to list")
	rootCmd.AddCommand(historyCmd)
}
