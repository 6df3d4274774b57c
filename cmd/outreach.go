package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadgenius/prospect-cli/internal/model"
)

var (
	outreachBatchID string
	outreachLeadID  string
	outreachAll     bool
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Draft outreach strategies for leads from a stored batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !outreachAll && outreachLeadID == "" {
			return eris.New("either --lead or --all is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		batch, err := st.GetBatch(ctx, outreachBatchID)
		if err != nil {
			return eris.Wrapf(err, "get batch %s", outreachBatchID)
		}

		g := initGemini()
		out, err := initOutreach(g)
		if err != nil {
			return err
		}

		var leads []model.Lead
		if outreachAll {
			leads = batch.Leads
		} else {
			for _, l := range batch.Leads {
				if l.ID == outreachLeadID {
					leads = append(leads, l)
					break
				}
			}
			if len(leads) == 0 {
				return eris.Errorf("lead %s not in batch %s", outreachLeadID, outreachBatchID)
			}
		}

		// Analyses across different leads are independent: fan out with no
		// shared queue. The outreach client absorbs its own failures, so
		// the group never aborts early.
		strategies := make(map[string]string, len(leads))
		var mu sync.Mutex
		eg, egCtx := errgroup.WithContext(ctx)
		for _, lead := range leads {
			eg.Go(func() error {
				text := out.Analyze(egCtx, lead)
				mu.Lock()
				strategies[lead.ID] = text
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}

		zap.L().Info("outreach drafted",
			zap.String("batch_id", batch.ID),
			zap.Int("leads", len(strategies)),
		)

		if outreachAll {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(strategies)
		}
		fmt.Println(strategies[leads[0].ID])
		return nil
	},
}

func init() {
	outreachCmd.Flags().StringVar(&outreachBatchID, "batch", "", "stored batch id (required)")
	outreachCmd.Flags().StringVar(&outreachLeadID, "lead", "", "lead id within the batch")
	outreachCmd.Flags().BoolVar(&outreachAll, "all", false, "draft strategies for every lead in the batch")
	_ = outreachCmd.MarkFlagRequired("batch")
	rootCmd.AddCommand(outreachCmd)
}
