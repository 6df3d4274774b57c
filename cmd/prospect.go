package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadgenius/prospect-cli/internal/model"
)

var (
	prospectNiche    string
	prospectLocation string
	prospectSize     string
	prospectIntent   string
	prospectNoSave   bool
)

var prospectCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Run one lead search and print the batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ctrl, err := initController()
		if err != nil {
			return err
		}

		snap, started := ctrl.Search(ctx, model.SearchParams{
			Niche:       prospectNiche,
			Location:    prospectLocation,
			CompanySize: prospectSize,
			Intent:      prospectIntent,
		})
		if !started {
			return eris.New("niche must not be empty")
		}
		if snap.ErrorMessage != "" {
			return eris.New(snap.ErrorMessage)
		}

		if !prospectNoSave {
			batch, err := st.SaveBatch(ctx, snap.Params, snap.Leads, snap.Sources)
			if err != nil {
				return eris.Wrap(err, "save batch")
			}
			zap.L().Info("batch saved",
				zap.String("batch_id", batch.ID),
				zap.Int("leads", len(batch.Leads)),
				zap.Int("sources", len(batch.Sources)),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Leads   []model.Lead            `json:"leads"`
			Sources []model.GroundingSource `json:"sources"`
		}{snap.Leads, snap.Sources})
	},
}

func init() {
	prospectCmd.Flags().StringVar(&prospectNiche, "niche", "", "business niche to search for (required)")
	prospectCmd.Flags().StringVar(&prospectLocation, "location", "", "geographic focus")
	prospectCmd.Flags().StringVar(&prospectSize, "company-size", "", "preferred company size")
	prospectCmd.Flags().StringVar(&prospectIntent, "intent", "", "search intent")
	prospectCmd.Flags().BoolVar(&prospectNoSave, "no-save", false, "skip persisting the batch to history")
	_ = prospectCmd.MarkFlagRequired("niche")
	rootCmd.AddCommand(prospectCmd)
}
