package main

import (
	"github.com/spf13/cobra"

	"wayfarer/internal/pipeline"
)

var (
	rankDestination string
	rankInterests   []string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank attractions at a destination",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		model, err := newModel(ctx)
		if err != nil {
			return err
		}
		defer model.Close()

		ranker := pipeline.NewRanker(model, cfg.Pipeline)
		res, err := ranker.Run(ctx, pipeline.RankRequest{
			Destination: rankDestination,
			Interests:   rankInterests,
		})
		if err != nil {
			return err
		}

		return printJSON(res)
	},
}

func init() {
	rankCmd.Flags().StringVar(&rankDestination, "destination", "", "destination city or region (required)")
	rankCmd.Flags().StringArrayVar(&rankInterests, "interest", nil, "traveler interest, repeatable")
	_ = rankCmd.MarkFlagRequired("destination")
	rootCmd.AddCommand(rankCmd)
}
