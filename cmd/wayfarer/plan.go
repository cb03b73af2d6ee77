package main

import (
	"github.com/spf13/cobra"

	"wayfarer/internal/pipeline"
)

var (
	planCity     string
	planMembers  []string
	planBudget   string
	planMobility string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a one-day group itinerary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		model, err := newModel(ctx)
		if err != nil {
			return err
		}
		defer model.Close()

		planner := pipeline.NewItinerary(model, cfg.Pipeline, cfg.Itinerary)
		res, err := planner.Run(ctx, pipeline.PlanRequest{
			City:     planCity,
			Members:  planMembers,
			Budget:   planBudget,
			Mobility: planMobility,
		})
		if err != nil {
			return err
		}

		return printJSON(res)
	},
}

func init() {
	planCmd.Flags().StringVar(&planCity, "city", "", "destination city (required)")
	planCmd.Flags().StringArrayVar(&planMembers, "member", nil, "group member preference, repeatable (required)")
	planCmd.Flags().StringVar(&planBudget, "budget", "", "budget hint, e.g. 'moderate'")
	planCmd.Flags().StringVar(&planMobility, "mobility", "", "mobility constraint, e.g. 'limited walking'")
	_ = planCmd.MarkFlagRequired("city")
	_ = planCmd.MarkFlagRequired("member")
	rootCmd.AddCommand(planCmd)
}
