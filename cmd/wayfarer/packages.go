package main

import (
	"strings"

	"github.com/spf13/cobra"

	"wayfarer/internal/pipeline"
)

var packagesCmd = &cobra.Command{
	Use:   "packages [request text]",
	Short: "Build flight+hotel combos from a free-text trip request",
	Example: `  wayfarer packages "Plan a trip to Dubai from 2026-11-02 to 2026-11-06 for 2 adults"
  wayfarer packages "visit Tokyo for 4 nights"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		packager := pipeline.NewPackager(cfg.Providers)
		res, err := packager.Run(ctx, pipeline.PackageRequest{
			Text: strings.Join(args, " "),
		})
		if err != nil {
			return err
		}

		return printJSON(res)
	},
}

func init() {
	rootCmd.AddCommand(packagesCmd)
}
